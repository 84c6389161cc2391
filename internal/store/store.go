// Package store persists the single last-known-good weather result.
package store

import (
	"context"

	"github.com/ngmaloney/skypulse-terminal/internal/models"
)

// LastResultKey is the one fixed key the result is stored under
const LastResultKey = "skypulse-last-weather"

// LastResultStore is a single-slot, last-write-wins store
type LastResultStore interface {
	// Load returns (nil, nil) when nothing has been saved yet
	Load(ctx context.Context) (*models.CachedResult, error)
	Save(ctx context.Context, result models.CachedResult) error
}
