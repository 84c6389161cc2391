package geolocation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDisabled_CurrentPosition(t *testing.T) {
	_, err := Disabled{}.CurrentPosition(context.Background())
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
}

func TestStaticLocator_CurrentPosition(t *testing.T) {
	loc, err := StaticLocator{Latitude: 41.68, Longitude: -69.96}.CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("CurrentPosition() error = %v", err)
	}
	if loc.Latitude != 41.68 || loc.Longitude != -69.96 {
		t.Errorf("coords = %v,%v, want 41.68,-69.96", loc.Latitude, loc.Longitude)
	}
	if loc.Label != "41.6800, -69.9600" {
		t.Errorf("Label = %q, want %q", loc.Label, "41.6800, -69.9600")
	}

	if _, err := (StaticLocator{Latitude: 123}).CurrentPosition(context.Background()); err == nil {
		t.Error("expected error for out-of-range latitude")
	}
}

func TestIPLocator_CurrentPosition(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    bool
		wantDenied bool
		wantLabel  string
	}{
		{"success", http.StatusOK, `{"status":"success","city":"Chatham","lat":41.68,"lon":-69.96}`, false, false, "Chatham"},
		{"no city", http.StatusOK, `{"status":"success","lat":1.5,"lon":2.25}`, false, false, "1.5000, 2.2500"},
		{"fail status", http.StatusOK, `{"status":"fail","message":"private range"}`, true, true, ""},
		{"forbidden", http.StatusForbidden, ``, true, true, ""},
		{"server error", http.StatusInternalServerError, ``, true, false, ""},
		{"bad json", http.StatusOK, `nope`, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			loc, err := NewIPLocator(server.URL, nil).CurrentPosition(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, ErrPermissionDenied) != tt.wantDenied {
				t.Errorf("errors.Is(err, ErrPermissionDenied) = %v, want %v", !tt.wantDenied, tt.wantDenied)
			}
			if !tt.wantErr && loc.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", loc.Label, tt.wantLabel)
			}
		})
	}
}
