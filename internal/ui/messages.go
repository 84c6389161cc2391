package ui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/skypulse-terminal/internal/session"
)

// opTimeout bounds a single controller operation started from the UI
const opTimeout = 30 * time.Second

// uiStateMsg carries a state rendered by the controller
type uiStateMsg struct {
	state session.UIState
}

// rendererClosedMsg is sent once the renderer is closed and drained
type rendererClosedMsg struct{}

// opDoneMsg is sent when a controller operation returns
type opDoneMsg struct {
	op  string
	err error
}

// StateRenderer is the session.Renderer for the terminal. Rendered states are
// queued and delivered to the Model as uiStateMsg in order.
type StateRenderer struct {
	states chan session.UIState
	done   chan struct{}
	once   sync.Once
}

func NewStateRenderer() *StateRenderer {
	return &StateRenderer{
		states: make(chan session.UIState, 16),
		done:   make(chan struct{}),
	}
}

// Render blocks until the UI accepts the state or the renderer is closed
func (r *StateRenderer) Render(state session.UIState) {
	select {
	case r.states <- state:
	case <-r.done:
	}
}

// Close releases any pending Render calls
func (r *StateRenderer) Close() {
	r.once.Do(func() { close(r.done) })
}

// waitForState waits for the next rendered state
func waitForState(r *StateRenderer) tea.Cmd {
	return func() tea.Msg {
		select {
		case state := <-r.states:
			return uiStateMsg{state: state}
		case <-r.done:
			return rendererClosedMsg{}
		}
	}
}

// runOp runs a controller operation in the background
func runOp(name string, op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		return opDoneMsg{op: name, err: op(ctx)}
	}
}
