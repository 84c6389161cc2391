package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/skypulse-terminal/internal/session"
)

// AppState represents the current state of the application
type AppState int

const (
	StateIdle    AppState = iota // Nothing rendered yet
	StateLoading                 // Waiting on a location or forecast
	StateDisplay                 // Showing weather
	StateError                   // Showing a message
)

func (s AppState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateDisplay:
		return "display"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Session is the set of controller operations the UI can trigger
type Session interface {
	ResolveInitialLocation(ctx context.Context) error
	LocateByGeolocation(ctx context.Context) error
	SearchCity(ctx context.Context, query string) error
	Refresh(ctx context.Context) error
}

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int

	searchInput textinput.Model
	spinner     spinner.Model

	session  Session
	renderer *StateRenderer

	initialQuery string

	weather *session.WeatherView
	message string
}

// ModelOption configures a Model
type ModelOption func(*Model)

// WithInitialQuery searches query on startup instead of resolving the initial location
func WithInitialQuery(query string) ModelOption {
	return func(m *Model) { m.initialQuery = query }
}

// NewModel creates a new application model. renderer must be the one the session renders to.
func NewModel(sess Session, renderer *StateRenderer, opts ...ModelOption) Model {
	ti := textinput.New()
	ti.Placeholder = "Search a city (e.g. Paris, Tokyo, Cape Town)..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 48

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		state:       StateIdle,
		searchInput: ti,
		spinner:     s,
		session:     sess,
		renderer:    renderer,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts listening for rendered states and resolves the first location
func (m Model) Init() tea.Cmd {
	startup := runOp("startup", m.session.ResolveInitialLocation)
	if m.initialQuery != "" {
		query := m.initialQuery
		startup = runOp("startup", func(ctx context.Context) error {
			return m.session.SearchCity(ctx, query)
		})
	}
	return tea.Batch(textinput.Blink, waitForState(m.renderer), startup)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case uiStateMsg:
		cmds := []tea.Cmd{waitForState(m.renderer)}
		if m.apply(msg.state) {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case rendererClosedMsg:
		return m, nil

	case opDoneMsg:
		// failures were already rendered by the controller
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// apply moves the model to the rendered state and reports whether loading just started
func (m *Model) apply(state session.UIState) bool {
	switch state.Kind {
	case session.StateLoading:
		started := m.state != StateLoading
		m.state = StateLoading
		return started
	case session.StateWeather:
		m.state = StateDisplay
		m.weather = state.Weather
		m.message = ""
	case session.StateError:
		m.state = StateError
		m.message = state.Message
	}
	return false
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.renderer.Close()
		return m, tea.Quit

	case "enter":
		query := m.searchInput.Value()
		m.searchInput.SetValue("")
		return m, runOp("search", func(ctx context.Context) error {
			return m.session.SearchCity(ctx, query)
		})

	case "ctrl+l":
		return m, runOp("locate", m.session.LocateByGeolocation)

	case "ctrl+r":
		return m, runOp("refresh", m.session.Refresh)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	var sections []string
	sections = append(sections,
		titleStyle.Render("☁  SkyPulse"),
		mutedStyle.Render("Current conditions from Open-Meteo"),
		"",
		searchBoxStyle.Render(m.searchInput.View()),
		"",
	)

	switch m.state {
	case StateIdle:
		sections = append(sections, mutedStyle.Render("Finding your location..."))
	case StateLoading:
		sections = append(sections, m.spinner.View()+" Loading weather...")
	case StateDisplay:
		sections = append(sections, m.renderWeatherPane(m.paneWidth()))
	case StateError:
		sections = append(sections, errorStyle.Render("✗ "+m.message))
	}

	help := helpStyle.Render(strings.Join([]string{
		"Enter: Search",
		"Ctrl+L: My location",
		"Ctrl+R: Refresh",
		"Esc: Quit",
	}, " • "))
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) paneWidth() int {
	if m.width == 0 || m.width > 60 {
		return 52
	}
	return m.width - 4
}
