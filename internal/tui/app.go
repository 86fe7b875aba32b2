package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/devinv/internal/gateway"
	"github.com/muurk/devinv/internal/logging"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery Screen = "discovery"
	ScreenDashboard Screen = "dashboard"
)

// Options configures NewAppModel.
type Options struct {
	// API is the backend to show. When nil the app starts on the discovery
	// screen and builds one with NewAPI from the chosen URL.
	API gateway.API

	// NewAPI builds a client for a discovered or typed URL. Defaults to
	// gateway.NewClient with Timeout applied.
	NewAPI func(baseURL string) gateway.API

	// Timeout is the per-request timeout for clients built by the default NewAPI
	Timeout time.Duration

	// Scan and ScanTimeout drive the discovery screen
	Scan        ScanFunc
	ScanTimeout time.Duration
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen  Screen
	PreviousScreen Screen

	DiscoveryModel DiscoveryModel
	DashboardModel DashboardModel

	// BaseURL is the API the dashboard is connected to, when known
	BaseURL string

	opts   Options
	ctx    context.Context
	cancel context.CancelFunc

	Width  int
	Height int
}

// NewAppModel creates the application model. It starts on the dashboard
// when opts.API is set and on the discovery screen otherwise.
func NewAppModel(opts Options) AppModel {
	if opts.NewAPI == nil {
		timeout := opts.Timeout
		opts.NewAPI = func(baseURL string) gateway.API {
			c := gateway.NewClient(baseURL)
			if timeout > 0 {
				c.SetTimeout(timeout)
			}
			return c
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := AppModel{
		CurrentScreen:  ScreenDiscovery,
		DiscoveryModel: NewDiscoveryModel(opts.Scan, opts.ScanTimeout),
		opts:           opts,
		ctx:            ctx,
		cancel:         cancel,
	}

	if opts.API != nil {
		m.CurrentScreen = ScreenDashboard
		m.DashboardModel = NewDashboardModel(ctx, opts.API)
	}
	return m
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.Init()
	case ScreenDashboard:
		return m.DashboardModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Propagate to all screens
		d, _ := m.DiscoveryModel.Update(msg)
		m.DiscoveryModel = d.(DiscoveryModel)
		m.DashboardModel.Width = msg.Width
		m.DashboardModel.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenDiscovery:
		updated, c := m.DiscoveryModel.Update(msg)
		m.DiscoveryModel = updated.(DiscoveryModel)
		cmd = c

		if m.DiscoveryModel.Selected {
			m.BaseURL = m.DiscoveryModel.SelectedURL
			return m.transitionTo(ScreenDashboard)
		}

	case ScreenDashboard:
		updated, c := m.DashboardModel.Update(msg)
		m.DashboardModel = updated.(DashboardModel)
		cmd = c
	}

	return m, cmd
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	var cmd tea.Cmd
	switch screen {
	case ScreenDashboard:
		logging.Info("Connecting to inventory API", zap.String("url", m.BaseURL))
		api := m.opts.API
		if api == nil || m.BaseURL != "" {
			api = m.opts.NewAPI(m.BaseURL)
		}
		m.DashboardModel = NewDashboardModel(m.ctx, api)
		m.DashboardModel.Width = m.Width
		m.DashboardModel.Height = m.Height
		cmd = m.DashboardModel.Init()
	}

	return m, cmd
}

// quit cancels outstanding requests and exits
func (m AppModel) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	return m, tea.Quit
}

// Shutdown cancels any request still in flight. Call it after the program
// returns, since a quit from a screen bypasses the app's own handler.
func (m AppModel) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.View()
	case ScreenDashboard:
		return m.DashboardModel.View()
	default:
		return "Unknown screen"
	}
}

// Run starts the full-screen program and blocks until it exits.
func Run(opts Options) error {
	app := NewAppModel(opts)
	defer app.Shutdown()

	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
