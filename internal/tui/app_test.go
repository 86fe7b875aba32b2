package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/devinv/internal/discovery"
	"github.com/muurk/devinv/internal/gateway"
)

func appUpdate(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	am, ok := updated.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T, want AppModel", updated)
	}
	return am, cmd
}

func noScan(ctx context.Context, timeout time.Duration) ([]*discovery.Service, error) {
	return nil, nil
}

func TestNewAppModel_StartScreen(t *testing.T) {
	withAPI := NewAppModel(Options{API: &fakeAPI{}})
	defer withAPI.Shutdown()
	if withAPI.CurrentScreen != ScreenDashboard {
		t.Errorf("CurrentScreen = %q, want dashboard when an API is given", withAPI.CurrentScreen)
	}

	without := NewAppModel(Options{Scan: noScan})
	defer without.Shutdown()
	if without.CurrentScreen != ScreenDiscovery {
		t.Errorf("CurrentScreen = %q, want discovery", without.CurrentScreen)
	}
}

func TestAppModel_DiscoverySelectionConnects(t *testing.T) {
	var gotURL string
	api := &fakeAPI{}
	m := NewAppModel(Options{
		Scan: noScan,
		NewAPI: func(baseURL string) gateway.API {
			gotURL = baseURL
			return api
		},
	})
	defer m.Shutdown()

	svc := &discovery.Service{Instance: "lab", IP: "192.168.1.20", Port: 8080, Path: "/api"}
	m, _ = appUpdate(t, m, scanCompleteMsg{services: []*discovery.Service{svc}})
	m, cmd := appUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.CurrentScreen != ScreenDashboard {
		t.Fatalf("CurrentScreen = %q, want dashboard", m.CurrentScreen)
	}
	if m.PreviousScreen != ScreenDiscovery {
		t.Errorf("PreviousScreen = %q, want discovery", m.PreviousScreen)
	}
	if gotURL != "http://192.168.1.20:8080/api" {
		t.Errorf("NewAPI called with %q", gotURL)
	}
	if m.BaseURL != gotURL {
		t.Errorf("BaseURL = %q, want %q", m.BaseURL, gotURL)
	}
	if m.DashboardModel.API != api {
		t.Error("dashboard should use the client built for the chosen URL")
	}
	if cmd == nil {
		t.Error("connecting should start the initial load")
	}
}

func TestAppModel_ManualURL(t *testing.T) {
	var gotURL string
	m := NewAppModel(Options{
		Scan: noScan,
		NewAPI: func(baseURL string) gateway.API {
			gotURL = baseURL
			return &fakeAPI{}
		},
	})
	defer m.Shutdown()

	m, _ = appUpdate(t, m, scanCompleteMsg{})
	m, _ = appUpdate(t, m, keyRunes("m"))
	if !m.DiscoveryModel.ManualMode {
		t.Fatal("m should open manual entry")
	}

	// Empty input is not accepted
	m, _ = appUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.CurrentScreen != ScreenDiscovery {
		t.Fatal("empty URL should not connect")
	}

	m, _ = appUpdate(t, m, keyRunes("10.0.0.2:9000"))
	m, _ = appUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.CurrentScreen != ScreenDashboard {
		t.Fatalf("CurrentScreen = %q, want dashboard", m.CurrentScreen)
	}
	if gotURL != "http://10.0.0.2:9000/api" {
		t.Errorf("NewAPI called with %q", gotURL)
	}
}

func TestAppModel_ScanFailureShown(t *testing.T) {
	m := NewAppModel(Options{Scan: noScan})
	defer m.Shutdown()

	m, _ = appUpdate(t, m, scanCompleteMsg{err: errors.New("no multicast interface")})
	if !strings.Contains(m.View(), "no multicast interface") {
		t.Error("View() should show the scan error")
	}
}

func TestAppModel_WindowSizePropagates(t *testing.T) {
	m := NewAppModel(Options{API: &fakeAPI{}})
	defer m.Shutdown()

	m, _ = appUpdate(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.Width != 120 || m.Height != 40 {
		t.Errorf("app size = %dx%d", m.Width, m.Height)
	}
	if m.DashboardModel.Width != 120 || m.DashboardModel.Height != 40 {
		t.Errorf("dashboard size = %dx%d", m.DashboardModel.Width, m.DashboardModel.Height)
	}
	if m.DiscoveryModel.Width != 120 {
		t.Errorf("discovery width = %d", m.DiscoveryModel.Width)
	}
}

func TestAppModel_CtrlCCancelsRequests(t *testing.T) {
	m := NewAppModel(Options{API: &fakeAPI{}})

	m, cmd := appUpdate(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should return tea.Quit")
	}
	if m.DashboardModel.Ctx.Err() == nil {
		t.Error("quitting should cancel in-flight requests")
	}
}
