package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/devinv/internal/discovery"
	"github.com/muurk/devinv/internal/gateway"
)

// ScanFunc browses for inventory APIs. The default uses mDNS.
type ScanFunc func(ctx context.Context, timeout time.Duration) ([]*discovery.Service, error)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	services []*discovery.Service
	err      error
}

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual URL entry
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// serviceItem wraps a Service for use with bubbles/list
type serviceItem struct {
	service *discovery.Service
}

// FilterValue implements list.Item
func (s serviceItem) FilterValue() string {
	return s.service.Instance + " " + s.service.BaseURL()
}

// serviceDelegate renders one backend per card
type serviceDelegate struct{}

func (d serviceDelegate) Height() int { return 5 }

func (d serviceDelegate) Spacing() int { return 1 }

func (d serviceDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d serviceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(serviceItem)
	if !ok {
		return
	}
	svc := si.service
	selected := index == m.Index()

	name := "  " + svc.Instance
	if selected {
		name = SelectedMenuItemStyle.Render("→ " + svc.Instance)
	}

	lines := []string{
		name,
		fmt.Sprintf("  URL:     %s", svc.BaseURL()),
	}
	if v := svc.GetMetadata("version"); v != "" {
		lines = append(lines, fmt.Sprintf("  Version: %s", v))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1).
		MarginLeft(2).
		Width(SafeModalWidth(MinTerminalWidth-8, m.Width()))
	if selected {
		card = card.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, card.Render(strings.Join(lines, "\n")))
}

// DiscoveryModel is the screen shown when no API URL is configured: it
// browses the network for backends or takes a URL by hand.
type DiscoveryModel struct {
	Scan    ScanFunc
	Timeout time.Duration

	Scanning    bool
	ServiceList list.Model
	Err         error

	// Selected is set once the user picks a backend
	Selected    bool
	SelectedURL string

	// Manual URL entry state
	ManualMode bool
	URLInput   textinput.Model

	Width         int
	Height        int
	Spinner       spinner.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          discoveryKeyMap
	ManualKeys    manualModeKeyMap
}

// NewDiscoveryModel creates a discovery screen using scan.
func NewDiscoveryModel(scan ScanFunc, timeout time.Duration) DiscoveryModel {
	if scan == nil {
		scan = browseServices
	}
	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	urlInput := textinput.New()
	urlInput.Placeholder = gateway.DefaultBaseURL + gateway.DefaultBasePath
	urlInput.CharLimit = 256
	urlInput.Width = 48

	services := list.New([]list.Item{}, serviceDelegate{}, 0, 0)
	services.Title = "Inventory APIs"
	services.SetShowStatusBar(false)
	services.SetShowHelp(false)
	services.SetFilteringEnabled(false)
	services.Styles.Title = TitleStyle

	return DiscoveryModel{
		Scan:        scan,
		Timeout:     timeout,
		ServiceList: services,
		URLInput:    urlInput,
		Spinner:     s,
		Help:        help.New(),
		Keys: discoveryKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "move up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "move down"),
			),
			Enter: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "connect"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "enter URL"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc"),
				key.WithHelp("q", "quit"),
			),
		},
		ManualKeys: manualModeKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "connect"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
	}
}

// Init starts scanning immediately
func (m DiscoveryModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		scanCmd(m.Scan, m.Timeout),
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.ServiceList.SetWidth(msg.Width - 4)
		m.ServiceList.SetHeight(max(msg.Height-10, 5))
		return m, nil

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()
		return m, nil

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.services))
		for i, svc := range msg.services {
			items[i] = serviceItem{service: svc}
		}
		cmd = m.ServiceList.SetItems(items)
		return m, cmd

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateNormalMode handles keyboard input in the service list
func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Enter):
		if item, ok := m.ServiceList.SelectedItem().(serviceItem); ok {
			m.Selected = true
			m.SelectedURL = item.service.BaseURL()
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		if m.Scanning {
			return m, nil
		}
		m.Err = nil
		reset := m.ServiceList.SetItems(nil)
		return m, tea.Batch(
			reset,
			func() tea.Msg { return scanStartMsg{} },
			scanCmd(m.Scan, m.Timeout),
			m.Spinner.Tick,
		)

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.URLInput.SetValue("")
		cmd := m.URLInput.Focus()
		return m, cmd
	}

	// Let the list handle up/down navigation
	var cmd tea.Cmd
	m.ServiceList, cmd = m.ServiceList.Update(msg)
	return m, cmd
}

// updateManualMode handles keyboard input in manual URL entry mode
func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		value := strings.TrimSpace(m.URLInput.Value())
		if value == "" {
			return m, nil
		}
		m.ManualMode = false
		m.URLInput.Blur()
		m.Selected = true
		m.SelectedURL = gateway.NormalizeBaseURL(value)
		return m, nil
	}

	var cmd tea.Cmd
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	var content string
	var helpText string

	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
		helpText = m.Help.View(m.ManualKeys)
	case m.Scanning:
		content = m.renderScanning()
		helpText = m.Help.View(m.Keys)
	default:
		content = m.renderResults()
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

func (m DiscoveryModel) renderScanning() string {
	elapsed := time.Since(m.ScanStartTime).Round(time.Second)
	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(m.Spinner.View()+" SEARCHING FOR INVENTORY APIs"),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Browsing %s on the local network (%s)", discovery.ServiceType, elapsed)),
		"",
	)
	return lipgloss.Place(max(m.Width-4, 0), 0, lipgloss.Center, lipgloss.Top, content)
}

func (m DiscoveryModel) renderResults() string {
	troubleshooting := strings.Join([]string{
		"  Troubleshooting:",
		"    • Check the backend is running and advertises " + discovery.ServiceType,
		"    • mDNS needs UDP port 5353 open on this network",
		"    • Press m to enter the API URL by hand",
	}, "\n")

	switch {
	case m.Err != nil:
		return "\n" + RenderError(fmt.Sprintf("Scan failed: %v", m.Err)) + "\n\n" + troubleshooting
	case len(m.ServiceList.Items()) == 0:
		return "\n  " + WarningStyle.Render("⚠ No inventory APIs found") + "\n\n" + troubleshooting
	default:
		return "\n" + m.ServiceList.View()
	}
}

func (m DiscoveryModel) renderManualEntry() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		RenderSubtitle("Enter the inventory API URL"),
		"",
		"  URL: "+m.URLInput.View(),
		"",
	)
}

// scanCmd runs scan and reports the result
func scanCmd(scan ScanFunc, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		services, err := scan(context.Background(), timeout)
		return scanCompleteMsg{services: services, err: err}
	}
}

// browseServices is the default ScanFunc
func browseServices(ctx context.Context, timeout time.Duration) ([]*discovery.Service, error) {
	scanner := discovery.NewScanner()
	scanner.Timeout = timeout
	return scanner.Browse(ctx)
}
