package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"

	"github.com/muurk/devinv/internal/charts"
	"github.com/muurk/devinv/internal/dashboard"
	"github.com/muurk/devinv/internal/form"
	"github.com/muurk/devinv/internal/gateway"
	"github.com/muurk/devinv/internal/inventory"
	"github.com/muurk/devinv/internal/listview"
	"github.com/muurk/devinv/internal/logging"
)

// NoticeDuration is how long a notification stays on screen.
const NoticeDuration = 4 * time.Second

// Message types for async operations
type devicesLoadedMsg struct {
	seq     uint64
	devices []inventory.Device
	err     error
}

type statsLoadedMsg struct {
	seq   uint64
	stats *inventory.Stats
	err   error
}

type typesLoadedMsg struct {
	types []inventory.Type
	err   error
}

type departmentsLoadedMsg struct {
	departments []inventory.Department
	err         error
}

type deviceFetchedMsg struct {
	mode   form.Mode
	device *inventory.Device
	err    error
}

type submitDoneMsg struct {
	controller form.Controller
	outcome    form.Outcome
	err        error
}

type deleteDoneMsg struct {
	code string
	err  error
}

type refreshDoneMsg struct {
	seq      uint64
	snapshot *gateway.Snapshot
	err      error
}

type clearNoticeMsg struct {
	id int
}

// Notice is the transient notification line under the table.
type Notice struct {
	Text  string
	IsErr bool
}

// dashboardKeyMap defines key bindings for the dashboard screen
type dashboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PrevPage   key.Binding
	NextPage   key.Binding
	BiggerPage key.Binding
	SmallerPg  key.Binding
	New        key.Binding
	Edit       key.Binding
	View       key.Binding
	Delete     key.Binding
	Type       key.Binding
	Status     key.Binding
	Department key.Binding
	Search     key.Binding
	Clear      key.Binding
	Sort       key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Edit, k.View, k.Delete, k.Search, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage, k.BiggerPage, k.SmallerPg},
		{k.New, k.Edit, k.View, k.Delete, k.Refresh},
		{k.Search, k.Type, k.Status, k.Department, k.Clear, k.Sort},
		{k.Help, k.Quit},
	}
}

// searchKeyMap defines key bindings while typing a search keyword
type searchKeyMap struct {
	Done   key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k searchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Done, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k searchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Done, k.Cancel}}
}

// DashboardModel is the main inventory screen: counters, filters, the
// device table and the two charts.
type DashboardModel struct {
	API   gateway.API
	Ctx   context.Context
	State *dashboard.State

	// UI state
	Width  int
	Height int
	Cursor int // row within the current page

	// Outstanding reads and in-flight mutations
	Loading int
	Busy    bool
	Spinner spinner.Model

	// Keyword search
	Searching   bool
	SearchInput textinput.Model

	// Modals
	Form          FormModel
	ShowingHelp   bool
	ConfirmDelete *inventory.Device

	Notice   Notice
	noticeID int

	Help       help.Model
	Keys       dashboardKeyMap
	SearchKeys searchKeyMap
}

// NewDashboardModel creates a dashboard backed by api. Requests are made
// with ctx, so cancelling it aborts anything in flight.
func NewDashboardModel(ctx context.Context, api gateway.API) DashboardModel {
	if ctx == nil {
		ctx = context.Background()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "name or code"
	search.CharLimit = 64
	search.Width = 30

	keys := dashboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "pgup"),
			key.WithHelp("←", "previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "pgdown"),
			key.WithHelp("→", "next page"),
		),
		BiggerPage: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more per page"),
		),
		SmallerPg: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer per page"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		View: key.NewBinding(
			key.WithKeys("v", "enter"),
			key.WithHelp("v/enter", "view"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Type: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "type filter"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status filter"),
		),
		Department: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "department filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		Sort: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7"),
			key.WithHelp("1-7", "sort column"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	searchKeys := searchKeyMap{
		Done: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "done"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),
	}

	return DashboardModel{
		API:         api,
		Ctx:         ctx,
		State:       dashboard.New(),
		Spinner:     s,
		SearchInput: search,
		Form:        NewFormModel(),
		Loading:     4,
		Help:        help.New(),
		Keys:        keys,
		SearchKeys:  searchKeys,
	}
}

// Init fires the four initial reads together. Loading starts at four to
// account for them.
func (m DashboardModel) Init() tea.Cmd {
	seq := m.State.BeginLoad()
	return tea.Batch(
		loadDevicesCmd(m.Ctx, m.API, seq),
		loadStatsCmd(m.Ctx, m.API, seq),
		loadTypesCmd(m.Ctx, m.API),
		loadDepartmentsCmd(m.Ctx, m.API),
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Async results are handled whatever modal is showing
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.Loading == 0 && !m.Busy && !m.Form.Submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case devicesLoadedMsg:
		m.Loading = max(0, m.Loading-1)
		if msg.err != nil {
			return m.notifyError("failed to load devices", msg.err)
		}
		m.State.ApplyDevices(msg.seq, msg.devices)
		m.clampCursor()
		return m, nil

	case statsLoadedMsg:
		m.Loading = max(0, m.Loading-1)
		if msg.err != nil {
			return m.notifyError("failed to load stats", msg.err)
		}
		if msg.stats != nil {
			m.State.ApplyStats(msg.seq, *msg.stats)
		}
		return m, nil

	case typesLoadedMsg:
		m.Loading = max(0, m.Loading-1)
		if msg.err != nil {
			return m.notifyError("failed to load device types", msg.err)
		}
		m.State.ApplyReference(msg.types, nil)
		return m, nil

	case departmentsLoadedMsg:
		m.Loading = max(0, m.Loading-1)
		if msg.err != nil {
			return m.notifyError("failed to load departments", msg.err)
		}
		m.State.ApplyReference(nil, msg.departments)
		return m, nil

	case deviceFetchedMsg:
		m.Busy = false
		if msg.err != nil || msg.device == nil {
			return m.notifyError("failed to load device", msg.err)
		}
		m.Form = m.Form.Open(msg.mode, form.FromDevice(*msg.device), m.State.Departments)
		return m, textinput.Blink

	case submitDoneMsg:
		m.Form = m.Form.ApplySubmit(msg.controller, msg.outcome.Message, msg.err)
		if msg.err != nil {
			if gateway.IsValidationError(msg.err) {
				return m, nil
			}
			return m.notify(msg.outcome.Message, true)
		}
		var cmds []tea.Cmd
		if msg.outcome.Refresh {
			m.Busy = true
			cmds = append(cmds, refreshCmd(m.Ctx, m.API, m.State.BeginLoad()))
		}
		var notice tea.Cmd
		m, notice = m.withNotice(msg.outcome.Message, false)
		cmds = append(cmds, notice, m.Spinner.Tick)
		return m, tea.Batch(cmds...)

	case deleteDoneMsg:
		if msg.err != nil {
			m.Busy = false
			return m.notify(gateway.ServerMessage(msg.err, "failed to delete device"), true)
		}
		logging.LogUserAction("delete", zap.String("code", msg.code))
		seq := m.State.BeginLoad()
		var notice tea.Cmd
		m, notice = m.withNotice("device deleted", false)
		return m, tea.Batch(refreshCmd(m.Ctx, m.API, seq), notice)

	case refreshDoneMsg:
		m.Busy = false
		if msg.err != nil {
			return m.notifyError("failed to refresh", msg.err)
		}
		m.State.ApplyRefresh(msg.seq, msg.snapshot)
		m.Cursor = 0
		return m, nil

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.Notice = Notice{}
		}
		return m, nil
	}

	// Modals take keys first
	switch {
	case m.ShowingHelp:
		return m.updateHelpModal(msg)
	case m.ConfirmDelete != nil:
		return m.updateConfirmDelete(msg)
	case m.Form.IsOpen():
		return m.updateForm(msg)
	case m.Searching:
		return m.updateSearch(msg)
	}

	return m.updateNormalMode(msg)
}

// updateNormalMode handles input when no modal is open
func (m DashboardModel) updateNormalMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	// Mutations in flight block further actions
	if m.Busy {
		if key.Matches(keyMsg, m.Keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(keyMsg, m.Keys.Help):
		m.ShowingHelp = true

	case key.Matches(keyMsg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}

	case key.Matches(keyMsg, m.Keys.Down):
		if m.Cursor < len(m.State.PageRows())-1 {
			m.Cursor++
		}

	case key.Matches(keyMsg, m.Keys.PrevPage):
		m.State.PrevPage()
		m.Cursor = 0

	case key.Matches(keyMsg, m.Keys.NextPage):
		m.State.NextPage()
		m.Cursor = 0

	case key.Matches(keyMsg, m.Keys.BiggerPage):
		m.State.Pager = m.State.Pager.NextPageSize()
		m.Cursor = 0

	case key.Matches(keyMsg, m.Keys.SmallerPg):
		m.State.Pager = m.State.Pager.PrevPageSize()
		m.Cursor = 0

	case key.Matches(keyMsg, m.Keys.New):
		m.Form = m.Form.Open(form.Create(), form.Values{}, m.State.Departments)
		return m, textinput.Blink

	case key.Matches(keyMsg, m.Keys.Edit):
		if d, ok := m.SelectedDevice(); ok {
			return m.fetchForForm(form.Edit(d.Code))
		}

	case key.Matches(keyMsg, m.Keys.View):
		if d, ok := m.SelectedDevice(); ok {
			return m.fetchForForm(form.View(d.Code))
		}

	case key.Matches(keyMsg, m.Keys.Delete):
		if d, ok := m.SelectedDevice(); ok {
			m.ConfirmDelete = &d
		}

	case key.Matches(keyMsg, m.Keys.Type):
		m.State.CycleType()
		m.Cursor = 0

	case key.Matches(keyMsg, m.Keys.Status):
		m.State.CycleStatus()
		m.Cursor = 0

	case key.Matches(keyMsg, m.Keys.Department):
		m.State.CycleDepartment()
		m.Cursor = 0

	case key.Matches(keyMsg, m.Keys.Search):
		m.Searching = true
		m.SearchInput.SetValue(m.State.Criteria.Keyword)
		m.SearchInput.CursorEnd()
		cmd := m.SearchInput.Focus()
		return m, cmd

	case key.Matches(keyMsg, m.Keys.Clear):
		m.State.ClearFilters()
		m.SearchInput.SetValue("")
		m.Cursor = 0

	case key.Matches(keyMsg, m.Keys.Sort):
		n, _ := strconv.Atoi(keyMsg.String())
		if n >= 1 && n <= len(listview.Columns) {
			m.State.ToggleSort(listview.Columns[n-1])
		}

	case key.Matches(keyMsg, m.Keys.Refresh):
		m.Loading += 2
		return m, tea.Batch(m.reloadCmd(), m.Spinner.Tick)
	}

	return m, nil
}

// updateSearch types into the keyword box; every edit re-filters.
func (m DashboardModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.SearchKeys.Done):
			m.Searching = false
			m.SearchInput.Blur()
			return m, nil
		case key.Matches(keyMsg, m.SearchKeys.Cancel):
			m.Searching = false
			m.SearchInput.Blur()
			m.SearchInput.SetValue("")
			m.State.SetKeyword("")
			m.Cursor = 0
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	if m.SearchInput.Value() != m.State.Criteria.Keyword {
		m.State.SetKeyword(m.SearchInput.Value())
		m.Cursor = 0
	}
	return m, cmd
}

// updateForm routes input to the open form and starts a submit when asked.
func (m DashboardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.Form, cmd = m.Form.Update(msg)
	if !m.Form.SubmitRequested {
		return m, cmd
	}

	m.Form.SubmitRequested = false
	m.Form.Submitting = true
	return m, tea.Batch(submitCmd(m.Ctx, m.API, m.Form.Controller), m.Spinner.Tick)
}

// updateConfirmDelete deletes on "y"; any other key cancels.
func (m DashboardModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	target := m.ConfirmDelete
	m.ConfirmDelete = nil
	if keyMsg.String() != "y" && keyMsg.String() != "Y" {
		return m, nil
	}

	m.Busy = true
	return m, tea.Batch(deleteCmd(m.Ctx, m.API, target.Code), m.Spinner.Tick)
}

// updateHelpModal handles input when help modal is visible
func (m DashboardModel) updateHelpModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		// Any key closes the help modal
		m.ShowingHelp = false
	}
	return m, nil
}

// fetchForForm loads the device before opening edit or view.
func (m DashboardModel) fetchForForm(mode form.Mode) (tea.Model, tea.Cmd) {
	m.Busy = true
	return m, tea.Batch(fetchDeviceCmd(m.Ctx, m.API, mode), m.Spinner.Tick)
}

// SelectedDevice returns the device under the cursor.
func (m DashboardModel) SelectedDevice() (inventory.Device, bool) {
	rows := m.State.PageRows()
	if m.Cursor < 0 || m.Cursor >= len(rows) {
		return inventory.Device{}, false
	}
	return rows[m.Cursor], true
}

func (m *DashboardModel) clampCursor() {
	if n := len(m.State.PageRows()); m.Cursor >= n {
		m.Cursor = max(0, n-1)
	}
}

// reloadCmd re-reads devices and stats under one sequence number.
func (m DashboardModel) reloadCmd() tea.Cmd {
	seq := m.State.BeginLoad()
	return tea.Batch(
		loadDevicesCmd(m.Ctx, m.API, seq),
		loadStatsCmd(m.Ctx, m.API, seq),
	)
}

func (m DashboardModel) notifyError(prefix string, err error) (tea.Model, tea.Cmd) {
	text := prefix
	if err != nil {
		logging.Warn("Dashboard request failed", zap.String("action", prefix), zap.Error(err))
		text = prefix + ": " + gateway.ShortMessage(err)
	}
	return m.notify(text, true)
}

func (m DashboardModel) notify(text string, isErr bool) (tea.Model, tea.Cmd) {
	m, cmd := m.withNotice(text, isErr)
	return m, cmd
}

// withNotice shows text and schedules its removal.
func (m DashboardModel) withNotice(text string, isErr bool) (DashboardModel, tea.Cmd) {
	m.noticeID++
	m.Notice = Notice{Text: text, IsErr: isErr}
	id := m.noticeID
	return m, tea.Tick(NoticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{id: id}
	})
}

func loadDevicesCmd(ctx context.Context, api gateway.DeviceReader, seq uint64) tea.Cmd {
	return func() tea.Msg {
		devices, err := api.ListDevices(ctx)
		return devicesLoadedMsg{seq: seq, devices: devices, err: err}
	}
}

func loadStatsCmd(ctx context.Context, api gateway.DeviceReader, seq uint64) tea.Cmd {
	return func() tea.Msg {
		stats, err := api.GetStats(ctx)
		return statsLoadedMsg{seq: seq, stats: stats, err: err}
	}
}

func loadTypesCmd(ctx context.Context, api gateway.DeviceReader) tea.Cmd {
	return func() tea.Msg {
		types, err := api.ListDeviceTypes(ctx)
		return typesLoadedMsg{types: types, err: err}
	}
}

func loadDepartmentsCmd(ctx context.Context, api gateway.DeviceReader) tea.Cmd {
	return func() tea.Msg {
		departments, err := api.ListDepartments(ctx)
		return departmentsLoadedMsg{departments: departments, err: err}
	}
}

func fetchDeviceCmd(ctx context.Context, api gateway.DeviceReader, mode form.Mode) tea.Cmd {
	return func() tea.Msg {
		device, err := api.GetDevice(ctx, mode.Code)
		return deviceFetchedMsg{mode: mode, device: device, err: err}
	}
}

// submitCmd runs Submit on a copy of the controller; the copy comes back
// in the message so the model stays single-writer.
func submitCmd(ctx context.Context, api gateway.DeviceWriter, c form.Controller) tea.Cmd {
	return func() tea.Msg {
		outcome, err := c.Submit(ctx, api)
		return submitDoneMsg{controller: c, outcome: outcome, err: err}
	}
}

func deleteCmd(ctx context.Context, api gateway.DeviceWriter, code string) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{code: code, err: api.DeleteDevice(ctx, code)}
	}
}

func refreshCmd(ctx context.Context, api gateway.API, seq uint64) tea.Cmd {
	return func() tea.Msg {
		snap, err := api.Refresh(ctx)
		return refreshDoneMsg{seq: seq, snapshot: snap, err: err}
	}
}

// View renders the dashboard
func (m DashboardModel) View() string {
	switch {
	case m.ShowingHelp:
		return RenderModal(m.renderHelpModalContent(), m.Width, m.Height)
	case m.ConfirmDelete != nil:
		return RenderModal(m.renderConfirmDeleteContent(), m.Width, m.Height)
	case m.Form.IsOpen():
		return RenderModal(m.Form.View(m.Spinner.View(), m.Width), m.Width, m.Height)
	}

	helpText := m.Help.View(m.Keys)
	if m.Searching {
		helpText = m.Help.View(m.SearchKeys)
	}
	return RenderApplicationContainer(m.renderDashboardContent(), helpText, m.Width, m.Height)
}

// renderDashboardContent renders the main dashboard content (without container)
func (m DashboardModel) renderDashboardContent() string {
	stats := m.State.Stats

	parts := []string{
		charts.RenderOverview(charts.Overview(stats)),
		"",
		m.renderFilterBar(),
		"",
		m.renderTable(),
		m.renderPagerLine(),
		"",
		m.renderCharts(),
	}

	if line := m.renderNotice(); line != "" {
		parts = append(parts, "", line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m DashboardModel) renderFilterBar() string {
	c := m.State.Criteria

	item := func(label, value string) string {
		if value == "" {
			value = "all"
		}
		return LabelStyle.Render(label+": ") + value
	}

	search := item("Search", c.Keyword)
	if m.Searching {
		search = m.SearchInput.View()
	}

	department := c.Department
	if department != "" {
		department = m.State.DepartmentName(department)
	}

	sortLabel := "none"
	if m.State.Sort.IsActive() {
		sortLabel = m.State.Sort.Column.String() + " " + m.State.Sort.Indicator(m.State.Sort.Column)
	}

	bar := strings.Join([]string{
		search,
		item("Type", string(c.Type)),
		item("Status", string(c.Status)),
		item("Department", department),
		item("Sort", sortLabel),
	}, LabelStyle.Render(" │ "))

	if m.Loading > 0 || m.Busy {
		bar = m.Spinner.View() + " " + bar
	}
	return bar
}

// renderTable draws the current page with lipgloss/table; the status
// column is coloured by its tag and the cursor row highlighted.
func (m DashboardModel) renderTable() string {
	rows := m.State.PageRows()
	if len(rows) == 0 {
		return SubtitleStyle.Render("  No devices")
	}

	headers := []string{"#"}
	for _, c := range listview.Columns {
		headers = append(headers, c.String()+m.State.Sort.Indicator(c))
	}

	data := make([][]string, 0, len(rows))
	for i, d := range rows {
		department := d.DepartmentName()
		if department == "" {
			department = m.State.DepartmentName(d.ResolvedDepartmentCode())
		}
		data = append(data, []string{
			strconv.Itoa(listview.RowIndex(m.State.Pager, i)),
			d.Code,
			d.Name,
			string(d.Type),
			string(d.Status),
			d.Location,
			d.Owner,
			department,
		})
	}

	const statusCol = 4
	cursor := m.Cursor

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(SubtleColor)).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			style := TableCellStyle
			if row == cursor {
				style = style.Foreground(HighlightColor).Bold(true)
			}
			if col == statusCol && row >= 0 && row < len(rows) {
				style = style.Foreground(lipgloss.Color(listview.StatusTag(rows[row].Status).Hex))
			}
			return style
		})

	if m.Width > 0 {
		t = t.Width(m.Width - 4)
	}
	return t.Render()
}

func (m DashboardModel) renderPagerLine() string {
	total := len(m.State.Visible)
	p := m.State.Pager
	return LabelStyle.Render(fmt.Sprintf("%s   page %d/%d   %d per page",
		listview.TotalLabel(total), p.Page, p.PageCount(total), p.PageSize))
}

func (m DashboardModel) renderCharts() string {
	stats := m.State.Stats

	barWidth := 24
	if m.Width > 100 {
		barWidth = 36
	}

	pie := PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		RenderTitle("Status distribution"),
		charts.RenderPieLegend(charts.StatusPie(stats)),
	))
	bars := PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		RenderTitle("Devices by type"),
		charts.RenderBars(charts.TypeBar(stats), barWidth),
	))
	return lipgloss.JoinHorizontal(lipgloss.Top, pie, " ", bars)
}

func (m DashboardModel) renderNotice() string {
	if m.Notice.Text == "" {
		return ""
	}
	if m.Notice.IsErr {
		return RenderError(m.Notice.Text)
	}
	return RenderSuccess(m.Notice.Text)
}

func (m DashboardModel) renderConfirmDeleteContent() string {
	d := m.ConfirmDelete
	content := lipgloss.JoinVertical(lipgloss.Left,
		WarningStyle.Render("⚠ DELETE DEVICE"),
		"",
		fmt.Sprintf("Delete %s (%s)?", d.Name, d.Code),
		"This cannot be undone.",
		"",
		LabelStyle.Render("y confirm • any other key cancels"),
	)
	return modalBox(WarningColor, ConfirmWidth, m.Width).Render(content)
}

func (m DashboardModel) renderHelpModalContent() string {
	statusLines := []string{SuccessStyle.Render("Status colours:")}
	for _, s := range append([]inventory.Status{inventory.StatusRunning}, inventory.SelectableStatuses...) {
		tag := listview.StatusTag(s)
		statusLines = append(statusLines, fmt.Sprintf("  %s  %s", RenderStatus(tag), LabelStyle.Render(s.Label())))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		RenderTitle("KEYBOARD SHORTCUTS"),
		"",
		m.Help.FullHelpView(m.Keys.FullHelp()),
		"",
		lipgloss.JoinVertical(lipgloss.Left, statusLines...),
		"",
		"Sort keys 1-7 follow the column order; press again to reverse, a third time to clear.",
		"",
		"Press any key to close this help screen",
	)
	return modalBox(PrimaryColor, HelpModalWidth, m.Width).Render(content)
}
