package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/devinv/internal/form"
	"github.com/muurk/devinv/internal/gateway"
	"github.com/muurk/devinv/internal/inventory"
	"github.com/muurk/devinv/internal/listview"
)

// fakeAPI is an in-memory gateway.API
type fakeAPI struct {
	mu sync.Mutex

	devices     []inventory.Device
	departments []inventory.Department

	getErr    error
	createErr error
	deleteErr error

	gets    []string
	created []inventory.DeviceWrite
	updated []string
	deleted []string
}

func (f *fakeAPI) ListDevices(ctx context.Context) ([]inventory.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.devices), nil
}

func (f *fakeAPI) GetDevice(ctx context.Context, code string) (*inventory.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, code)
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, d := range f.devices {
		if d.Code == code {
			return &d, nil
		}
	}
	return nil, gateway.NewAPIError(404, "device not found")
}

func (f *fakeAPI) ListDeviceTypes(ctx context.Context) ([]inventory.Type, error) {
	return inventory.KnownTypes, nil
}

func (f *fakeAPI) ListDepartments(ctx context.Context) ([]inventory.Department, error) {
	return f.departments, nil
}

func (f *fakeAPI) GetStats(ctx context.Context) (*inventory.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &inventory.Stats{TotalDevices: len(f.devices)}, nil
}

func (f *fakeAPI) CreateDevice(ctx context.Context, payload inventory.DeviceWrite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, payload)
	return nil
}

func (f *fakeAPI) UpdateDevice(ctx context.Context, code string, payload inventory.DeviceWrite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, code)
	return nil
}

func (f *fakeAPI) DeleteDevice(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, code)
	f.devices = slices.DeleteFunc(f.devices, func(d inventory.Device) bool { return d.Code == code })
	return nil
}

func (f *fakeAPI) Refresh(ctx context.Context) (*gateway.Snapshot, error) {
	devices, _ := f.ListDevices(ctx)
	stats, _ := f.GetStats(ctx)
	return &gateway.Snapshot{Devices: devices, Stats: stats}, nil
}

func testDevices(n int) []inventory.Device {
	devices := make([]inventory.Device, 0, n)
	for i := 1; i <= n; i++ {
		devices = append(devices, inventory.Device{
			Code:           fmt.Sprintf("D%03d", i),
			Name:           fmt.Sprintf("web-%d", i),
			Type:           inventory.TypeServer,
			Status:         inventory.StatusInUse,
			Location:       "机房A",
			Owner:          "张三",
			DepartmentCode: "IT",
		})
	}
	return devices
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// update feeds msg and returns the resulting dashboard
func update(t *testing.T, m DashboardModel, msg tea.Msg) (DashboardModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	dm, ok := updated.(DashboardModel)
	if !ok {
		t.Fatalf("Update returned %T, want DashboardModel", updated)
	}
	return dm, cmd
}

// loadedDashboard returns a dashboard with n devices applied
func loadedDashboard(t *testing.T, api *fakeAPI, n int) DashboardModel {
	t.Helper()
	api.devices = testDevices(n)
	api.departments = []inventory.Department{{Code: "IT", Name: "信息部"}}

	m := NewDashboardModel(context.Background(), api)
	m.Width, m.Height = 160, 50
	m.Init()

	m, _ = update(t, m, devicesLoadedMsg{seq: 1, devices: testDevices(n)})
	m, _ = update(t, m, statsLoadedMsg{seq: 1, stats: &inventory.Stats{TotalDevices: n}})
	m, _ = update(t, m, typesLoadedMsg{types: inventory.KnownTypes})
	m, _ = update(t, m, departmentsLoadedMsg{departments: api.departments})
	return m
}

func TestDashboard_InitialLoad(t *testing.T) {
	m := loadedDashboard(t, &fakeAPI{}, 3)

	if m.Loading != 0 {
		t.Errorf("Loading = %d, want 0 after all four loads", m.Loading)
	}
	if len(m.State.Devices) != 3 {
		t.Errorf("got %d devices, want 3", len(m.State.Devices))
	}
	if m.State.Stats.TotalDevices != 3 {
		t.Errorf("TotalDevices = %d, want 3", m.State.Stats.TotalDevices)
	}

	view := m.View()
	for _, want := range []string{"D001", "web-2", listview.TotalLabel(3), "信息部"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestDashboard_LoadErrorKeepsState(t *testing.T) {
	m := loadedDashboard(t, &fakeAPI{}, 3)
	seq := m.State.BeginLoad()

	m, cmd := update(t, m, devicesLoadedMsg{seq: seq, err: gateway.NewAPIError(500, "")})

	if cmd == nil {
		t.Error("expected a notice timer")
	}
	if !m.Notice.IsErr || !strings.HasPrefix(m.Notice.Text, "failed to load devices") {
		t.Errorf("Notice = %+v", m.Notice)
	}
	if len(m.State.Devices) != 3 {
		t.Errorf("got %d devices, a failed load should keep the old list", len(m.State.Devices))
	}
}

func TestDashboard_StaleLoadDropped(t *testing.T) {
	m := loadedDashboard(t, &fakeAPI{}, 3)
	older := m.State.BeginLoad()
	newer := m.State.BeginLoad()

	m, _ = update(t, m, devicesLoadedMsg{seq: newer, devices: testDevices(5)})
	m, _ = update(t, m, devicesLoadedMsg{seq: older, devices: testDevices(1)})

	if len(m.State.Devices) != 5 {
		t.Errorf("got %d devices, want 5 from the newer load", len(m.State.Devices))
	}
}

func TestDashboard_EditFetchesThenOpens(t *testing.T) {
	api := &fakeAPI{}
	m := loadedDashboard(t, api, 3)

	m, _ = update(t, m, keyRunes("j"))
	m, cmd := update(t, m, keyRunes("e"))
	if !m.Busy || cmd == nil {
		t.Fatal("edit should start a fetch")
	}

	msg := fetchDeviceCmd(context.Background(), api, form.Edit("D002"))()
	if len(api.gets) != 1 || api.gets[0] != "D002" {
		t.Fatalf("GetDevice calls = %v, want [D002]", api.gets)
	}

	m, _ = update(t, m, msg)
	if m.Busy {
		t.Error("Busy should clear once the device arrives")
	}
	if !m.Form.IsOpen() || m.Form.Controller.Mode().Kind != form.ModeEdit {
		t.Fatalf("form mode = %v, want edit", m.Form.Controller.Mode().Kind)
	}
	if got := m.Form.Controller.Values().Name; got != "web-2" {
		t.Errorf("Name = %q, want web-2", got)
	}
	if m.Form.Controller.Editable(form.FieldCode) {
		t.Error("code should be locked in edit mode")
	}
}

func TestDashboard_FetchFailureOpensNothing(t *testing.T) {
	m := loadedDashboard(t, &fakeAPI{}, 3)
	m.Busy = true

	m, _ = update(t, m, deviceFetchedMsg{mode: form.View("D001"), err: gateway.NewAPIError(404, "")})

	if m.Form.IsOpen() {
		t.Error("form should stay closed")
	}
	if !strings.HasPrefix(m.Notice.Text, "failed to load device") {
		t.Errorf("Notice = %q", m.Notice.Text)
	}
}

func TestDashboard_ViewFormClosesWithoutWriting(t *testing.T) {
	api := &fakeAPI{}
	m := loadedDashboard(t, api, 2)
	d := api.devices[0]

	m, _ = update(t, m, deviceFetchedMsg{mode: form.View(d.Code), device: &d})
	if !m.Form.Controller.Mode().ReadOnly() {
		t.Fatal("form should be read-only")
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Form.IsOpen() {
		t.Error("enter should close a read-only form")
	}
	if cmd != nil {
		t.Error("closing a read-only form should not issue a command")
	}
	if len(api.created)+len(api.updated) != 0 {
		t.Error("view mode must never write")
	}
}

func fillForm(m DashboardModel, v form.Values) DashboardModel {
	for _, f := range form.Fields {
		m.Form.Controller.Set(f, v.Get(f))
	}
	return m
}

func validValues() form.Values {
	return form.Values{
		Code:       "D100",
		Name:       "core-switch",
		Type:       string(inventory.TypeNetworkDevice),
		Status:     string(inventory.StatusInUse),
		Location:   "机房B",
		Owner:      "李四",
		Department: "IT",
	}
}

func TestDashboard_CreateSubmit(t *testing.T) {
	api := &fakeAPI{}
	m := loadedDashboard(t, api, 25)
	m.State.NextPage()
	if m.State.Pager.Page != 2 {
		t.Fatalf("Page = %d, want 2 before the submit", m.State.Pager.Page)
	}

	m, _ = update(t, m, keyRunes("n"))
	if m.Form.Controller.Mode().Kind != form.ModeCreate {
		t.Fatalf("mode = %v, want create", m.Form.Controller.Mode().Kind)
	}
	m = fillForm(m, validValues())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Form.Submitting || cmd == nil {
		t.Fatal("enter should start a submit")
	}

	msg := submitCmd(context.Background(), api, m.Form.Controller)()
	if len(api.created) != 1 || api.created[0].DepartmentCode != "IT" {
		t.Fatalf("created = %+v", api.created)
	}

	m, cmd = update(t, m, msg)
	if m.Form.IsOpen() {
		t.Error("form should close after a successful submit")
	}
	if m.Notice.Text != "device added" || m.Notice.IsErr {
		t.Errorf("Notice = %+v", m.Notice)
	}
	if !m.Busy || cmd == nil {
		t.Fatal("a successful submit should refresh devices and stats")
	}

	snap, _ := api.Refresh(context.Background())
	m, _ = update(t, m, refreshDoneMsg{seq: 1000, snapshot: snap})
	if m.State.Pager.Page != 1 {
		t.Errorf("Page = %d, want 1 after the refresh", m.State.Pager.Page)
	}
	if m.Busy {
		t.Error("Busy should clear after the refresh")
	}
}

func TestDashboard_FormOffersEveryType(t *testing.T) {
	m := loadedDashboard(t, &fakeAPI{}, 3)
	// The backend only lists types already stored
	m, _ = update(t, m, typesLoadedMsg{types: []inventory.Type{inventory.TypeServer}})

	m, _ = update(t, m, keyRunes("n"))
	m.Form.Focus = fieldIndex(form.FieldType)
	m.Form.syncFocus()

	seen := map[string]bool{}
	for range 2 * len(inventory.KnownTypes) {
		m.Form, _ = m.Form.Update(tea.KeyMsg{Type: tea.KeyRight})
		seen[m.Form.Controller.Values().Type] = true
	}
	for _, typ := range inventory.KnownTypes {
		if !seen[string(typ)] {
			t.Errorf("%s cannot be picked when creating a device", typ)
		}
	}

	// The filter still cycles through the stored types only
	m.Form = m.Form.Close()
	m, _ = update(t, m, keyRunes("t"))
	if m.State.Criteria.Type != inventory.TypeServer {
		t.Errorf("type filter = %q, want %q", m.State.Criteria.Type, inventory.TypeServer)
	}
}

func TestDashboard_SubmitValidationFailure(t *testing.T) {
	api := &fakeAPI{}
	m := loadedDashboard(t, api, 1)

	m, _ = update(t, m, keyRunes("n"))
	v := validValues()
	v.Name = ""
	m = fillForm(m, v)
	m.Form.Submitting = true

	msg := submitCmd(context.Background(), api, m.Form.Controller)()
	m, _ = update(t, m, msg)

	if len(api.created) != 0 {
		t.Error("nothing should be sent when validation fails")
	}
	if !m.Form.IsOpen() || m.Form.Submitting {
		t.Fatal("form should stay open and accept input")
	}
	if fe := m.Form.Controller.Err(); fe == nil || fe.Field != string(form.FieldName) {
		t.Errorf("field error = %v, want name", fe)
	}
	if m.Notice.Text != "" {
		t.Errorf("validation failures stay in the form, got notice %q", m.Notice.Text)
	}
	if !strings.Contains(m.View(), "is required") {
		t.Error("form view should show the field message")
	}
}

func TestDashboard_SubmitServerFailure(t *testing.T) {
	api := &fakeAPI{createErr: gateway.NewAPIError(409, "device code already exists")}
	m := loadedDashboard(t, api, 1)

	m, _ = update(t, m, keyRunes("n"))
	m = fillForm(m, validValues())
	msg := submitCmd(context.Background(), api, m.Form.Controller)()
	m, _ = update(t, m, msg)

	if !m.Form.IsOpen() {
		t.Fatal("form should stay open after a server failure")
	}
	if m.Form.ServerError != "device code already exists" {
		t.Errorf("ServerError = %q", m.Form.ServerError)
	}
	if !m.Notice.IsErr || m.Notice.Text != "device code already exists" {
		t.Errorf("Notice = %+v", m.Notice)
	}
}

func TestDashboard_DeleteConfirm(t *testing.T) {
	api := &fakeAPI{}
	m := loadedDashboard(t, api, 25)
	m, _ = update(t, m, keyRunes("l"))
	if m.State.Pager.Page != 2 {
		t.Fatalf("Page = %d, want 2", m.State.Pager.Page)
	}

	// Anything but y cancels
	m, _ = update(t, m, keyRunes("d"))
	if m.ConfirmDelete == nil {
		t.Fatal("d should ask for confirmation")
	}
	m, cmd := update(t, m, keyRunes("n"))
	if m.ConfirmDelete != nil || cmd != nil || m.Busy {
		t.Fatal("n should cancel without deleting")
	}

	m, _ = update(t, m, keyRunes("d"))
	target := m.ConfirmDelete.Code
	m, cmd = update(t, m, keyRunes("y"))
	if cmd == nil || !m.Busy {
		t.Fatal("y should start the delete")
	}

	msg := deleteCmd(context.Background(), api, target)()
	if len(api.deleted) != 1 || api.deleted[0] != target {
		t.Fatalf("deleted = %v, want [%s]", api.deleted, target)
	}
	m, cmd = update(t, m, msg)
	if cmd == nil {
		t.Fatal("a successful delete should refresh")
	}

	snap, _ := api.Refresh(context.Background())
	m, _ = update(t, m, refreshDoneMsg{seq: 1000, snapshot: snap})

	if m.State.Pager.Page != 1 {
		t.Errorf("Page = %d, want 1 after delete", m.State.Pager.Page)
	}
	if _, ok := m.State.Find(target); ok {
		t.Errorf("%s should be gone", target)
	}
	if m.Busy {
		t.Error("Busy should clear after the refresh")
	}
}

func TestDashboard_DeleteFailure(t *testing.T) {
	api := &fakeAPI{deleteErr: gateway.NewAPIError(500, "")}
	m := loadedDashboard(t, api, 3)
	m.Busy = true

	m, _ = update(t, m, deleteDoneMsg{code: "D001", err: api.deleteErr})

	if m.Busy {
		t.Error("Busy should clear")
	}
	if m.Notice.Text != "failed to delete device" {
		t.Errorf("Notice = %q", m.Notice.Text)
	}
	if len(m.State.Devices) != 3 {
		t.Error("a failed delete must not change the list")
	}
}

func TestDashboard_FilterKeys(t *testing.T) {
	m := loadedDashboard(t, &fakeAPI{}, 12)
	m.State.Devices[0].Type = inventory.TypeWorkstation
	m.State.ClearFilters()

	m, _ = update(t, m, keyRunes("t"))
	if m.State.Criteria.Type != inventory.TypeServer {
		t.Errorf("Type = %q, want first type option", m.State.Criteria.Type)
	}
	if len(m.State.Visible) != 11 {
		t.Errorf("got %d servers, want 11", len(m.State.Visible))
	}

	m, _ = update(t, m, keyRunes("p"))
	if m.State.Criteria.Department != "IT" {
		t.Errorf("Department = %q, want IT", m.State.Criteria.Department)
	}

	m, _ = update(t, m, keyRunes("c"))
	if !m.State.Criteria.IsEmpty() {
		t.Errorf("Criteria = %+v, want cleared", m.State.Criteria)
	}
}

func TestDashboard_Search(t *testing.T) {
	m := loadedDashboard(t, &fakeAPI{}, 12)

	m, _ = update(t, m, keyRunes("/"))
	if !m.Searching {
		t.Fatal("/ should start search")
	}
	m, _ = update(t, m, keyRunes("1"))
	m, _ = update(t, m, keyRunes("1"))

	if m.State.Criteria.Keyword != "11" {
		t.Errorf("Keyword = %q, want 11", m.State.Criteria.Keyword)
	}
	if len(m.State.Visible) != 1 || m.State.Visible[0].Code != "D011" {
		t.Errorf("Visible = %v", m.State.Visible)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Searching || m.State.Criteria.Keyword != "" {
		t.Error("esc should leave search and clear the keyword")
	}
}

func TestDashboard_SortAndPaging(t *testing.T) {
	m := loadedDashboard(t, &fakeAPI{}, 25)

	m, _ = update(t, m, keyRunes("1"))
	m, _ = update(t, m, keyRunes("1"))
	if m.State.Sort.Column != listview.ColumnCode || m.State.Sort.Order != listview.OrderDesc {
		t.Errorf("Sort = %+v, want code descending", m.State.Sort)
	}
	if rows := m.State.PageRows(); rows[0].Code != "D025" {
		t.Errorf("first row = %s, want D025", rows[0].Code)
	}

	m, _ = update(t, m, keyRunes("+"))
	if m.State.Pager.PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", m.State.Pager.PageSize)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.State.Pager.Page != 2 {
		t.Errorf("Page = %d, want 2 (last page)", m.State.Pager.Page)
	}
}

func TestDashboard_CursorStaysOnPage(t *testing.T) {
	m := loadedDashboard(t, &fakeAPI{}, 3)

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", m.Cursor)
	}
	d, ok := m.SelectedDevice()
	if !ok || d.Code != "D003" {
		t.Errorf("SelectedDevice() = %v, %v", d.Code, ok)
	}
}

func TestDashboard_HelpModal(t *testing.T) {
	m := loadedDashboard(t, &fakeAPI{}, 1)

	m, _ = update(t, m, keyRunes("?"))
	if !m.ShowingHelp {
		t.Fatal("? should open help")
	}
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help view missing title")
	}

	m, _ = update(t, m, keyRunes("x"))
	if m.ShowingHelp {
		t.Error("any key should close help")
	}
}

func TestDashboard_NoticeExpires(t *testing.T) {
	m := loadedDashboard(t, &fakeAPI{}, 1)
	m, _ = update(t, m, deleteDoneMsg{code: "D001", err: gateway.NewAPIError(500, "")})
	first := m.noticeID

	// A newer notice survives the older timer
	m, _ = update(t, m, deleteDoneMsg{code: "D001", err: gateway.NewAPIError(500, "locked")})
	m, _ = update(t, m, clearNoticeMsg{id: first})
	if m.Notice.Text != "locked" {
		t.Errorf("Notice = %q, want the newer notice kept", m.Notice.Text)
	}

	m, _ = update(t, m, clearNoticeMsg{id: m.noticeID})
	if m.Notice.Text != "" {
		t.Errorf("Notice = %q, want cleared", m.Notice.Text)
	}
}
