package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/devinv/internal/form"
	"github.com/muurk/devinv/internal/gateway"
	"github.com/muurk/devinv/internal/inventory"
)

var testDepartments = []inventory.Department{
	{Code: "IT", Name: "信息部"},
	{Code: "HR", Name: "人事部"},
}

func openForm(mode form.Mode, values form.Values) FormModel {
	return NewFormModel().Open(mode, values, testDepartments)
}

func TestFormModel_OpenFocus(t *testing.T) {
	tests := []struct {
		name  string
		mode  form.Mode
		focus form.Field
	}{
		{"create starts on code", form.Create(), form.FieldCode},
		{"edit skips the locked code", form.Edit("D001"), form.FieldName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := openForm(tt.mode, form.Values{Name: "web-1"})
			if got := m.focusedField(); got != tt.focus {
				t.Errorf("focused field = %q, want %q", got, tt.focus)
			}
		})
	}
}

func TestFormModel_CreateDefaultsStatus(t *testing.T) {
	m := openForm(form.Create(), form.Values{})
	if got := m.Controller.Values().Status; got != string(inventory.DefaultStatus) {
		t.Errorf("Status = %q, want %q", got, inventory.DefaultStatus)
	}
}

func TestFormModel_TypingUpdatesController(t *testing.T) {
	m := openForm(form.Create(), form.Values{})

	m, _ = m.Update(keyRunes("D9"))
	if got := m.Controller.Values().Code; got != "D9" {
		t.Errorf("Code = %q, want D9", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(keyRunes("db"))
	if got := m.Controller.Values().Name; got != "db" {
		t.Errorf("Name = %q, want db", got)
	}
}

func TestFormModel_PickerCycles(t *testing.T) {
	m := openForm(form.Create(), form.Values{})
	m.Focus = fieldIndex(form.FieldType)
	m.syncFocus()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.Controller.Values().Type; got != string(inventory.TypeServer) {
		t.Errorf("Type = %q, want first option", got)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.Controller.Values().Type; got != string(inventory.TypeNetworkDevice) {
		t.Errorf("Type = %q, want second option", got)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.Controller.Values().Type; got != string(inventory.TypeOfficeEquipment) {
		t.Errorf("Type = %q, want wrap to last option", got)
	}

	m.Focus = fieldIndex(form.FieldDepartment)
	m.syncFocus()
	m, _ = m.Update(keyRunes(" "))
	if got := m.Controller.Values().Department; got != "IT" {
		t.Errorf("Department = %q, want IT", got)
	}
}

func TestFormModel_StatusPickerNeverOffersLegacy(t *testing.T) {
	m := openForm(form.Create(), form.Values{})
	m.Focus = fieldIndex(form.FieldStatus)

	seen := map[string]bool{}
	for range inventory.SelectableStatuses {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
		seen[m.Controller.Values().Status] = true
	}
	if seen[string(inventory.StatusRunning)] {
		t.Error("legacy status offered by the picker")
	}
	if len(seen) != len(inventory.SelectableStatuses) {
		t.Errorf("cycled through %d statuses, want %d", len(seen), len(inventory.SelectableStatuses))
	}
}

func TestFormModel_Navigation(t *testing.T) {
	m := openForm(form.Edit("D001"), form.Values{})

	// Shift+tab from the first editable field wraps past the locked code
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.focusedField(); got != form.FieldDepartment {
		t.Errorf("focused field = %q, want department", got)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := m.focusedField(); got != form.FieldName {
		t.Errorf("focused field = %q, want name", got)
	}
}

func TestFormModel_EditIgnoresCode(t *testing.T) {
	m := openForm(form.Edit("D001"), form.Values{Code: "D001"})
	m.Focus = fieldIndex(form.FieldCode)

	m, _ = m.Update(keyRunes("X"))
	if got := m.Controller.Values().Code; got != "D001" {
		t.Errorf("Code = %q, want D001", got)
	}
}

func TestFormModel_SubmitAndCancel(t *testing.T) {
	m := openForm(form.Create(), form.Values{})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.SubmitRequested {
		t.Error("enter should request a submit")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.IsOpen() {
		t.Error("esc should close the form")
	}
	if m.Controller.Values() != (form.Values{}) {
		t.Error("closing should discard the values")
	}
}

func TestFormModel_ViewModeIsReadOnly(t *testing.T) {
	m := openForm(form.View("D001"), form.Values{Code: "D001", Name: "web-1"})

	m, _ = m.Update(keyRunes("x"))
	if got := m.Controller.Values().Name; got != "web-1" {
		t.Errorf("Name = %q, read-only form changed", got)
	}

	m, _ = m.Update(keyRunes("q"))
	if m.IsOpen() {
		t.Error("q should close a read-only form")
	}
}

func TestFormModel_SubmittingBlocksInput(t *testing.T) {
	m := openForm(form.Create(), form.Values{})
	m.Submitting = true

	m, _ = m.Update(keyRunes("abc"))
	if got := m.Controller.Values().Code; got != "" {
		t.Errorf("Code = %q, input should be ignored while saving", got)
	}
}

func TestFormModel_ApplySubmitFocusesFieldError(t *testing.T) {
	m := openForm(form.Create(), form.Values{})

	c := m.Controller
	c.Set(form.FieldCode, "D1")
	_, err := c.Submit(t.Context(), nil)
	if !gateway.IsValidationError(err) {
		t.Fatalf("Submit() error = %v, want validation error", err)
	}

	m = m.ApplySubmit(c, "", err)
	if got := m.focusedField(); got != form.FieldName {
		t.Errorf("focused field = %q, want name", got)
	}
	if m.ServerError != "" {
		t.Errorf("ServerError = %q, field errors stay inline", m.ServerError)
	}
}

func TestFormModel_DepartmentLabel(t *testing.T) {
	m := openForm(form.Create(), form.Values{})

	if got := m.departmentLabel("HR"); got != "人事部 (HR)" {
		t.Errorf("departmentLabel(HR) = %q", got)
	}
	if got := m.departmentLabel("OPS"); got != "OPS" {
		t.Errorf("departmentLabel(OPS) = %q, unknown codes show as is", got)
	}
}
