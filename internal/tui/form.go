package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/devinv/internal/form"
	"github.com/muurk/devinv/internal/inventory"
	"github.com/muurk/devinv/internal/listview"
)

// formKeyMap defines key bindings for the device form modal
type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Option key.Binding
	Submit key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Option, k.Submit, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Option},
		{k.Submit, k.Cancel},
	}
}

// viewFormKeyMap is shown when the form is read-only
type viewFormKeyMap struct {
	Close key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k viewFormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Close}
}

// FullHelp returns keybindings for the expanded help view
func (k viewFormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Close}}
}

// pickerFields choose from a fixed option list instead of free text.
var pickerFields = map[form.Field]bool{
	form.FieldType:       true,
	form.FieldStatus:     true,
	form.FieldDepartment: true,
}

// FormModel is the create/edit/view dialog layered over the dashboard.
type FormModel struct {
	Controller form.Controller

	Inputs map[form.Field]textinput.Model
	Focus  int // index into form.Fields

	// Department picker options
	Departments []inventory.Department

	// Submitting blocks input while a write is in flight
	Submitting bool

	// ServerError is the last failed submit's message
	ServerError string

	// Navigation results, read and reset by the dashboard
	SubmitRequested bool

	Help     help.Model
	Keys     formKeyMap
	ViewKeys viewFormKeyMap
}

// NewFormModel creates a closed form.
func NewFormModel() FormModel {
	inputs := make(map[form.Field]textinput.Model)
	for _, f := range form.Fields {
		if pickerFields[f] {
			continue
		}
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		in.Width = 36
		in.Placeholder = strings.ToLower(f.Label())
		inputs[f] = in
	}

	return FormModel{
		Inputs: inputs,
		Help:   help.New(),
		Keys: formKeyMap{
			Next: key.NewBinding(
				key.WithKeys("tab", "down"),
				key.WithHelp("tab/↓", "next field"),
			),
			Prev: key.NewBinding(
				key.WithKeys("shift+tab", "up"),
				key.WithHelp("shift+tab/↑", "previous field"),
			),
			Option: key.NewBinding(
				key.WithKeys("left", "right"),
				key.WithHelp("←/→", "change option"),
			),
			Submit: key.NewBinding(
				key.WithKeys("enter", "ctrl+s"),
				key.WithHelp("enter", "save"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
		ViewKeys: viewFormKeyMap{
			Close: key.NewBinding(
				key.WithKeys("enter", "esc", "q"),
				key.WithHelp("enter/esc", "close"),
			),
		},
	}
}

// Open shows the dialog in mode with the given initial values. The type
// picker always offers every known type, whatever is stored so far.
func (m FormModel) Open(mode form.Mode, values form.Values, departments []inventory.Department) FormModel {
	m.Controller.Open(mode, values)
	m.Departments = departments
	m.Submitting = false
	m.ServerError = ""
	m.SubmitRequested = false

	current := m.Controller.Values()
	for f, in := range m.Inputs {
		in.SetValue(current.Get(f))
		in.Blur()
		m.Inputs[f] = in
	}

	m.Focus = 0
	if !m.Controller.Editable(form.Fields[0]) {
		m.Focus = m.nextEditable(0, 1)
	}
	m.syncFocus()
	return m
}

// Close discards the dialog.
func (m FormModel) Close() FormModel {
	m.Controller.Cancel()
	m.Submitting = false
	m.ServerError = ""
	m.SubmitRequested = false
	for f, in := range m.Inputs {
		in.Blur()
		in.SetValue("")
		m.Inputs[f] = in
	}
	return m
}

// IsOpen reports whether the dialog is showing.
func (m FormModel) IsOpen() bool {
	return m.Controller.IsOpen()
}

// Update handles keys while the dialog is open.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	if !m.IsOpen() || m.Submitting {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocusedInput(msg)
	}

	if m.Controller.Mode().ReadOnly() {
		// Confirm and cancel both only close a read-only form
		if key.Matches(keyMsg, m.ViewKeys.Close) {
			return m.Close(), nil
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Cancel):
		return m.Close(), nil

	case key.Matches(keyMsg, m.Keys.Submit):
		m.SubmitRequested = true
		return m, nil

	case key.Matches(keyMsg, m.Keys.Next):
		m.Focus = m.nextEditable(m.Focus, 1)
		m.syncFocus()
		return m, textinput.Blink

	case key.Matches(keyMsg, m.Keys.Prev):
		m.Focus = m.nextEditable(m.Focus, -1)
		m.syncFocus()
		return m, textinput.Blink
	}

	field := m.focusedField()
	if pickerFields[field] {
		switch keyMsg.String() {
		case "right", "l", " ":
			m.Controller.Set(field, m.cycleOption(field, 1))
		case "left", "h":
			m.Controller.Set(field, m.cycleOption(field, -1))
		}
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

// updateFocusedInput passes msg to the focused text input and copies its
// value into the controller.
func (m FormModel) updateFocusedInput(msg tea.Msg) (FormModel, tea.Cmd) {
	field := m.focusedField()
	in, ok := m.Inputs[field]
	if !ok || !m.Controller.Editable(field) {
		return m, nil
	}

	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.Inputs[field] = in
	m.Controller.Set(field, in.Value())
	return m, cmd
}

// ApplySubmit installs the controller returned by an asynchronous submit.
func (m FormModel) ApplySubmit(c form.Controller, message string, err error) FormModel {
	m.Submitting = false
	m.Controller = c
	if !c.IsOpen() {
		return m.Close()
	}
	m.ServerError = ""
	if fe := c.Err(); fe != nil && fe.Field != "" {
		m.Focus = fieldIndex(form.Field(fe.Field))
		m.syncFocus()
		return m
	}
	if err != nil {
		m.ServerError = message
	}
	return m
}

func (m FormModel) focusedField() form.Field {
	if m.Focus < 0 || m.Focus >= len(form.Fields) {
		return ""
	}
	return form.Fields[m.Focus]
}

// nextEditable steps from i in direction dir to the next field the current
// mode allows editing, wrapping around. It returns i when none is editable.
func (m FormModel) nextEditable(i, dir int) int {
	n := len(form.Fields)
	for step := 1; step <= n; step++ {
		j := ((i+dir*step)%n + n) % n
		if m.Controller.Editable(form.Fields[j]) {
			return j
		}
	}
	return i
}

func (m *FormModel) syncFocus() {
	focused := m.focusedField()
	for f, in := range m.Inputs {
		if f == focused && m.Controller.Editable(f) {
			in.Focus()
		} else {
			in.Blur()
		}
		m.Inputs[f] = in
	}
}

// options returns the picker values for field.
func (m FormModel) options(field form.Field) []string {
	var values []string
	switch field {
	case form.FieldType:
		for _, t := range inventory.KnownTypes {
			values = append(values, string(t))
		}
	case form.FieldStatus:
		for _, s := range inventory.SelectableStatuses {
			values = append(values, string(s))
		}
	case form.FieldDepartment:
		for _, d := range m.Departments {
			values = append(values, d.Code)
		}
	}
	return values
}

// cycleOption returns the option dir steps from the field's current value.
// A value not in the list moves to the first (or last) option.
func (m FormModel) cycleOption(field form.Field, dir int) string {
	opts := m.options(field)
	if len(opts) == 0 {
		return m.Controller.Values().Get(field)
	}
	current := m.Controller.Values().Get(field)
	for i, o := range opts {
		if o == current {
			return opts[((i+dir)%len(opts)+len(opts))%len(opts)]
		}
	}
	if dir < 0 {
		return opts[len(opts)-1]
	}
	return opts[0]
}

func fieldIndex(f form.Field) int {
	for i, candidate := range form.Fields {
		if candidate == f {
			return i
		}
	}
	return 0
}

// departmentLabel shows "name (code)" when the code is known.
func (m FormModel) departmentLabel(code string) string {
	for _, d := range m.Departments {
		if d.Code == code {
			return fmt.Sprintf("%s (%s)", d.Name, d.Code)
		}
	}
	return code
}

// View renders the dialog box, without the backdrop.
func (m FormModel) View(spinnerView string, terminalWidth int) string {
	mode := m.Controller.Mode()
	values := m.Controller.Values()
	fieldErr := m.Controller.Err()

	rows := []string{RenderTitle(mode.Title()), ""}
	labelStyle := lipgloss.NewStyle().Width(12).Foreground(SubtleColor)

	for i, f := range form.Fields {
		focused := i == m.Focus && !mode.ReadOnly()
		editable := m.Controller.Editable(f)

		label := labelStyle.Render(f.Label())
		if focused {
			label = labelStyle.Foreground(HighlightColor).Bold(true).Render(f.Label())
		}

		var value string
		switch {
		case pickerFields[f]:
			shown := values.Get(f)
			if f == form.FieldDepartment {
				shown = m.departmentLabel(shown)
			}
			if f == form.FieldStatus && shown != "" {
				shown = RenderStatus(listview.StatusTag(inventory.Status(shown)))
			}
			if shown == "" {
				shown = LabelStyle.Render("select…")
			}
			if editable {
				value = "‹ " + shown + " ›"
			} else {
				value = DisabledInputStyle.Render(shown)
			}
		case focused && editable:
			value = m.Inputs[f].View()
		case editable:
			value = values.Get(f)
		default:
			value = DisabledInputStyle.Render(values.Get(f))
		}

		arrow := "  "
		if focused {
			arrow = FocusedInputStyle.Render("→ ")
		}
		rows = append(rows, arrow+label+value)

		if fieldErr != nil && fieldErr.Field == string(f) {
			rows = append(rows, "  "+lipgloss.NewStyle().PaddingLeft(12).Render(ErrorStyle.Render(fieldErr.Message)))
		}
	}

	rows = append(rows, "")
	switch {
	case m.Submitting:
		rows = append(rows, spinnerView+" Saving…")
	case m.ServerError != "":
		rows = append(rows, RenderError(m.ServerError))
	}

	if mode.ReadOnly() {
		rows = append(rows, m.Help.View(m.ViewKeys))
	} else {
		rows = append(rows, m.Help.View(m.Keys))
	}

	return modalBox(PrimaryColor, FormModalWidth, terminalWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
