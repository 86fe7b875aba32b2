// Package form implements the device create/edit/view dialog independent
// of any rendering.
//
// A Controller starts closed. Open moves it into one of three modes:
//
//	Create()      empty form, status preset to 使用中, submits POST /devices
//	Edit(code)    prefilled, code locked, submits PUT /devices/{code}
//	View(code)    prefilled, read-only, submit only closes
//
// Cancel or a successful Submit closes it again. Validation and server
// failures leave it open with the values intact.
package form

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/devinv/internal/gateway"
	"github.com/muurk/devinv/internal/inventory"
	"github.com/muurk/devinv/internal/logging"
)

// FallbackMessage is shown when a failed submit carries no server message.
const FallbackMessage = "operation failed"

// ErrClosed is returned by Submit when no form is open.
var ErrClosed = errors.New("form is not open")

// ModeKind identifies the dialog variant.
type ModeKind int

const (
	ModeClosed ModeKind = iota
	ModeCreate
	ModeEdit
	ModeView
)

// String returns the lowercase name of the mode
func (k ModeKind) String() string {
	switch k {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	case ModeView:
		return "view"
	default:
		return "closed"
	}
}

// Mode is the variant passed to Open. Edit and View carry the code of the
// device being shown.
type Mode struct {
	Kind ModeKind
	Code string
}

// Create returns the mode for adding a device.
func Create() Mode { return Mode{Kind: ModeCreate} }

// Edit returns the mode for changing the device with the given code.
func Edit(code string) Mode { return Mode{Kind: ModeEdit, Code: code} }

// View returns the read-only mode for the device with the given code.
func View(code string) Mode { return Mode{Kind: ModeView, Code: code} }

// Title is the dialog heading.
func (m Mode) Title() string {
	switch m.Kind {
	case ModeCreate:
		return "New device"
	case ModeEdit:
		return "Edit device"
	case ModeView:
		return "View device"
	default:
		return ""
	}
}

// ReadOnly reports whether every field is disabled.
func (m Mode) ReadOnly() bool { return m.Kind == ModeView }

// Field names a form input.
type Field string

const (
	FieldCode       Field = "code"
	FieldName       Field = "name"
	FieldType       Field = "type"
	FieldStatus     Field = "status"
	FieldLocation   Field = "location"
	FieldOwner      Field = "owner"
	FieldDepartment Field = "department"
)

// Fields lists the inputs in display order.
var Fields = []Field{FieldCode, FieldName, FieldType, FieldStatus, FieldLocation, FieldOwner, FieldDepartment}

// Label is the caption shown next to an input.
func (f Field) Label() string {
	switch f {
	case FieldCode:
		return "Code"
	case FieldName:
		return "Name"
	case FieldType:
		return "Type"
	case FieldStatus:
		return "Status"
	case FieldLocation:
		return "Location"
	case FieldOwner:
		return "Owner"
	case FieldDepartment:
		return "Department"
	default:
		return string(f)
	}
}

// Values holds the form inputs. Department is a department code.
type Values struct {
	Code       string `form:"code" validate:"required"`
	Name       string `form:"name" validate:"required"`
	Type       string `form:"type" validate:"required,device_type"`
	Status     string `form:"status" validate:"required,device_status"`
	Location   string `form:"location" validate:"required"`
	Owner      string `form:"owner" validate:"required"`
	Department string `form:"department" validate:"required"`
}

// FromDevice maps a device as returned by the API onto form fields. The
// department falls back to the nested department's code when
// department_code is absent.
func FromDevice(d inventory.Device) Values {
	return Values{
		Code:       d.Code,
		Name:       d.Name,
		Type:       string(d.Type),
		Status:     string(d.Status),
		Location:   d.Location,
		Owner:      d.Owner,
		Department: d.ResolvedDepartmentCode(),
	}
}

// Get returns the value of one field.
func (v Values) Get(f Field) string {
	switch f {
	case FieldCode:
		return v.Code
	case FieldName:
		return v.Name
	case FieldType:
		return v.Type
	case FieldStatus:
		return v.Status
	case FieldLocation:
		return v.Location
	case FieldOwner:
		return v.Owner
	case FieldDepartment:
		return v.Department
	default:
		return ""
	}
}

func (v *Values) set(f Field, value string) {
	switch f {
	case FieldCode:
		v.Code = value
	case FieldName:
		v.Name = value
	case FieldType:
		v.Type = value
	case FieldStatus:
		v.Status = value
	case FieldLocation:
		v.Location = value
	case FieldOwner:
		v.Owner = value
	case FieldDepartment:
		v.Department = value
	}
}

// Trimmed returns a copy with surrounding whitespace removed.
func (v Values) Trimmed() Values {
	return Values{
		Code:       strings.TrimSpace(v.Code),
		Name:       strings.TrimSpace(v.Name),
		Type:       strings.TrimSpace(v.Type),
		Status:     strings.TrimSpace(v.Status),
		Location:   strings.TrimSpace(v.Location),
		Owner:      strings.TrimSpace(v.Owner),
		Department: strings.TrimSpace(v.Department),
	}
}

// Payload maps form fields to the API write body.
func (v Values) Payload() inventory.DeviceWrite {
	return inventory.DeviceWrite{
		Code:           v.Code,
		Name:           v.Name,
		Type:           inventory.Type(v.Type),
		Status:         inventory.Status(v.Status),
		Location:       v.Location,
		Owner:          v.Owner,
		DepartmentCode: v.Department,
	}.Trimmed()
}

// Outcome tells the caller what happened after Submit.
type Outcome struct {
	// Refresh is set after a successful write; the caller should re-fetch
	// devices and stats.
	Refresh bool

	// Message is the notification to show.
	Message string
}

// Controller is the form state machine. The zero value is closed.
type Controller struct {
	mode   Mode
	values Values
	err    *gateway.Error
}

// Open shows the form in the given mode. In create mode an empty status
// is preset to the default. In edit and view mode the code is taken from
// the mode.
func (c *Controller) Open(mode Mode, values Values) {
	c.mode = mode
	c.values = values
	c.err = nil

	switch mode.Kind {
	case ModeCreate:
		if strings.TrimSpace(c.values.Status) == "" {
			c.values.Status = string(inventory.DefaultStatus)
		}
	case ModeEdit, ModeView:
		c.values.Code = mode.Code
	}
}

// Cancel closes the form and discards its values.
func (c *Controller) Cancel() {
	*c = Controller{}
}

// IsOpen reports whether the form is showing.
func (c *Controller) IsOpen() bool { return c.mode.Kind != ModeClosed }

// Mode returns the current mode; the zero Mode when closed.
func (c *Controller) Mode() Mode { return c.mode }

// Values returns the current inputs.
func (c *Controller) Values() Values { return c.values }

// Err returns the last validation or submit error, if any.
func (c *Controller) Err() *gateway.Error { return c.err }

// Editable reports whether a field accepts input in the current mode.
func (c *Controller) Editable(f Field) bool {
	switch c.mode.Kind {
	case ModeCreate:
		return true
	case ModeEdit:
		return f != FieldCode
	default:
		return false
	}
}

// Set changes a field and reports whether the change was accepted. Edits
// to the code in edit mode and any edit in view mode are ignored.
func (c *Controller) Set(f Field, value string) bool {
	if !c.Editable(f) {
		return false
	}
	c.values.set(f, value)
	if c.err != nil && c.err.Field == string(f) {
		c.err = nil
	}
	return true
}

// Submit validates the inputs and writes them through w. In view mode it
// only closes the form. On a validation failure nothing is sent. On a
// server failure the returned Outcome carries the server's message or
// FallbackMessage. Both failures leave the form open.
func (c *Controller) Submit(ctx context.Context, w gateway.DeviceWriter) (Outcome, error) {
	switch c.mode.Kind {
	case ModeClosed:
		return Outcome{}, ErrClosed
	case ModeView:
		c.Cancel()
		return Outcome{}, nil
	}

	if err := Validate(c.values); err != nil {
		errors.As(err, &c.err)
		return Outcome{Message: gateway.ShortMessage(err)}, err
	}

	payload := c.values.Payload()
	var (
		err     error
		message string
	)

	if c.mode.Kind == ModeEdit {
		payload.Code = c.mode.Code
		err = w.UpdateDevice(ctx, c.mode.Code, payload)
		message = "device updated"
	} else {
		err = w.CreateDevice(ctx, payload)
		message = "device added"
	}

	if err != nil {
		logging.Warn("Device submit failed",
			zap.String("mode", c.mode.Kind.String()),
			zap.String("code", payload.Code),
			zap.Error(err),
		)
		var gwErr *gateway.Error
		if errors.As(err, &gwErr) {
			c.err = gwErr
		}
		return Outcome{Message: gateway.ServerMessage(err, FallbackMessage)}, err
	}

	logging.LogUserAction("submit",
		zap.String("mode", c.mode.Kind.String()),
		zap.String("code", payload.Code),
	)
	c.Cancel()
	return Outcome{Refresh: true, Message: message}, nil
}
