// Package inventory defines the records exchanged with the inventory API.
package inventory

import (
	"strings"
	"time"
)

// Type is a device category as stored by the backend.
type Type string

const (
	TypeServer          Type = "服务器"
	TypeNetworkDevice   Type = "网络设备"
	TypeWorkstation     Type = "工作站"
	TypeOfficeEquipment Type = "办公设备"
)

// KnownTypes lists the categories offered when creating a device.
var KnownTypes = []Type{TypeServer, TypeNetworkDevice, TypeWorkstation, TypeOfficeEquipment}

// Status is a device lifecycle state as stored by the backend.
type Status string

const (
	StatusInUse           Status = "使用中"
	StatusIdle            Status = "闲置"
	StatusUnderRepair     Status = "维修中"
	StatusPendingPurchase Status = "待采购"
	StatusRetired         Status = "报废"

	// StatusRunning is a legacy value still present on old records. It is
	// displayed and accepted on write but never offered in pickers.
	StatusRunning Status = "运行中"
)

// DefaultStatus is preselected for new devices.
const DefaultStatus = StatusInUse

// SelectableStatuses are the statuses a user may assign.
var SelectableStatuses = []Status{
	StatusInUse,
	StatusIdle,
	StatusUnderRepair,
	StatusPendingPurchase,
	StatusRetired,
}

// typeLabels and statusLabels give English names for help text and JSON
// consumers that cannot read the stored values.
var typeLabels = map[Type]string{
	TypeServer:          "server",
	TypeNetworkDevice:   "network device",
	TypeWorkstation:     "workstation",
	TypeOfficeEquipment: "office equipment",
}

var statusLabels = map[Status]string{
	StatusInUse:           "in use",
	StatusIdle:            "idle",
	StatusUnderRepair:     "under repair",
	StatusPendingPurchase: "pending purchase",
	StatusRetired:         "retired",
	StatusRunning:         "running",
}

// Label returns an English description, or the raw value when unknown.
func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// IsKnown reports whether t is one of KnownTypes.
func (t Type) IsKnown() bool {
	_, ok := typeLabels[t]
	return ok
}

// Label returns an English description, or the raw value when unknown.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// IsKnown reports whether s is one of the six recognised statuses,
// including the legacy running value.
func (s Status) IsKnown() bool {
	_, ok := statusLabels[s]
	return ok
}

// Department is an organisational unit referenced by devices.
type Department struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Device is an inventoried asset. Code is the natural key and never
// changes after creation.
type Device struct {
	Code           string      `json:"code"`
	Name           string      `json:"name"`
	Type           Type        `json:"type"`
	Status         Status      `json:"status"`
	Location       string      `json:"location"`
	Owner          string      `json:"owner"`
	DepartmentCode string      `json:"department_code"`
	Department     *Department `json:"department,omitempty"`
	CreatedAt      time.Time   `json:"created_at,omitzero"`
	UpdatedAt      time.Time   `json:"updated_at,omitzero"`
}

// DepartmentName returns the nested department name, or an empty string
// when the backend did not embed one.
func (d Device) DepartmentName() string {
	if d.Department == nil {
		return ""
	}
	return d.Department.Name
}

// ResolvedDepartmentCode prefers DepartmentCode and falls back to the
// nested department's code.
func (d Device) ResolvedDepartmentCode() string {
	if d.DepartmentCode != "" {
		return d.DepartmentCode
	}
	if d.Department != nil {
		return d.Department.Code
	}
	return ""
}

// DeviceWrite is the body of create and update requests.
type DeviceWrite struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Type           Type   `json:"type"`
	Status         Status `json:"status"`
	Location       string `json:"location"`
	Owner          string `json:"owner"`
	DepartmentCode string `json:"department_code"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (w DeviceWrite) Trimmed() DeviceWrite {
	return DeviceWrite{
		Code:           strings.TrimSpace(w.Code),
		Name:           strings.TrimSpace(w.Name),
		Type:           Type(strings.TrimSpace(string(w.Type))),
		Status:         Status(strings.TrimSpace(string(w.Status))),
		Location:       strings.TrimSpace(w.Location),
		Owner:          strings.TrimSpace(w.Owner),
		DepartmentCode: strings.TrimSpace(w.DepartmentCode),
	}
}
