// Package filter narrows a device list by keyword, type, status and
// department.
//
// Apply is pure: it never mutates its input and returns devices in their
// original order. Callers that page through the result must reset to the
// first page whenever the criteria change; the dashboard state does this.
package filter

import (
	"fmt"
	"strings"

	"github.com/muurk/devinv/internal/inventory"
)

// Criteria is the set of active filters. Empty fields match everything.
type Criteria struct {
	// Keyword is matched case-insensitively against name and code
	Keyword string
	Type    inventory.Type
	Status  inventory.Status

	// Department matches a department code or a department name
	Department string
}

// IsEmpty reports whether no filter is active.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Keyword) == "" &&
		c.Type == "" &&
		c.Status == "" &&
		c.Department == ""
}

// Active summarises the active filters, e.g. `keyword "web", type 服务器`.
// It returns an empty string when no filter is set.
func (c Criteria) Active() string {
	var parts []string
	if kw := strings.TrimSpace(c.Keyword); kw != "" {
		parts = append(parts, fmt.Sprintf("keyword %q", kw))
	}
	if c.Type != "" {
		parts = append(parts, "type "+string(c.Type))
	}
	if c.Status != "" {
		parts = append(parts, "status "+string(c.Status))
	}
	if c.Department != "" {
		parts = append(parts, "department "+c.Department)
	}
	return strings.Join(parts, ", ")
}

// Apply returns the devices matching every active criterion. With no
// active criteria the input slice itself is returned. When nothing
// matches the result is empty but never nil.
func Apply(devices []inventory.Device, c Criteria) []inventory.Device {
	if c.IsEmpty() {
		return devices
	}

	keyword := strings.ToLower(strings.TrimSpace(c.Keyword))
	result := make([]inventory.Device, 0, len(devices))

	for _, d := range devices {
		if keyword != "" && !matchesKeyword(d, keyword) {
			continue
		}
		if c.Type != "" && d.Type != c.Type {
			continue
		}
		if c.Status != "" && d.Status != c.Status {
			continue
		}
		if c.Department != "" && !matchesDepartment(d, c.Department) {
			continue
		}
		result = append(result, d)
	}

	return result
}

// matchesKeyword expects keyword to be lower-cased already.
func matchesKeyword(d inventory.Device, keyword string) bool {
	return strings.Contains(strings.ToLower(d.Name), keyword) ||
		strings.Contains(strings.ToLower(d.Code), keyword)
}

func matchesDepartment(d inventory.Device, department string) bool {
	if d.ResolvedDepartmentCode() == department {
		return true
	}
	name := d.DepartmentName()
	return name != "" && name == department
}

// StatusOptions returns the distinct statuses present in devices, in the
// order they first appear.
func StatusOptions(devices []inventory.Device) []inventory.Status {
	seen := make(map[inventory.Status]bool)
	options := make([]inventory.Status, 0)

	for _, d := range devices {
		if d.Status == "" || seen[d.Status] {
			continue
		}
		seen[d.Status] = true
		options = append(options, d.Status)
	}
	return options
}

// TypeOptions returns the distinct types present in devices, in the order
// they first appear. It backs the type picker when the backend's
// /device-types list is unavailable.
func TypeOptions(devices []inventory.Device) []inventory.Type {
	seen := make(map[inventory.Type]bool)
	options := make([]inventory.Type, 0)

	for _, d := range devices {
		if d.Type == "" || seen[d.Type] {
			continue
		}
		seen[d.Type] = true
		options = append(options, d.Type)
	}
	return options
}
