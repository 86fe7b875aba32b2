package listview

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/muurk/devinv/internal/inventory"
)

// Column is a sortable table column.
type Column int

const (
	ColumnNone Column = iota
	ColumnCode
	ColumnName
	ColumnType
	ColumnStatus
	ColumnLocation
	ColumnOwner
	ColumnDepartment
)

// Columns lists the sortable columns in table order.
var Columns = []Column{ColumnCode, ColumnName, ColumnType, ColumnStatus, ColumnLocation, ColumnOwner, ColumnDepartment}

// String returns the column heading
func (c Column) String() string {
	switch c {
	case ColumnCode:
		return "Code"
	case ColumnName:
		return "Name"
	case ColumnType:
		return "Type"
	case ColumnStatus:
		return "Status"
	case ColumnLocation:
		return "Location"
	case ColumnOwner:
		return "Owner"
	case ColumnDepartment:
		return "Department"
	default:
		return ""
	}
}

// ParseColumn resolves a column name as used by --sort. Matching is
// case-insensitive.
func ParseColumn(name string) (Column, error) {
	for _, c := range Columns {
		if strings.EqualFold(c.String(), strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return ColumnNone, fmt.Errorf("unknown column %q", name)
}

// Order is a sort direction.
type Order int

const (
	OrderNone Order = iota
	OrderAsc
	OrderDesc
)

// Sort is the active table ordering. The zero value keeps backend order.
type Sort struct {
	Column Column
	Order  Order
}

// IsActive reports whether rows are reordered.
func (s Sort) IsActive() bool {
	return s.Column != ColumnNone && s.Order != OrderNone
}

// Toggle cycles the ordering for a column header: a new column starts
// ascending, then the same column goes descending, then back to none.
func (s Sort) Toggle(c Column) Sort {
	if c != s.Column || s.Order == OrderNone {
		return Sort{Column: c, Order: OrderAsc}
	}
	if s.Order == OrderAsc {
		return Sort{Column: c, Order: OrderDesc}
	}
	return Sort{}
}

// Indicator is the arrow drawn after a sorted column heading.
func (s Sort) Indicator(c Column) string {
	if s.Column != c {
		return ""
	}
	switch s.Order {
	case OrderAsc:
		return "▲"
	case OrderDesc:
		return "▼"
	default:
		return ""
	}
}

func sortKey(d inventory.Device, c Column) string {
	switch c {
	case ColumnCode:
		return d.Code
	case ColumnName:
		return d.Name
	case ColumnType:
		return string(d.Type)
	case ColumnStatus:
		return string(d.Status)
	case ColumnLocation:
		return d.Location
	case ColumnOwner:
		return d.Owner
	case ColumnDepartment:
		if name := d.DepartmentName(); name != "" {
			return name
		}
		return d.ResolvedDepartmentCode()
	default:
		return ""
	}
}

// Apply returns devices ordered by s. Chinese text is compared by pinyin.
// The input is never modified; an inactive Sort returns it as is.
func (s Sort) Apply(devices []inventory.Device) []inventory.Device {
	if !s.IsActive() {
		return devices
	}

	// Collators keep internal buffers and are not safe to share
	col := collate.New(language.Chinese, collate.IgnoreCase, collate.Numeric)

	sorted := slices.Clone(devices)
	slices.SortStableFunc(sorted, func(a, b inventory.Device) int {
		cmp := col.CompareString(sortKey(a, s.Column), sortKey(b, s.Column))
		if s.Order == OrderDesc {
			return -cmp
		}
		return cmp
	})
	return sorted
}
