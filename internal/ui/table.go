package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/devinv/internal/inventory"
	"github.com/muurk/devinv/internal/listview"
)

// DeviceTable is one page of devices ready to print.
type DeviceTable struct {
	Rows  []inventory.Device
	Pager listview.Pager
	Total int // matching devices across all pages
	Sort  listview.Sort

	// Department resolves a department code to a display name. Optional.
	Department func(code string) string

	Width int
}

const statusColumn = 4

// Render draws the table followed by the total/page footer.
func (t DeviceTable) Render() string {
	footer := FooterStyle.Render(fmt.Sprintf("%s   page %d/%d   %d per page",
		listview.TotalLabel(t.Total), t.Pager.Page, t.Pager.PageCount(t.Total), t.Pager.PageSize))

	if len(t.Rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, FooterStyle.Render("  No devices"), footer)
	}

	headers := []string{"#"}
	for _, c := range listview.Columns {
		headers = append(headers, c.String()+t.Sort.Indicator(c))
	}

	data := make([][]string, 0, len(t.Rows))
	for i, d := range t.Rows {
		data = append(data, []string{
			strconv.Itoa(listview.RowIndex(t.Pager, i)),
			d.Code,
			d.Name,
			string(d.Type),
			string(d.Status),
			d.Location,
			d.Owner,
			t.departmentOf(d),
		})
	}

	rows := t.Rows
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == statusColumn && row >= 0 && row < len(rows) {
				return TableCellStyle.Foreground(lipgloss.Color(listview.StatusTag(rows[row].Status).Hex))
			}
			return TableCellStyle
		})
	if t.Width > 0 {
		tbl = tbl.Width(t.Width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, tbl.Render(), footer)
}

func (t DeviceTable) departmentOf(d inventory.Device) string {
	if name := d.DepartmentName(); name != "" {
		return name
	}
	code := d.ResolvedDepartmentCode()
	if t.Department != nil {
		return t.Department(code)
	}
	return code
}

// RenderDevice prints one device as a result box of its fields.
func RenderDevice(d inventory.Device, department func(code string) string) string {
	dept := d.DepartmentName()
	code := d.ResolvedDepartmentCode()
	if dept == "" && department != nil {
		dept = department(code)
	}
	if dept != "" && dept != code {
		dept = fmt.Sprintf("%s (%s)", dept, code)
	} else {
		dept = code
	}

	tag := listview.StatusTag(d.Status)
	status := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Hex)).Render(tag.Text)

	r := NewInfoResult(d.Name,
		Param{Key: "Code", Value: d.Code},
		Param{Key: "Type", Value: string(d.Type)},
		Param{Key: "Status", Value: status},
		Param{Key: "Location", Value: d.Location},
		Param{Key: "Owner", Value: d.Owner},
		Param{Key: "Department", Value: dept},
	)
	if !d.CreatedAt.IsZero() {
		r.AddDetail("Created", d.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	if !d.UpdatedAt.IsZero() {
		r.AddDetail("Updated", d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return r.Render()
}
