package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/devinv/internal/gateway"
	"github.com/muurk/devinv/internal/inventory"
	"github.com/muurk/devinv/internal/listview"
)

func TestHintItems(t *testing.T) {
	tests := []struct {
		name string
		hint string
		want []string
	}{
		{
			name: "bulleted hint",
			hint: "The inventory API refused the connection.\nTroubleshooting:\n  • Start the backend service\n  • Verify the port",
			want: []string{"The inventory API refused the connection.", "Start the backend service", "Verify the port"},
		},
		{
			name: "single line",
			hint: "Fill in every required field and try again.",
			want: []string{"Fill in every required field and try again."},
		},
		{
			name: "empty",
			hint: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HintItems(tt.hint)
			if len(got) != len(tt.want) {
				t.Fatalf("HintItems() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("item %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFailureResult(t *testing.T) {
	err := gateway.NewAPIError(404, "device not found")
	out := NewFailureResult("Could not load device", err).SetWidth(100).Render()

	for _, want := range []string{"FAILED", "Could not load device", "device not found", "devinv"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
}

func TestFailureResult_PlainError(t *testing.T) {
	r := NewFailureResult("Could not read flags", errors.New("bad flag"))

	if r.Message != "bad flag" {
		t.Errorf("Message = %q, want bad flag", r.Message)
	}
	if len(r.Troubleshooting) != 1 {
		t.Errorf("Troubleshooting = %q, want the generic tip", r.Troubleshooting)
	}
}

func TestSuccessResult_DetailsInOrder(t *testing.T) {
	out := NewSuccessResult("Device added",
		Param{Key: "Code", Value: "D001"},
		Param{Key: "Name", Value: "web-1"},
	).SetWidth(80).Render()

	code := strings.Index(out, "D001")
	name := strings.Index(out, "web-1")
	if code < 0 || name < 0 || code > name {
		t.Errorf("details out of order:\n%s", out)
	}
}

func TestHeader_ParamsInOrder(t *testing.T) {
	out := NewHeader("Device Inventory", "devinv list",
		Param{Key: "API", Value: "http://localhost:8080/api"},
		Param{Key: "Filters", Value: "type 服务器"},
	).SetWidth(90).Render()

	if !strings.Contains(out, "DEVICE INVENTORY") {
		t.Error("title should be upper-cased")
	}
	api := strings.Index(out, "localhost:8080")
	filters := strings.Index(out, "服务器")
	if api < 0 || filters < 0 || api > filters {
		t.Errorf("params out of order:\n%s", out)
	}
}

func TestDeviceTable(t *testing.T) {
	rows := []inventory.Device{
		{Code: "D011", Name: "db-1", Type: inventory.TypeServer, Status: inventory.StatusUnderRepair, DepartmentCode: "IT"},
		{Code: "D012", Name: "db-2", Type: inventory.TypeServer, Status: inventory.StatusRunning, DepartmentCode: "HR"},
	}

	out := DeviceTable{
		Rows:  rows,
		Pager: listview.Pager{Page: 2, PageSize: 10},
		Total: 12,
		Sort:  listview.Sort{Column: listview.ColumnCode, Order: listview.OrderAsc},
		Department: func(code string) string {
			if code == "IT" {
				return "信息部"
			}
			return code
		},
		Width: 120,
	}.Render()

	for _, want := range []string{"D011", "db-2", "信息部", "HR", "11", "Code▲", listview.TotalLabel(12), "page 2/2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
}

func TestDeviceTable_Empty(t *testing.T) {
	out := DeviceTable{Pager: listview.NewPager()}.Render()

	if !strings.Contains(out, "No devices") || !strings.Contains(out, listview.TotalLabel(0)) {
		t.Errorf("Render() = %q", out)
	}
}

func TestRenderDevice(t *testing.T) {
	d := inventory.Device{
		Code:       "D001",
		Name:       "web-1",
		Type:       inventory.TypeServer,
		Status:     inventory.StatusInUse,
		Department: &inventory.Department{Code: "IT", Name: "信息部"},
	}

	out := RenderDevice(d, nil)
	for _, want := range []string{"web-1", "D001", "信息部 (IT)", string(inventory.StatusInUse)} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDevice() missing %q:\n%s", want, out)
		}
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm(&out, strings.NewReader(tt.input), "DELETE DEVICE", []string{"D001 will be removed"})
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "D001 will be removed") {
				t.Error("warning should be printed before the prompt")
			}
		})
	}
}
