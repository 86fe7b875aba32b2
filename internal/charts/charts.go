// Package charts turns a stats snapshot into chart descriptions: a status
// pie, a type bar chart and the four overview counters.
//
// The descriptions are plain data. EChartsOption exports them in the
// option format of the ECharts library for web front ends, and the
// Render functions draw them in a terminal.
package charts

import (
	"math"

	"github.com/muurk/devinv/internal/inventory"
)

// Gradient is a top-to-bottom two-stop colour fill.
type Gradient struct {
	From string
	To   string
}

// DefaultGradient fills statuses without a fixed colour.
var DefaultGradient = Gradient{From: "#FF3B30", To: "#D63129"}

// BarGradient and BarEmphasisGradient fill the type bars.
var (
	BarGradient         = Gradient{From: "#6CB2FF", To: "#4B91F7"}
	BarEmphasisGradient = Gradient{From: "#89C2FF", To: "#6BA6F8"}
)

var statusGradients = map[inventory.Status]Gradient{
	inventory.StatusRunning:         {From: "#34C759", To: "#30AF55"},
	inventory.StatusUnderRepair:     {From: "#FF9500", To: "#E68600"},
	inventory.StatusRetired:         {From: "#8E8E93", To: "#636366"},
	inventory.StatusIdle:            {From: "#007AFF", To: "#0066D6"},
	inventory.StatusPendingPurchase: {From: "#5856D6", To: "#4A49B3"},
	inventory.StatusInUse:           {From: "#95de64", To: "#b7eb8f"},
}

// StatusGradient returns the fill for a status, DefaultGradient when the
// status has none.
func StatusGradient(s inventory.Status) Gradient {
	if g, ok := statusGradients[s]; ok {
		return g
	}
	return DefaultGradient
}

// Slice is one pie segment.
type Slice struct {
	Name  string
	Value int
	Fill  Gradient
}

// PieChart shows the status distribution.
type PieChart struct {
	Slices []Slice
}

// Total sums every slice.
func (p PieChart) Total() int {
	total := 0
	for _, s := range p.Slices {
		total += s.Value
	}
	return total
}

// StatusPie builds one slice per status_stats entry in backend order.
func StatusPie(stats inventory.Stats) PieChart {
	slices := make([]Slice, 0, len(stats.StatusStats))
	for _, sc := range stats.StatusStats {
		slices = append(slices, Slice{
			Name:  string(sc.Status),
			Value: sc.Count,
			Fill:  StatusGradient(sc.Status),
		})
	}
	return PieChart{Slices: slices}
}

// BarChart shows the type distribution. Categories and Values are
// parallel and keep backend order.
type BarChart struct {
	Categories []string
	Values     []int
}

// Max returns the largest value, 0 for an empty chart.
func (b BarChart) Max() int {
	highest := 0
	for _, v := range b.Values {
		if v > highest {
			highest = v
		}
	}
	return highest
}

// TypeBar builds one bar per type_stats entry in backend order.
func TypeBar(stats inventory.Stats) BarChart {
	chart := BarChart{
		Categories: make([]string, 0, len(stats.TypeStats)),
		Values:     make([]int, 0, len(stats.TypeStats)),
	}
	for _, tc := range stats.TypeStats {
		chart.Categories = append(chart.Categories, string(tc.Type))
		chart.Values = append(chart.Values, tc.Count)
	}
	return chart
}

// OverviewCounters are the four headline numbers.
type OverviewCounters struct {
	Total       int
	Online      int
	Maintenance int
	Purchasing  int

	// OnlineShare is online/total as a percentage rounded to one decimal,
	// 0 when there are no devices.
	OnlineShare float64
}

// Overview derives the headline numbers from stats.
func Overview(stats inventory.Stats) OverviewCounters {
	return OverviewCounters{
		Total:       stats.TotalDevices,
		Online:      stats.OnlineDevices,
		Maintenance: stats.MaintenanceDevices,
		Purchasing:  stats.PurchasingDevices,
		OnlineShare: share(stats.OnlineDevices, stats.TotalDevices),
	}
}

func share(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
