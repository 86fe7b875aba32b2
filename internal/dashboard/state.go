// Package dashboard holds the state behind the device dashboard and the
// rules for changing it.
//
// State owns every piece of fetched data plus the filter, pager and sort
// settings. Callers change it only through its methods, which keep the
// derived Visible list in step and send the pager back to page 1 whenever
// the filtered set changes shape.
//
// Loads are numbered. BeginLoad hands out a sequence number; a response
// applied with a number older than the last one applied is dropped, so a
// slow reply can never overwrite fresher data.
package dashboard

import (
	"go.uber.org/zap"

	"github.com/muurk/devinv/internal/filter"
	"github.com/muurk/devinv/internal/gateway"
	"github.com/muurk/devinv/internal/inventory"
	"github.com/muurk/devinv/internal/listview"
	"github.com/muurk/devinv/internal/logging"
)

// State is the dashboard model. Create it with New.
type State struct {
	Devices     []inventory.Device
	Types       []inventory.Type
	Departments []inventory.Department
	Stats       inventory.Stats

	Criteria filter.Criteria
	Pager    listview.Pager
	Sort     listview.Sort

	// Visible is Devices after filtering and sorting
	Visible []inventory.Device

	nextSeq        uint64
	devicesApplied uint64
	statsApplied   uint64
}

// New returns an empty dashboard on page 1.
func New() *State {
	return &State{
		Devices: []inventory.Device{},
		Visible: []inventory.Device{},
		Pager:   listview.NewPager(),
	}
}

// BeginLoad returns the sequence number for a new device or stats load.
func (s *State) BeginLoad() uint64 {
	s.nextSeq++
	return s.nextSeq
}

// ApplyDevices replaces the device list. It reports false and changes
// nothing when seq is older than the last applied device load.
func (s *State) ApplyDevices(seq uint64, devices []inventory.Device) bool {
	if seq < s.devicesApplied {
		logging.Debug("Dropping stale device list",
			zap.Uint64("seq", seq),
			zap.Uint64("applied", s.devicesApplied),
		)
		return false
	}
	s.devicesApplied = seq
	if devices == nil {
		devices = []inventory.Device{}
	}
	s.Devices = devices
	s.derive()
	s.Pager = s.Pager.Clamp(len(s.Visible))
	return true
}

// ApplyStats replaces the stats snapshot, with the same staleness rule as
// ApplyDevices.
func (s *State) ApplyStats(seq uint64, stats inventory.Stats) bool {
	if seq < s.statsApplied {
		logging.Debug("Dropping stale stats",
			zap.Uint64("seq", seq),
			zap.Uint64("applied", s.statsApplied),
		)
		return false
	}
	s.statsApplied = seq
	s.Stats = stats
	return true
}

// ApplyRefresh installs a post-mutation snapshot and returns to page 1.
func (s *State) ApplyRefresh(seq uint64, snap *gateway.Snapshot) bool {
	if snap == nil {
		return false
	}
	if seq < s.devicesApplied || seq < s.statsApplied {
		logging.Debug("Dropping stale refresh", zap.Uint64("seq", seq))
		return false
	}

	s.ApplyDevices(seq, snap.Devices)
	if snap.Stats != nil {
		s.ApplyStats(seq, *snap.Stats)
	}
	s.Pager = s.Pager.Reset()
	return true
}

// ApplyReference installs the type and department lists. Departments are
// expected to be de-duplicated by the gateway already.
func (s *State) ApplyReference(types []inventory.Type, departments []inventory.Department) {
	if types != nil {
		s.Types = types
	}
	if departments != nil {
		s.Departments = departments
	}
}

// SetCriteria replaces every filter at once.
func (s *State) SetCriteria(c filter.Criteria) {
	s.Criteria = c
	s.refilter()
}

// SetKeyword sets the name/code search text.
func (s *State) SetKeyword(keyword string) {
	s.Criteria.Keyword = keyword
	s.refilter()
}

// SetType sets the type filter; empty clears it.
func (s *State) SetType(t inventory.Type) {
	s.Criteria.Type = t
	s.refilter()
}

// SetStatus sets the status filter; empty clears it.
func (s *State) SetStatus(st inventory.Status) {
	s.Criteria.Status = st
	s.refilter()
}

// SetDepartment sets the department filter; empty clears it.
func (s *State) SetDepartment(department string) {
	s.Criteria.Department = department
	s.refilter()
}

// ClearFilters removes every filter.
func (s *State) ClearFilters() {
	s.SetCriteria(filter.Criteria{})
}

// ToggleSort cycles the ordering of a column.
func (s *State) ToggleSort(c listview.Column) {
	s.Sort = s.Sort.Toggle(c)
	s.derive()
}

// SetPage moves to page n, clamped to the available pages.
func (s *State) SetPage(n int) {
	s.Pager.Page = n
	s.Pager = s.Pager.Clamp(len(s.Visible))
}

// NextPage moves forward one page.
func (s *State) NextPage() { s.Pager = s.Pager.Next(len(s.Visible)) }

// PrevPage moves back one page.
func (s *State) PrevPage() { s.Pager = s.Pager.Prev(len(s.Visible)) }

// SetPageSize changes the page size and returns to page 1.
func (s *State) SetPageSize(size int) {
	s.Pager = s.Pager.WithPageSize(size)
}

// PageRows returns the visible rows on the current page.
func (s *State) PageRows() []inventory.Device {
	return listview.Page(s.Visible, s.Pager)
}

// StatusOptions lists the statuses present in the loaded devices.
func (s *State) StatusOptions() []inventory.Status {
	return filter.StatusOptions(s.Devices)
}

// TypeOptions prefers the backend's type list and falls back to the types
// present in the loaded devices.
func (s *State) TypeOptions() []inventory.Type {
	if len(s.Types) > 0 {
		return s.Types
	}
	return filter.TypeOptions(s.Devices)
}

// CycleType advances the type filter through "all" and each type option.
func (s *State) CycleType() {
	opts := s.TypeOptions()
	values := make([]string, len(opts))
	for i, t := range opts {
		values[i] = string(t)
	}
	s.SetType(inventory.Type(cycle(values, string(s.Criteria.Type))))
}

// CycleStatus advances the status filter through "all" and each status
// present in the loaded devices.
func (s *State) CycleStatus() {
	opts := s.StatusOptions()
	values := make([]string, len(opts))
	for i, st := range opts {
		values[i] = string(st)
	}
	s.SetStatus(inventory.Status(cycle(values, string(s.Criteria.Status))))
}

// CycleDepartment advances the department filter through "all" and each
// department code.
func (s *State) CycleDepartment() {
	values := make([]string, len(s.Departments))
	for i, d := range s.Departments {
		values[i] = d.Code
	}
	s.SetDepartment(cycle(values, s.Criteria.Department))
}

// cycle returns the option after current, where "" (no filter) comes
// before the first option and follows the last.
func cycle(options []string, current string) string {
	if current == "" {
		if len(options) == 0 {
			return ""
		}
		return options[0]
	}
	for i, o := range options {
		if o == current {
			if i+1 < len(options) {
				return options[i+1]
			}
			return ""
		}
	}
	return ""
}

// DepartmentName resolves a department code to its name, or returns the
// code unchanged when it is not in the reference list.
func (s *State) DepartmentName(code string) string {
	for _, d := range s.Departments {
		if d.Code == code {
			return d.Name
		}
	}
	return code
}

// Find returns the loaded device with the given code.
func (s *State) Find(code string) (inventory.Device, bool) {
	for _, d := range s.Devices {
		if d.Code == code {
			return d, true
		}
	}
	return inventory.Device{}, false
}

// refilter re-derives the visible set and returns to page 1.
func (s *State) refilter() {
	s.derive()
	s.Pager = s.Pager.Reset()
}

func (s *State) derive() {
	s.Visible = s.Sort.Apply(filter.Apply(s.Devices, s.Criteria))
}
