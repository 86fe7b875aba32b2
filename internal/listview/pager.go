// Package listview holds the presentation rules of the device table:
// pagination, row numbering, status tags, column sorting and the total
// label. Nothing here renders; the terminal UI and the list command both
// build on it.
package listview

import "fmt"

// DefaultPageSize is the page size a fresh table starts with.
const DefaultPageSize = 10

// PageSizes are the page sizes a user can pick.
var PageSizes = []int{5, 10, 20}

// Pager is a 1-based page position.
type Pager struct {
	Page     int
	PageSize int
}

// NewPager returns a pager on page 1 with the default size.
func NewPager() Pager {
	return Pager{Page: 1, PageSize: DefaultPageSize}
}

func (p Pager) size() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	return p.PageSize
}

// PageCount returns how many pages total rows fill. An empty set still
// has one (empty) page.
func (p Pager) PageCount(total int) int {
	if total <= 0 {
		return 1
	}
	size := p.size()
	return (total + size - 1) / size
}

// Clamp keeps the page within 1..PageCount(total).
func (p Pager) Clamp(total int) Pager {
	p.PageSize = p.size()
	if last := p.PageCount(total); p.Page > last {
		p.Page = last
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// Reset returns to page 1 keeping the page size.
func (p Pager) Reset() Pager {
	p.Page = 1
	p.PageSize = p.size()
	return p
}

// Next moves one page forward, stopping at the last page.
func (p Pager) Next(total int) Pager {
	p.Page++
	return p.Clamp(total)
}

// Prev moves one page back, stopping at page 1.
func (p Pager) Prev(total int) Pager {
	p.Page--
	return p.Clamp(total)
}

// WithPageSize switches page size and returns to page 1.
func (p Pager) WithPageSize(size int) Pager {
	return Pager{Page: 1, PageSize: size}.Reset()
}

// NextPageSize cycles forward through PageSizes.
func (p Pager) NextPageSize() Pager {
	return p.WithPageSize(cyclePageSize(p.size(), 1))
}

// PrevPageSize cycles backward through PageSizes.
func (p Pager) PrevPageSize() Pager {
	return p.WithPageSize(cyclePageSize(p.size(), -1))
}

func cyclePageSize(current, step int) int {
	idx := -1
	for i, s := range PageSizes {
		if s == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return DefaultPageSize
	}
	n := len(PageSizes)
	return PageSizes[((idx+step)%n+n)%n]
}

// Window returns the half-open [start, end) slice bounds of the current
// page within total rows.
func (p Pager) Window(total int) (start, end int) {
	p = p.Clamp(total)
	start = (p.Page - 1) * p.PageSize
	end = start + p.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return start, end
}

// Page returns the rows of the current page.
func Page[T any](rows []T, p Pager) []T {
	start, end := p.Window(len(rows))
	return rows[start:end]
}

// RowIndex is the 1-based number shown for the i-th row of the page.
func RowIndex(p Pager, i int) int {
	return (p.Page-1)*p.size() + i + 1
}

// TotalLabel is the summary shown beside the pager.
func TotalLabel(total int) string {
	return fmt.Sprintf("共 %d 条数据", total)
}
