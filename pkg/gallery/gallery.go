// Package gallery holds the view state behind the showcase galleries: a
// disclosure list that expands in place, and a 1-indexed pager with windowed
// page numbers. The types are plain state machines with no rendering or
// transport concerns, so handlers can rebuild them per request from signals
// or query parameters.
package gallery

const (
	// DefaultInitialCount is how many records a disclosure gallery shows
	// before the visitor expands it.
	DefaultInitialCount = 5
	// DefaultItemsPerPage is the page size for paginated galleries.
	DefaultItemsPerPage = 4
)

// Disclosure is the expand/collapse state for a gallery that previews a fixed
// number of records until the visitor asks for all of them.
type Disclosure struct {
	initialCount int
	expanded     bool
}

// NewDisclosure returns a collapsed disclosure state. A non-positive
// initialCount falls back to DefaultInitialCount.
func NewDisclosure(initialCount int) *Disclosure {
	if initialCount <= 0 {
		initialCount = DefaultInitialCount
	}
	return &Disclosure{initialCount: initialCount}
}

func (d *Disclosure) Expanded() bool    { return d.expanded }
func (d *Disclosure) InitialCount() int { return d.initialCount }

// Expand shows all records. Expanding an already-expanded gallery is a no-op.
func (d *Disclosure) Expand() { d.expanded = true }

// Collapse returns to the preview. Collapsing a collapsed gallery is a no-op.
func (d *Disclosure) Collapse() { d.expanded = false }

// Toggle flips between the preview and the full list.
func (d *Disclosure) Toggle() { d.expanded = !d.expanded }

// SetExpanded applies request state directly. Used when the browser sends the
// desired state instead of a toggle action.
func (d *Disclosure) SetExpanded(v bool) { d.expanded = v }

// Visible returns how many of total records are shown right now.
func (d *Disclosure) Visible(total int) int {
	if total < 0 {
		total = 0
	}
	if d.expanded || total <= d.initialCount {
		return total
	}
	return d.initialCount
}

// ControlVisible reports whether the expand/collapse control should render.
// With initialCount or fewer records there is nothing to disclose and the
// control is omitted entirely.
func (d *Disclosure) ControlVisible(total int) bool {
	return total > d.initialCount
}

// Pager is the 1-indexed pagination state for a gallery. The zero page never
// exists; a freshly built pager sits on page 1.
type Pager struct {
	itemsPerPage int
	currentPage  int
}

// NewPager returns a pager on page 1. A non-positive itemsPerPage falls back
// to DefaultItemsPerPage.
func NewPager(itemsPerPage int) *Pager {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	return &Pager{itemsPerPage: itemsPerPage, currentPage: 1}
}

func (p *Pager) CurrentPage() int  { return p.currentPage }
func (p *Pager) ItemsPerPage() int { return p.itemsPerPage }

// TotalPages returns the number of pages needed for total records. An empty
// record list still has one (empty) page, so CurrentPage is always valid.
func (p *Pager) TotalPages(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + p.itemsPerPage - 1) / p.itemsPerPage
}

// GoToPage moves to page if it is within [1, TotalPages]. Out-of-range
// requests are ignored rather than clamped. The return value reports whether
// the current page actually changed, which is what drives scrolling.
func (p *Pager) GoToPage(page, total int) bool {
	if page < 1 || page > p.TotalPages(total) {
		return false
	}
	if page == p.currentPage {
		return false
	}
	p.currentPage = page
	return true
}

// Reset returns to page 1, for when the underlying record list changes
// identity.
func (p *Pager) Reset() { p.currentPage = 1 }

// PageSlice returns the half-open [lo, hi) index range of the current page.
// The final page may be shorter than itemsPerPage.
func (p *Pager) PageSlice(total int) (lo, hi int) {
	if total <= 0 {
		return 0, 0
	}
	lo = (p.currentPage - 1) * p.itemsPerPage
	if lo > total {
		return total, total
	}
	hi = lo + p.itemsPerPage
	if hi > total {
		hi = total
	}
	return lo, hi
}

// HasPrev reports whether a previous page exists.
func (p *Pager) HasPrev() bool { return p.currentPage > 1 }

// HasNext reports whether a next page exists for total records.
func (p *Pager) HasNext(total int) bool { return p.currentPage < p.TotalPages(total) }
