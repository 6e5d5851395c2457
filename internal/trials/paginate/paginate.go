// Package paginate exposes a growing prefix of a result list.
package paginate

// DefaultPageSize matches the finder table's default rows per page.
const DefaultPageSize = 25

// Paginator tracks how many pages of the current result list are revealed.
// It is not safe for concurrent use; the owning view serialises access.
type Paginator struct {
	pageSize int
	pages    int
	total    int

	// nearEnd remembers the last visibility signal so a trigger fires once per
	// false->true transition.
	nearEnd bool
}

// New returns a paginator showing the first page. A non-positive pageSize
// falls back to DefaultPageSize.
func New(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{pageSize: pageSize, pages: 1}
}

// PageSize returns the fixed page size.
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// Pages returns the current page count.
func (p *Paginator) Pages() int {
	return p.pages
}

// Reset returns to the first page for a result list of the given length.
// Call it whenever criteria or sort change.
func (p *Paginator) Reset(total int) {
	p.pages = 1
	p.total = max(total, 0)
	p.nearEnd = false
}

// Visible returns how many elements of the result list are revealed.
func (p *Paginator) Visible() int {
	return min(p.pages*p.pageSize, p.total)
}

// HasMore reports whether elements remain hidden.
func (p *Paginator) HasMore() bool {
	return p.Visible() < p.total
}

// Advance reveals one more page. It reports false and changes nothing when
// everything is already visible.
func (p *Paginator) Advance() bool {
	if !p.HasMore() {
		return false
	}
	p.pages++
	return true
}

// NearEnd records a visibility signal from the consumer. A false->true
// transition advances one page; repeated true signals do not. Signals that
// arrive while loading are ignored entirely, so the first one after loading
// finishes still counts as a transition. Reports whether a page was added.
func (p *Paginator) NearEnd(visible, loading bool) bool {
	if loading {
		return false
	}
	wasVisible := p.nearEnd
	p.nearEnd = visible
	if !visible || wasVisible {
		return false
	}
	return p.Advance()
}

// Window returns the revealed prefix of items.
func Window[T any](p *Paginator, items []T) []T {
	return items[:min(p.Visible(), len(items))]
}
