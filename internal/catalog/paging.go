package catalog

// DefaultPageSize is the number of journals shown per browser page.
const DefaultPageSize = 8

// TotalPages returns ceil(total/size); zero when there is nothing to show.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Offset returns the row offset of a 1-indexed page. Pages below 1 map to offset 0.
func Offset(page, size int) int {
	if page < 1 || size <= 0 {
		return 0
	}
	return (page - 1) * size
}

// Page is one slice of a section's journal list.
type Page struct {
	Journals []Journal
	Total    int
	Page     int
	Size     int
}

// TotalPages returns the page count of the listing the page belongs to.
func (p Page) TotalPages() int { return TotalPages(p.Total, p.Size) }

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Page < p.TotalPages() }

// Number returns the 1-based position of the i-th journal of the page in the whole listing.
func (p Page) Number(i int) int { return Offset(p.Page, p.Size) + i + 1 }
