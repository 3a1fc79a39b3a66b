package domain

import "math"

// DefaultPageSize is used when the caller does not ask for a specific page size.
const DefaultPageSize = 20

// Page selects a window of a result set. Number is zero-based.
type Page struct {
	Number int
	Size   int
}

// NewPage returns a Page for the given zero-based number and size.
func NewPage(number, size int) Page {
	return Page{Number: number, Size: size}
}

// Limit returns the maximum number of rows the page holds.
func (p Page) Limit() int {
	return p.Size
}

// Offset returns the index of the first row of the page. A page whose offset
// does not fit in an int reports math.MaxInt, which every store treats as past
// the end.
func (p Page) Offset() int {
	if p.Size > 0 && p.Number > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Number * p.Size
}

// Paged is a page of results together with the count of all matching rows,
// computed under the same filter.
type Paged[T any] struct {
	Items []T
	Total int64
	Page  Page
}

// TotalPages returns the number of pages needed to hold Total rows.
func (p Paged[T]) TotalPages() int64 {
	if p.Page.Size <= 0 {
		return 0
	}
	size := int64(p.Page.Size)
	return (p.Total + size - 1) / size
}
