package core

// Sort direction tokens accepted by the list endpoints. Anything other
// than the descending token sorts ascending.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Default pagination values applied when a request omits them.
const (
	DefaultPage = 0
	DefaultSize = 10
	MaxSize     = 100
)

// PageRequest describes one page of a list query: a zero-based page
// number, a page size, and the requested ordering.
type PageRequest struct {
	Page      int
	Size      int
	SortBy    string
	Direction string
}

// NewPageRequest returns a PageRequest with the catalog defaults and
// the given sort field.
func NewPageRequest(sortBy string) PageRequest {
	return PageRequest{
		Page:      DefaultPage,
		Size:      DefaultSize,
		SortBy:    sortBy,
		Direction: SortAsc,
	}
}

// Offset converts the zero-based page number to a row offset.
func (p PageRequest) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return p.Page * p.Size
}

// Descending reports whether the request asks for descending order.
func (p PageRequest) Descending() bool {
	return p.Direction == SortDesc
}

// Page is one bounded, ordered slice of a larger result set plus its
// position metadata.
type Page[T any] struct {
	Items         []T
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
}

// NewPage assembles a Page from the fetched items and the total row
// count of the unsliced result set.
func NewPage[T any](items []T, req PageRequest, total int64) *Page[T] {
	size := req.Size
	if size <= 0 {
		size = DefaultSize
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:         items,
		Number:        req.Page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
