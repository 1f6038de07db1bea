// Package paging converts between global grid row indexes and pager
// coordinates. The grid page size is fixed for the lifetime of a run.
package paging

// PageSize is the number of data rows the product grid renders per page.
// The grid does not expose it; a different server-side page size breaks
// every conversion below.
const PageSize = 10

// ToPage returns the 1-based page holding global index g
func ToPage(g int) int {
	if g < 0 {
		return 1
	}
	return g/PageSize + 1
}

// ToOffset returns the 0-based position of g inside page
func ToOffset(g, page int) int {
	return g - PageSize*(page-1)
}

// IsLastOffset reports whether offset is the final row of a page
func IsLastOffset(offset int) bool {
	return offset == PageSize-1
}

// FirstIndex returns the global index of the first row of page
func FirstIndex(page int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * PageSize
}
