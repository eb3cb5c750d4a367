package domain

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// SortSpec orders a listing by a single store column.
type SortSpec struct {
	Column string
	Order  SortOrder
}

// PageSpec is a zero-based page request.
type PageSpec struct {
	Page int
	Size int
}

// Offset returns the number of rows skipped before this page.
func (p PageSpec) Offset() int {
	return p.Page * p.Size
}
