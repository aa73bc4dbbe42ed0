package services

// PageSize is the fixed number of records per page for every list endpoint.
const PageSize = 5

// Pagination describes one page of a filtered listing, together with the
// search term echoed back verbatim so callers can pre-fill a search box.
type Pagination struct {
	Search      string `json:"search"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
	Total       int64  `json:"total"`
	TotalPages  int    `json:"total_pages"`
	HasNext     bool   `json:"has_next"`
	HasPrevious bool   `json:"has_previous"`
}

// newPagination clamps the requested page to the nearest valid page and
// builds the paging metadata. Out-of-range pages are never an error: pages
// below 1 clamp to the first page, pages beyond the end clamp to the last.
// An empty result set serves page 1 with zero items.
func newPagination(search string, page int, total int64) Pagination {
	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return Pagination{
		Search:      search,
		Page:        page,
		PageSize:    PageSize,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
