// Package pagination translates (page, limit) list requests into SQL-ready
// limit/offset pairs plus response metadata. Pure computation, reused by
// every list endpoint.
package pagination

// Page describes one window over a counted result set.
type Page struct {
	Limit        int   `json:"limit"`
	Offset       int   `json:"offset"`
	TotalRecords int64 `json:"total_records"`
	TotalPages   int   `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	HasNext      bool  `json:"has_next_page"`
	HasPrevious  bool  `json:"has_previous_page"`
}

// Paginate computes the window for the given page and limit over totalRecords.
// Page and limit are clamped to a minimum of 1.
func Paginate(totalRecords int64, page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	totalPages := int((totalRecords + int64(limit) - 1) / int64(limit))

	return Page{
		Limit:        limit,
		Offset:       (page - 1) * limit,
		TotalRecords: totalRecords,
		TotalPages:   totalPages,
		CurrentPage:  page,
		HasNext:      page < totalPages,
		HasPrevious:  page > 1,
	}
}
