package domain

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed. Limit is capped at 100 by NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds pagination from optional HTTP query params.
// It returns nil when neither value was supplied, meaning "return everything";
// the trails listing is small and the browser client asks for all of it.
// A supplied value falls back to page=1, limit=20 when out of range, and the
// limit is capped at 100.
func NewPaginationParams(page, limit *int) *PaginationParams {
	if page == nil && limit == nil {
		return nil
	}
	p := PaginationParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, 100)
	}
	return &p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
