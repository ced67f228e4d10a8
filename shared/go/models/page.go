package models

// PageRequest is an offset-based paging request. Zero values are
// normalized to page 1 and the resource's default page size.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize clamps the request to page >= 1 and pageSize >= 1, filling
// in defaultSize when no page size was requested.
func (p PageRequest) Normalize(defaultSize int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	return p
}

// Offset returns the zero-based offset of the first record on the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageMeta describes one page of a filtered result set.
type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int64 `json:"totalPages"`
}

// NewPageMeta computes page metadata for a total count obtained by a
// separate count query over the same filter predicate.
func NewPageMeta(req PageRequest, totalCount int64) PageMeta {
	var totalPages int64
	if totalCount > 0 {
		totalPages = (totalCount + int64(req.PageSize) - 1) / int64(req.PageSize)
	}
	return PageMeta{
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
