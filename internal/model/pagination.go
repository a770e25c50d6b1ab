package model

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Total int      `json:"total"`
	Next  *PageRef `json:"next,omitempty"`
	Prev  *PageRef `json:"prev,omitempty"`
}

// NewPagination 依 page/limit/total 計算前後頁：
// hasNext = page*limit < total, hasPrev = page > 1
func NewPagination(page, limit, total int) Pagination {
	p := Pagination{Total: total}
	if page*limit < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}
