package models

type PaginationMeta struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
	NextPage     *int `json:"nextPage"`
	PrevPage     *int `json:"prevPage"`
}

// NewPaginationMeta derives the page bookkeeping for a list of
// totalItems split into pages of pageSize.
func NewPaginationMeta(page, pageSize, totalItems int) PaginationMeta {
	if pageSize < 1 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}
	totalPages := (totalItems + pageSize - 1) / pageSize

	meta := PaginationMeta{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: pageSize,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
	if meta.HasNextPage {
		next := page + 1
		meta.NextPage = &next
	}
	if meta.HasPrevPage {
		prev := page - 1
		meta.PrevPage = &prev
	}
	return meta
}

type TicketListResponse struct {
	Data       []Ticket       `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

type TypeFacet struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Suggestions struct {
	From      []string `json:"from"`
	To        []string `json:"to"`
	Operators []string `json:"operators"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
