package types

// PaginationResponse reports the pagination window of a list response
type PaginationResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewPaginationResponse builds a pagination response from a filter and total
func NewPaginationResponse(total int, filter BaseFilter) PaginationResponse {
	return PaginationResponse{
		Total:  total,
		Limit:  filter.GetLimit(),
		Offset: filter.GetOffset(),
	}
}
