package dto

import "market/response"

// PaginatedResponse là struct chung cho các response có phân trang
type PaginatedResponse[T any] struct {
	Data       T                   `json:"data"`
	Pagination response.Pagination `json:"pagination"`
}

// PageQuery holds ?page=&limit= values. Page starts at 1.
type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Normalize clamps page and limit to usable values.
func (q *PageQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
