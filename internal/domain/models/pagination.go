// internal/domain/models/pagination.go
package models

// Pagination is the envelope every remote list endpoint returns alongside
// its items.
type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}
