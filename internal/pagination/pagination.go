package pagination

import (
	"strings"

	"github.com/HadiaEL/CABINET-MEDICAL/internal/apperr"
)

const MaxPageSize = 100

// PageRequest carries the offset-based pagination and sort parameters of a
// listing call. Page numbering starts at 0.
type PageRequest struct {
	Page          int
	Size          int
	SortBy        string
	SortDirection string
}

func (r PageRequest) Validate() error {
	if r.Page < 0 {
		return apperr.Invalidf("page number cannot be negative")
	}
	if r.Size <= 0 {
		return apperr.Invalidf("page size must be greater than 0")
	}
	if r.Size > MaxPageSize {
		return apperr.Invalidf("page size cannot exceed %d", MaxPageSize)
	}
	return nil
}

func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// Descending is true only for a case-insensitive "desc"; every other value
// sorts ascending.
func (r PageRequest) Descending() bool {
	return strings.EqualFold(r.SortDirection, "desc")
}

// Page is one bounded slice of a sorted result set with its metadata.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	Empty         bool  `json:"empty"`
}

func NewPage[T any](content []T, req PageRequest, totalElements int64) Page[T] {
	totalPages := int(totalElements) / req.Size
	if int(totalElements)%req.Size > 0 {
		totalPages++
	}

	if content == nil {
		content = []T{}
	}

	return Page[T]{
		Content:       content,
		PageNumber:    req.Page,
		PageSize:      req.Size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		First:         req.Page == 0,
		Last:          req.Page+1 >= totalPages,
		Empty:         len(content) == 0,
	}
}
