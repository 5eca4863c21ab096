package models

import (
	"fmt"
	"math"
	"strings"

	dErrors "planets/pkg/domain-errors"
)

const (
	DefaultPageSize = 15
	MaxPageSize     = 100
)

// SortField names a sortable planet attribute.
type SortField string

const (
	SortByID      SortField = "id"
	SortByName    SortField = "name"
	SortByClimate SortField = "climate"
	SortByTerrain SortField = "terrain"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort orders a scan. Ties are always broken by ID ascending.
type Sort struct {
	Field     SortField
	Direction Direction
}

// PageRequest selects one page of a scan. Page is 0-based.
type PageRequest struct {
	Page int
	Size int
	Sort Sort
}

// DefaultPageRequest is page 0, 15 items, sorted by name ascending.
func DefaultPageRequest() PageRequest {
	return PageRequest{Page: 0, Size: DefaultPageSize, Sort: Sort{Field: SortByName, Direction: Asc}}
}

// WithDefaults fills unset fields from DefaultPageRequest and clamps Size.
func (r PageRequest) WithDefaults() PageRequest {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Size <= 0 {
		r.Size = DefaultPageSize
	}
	if r.Size > MaxPageSize {
		r.Size = MaxPageSize
	}
	if r.Sort.Field == "" {
		r.Sort.Field = SortByName
	}
	if r.Sort.Direction == "" {
		r.Sort.Direction = Asc
	}
	return r
}

// Offset is the number of records preceding this page. It saturates at
// math.MaxInt instead of overflowing for very large page indexes.
func (r PageRequest) Offset() int {
	if r.Page <= 0 || r.Size <= 0 {
		return 0
	}
	if r.Page > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// ParseSort parses "field" or "field,direction" as sent by clients.
func ParseSort(raw string) (Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Sort{Field: SortByName, Direction: Asc}, nil
	}
	field, dir, _ := strings.Cut(raw, ",")
	s := Sort{
		Field:     SortField(strings.ToLower(strings.TrimSpace(field))),
		Direction: Direction(strings.ToLower(strings.TrimSpace(dir))),
	}
	if s.Direction == "" {
		s.Direction = Asc
	}
	switch s.Field {
	case SortByID, SortByName, SortByClimate, SortByTerrain:
	default:
		return Sort{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unsupported sort field %q", field))
	}
	if s.Direction != Asc && s.Direction != Desc {
		return Sort{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unsupported sort direction %q", dir))
	}
	return s, nil
}

// Page is one page of results plus totals derived from the store.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// NewPage assembles a page and derives TotalPages from the total count.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// MapPage applies fn to every element while keeping the page metadata.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Content))
	for _, item := range p.Content {
		out = append(out, fn(item))
	}
	return Page[U]{
		Content:       out,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}
