package slimorm

import (
	"context"
)

const DefaultPerPage = 20

// Page is one page of results plus the numbers needed to render a pager.
// From and To are 1-based positions of the first and last item on the page.
type Page[T any] struct {
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	From        int `json:"from"`
	To          int `json:"to"`
	Data        []T `json:"data"`
}

// Paginate counts every matching row, then fetches the requested page.
// A perPage below 1 falls back to DefaultPerPage and a page below 1 to the
// first page. A page past the end is clamped to the last page; when
// nothing matches CurrentPage is 0.
func (b *Builder[T]) Paginate(ctx context.Context, page int, perPage int) (Page[T], error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	if page <= 0 {
		page = 1
	}

	b.limit = nil
	b.offset = nil

	count, err := b.Clone().Count(ctx)
	if err != nil {
		return Page[T]{}, err
	}

	total := int(count)
	lastPage := (total + perPage - 1) / perPage
	page = min(page, lastPage)
	offset := max(perPage*(page - 1), 0)

	data, err := b.Limit(perPage).Offset(offset).Get(ctx)
	if err != nil {
		return Page[T]{}, err
	}

	result := Page[T]{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage,
		Data:        data,
	}

	if total > 0 {
		result.From = offset + 1
		result.To = min(offset+perPage, total)
	}

	return result, nil
}
