package shared

import (
	"net/url"
	"strconv"
	"strings"
)

// EmptyState tells a list template which empty message to show.
type EmptyState string

const (
	// EmptyNone means there is something to render.
	EmptyNone EmptyState = ""
	// EmptyNoRecords means nothing to show and no search term was given.
	EmptyNoRecords EmptyState = "no-records"
	// EmptyNoResults means a search term was given and nothing matched it.
	EmptyNoResults EmptyState = "no-results"
)

// Filter returns the items for which the lowercased term is a substring of
// any field produced by fields. An empty term returns items unchanged. The
// term is not trimmed, so surrounding spaces take part in the match. The
// input slice is never modified.
func Filter[T any](items []T, term string, fields func(T) []string) []T {
	term = strings.ToLower(term)
	if term == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), term) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// ListView is the derived state a list page renders.
type ListView[T any] struct {
	// Total is the size of the collection as last fetched.
	Total int
	Term  string
	Items []T
	Page  Pagination
	Empty EmptyState
	// Armed is the row awaiting delete confirmation, if any.
	Armed string
	// State is the query that reproduces this page: term, page and filters.
	State url.Values
}

// NewListView filters and paginates items for rendering.
func NewListView[T any](items []T, term string, page int, fields func(T) []string) ListView[T] {
	filtered := Filter(items, term, fields)
	paged, pg := Paginate(filtered, page, DefaultPerPage)
	view := ListView[T]{
		Total: len(items),
		Term:  term,
		Items: paged,
		Page:  pg,
	}
	if len(filtered) == 0 {
		view.Empty = EmptyNoRecords
		if term != "" {
			view.Empty = EmptyNoResults
		}
	}
	return view
}

// Matches reports the number of records that survived the filter.
func (v ListView[T]) Matches() int {
	return v.Page.Total
}

// PageQuery returns the query string for page n, keeping the rest of State.
func (v ListView[T]) PageQuery(n int) string {
	q := cloneValues(v.State)
	q.Set("page", strconv.Itoa(n))
	return "?" + q.Encode()
}

// CancelQuery returns the query string that disarms the pending delete and
// stays on the current page.
func (v ListView[T]) CancelQuery() string {
	q := cloneValues(v.State)
	q.Set("cancel", "1")
	return "?" + q.Encode()
}

func cloneValues(src url.Values) url.Values {
	out := make(url.Values, len(src)+1)
	for k, vs := range src {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
