// Package collection provides the generic list operations shared by the
// accounts and transactions views: text filtering, stable sorting,
// drag-reorder, and pagination. Every function is pure: inputs are never
// mutated, results are fresh slices.
package collection

import (
	"sort"
	"strings"
)

// Filter returns the items whose text field contains the query,
// case-insensitively. A blank (empty or whitespace-only) query is the
// identity: every item is returned.
func Filter[T any](items []T, query string, text func(T) string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(text(it)), q) {
			out = append(out, it)
		}
	}
	return out
}

// SortStable returns a copy of items sorted with the given less function.
// Equal elements keep their relative input order.
func SortStable[T any](items []T, less func(a, b T) bool) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Move relocates the element with movedID to the position the element with
// targetID held before the move, shifting the elements in between by one.
// Both ids are resolved against the full slice, so a reorder requested from
// a filtered or paginated subset still lands in the right place. When the
// ids are equal or either is absent, the input is returned unchanged
// (as a copy).
func Move[T any](items []T, id func(T) string, movedID, targetID string) []T {
	out := make([]T, len(items))
	copy(out, items)
	if movedID == targetID {
		return out
	}
	from, to := -1, -1
	for i, it := range out {
		switch id(it) {
		case movedID:
			from = i
		case targetID:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return out
	}
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out
}

// PageCount returns ceil(n/size), with a minimum of one page so an empty
// collection still renders as page 1 of 1.
func PageCount(n, size int) int {
	if size <= 0 {
		return 1
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage keeps the active page within [1, pages].
func ClampPage(page, pages int) int {
	if page < 1 {
		return 1
	}
	if page > pages {
		return pages
	}
	return page
}

// Page returns the items of the given 1-based page. Pages beyond the end
// yield an empty slice.
func Page[T any](items []T, page, size int) []T {
	if size <= 0 {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
