// ABOUTME: Pagination of query results.
// ABOUTME: Pages are 1-based; a non-positive size returns everything on one page.
package query

// Page is one slice of a result set.
type Page[T any] struct {
	Items    []T  `json:"items"`
	Total    int  `json:"total"`
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
	Pages    int  `json:"pages"`
	HasMore  bool `json:"hasMore"`
}

// Paginate cuts page number page (1-based) of the given size from items.
// Out-of-range pages are clamped to the last page.
func Paginate[T any](items []T, page, size int) Page[T] {
	total := len(items)
	if size <= 0 {
		size = total
	}
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = max(pages, 1)
	}

	p := Page[T]{Items: []T{}, Total: total, Page: page, PageSize: size, Pages: pages}
	if total == 0 {
		return p
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	p.Items = append(p.Items, items[start:end]...)
	p.HasMore = page < pages
	return p
}
