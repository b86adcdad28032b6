package paging

// Page is a chunk of a paged search result.
type Page[T any] struct {
	Items []T

	// Token for the next page. Empty when there are no more pages.
	Token string
}

// Last reports whether there is no next page.
func (p Page[T]) Last() bool {
	return p.Token == ""
}
