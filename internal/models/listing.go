package models

import "sort"

// ListingItem represents a single title extracted from a listing page or a
// search result set. ID is unique on the source site and restricted to the
// characters [A-Za-z0-9_@.]; Title and ImageURL are non-empty for scraped
// cards (cards missing either are discarded before an item is built).
type ListingItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	Subtitle string `json:"subtitle,omitempty"`
}

// Cursor is the opaque pagination token threaded between successive calls
// to a paged operation. The host persists it verbatim between calls and
// never inspects it; a nil cursor on input means "first page" and a nil
// cursor on output means "no further pages".
//
// Seen holds the ids already emitted during this traversal, for sections
// whose page boundaries are unstable. It is kept sorted so that equal
// traversal states serialize identically.
type Cursor struct {
	Page int      `json:"page"`
	Seen []string `json:"seen,omitempty"`
}

// PageOr returns the cursor's page, or def for a nil or unset cursor.
func (c *Cursor) PageOr(def int) int {
	if c == nil || c.Page < 1 {
		return def
	}
	return c.Page
}

// SeenSet returns the cursor's seen ids as a mutable set. The returned map
// never aliases the cursor, so callers can grow it freely.
func (c *Cursor) SeenSet() map[string]struct{} {
	set := make(map[string]struct{})
	if c == nil {
		return set
	}
	for _, id := range c.Seen {
		set[id] = struct{}{}
	}
	return set
}

// NextCursor builds the cursor for the given page, carrying over the seen
// set. An empty set produces a cursor that tracks only the page number.
func NextCursor(page int, seen map[string]struct{}) *Cursor {
	c := &Cursor{Page: page}
	if len(seen) > 0 {
		c.Seen = make([]string, 0, len(seen))
		for id := range seen {
			c.Seen = append(c.Seen, id)
		}
		sort.Strings(c.Seen)
	}
	return c
}

// PagedListings is one batch of a paged listing traversal. Next is nil once
// the source reports no further pages.
type PagedListings struct {
	Items []ListingItem `json:"items"`
	Next  *Cursor       `json:"next,omitempty"`
}
