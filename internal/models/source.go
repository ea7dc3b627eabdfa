// Package models defines the host-facing result types shared by every
// content source. Sources produce these values; the host consumes them and
// owns their lifetime.
package models

// SourceInfo contains static information about a content source.
type SourceInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SiteURL string `json:"site_url"`
}

// SectionType hints how the host should render a discover section.
type SectionType string

const (
	SectionFeatured SectionType = "featured"
	SectionCarousel SectionType = "carousel"
	SectionGenres   SectionType = "genres"
)

// SectionDescriptor describes one discover section. The set of sections a
// source exposes is fixed at construction; listing them performs no I/O.
type SectionDescriptor struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Type  SectionType `json:"type"`
}

// FilterOption is one selectable value inside a search filter.
type FilterOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// FilterDescriptor describes one search filter a source understands.
// Type is "dropdown" (single Value) or "multiselect" (per-option state).
type FilterDescriptor struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Type           string         `json:"type"`
	Options        []FilterOption `json:"options,omitempty"`
	Default        string         `json:"default,omitempty"`
	AllowExclusion bool           `json:"allow_exclusion,omitempty"`
}

// FilterValue carries the caller's choice for a single filter. Dropdown
// filters use Value; multiselect filters use Selections, mapping option id
// to "included" or "excluded".
type FilterValue struct {
	ID         string            `json:"id"`
	Value      string            `json:"value,omitempty"`
	Selections map[string]string `json:"selections,omitempty"`
}

// SearchQuery is the input to a source's Search operation.
type SearchQuery struct {
	Title   string        `json:"title"`
	Filters []FilterValue `json:"filters,omitempty"`
}

// Filter returns the value supplied for the given filter id, if any.
func (q SearchQuery) Filter(id string) (FilterValue, bool) {
	for _, f := range q.Filters {
		if f.ID == id {
			return f, true
		}
	}
	return FilterValue{}, false
}
