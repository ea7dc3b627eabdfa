package scrape

import (
	"regexp"
	"strings"

	"github.com/inkreader/ink-sources/internal/models"
)

// ListingProfile is the site-specific table of selectors, attribute
// fallback orders and patterns that drives one listing section. The
// engine in section.go is the same for every section; only the profile
// changes between sites.
type ListingProfile struct {
	// Card matches each listing card in the page.
	Card string

	// Link locates the anchor inside a card. Empty means the card itself
	// is the anchor.
	Link string

	// IDPattern extracts the raw id from the anchor href; the first
	// capture group is the id. Nil means the whole href is the raw id.
	IDPattern *regexp.Regexp

	// Title locates the title node inside a card. Empty means the anchor's
	// own text.
	Title string

	// Image locates the image node inside a card; defaults to "img".
	// ImageAttrs is the ordered attribute fallback chain; defaults to
	// just "src".
	Image      string
	ImageAttrs []string

	// Subtitle locates an optional subtitle node (latest-chapter label).
	// Absence never rejects a card.
	Subtitle string

	// Dedupe filters out ids already present in the cursor's seen set and
	// carries the grown set forward. Enabled for sections whose page
	// boundaries are unstable (rotating carousels).
	Dedupe bool

	// Next-page signals, at most one set. NextButton names an element that
	// exists and is not style-hidden while more pages remain. NextLink
	// names an anchor whose href points at the next page; PagePattern
	// captures the target page number from that href, falling back to
	// current+1 when it does not match.
	NextButton  string
	NextLink    string
	PagePattern *regexp.Regexp
}

// StatusRule maps a keyword found in a status block to a host status value.
type StatusRule struct {
	Keyword string
	Status  string
}

// MapStatus matches the scraped status text against a controlled
// vocabulary. No keyword hit means the status is unknown.
func MapStatus(text string, rules []StatusRule) string {
	lowered := strings.ToLower(text)
	for _, r := range rules {
		if strings.Contains(lowered, r.Keyword) {
			return r.Status
		}
	}
	return models.StatusUnknown
}
