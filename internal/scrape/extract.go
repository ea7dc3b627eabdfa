package scrape

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/inkreader/ink-sources/internal/models"
)

var idDisallowed = regexp.MustCompile(`[^A-Za-z0-9_@.]`)

// SanitizeID normalizes a raw id scraped from an href: percent-decode,
// then replace every character outside [A-Za-z0-9_@.] with an underscore.
func SanitizeID(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	return strings.TrimSpace(idDisallowed.ReplaceAllString(decoded, "_"))
}

// ExtractItem pulls a listing item out of one card. A card missing its id,
// title or image is rejected; a missing subtitle is not.
func ExtractItem(card *goquery.Selection, p *ListingProfile) (models.ListingItem, bool) {
	anchor := card
	if p.Link != "" {
		anchor = card.Find(p.Link).First()
	}
	href, _ := anchor.Attr("href")

	raw := href
	if p.IDPattern != nil {
		raw = ""
		if m := p.IDPattern.FindStringSubmatch(href); len(m) > 1 {
			raw = m[1]
		}
	}
	id := SanitizeID(raw)
	if id == "" {
		return models.ListingItem{}, false
	}

	titleNode := anchor
	if p.Title != "" {
		titleNode = card.Find(p.Title).First()
	}
	title := strings.TrimSpace(titleNode.Text())
	if title == "" {
		return models.ListingItem{}, false
	}

	imageSel := p.Image
	if imageSel == "" {
		imageSel = "img"
	}
	attrs := p.ImageAttrs
	if len(attrs) == 0 {
		attrs = []string{"src"}
	}
	image := AttrFallback(card.Find(imageSel).First(), attrs...)
	if image == "" {
		return models.ListingItem{}, false
	}

	item := models.ListingItem{ID: id, Title: title, ImageURL: image}
	if p.Subtitle != "" {
		item.Subtitle = strings.TrimSpace(card.Find(p.Subtitle).First().Text())
	}
	return item, true
}

// AttrFallback returns the first non-empty attribute from the ordered
// chain. Sites move image URLs between src, data-src and data-cfsrc
// depending on their lazy-loading setup.
func AttrFallback(sel *goquery.Selection, attrs ...string) string {
	for _, attr := range attrs {
		if v, ok := sel.Attr(attr); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// AbsoluteURL completes a possibly-relative href against the site origin.
func AbsoluteURL(base, href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return u.String()
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}

// BlockByHeading finds the content block that follows a labeled heading
// ("Alt Name(s)", "Status", ...). Detail pages label every metadata block
// this way; the content is the heading's next sibling. Returns nil when no
// heading contains the label.
func BlockByHeading(doc *goquery.Document, headingSel, label string) *goquery.Selection {
	var block *goquery.Selection
	doc.Find(headingSel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.TrimSpace(s.Text()), label) {
			block = s.Next()
			return false
		}
		return true
	})
	return block
}

// BlockText returns the trimmed text of a labeled content block, or "".
func BlockText(doc *goquery.Document, headingSel, label string) string {
	block := BlockByHeading(doc, headingSel, label)
	if block == nil {
		return ""
	}
	return strings.TrimSpace(block.Text())
}

// BlockAnchors returns the trimmed text of every anchor inside a labeled
// content block (author, artist and genre lists).
func BlockAnchors(doc *goquery.Document, headingSel, label string) []string {
	block := BlockByHeading(doc, headingSel, label)
	if block == nil {
		return nil
	}
	var out []string
	block.Find("a").Each(func(_ int, a *goquery.Selection) {
		if text := strings.TrimSpace(a.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

var chapterNumPattern = regexp.MustCompile(`(?i)chapter\s*(\d+(?:\.\d+)?)`)

// ChapterNumber extracts the display chapter number from link text
// ("Chapter 12.5" -> 12.5), falling back when nothing numeric matches.
func ChapterNumber(text string, fallback float64) float64 {
	m := chapterNumPattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return fallback
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return fallback
	}
	return n
}

// Release-date formats seen across the two sites, tried after commas are
// stripped.
var chapterDateLayouts = []string{
	time.RFC3339,
	"January 2 2006",
	"Jan 2 2006",
	"2006-01-02",
	"02/01/2006",
}

// ParseChapterDate parses a scraped release date, falling back to now on
// any parse failure so a bad date never drops a chapter.
func ParseChapterDate(raw string) time.Time {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	for _, layout := range chapterDateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t
		}
	}
	return time.Now()
}
