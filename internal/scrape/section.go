package scrape

import (
	"log"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/inkreader/ink-sources/internal/models"
)

// CollectListings runs one step of a listing traversal against a fetched
// page: extract every card the profile matches, drop duplicates when the
// profile dedupes, and derive the next cursor from the page's "has more"
// signal. A nil input cursor starts at page 1; a nil Next in the result
// means the traversal is done.
//
// Cards that fail field extraction are skipped and logged, never aborting
// the page. The cursor advances even when a page yields zero items; callers
// looping over a traversal bound the number of consecutive empty pages they
// tolerate (the site's next-link can outlive its content).
func CollectListings(doc *goquery.Document, p *ListingProfile, cur *models.Cursor) models.PagedListings {
	page := cur.PageOr(1)
	seen := cur.SeenSet()

	var items []models.ListingItem
	doc.Find(p.Card).Each(func(i int, card *goquery.Selection) {
		item, ok := ExtractItem(card, p)
		if !ok {
			log.Printf("scrape: skipping malformed card %d under %q", i, p.Card)
			return
		}
		if p.Dedupe {
			if _, dup := seen[item.ID]; dup {
				return
			}
			seen[item.ID] = struct{}{}
		}
		items = append(items, item)
	})

	return models.PagedListings{Items: items, Next: nextCursor(doc, p, page, seen)}
}

func nextCursor(doc *goquery.Document, p *ListingProfile, page int, seen map[string]struct{}) *models.Cursor {
	carried := seen
	if !p.Dedupe {
		carried = nil
	}

	switch {
	case p.NextButton != "":
		btn := doc.Find(p.NextButton).First()
		if btn.Length() == 0 {
			return nil
		}
		if style, ok := btn.Attr("style"); ok && strings.Contains(style, "display: none") {
			return nil
		}
		return models.NextCursor(page+1, carried)

	case p.NextLink != "":
		href, ok := doc.Find(p.NextLink).First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return nil
		}
		target := page + 1
		if p.PagePattern != nil {
			if m := p.PagePattern.FindStringSubmatch(href); len(m) > 1 {
				if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
					target = n
				}
			}
		}
		return models.NextCursor(target, carried)
	}

	// Single-page section.
	return nil
}
