// Package toonily implements the live-scrape content source for
// toonily.com, a Madara-based webtoon site. Every operation fetches one
// page and extracts results with the shared scrape machinery; nothing is
// cached between calls.
package toonily

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/inkreader/ink-sources/internal/models"
	"github.com/inkreader/ink-sources/internal/scrape"
	"github.com/inkreader/ink-sources/internal/source"
)

//go:embed source.json
var manifestJSON []byte

// Manifest describes this source to the host.
var Manifest = source.MustParseManifest(manifestJSON)

const (
	defaultBaseURL = "https://toonily.com"

	// The site pads chapters with this ad asset; it is never a real page.
	placeholderAsset = "999.png"

	// The site hides mature titles unless this cookie is present.
	matureCookie = "toonily-mature=1"
)

var (
	serieIDPattern   = regexp.MustCompile(`/serie/([^/?#]+)`)
	pageNumPattern   = regexp.MustCompile(`page/(\d+)`)
	chapterIDPattern = regexp.MustCompile(`(?i)(chapter-[\d.]+)`)
	searchSpaces     = regexp.MustCompile(`\s+`)
)

// featuredProfile drives the "New on Toonily" homepage carousel. The
// carousel rotates between fetches, so ids are deduped across the whole
// traversal and the next button's visibility is the "has more" signal.
var featuredProfile = scrape.ListingProfile{
	Card:       "section ul li.css-1urdgju",
	Link:       "a",
	IDPattern:  serieIDPattern,
	Title:      ".txt span",
	ImageAttrs: []string{"data-cfsrc"},
	Dedupe:     true,
	NextButton: ".next_btn_topco-9MoRR_2",
}

// gridProfile drives the standard Madara listing grid used by the latest
// and trending sections.
var gridProfile = scrape.ListingProfile{
	Card:        ".page-listing-item .col-6.col-sm-3.col-lg-2",
	Link:        "h3.h5 a",
	IDPattern:   serieIDPattern,
	ImageAttrs:  []string{"src", "data-src"},
	Subtitle:    ".list-chapter .chapter-item .chapter a",
	Dedupe:      true,
	NextLink:    ".nextpostslink",
	PagePattern: pageNumPattern,
}

// searchProfile is the listing grid again, without the latest-chapter
// subtitle and without cross-page dedup: search pages have stable
// boundaries.
var searchProfile = scrape.ListingProfile{
	Card:        ".page-listing-item .col-6.col-sm-3.col-lg-2",
	Link:        "h3.h5 a",
	IDPattern:   serieIDPattern,
	ImageAttrs:  []string{"src", "data-src"},
	NextLink:    ".nextpostslink",
	PagePattern: pageNumPattern,
}

var statusVocab = []scrape.StatusRule{
	{Keyword: "ongoing", Status: models.StatusOngoing},
	{Keyword: "completed", Status: models.StatusCompleted},
}

// Options configures the source. The zero value targets the live site
// with defaults matching the bundled manifest.
type Options struct {
	BaseURL          string
	UserAgent        string
	Cookie           string
	Timeout          time.Duration
	RateRequests     int
	RateInterval     time.Duration
	BypassCloudflare bool
	Transport        http.RoundTripper
}

// Source implements source.Source for toonily.com.
type Source struct {
	baseURL  string
	client   *scrape.Client
	sections []models.SectionDescriptor
	handlers map[string]source.SectionHandler
}

// New builds the source. Section handlers are bound once here; unknown
// section ids fail lookup instead of falling through a switch.
func New(opts Options) *Source {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	cookie := opts.Cookie
	if cookie == "" {
		cookie = matureCookie
	}
	rateRequests := opts.RateRequests
	rateInterval := opts.RateInterval
	if rateRequests == 0 {
		rateRequests, rateInterval = 10, time.Second
	}

	s := &Source{
		baseURL: baseURL,
		client: scrape.NewClient(scrape.ClientOptions{
			Referer:          baseURL + "/",
			Origin:           baseURL + "/",
			UserAgent:        opts.UserAgent,
			Cookie:           cookie,
			Timeout:          opts.Timeout,
			RateRequests:     rateRequests,
			RateInterval:     rateInterval,
			BypassCloudflare: opts.BypassCloudflare,
			Transport:        opts.Transport,
		}),
	}

	s.sections = []models.SectionDescriptor{
		{ID: "new-on-toonily", Title: "New on Toonily", Type: models.SectionFeatured},
		{ID: "latest-releases", Title: "Latest Releases", Type: models.SectionCarousel},
		{ID: "trending", Title: "Trending", Type: models.SectionCarousel},
		{ID: "genres", Title: "Genres", Type: models.SectionGenres},
	}
	s.handlers = map[string]source.SectionHandler{
		"new-on-toonily":  s.newOnToonily,
		"latest-releases": s.latestReleases,
		"trending":        s.trending,
		"genres":          s.genreSection,
	}
	return s
}

func (s *Source) Info() models.SourceInfo {
	return models.SourceInfo{ID: Manifest.ID, Name: Manifest.Name, SiteURL: s.baseURL}
}

func (s *Source) DiscoverSections() []models.SectionDescriptor {
	return s.sections
}

func (s *Source) SectionItems(ctx context.Context, sectionID string, cur *models.Cursor) (models.PagedListings, error) {
	handler, ok := s.handlers[sectionID]
	if !ok {
		return models.PagedListings{}, source.OpError(Manifest.ID, "SectionItems",
			fmt.Errorf("unknown section %q: %w", sectionID, source.ErrNotFound))
	}
	res, err := handler(ctx, cur)
	if err != nil {
		return models.PagedListings{}, source.OpError(Manifest.ID, "SectionItems", err)
	}
	return res, nil
}

func (s *Source) newOnToonily(ctx context.Context, cur *models.Cursor) (models.PagedListings, error) {
	doc, err := s.client.Document(ctx, s.baseURL+"/")
	if err != nil {
		return models.PagedListings{}, err
	}
	return scrape.CollectListings(doc, &featuredProfile, cur), nil
}

func (s *Source) latestReleases(ctx context.Context, cur *models.Cursor) (models.PagedListings, error) {
	doc, err := s.client.Document(ctx, fmt.Sprintf("%s/page/%d/", s.baseURL, cur.PageOr(1)))
	if err != nil {
		return models.PagedListings{}, err
	}
	return scrape.CollectListings(doc, &gridProfile, cur), nil
}

func (s *Source) trending(ctx context.Context, cur *models.Cursor) (models.PagedListings, error) {
	target := s.baseURL + "/webtoons/"
	if page := cur.PageOr(1); page > 1 {
		target += fmt.Sprintf("page/%d/", page)
	}
	target += "?m_orderby=trending"

	doc, err := s.client.Document(ctx, target)
	if err != nil {
		return models.PagedListings{}, err
	}
	return scrape.CollectListings(doc, &gridProfile, cur), nil
}

// genreSection synthesizes items from the fixed genre list. No I/O, no
// pagination; genre items carry no image.
func (s *Source) genreSection(_ context.Context, _ *models.Cursor) (models.PagedListings, error) {
	var items []models.ListingItem
	for _, g := range genreOptions {
		items = append(items, models.ListingItem{ID: g.ID, Title: g.Label})
	}
	return models.PagedListings{Items: items}, nil
}

func (s *Source) SearchFilters() []models.FilterDescriptor {
	return []models.FilterDescriptor{
		{
			ID:             "genres",
			Title:          "Genre Filter",
			Type:           "multiselect",
			Options:        genreOptions,
			AllowExclusion: true,
		},
	}
}

func (s *Source) Search(ctx context.Context, q models.SearchQuery, cur *models.Cursor) (models.PagedListings, error) {
	doc, err := s.client.Document(ctx, s.searchURL(q, cur.PageOr(1)))
	if err != nil {
		return models.PagedListings{}, source.OpError(Manifest.ID, "Search", err)
	}
	return scrape.CollectListings(doc, &searchProfile, cur), nil
}

// searchURL composes the site's search path: the query term is hyphenated
// into the path, included genres become indexed query params, and the
// empty op/author/artist/adult params the site expects are always present.
// Excluded genre selections are accepted but have no URL form.
func (s *Source) searchURL(q models.SearchQuery, page int) string {
	var path strings.Builder
	path.WriteString("/search")
	if term := strings.TrimSpace(q.Title); term != "" {
		formatted := strings.ReplaceAll(term, "’", "'")
		formatted = searchSpaces.ReplaceAllString(formatted, "-")
		path.WriteString("/" + url.PathEscape(formatted))
	}
	fmt.Fprintf(&path, "/page/%d/", page)

	vals := url.Values{}
	if f, ok := q.Filter("genres"); ok {
		i := 0
		for _, opt := range genreOptions {
			if f.Selections[opt.ID] == "included" {
				vals.Set(fmt.Sprintf("genre[%d]", i), opt.ID)
				i++
			}
		}
	}
	for _, key := range []string{"op", "author", "artist", "adult"} {
		vals.Set(key, "")
	}

	return s.baseURL + path.String() + "?" + vals.Encode()
}

// SeriesDetails scrapes the detail page. Missing blocks produce empty
// fields rather than a failure; the live site's markup is too uneven to
// treat a missing label as not-found.
func (s *Source) SeriesDetails(ctx context.Context, id string) (*models.SeriesDetails, error) {
	target := fmt.Sprintf("%s/serie/%s/", s.baseURL, id)
	doc, err := s.client.Document(ctx, target)
	if err != nil {
		return nil, source.OpError(Manifest.ID, "SeriesDetails", err)
	}

	d := &models.SeriesDetails{
		ID:            id,
		PrimaryTitle:  strings.TrimSpace(doc.Find(".post-title h1").First().Text()),
		ThumbnailURL:  scrape.AttrFallback(doc.Find(".summary_image img").First(), "data-src", "src"),
		Synopsis:      strings.TrimSpace(doc.Find(".summary__content p").Text()),
		Status:        scrape.MapStatus(scrape.BlockText(doc, ".summary-heading", "Status"), statusVocab),
		ContentRating: models.RatingMature,
		Authors:       scrape.BlockAnchors(doc, ".summary-heading", "Author(s)"),
		Artists:       scrape.BlockAnchors(doc, ".summary-heading", "Artist(s)"),
		ShareURL:      target,
	}

	if alt := scrape.BlockText(doc, ".summary-heading", "Alt Name(s)"); alt != "" {
		d.SecondaryTitles = []string{alt}
	}

	genres := scrape.BlockAnchors(doc, ".summary-heading", "Genre(s)")
	var tags []string
	doc.Find(".wp-manga-tags-list a").Each(func(_ int, a *goquery.Selection) {
		if tag := strings.TrimPrefix(strings.TrimSpace(a.Text()), "#"); tag != "" {
			tags = append(tags, tag)
		}
	})
	if len(genres) > 0 {
		d.TagGroups = append(d.TagGroups, models.NewTagSection("genres", "Genres", genres))
	}
	if len(tags) > 0 {
		d.TagGroups = append(d.TagGroups, models.NewTagSection("tags", "Tags", tags))
	}

	return d, nil
}

// Chapters scrapes the chapter rows off the detail page. The markup lists
// newest first; the result is reversed to reading order.
func (s *Source) Chapters(ctx context.Context, id string) ([]models.ChapterResult, error) {
	doc, err := s.client.Document(ctx, fmt.Sprintf("%s/serie/%s/", s.baseURL, id))
	if err != nil {
		return nil, source.OpError(Manifest.ID, "Chapters", err)
	}

	var chapters []models.ChapterResult
	rows := doc.Find("ul.main.version-chap li.wp-manga-chapter, .listing-chapters_wrap li.wp-manga-chapter")
	rows.Each(func(i int, row *goquery.Selection) {
		link := row.Find("a").First()
		href, _ := link.Attr("href")

		chapterID := ""
		if m := chapterIDPattern.FindStringSubmatch(href); len(m) > 1 {
			chapterID = m[1]
		}
		if chapterID == "" {
			log.Printf("toonily: skipping chapter row %d of %s: no chapter id in %q", i, id, href)
			return
		}

		text := strings.TrimSpace(link.Text())
		chapters = append(chapters, models.ChapterResult{
			Identifier:  chapterID,
			Title:       text,
			Language:    "en",
			Number:      scrape.ChapterNumber(text, 0),
			PublishedAt: scrape.ParseChapterDate(row.Find(".chapter-release-date i").First().Text()),
		})
	})

	for i, j := 0, len(chapters)-1; i < j; i, j = i+1, j-1 {
		chapters[i], chapters[j] = chapters[j], chapters[i]
	}
	return chapters, nil
}

// ChapterPages scrapes the reader page. Relative URLs are completed
// against the site origin and the known ad placeholder is dropped; a
// chapter with nothing left is a failure, not an empty success.
func (s *Source) ChapterPages(ctx context.Context, ref models.ChapterRef) ([]string, error) {
	target := fmt.Sprintf("%s/serie/%s/%s/", s.baseURL, ref.SeriesID, ref.ChapterID)
	doc, err := s.client.Document(ctx, target)
	if err != nil {
		return nil, source.OpError(Manifest.ID, "ChapterPages", err)
	}

	var pages []string
	doc.Find(".reading-content img.wp-manga-chapter-img").Each(func(_ int, img *goquery.Selection) {
		src := scrape.AttrFallback(img, "data-src", "src")
		if src == "" {
			return
		}
		abs := scrape.AbsoluteURL(s.baseURL, src)
		if strings.Contains(abs, placeholderAsset) {
			return
		}
		pages = append(pages, abs)
	})

	if len(pages) == 0 {
		return nil, source.OpError(Manifest.ID, "ChapterPages",
			fmt.Errorf("chapter %s/%s: %w", ref.SeriesID, ref.ChapterID, source.ErrNoPages))
	}
	return pages, nil
}
