// Package demonicscans implements the content source for
// demonicscans.org. Discover sections are scraped live off the site;
// search, details, chapters and pages are answered from a bundled
// read-only dataset, so those operations never touch the network.
package demonicscans

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/inkreader/ink-sources/internal/catalog"
	"github.com/inkreader/ink-sources/internal/models"
	"github.com/inkreader/ink-sources/internal/scrape"
	"github.com/inkreader/ink-sources/internal/source"
)

//go:embed source.json
var manifestJSON []byte

//go:embed content.json
var contentJSON []byte

// Manifest describes this source to the host.
var Manifest = source.MustParseManifest(manifestJSON)

const defaultBaseURL = "https://demonicscans.org"

var (
	mangaIDPattern = regexp.MustCompile(`/manga/([^/?#]+)`)
	listNumPattern = regexp.MustCompile(`list=(\d+)`)
)

// carouselProfile drives the homepage "Most Viewed Today" owl carousel.
// The carousel rotates between fetches; dedup across the traversal keeps
// re-listed titles out. There is no pagination signal: one fetch is the
// whole section.
var carouselProfile = scrape.ListingProfile{
	Card:       "#carousel div.owl-item",
	Link:       "div.owl-element > a",
	IDPattern:  mangaIDPattern,
	Title:      ".series-title",
	ImageAttrs: []string{"src"},
	Dedupe:     true,
}

// updatesProfile drives the paged update grids (latest translations,
// latest updates, new titles). The next link carries the target list
// number; an unparsable link falls back to the following page.
var updatesProfile = scrape.ListingProfile{
	Card:        "div.updates-element",
	Link:        "div.update-info > a",
	IDPattern:   mangaIDPattern,
	ImageAttrs:  []string{"src", "data-src"},
	Subtitle:    "a.chplinks",
	Dedupe:      true,
	NextLink:    "div.pagination a.next",
	PagePattern: listNumPattern,
}

// Options configures the source. The zero value targets the live site.
type Options struct {
	BaseURL          string
	UserAgent        string
	Timeout          time.Duration
	RateRequests     int
	RateInterval     time.Duration
	BypassCloudflare bool
	Transport        http.RoundTripper
}

// Source implements source.Source for demonicscans.org.
type Source struct {
	baseURL  string
	client   *scrape.Client
	table    *catalog.Table
	sections []models.SectionDescriptor
	handlers map[string]source.SectionHandler
}

// New builds the source. The bundled dataset is parsed once here and is
// read-only for the source's lifetime.
func New(opts Options) *Source {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	rateRequests := opts.RateRequests
	rateInterval := opts.RateInterval
	if rateRequests == 0 {
		rateRequests, rateInterval = 4, time.Second
	}

	s := &Source{
		baseURL: baseURL,
		table:   catalog.MustLoad(contentJSON),
		client: scrape.NewClient(scrape.ClientOptions{
			Referer:          baseURL + "/",
			UserAgent:        opts.UserAgent,
			Timeout:          opts.Timeout,
			RateRequests:     rateRequests,
			RateInterval:     rateInterval,
			BypassCloudflare: opts.BypassCloudflare,
			Transport:        opts.Transport,
		}),
	}

	s.sections = []models.SectionDescriptor{
		{ID: "most-viewed-today", Title: "Most Viewed Today", Type: models.SectionFeatured},
		{ID: "latest-translations", Title: "Our Latest Translations", Type: models.SectionCarousel},
		{ID: "latest-updates", Title: "Latest Updates", Type: models.SectionCarousel},
		{ID: "new-titles", Title: "New Titles", Type: models.SectionCarousel},
		{ID: "genres", Title: "Genres", Type: models.SectionGenres},
	}
	s.handlers = map[string]source.SectionHandler{
		"most-viewed-today":   s.mostViewedToday,
		"latest-translations": s.updatesSection("/ourtranslations.php"),
		"latest-updates":      s.updatesSection("/lastupdates.php"),
		"new-titles":          s.updatesSection("/newmangas.php"),
		"genres":              s.genreSection,
	}
	return s
}

// Table exposes the bundled dataset for hosts that want to inspect it.
func (s *Source) Table() *catalog.Table {
	return s.table
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

func (s *Source) mostViewedToday(ctx context.Context, cur *models.Cursor) (models.PagedListings, error) {
	doc, err := s.client.Document(ctx, s.baseURL+"/")
	if err != nil {
		return models.PagedListings{}, err
	}
	return scrape.CollectListings(doc, &carouselProfile, cur), nil
}

func (s *Source) updatesSection(path string) source.SectionHandler {
	return func(ctx context.Context, cur *models.Cursor) (models.PagedListings, error) {
		doc, err := s.client.Document(ctx, fmt.Sprintf("%s%s?list=%d", s.baseURL, path, cur.PageOr(1)))
		if err != nil {
			return models.PagedListings{}, err
		}
		return scrape.CollectListings(doc, &updatesProfile, cur), nil
	}
}

func (s *Source) genreSection(_ context.Context, _ *models.Cursor) (models.PagedListings, error) {
	var items []models.ListingItem
	for _, g := range genreList {
		items = append(items, models.ListingItem{ID: models.TagID(g), Title: g})
	}
	return models.PagedListings{Items: items}, nil
}

func (s *Source) SearchFilters() []models.FilterDescriptor {
	return []models.FilterDescriptor{
		{
			ID:    "filter-mode",
			Title: "Title Filter",
			Type:  "dropdown",
			Options: []models.FilterOption{
				{ID: "include", Label: "Include matches"},
				{ID: "exclude", Label: "Exclude matches"},
			},
			Default: string(catalog.ModeInclude),
		},
	}
}

// Search scans the bundled dataset. The whole result set comes back in one
// batch; there is no cursor to thread.
func (s *Source) Search(_ context.Context, q models.SearchQuery, _ *models.Cursor) (models.PagedListings, error) {
	mode := catalog.ModeInclude
	if f, ok := q.Filter("filter-mode"); ok && f.Value == string(catalog.ModeExclude) {
		mode = catalog.ModeExclude
	}

	var items []models.ListingItem
	for _, entry := range s.table.Search(q.Title, mode) {
		if entry.TitleID == "" {
			continue
		}
		item := models.ListingItem{
			ID:       entry.TitleID,
			Title:    entry.PrimaryTitle,
			ImageURL: entry.ThumbnailURL,
		}
		if item.Title == "" {
			item.Title = "Unknown Title"
		}
		if len(entry.SecondaryTitles) > 0 {
			item.Subtitle = entry.SecondaryTitles[0]
		}
		items = append(items, item)
	}
	return models.PagedListings{Items: items}, nil
}

func (s *Source) SeriesDetails(_ context.Context, id string) (*models.SeriesDetails, error) {
	entry, err := s.table.Find(id)
	if err != nil {
		return nil, source.OpError(Manifest.ID, "SeriesDetails", err)
	}

	d := &models.SeriesDetails{
		ID:              id,
		PrimaryTitle:    entry.PrimaryTitle,
		SecondaryTitles: entry.SecondaryTitles,
		ThumbnailURL:    entry.ThumbnailURL,
		Synopsis:        entry.Synopsis,
		Status:          entry.Status,
		ContentRating:   contentRating(entry.ContentRating),
		Authors:         []string{entry.Author},
		Rating:          entry.Rating,
		ShareURL:        entry.URL,
		TagGroups: []models.TagSection{
			models.NewTagSection("genres", "Genres", entry.Genres),
			models.NewTagSection("tags", "Tags", entry.Tags),
		},
	}
	if d.PrimaryTitle == "" {
		d.PrimaryTitle = "Unknown Title"
	}
	if d.Synopsis == "" {
		d.Synopsis = "No synopsis."
	}
	return d, nil
}

func contentRating(raw string) string {
	switch raw {
	case "ADULT":
		return models.RatingAdult
	case "MATURE":
		return models.RatingMature
	default:
		return models.RatingEveryone
	}
}

// Chapters returns the entry's chapter list in dataset order, which is
// already the canonical reading order. Chapters without an id are skipped;
// a missing chapter number falls back to the 1-based position.
func (s *Source) Chapters(_ context.Context, id string) ([]models.ChapterResult, error) {
	entry, err := s.table.Find(id)
	if err != nil {
		return nil, source.OpError(Manifest.ID, "Chapters", err)
	}

	var chapters []models.ChapterResult
	for i, ch := range entry.Chapters {
		if ch.ChapterID == "" {
			continue
		}
		number := ch.ChapterNumber
		if number == 0 {
			number = float64(i + 1)
		}
		language := ch.LanguageCode
		if language == "" {
			language = "EN"
		}
		chapters = append(chapters, models.ChapterResult{
			Identifier: ch.ChapterID,
			Title:      entry.PrimaryTitle,
			Language:   language,
			Number:     number,
			Volume:     ch.VolumeNumber,
		})
	}
	return chapters, nil
}

func (s *Source) ChapterPages(_ context.Context, ref models.ChapterRef) ([]string, error) {
	_, chapter, err := s.table.FindChapter(ref.SeriesID, ref.ChapterID)
	if err != nil {
		return nil, source.OpError(Manifest.ID, "ChapterPages", err)
	}
	return chapter.Pages, nil
}

// genreList mirrors the genre index the site exposes.
var genreList = []string{
	"Action",
	"Adventure",
	"Comedy",
	"Drama",
	"Fantasy",
	"Harem",
	"Martial Arts",
	"Mature",
	"Mystery",
	"Romance",
	"Shounen",
	"Supernatural",
}
