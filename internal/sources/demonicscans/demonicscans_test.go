package demonicscans

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkreader/ink-sources/internal/models"
	"github.com/inkreader/ink-sources/internal/source"
)

const carouselHTML = `<html><body>
<div id="carousel">
	<div class="owl-item"><div class="owl-element">
		<a href="/manga/garden.of.glass"><img src="https://demonicscans.org/covers/garden-of-glass.jpg">
		<div class="series-title">Garden of Glass</div></a>
	</div></div>
	<div class="owl-item"><div class="owl-element">
		<a href="/manga/moonlit_academy"><img src="https://demonicscans.org/covers/moonlit-academy.jpg">
		<div class="series-title">Moonlit Academy</div></a>
	</div></div>
</div>
</body></html>`

const updatesListOne = `<html><body>
<div class="updates-element">
	<div class="update-info"><a href="/manga/garden.of.glass">Garden of Glass</a></div>
	<img src="https://demonicscans.org/covers/garden-of-glass.jpg">
	<a class="chplinks" href="/chapter/gog-1">Chapter 1</a>
</div>
<div class="updates-element">
	<div class="update-info"><a href="/manga/moonlit_academy">Moonlit Academy</a></div>
	<img src="https://demonicscans.org/covers/moonlit-academy.jpg">
	<a class="chplinks" href="/chapter/ma-2">Chapter 2</a>
</div>
<div class="pagination"><a class="next" href="/lastupdates.php?list=2">Next</a></div>
</body></html>`

const updatesListTwo = `<html><body>
<div class="updates-element">
	<div class="update-info"><a href="/manga/moonlit_academy">Moonlit Academy</a></div>
	<img src="https://demonicscans.org/covers/moonlit-academy.jpg">
</div>
</body></html>`

func newTestSource(t *testing.T, handler http.Handler) *Source {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Options{
		BaseURL:      server.URL,
		RateRequests: 100,
		RateInterval: time.Millisecond,
	})
}

// newCatalogSource builds a source for dataset-backed operations, which
// never touch the network.
func newCatalogSource() *Source {
	return New(Options{})
}

func TestDiscoverSections(t *testing.T) {
	s := newCatalogSource()
	sections := s.DiscoverSections()
	if len(sections) != 5 {
		t.Fatalf("Expected 5 sections, got %d", len(sections))
	}
	if sections[0].ID != "most-viewed-today" || sections[0].Type != models.SectionFeatured {
		t.Errorf("Unexpected first section: %+v", sections[0])
	}
}

func TestSectionItemsUnknownSection(t *testing.T) {
	s := newCatalogSource()
	_, err := s.SectionItems(context.Background(), "bogus", nil)
	if !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown section, got %v", err)
	}
}

func TestMostViewedTodayCarousel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(carouselHTML))
	})
	s := newTestSource(t, mux)

	res, err := s.SectionItems(context.Background(), "most-viewed-today", nil)
	if err != nil {
		t.Fatalf("SectionItems failed: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("Expected 2 carousel items, got %d", len(res.Items))
	}
	if res.Items[0].ID != "garden.of.glass" || res.Items[0].Title != "Garden of Glass" {
		t.Errorf("Unexpected first item: %+v", res.Items[0])
	}
	if res.Next != nil {
		t.Errorf("Carousel is a single fetch, got next cursor %+v", res.Next)
	}
}

func TestUpdatesSectionPagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/lastupdates.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("list") == "2" {
			w.Write([]byte(updatesListTwo))
			return
		}
		w.Write([]byte(updatesListOne))
	})
	s := newTestSource(t, mux)

	first, err := s.SectionItems(context.Background(), "latest-updates", nil)
	if err != nil {
		t.Fatalf("SectionItems failed: %v", err)
	}
	if len(first.Items) != 2 {
		t.Fatalf("Expected 2 items on list 1, got %d", len(first.Items))
	}
	if first.Items[0].Subtitle != "Chapter 1" {
		t.Errorf("Expected latest-chapter subtitle, got %q", first.Items[0].Subtitle)
	}
	if first.Next == nil || first.Next.Page != 2 {
		t.Fatalf("Expected next cursor for list 2, got %+v", first.Next)
	}

	second, err := s.SectionItems(context.Background(), "latest-updates", first.Next)
	if err != nil {
		t.Fatalf("SectionItems failed: %v", err)
	}
	if len(second.Items) != 0 {
		t.Errorf("Expected the repeated title to be deduped, got %+v", second.Items)
	}
	if second.Next != nil {
		t.Errorf("Expected traversal to end without a next link, got %+v", second.Next)
	}
}

func TestGenreSection(t *testing.T) {
	s := newCatalogSource()
	res, err := s.SectionItems(context.Background(), "genres", nil)
	if err != nil {
		t.Fatalf("SectionItems failed: %v", err)
	}
	if len(res.Items) != len(genreList) {
		t.Fatalf("Expected %d genres, got %d", len(genreList), len(res.Items))
	}
	for _, item := range res.Items {
		if item.Title == "Martial Arts" && item.ID != "martial-arts" {
			t.Errorf("Expected hyphenated genre id, got %q", item.ID)
		}
	}
	if res.Next != nil {
		t.Errorf("Genre section must not paginate, got %+v", res.Next)
	}
}

func TestSearchIncludeMode(t *testing.T) {
	s := newCatalogSource()

	res, err := s.Search(context.Background(), models.SearchQuery{Title: "drag"}, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("Expected 2 matches for 'drag', got %+v", res.Items)
	}
	ids := map[string]bool{}
	for _, item := range res.Items {
		ids[item.ID] = true
	}
	if !ids["dragon-slayer-chronicles"] {
		t.Error("Expected primary-title match 'dragon-slayer-chronicles'")
	}
	if !ids["garden.of.glass"] {
		t.Error("Expected secondary-title match 'garden.of.glass'")
	}
	if res.Next != nil {
		t.Errorf("Dataset search returns everything at once, got %+v", res.Next)
	}
}

func TestSearchExcludeModeIsComplement(t *testing.T) {
	s := newCatalogSource()
	query := models.SearchQuery{
		Title:   "drag",
		Filters: []models.FilterValue{{ID: "filter-mode", Value: "exclude"}},
	}

	res, err := s.Search(context.Background(), query, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("Expected the 2 non-matching entries, got %+v", res.Items)
	}
	for _, item := range res.Items {
		if item.ID == "dragon-slayer-chronicles" || item.ID == "garden.of.glass" {
			t.Errorf("Exclude mode returned a matching entry: %+v", item)
		}
	}

	included, _ := s.Search(context.Background(), models.SearchQuery{Title: "drag"}, nil)
	if len(included.Items)+len(res.Items) != s.Table().Len() {
		t.Errorf("Include and exclude must partition the dataset: %d + %d != %d",
			len(included.Items), len(res.Items), s.Table().Len())
	}
}

func TestSearchSubtitleIsFirstSecondaryTitle(t *testing.T) {
	s := newCatalogSource()
	res, err := s.Search(context.Background(), models.SearchQuery{Title: "iron alchemist"}, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Subtitle != "Tetsu no Renkinjutsushi" {
		t.Errorf("Unexpected result: %+v", res.Items)
	}
}

func TestSeriesDetails(t *testing.T) {
	s := newCatalogSource()

	d, err := s.SeriesDetails(context.Background(), "dragon-slayer-chronicles")
	if err != nil {
		t.Fatalf("SeriesDetails failed: %v", err)
	}
	if d.PrimaryTitle != "Dragon Slayer Chronicles" {
		t.Errorf("Unexpected title: %q", d.PrimaryTitle)
	}
	if d.ContentRating != models.RatingAdult {
		t.Errorf("Expected ADULT rating, got %q", d.ContentRating)
	}
	if d.Status != models.StatusOngoing {
		t.Errorf("Expected ONGOING, got %q", d.Status)
	}
	if len(d.Authors) != 1 || d.Authors[0] != "Kazuo Arita" {
		t.Errorf("Unexpected authors: %v", d.Authors)
	}
	if d.Rating != 8.4 {
		t.Errorf("Expected rating 8.4, got %v", d.Rating)
	}

	if len(d.TagGroups) != 2 {
		t.Fatalf("Expected exactly two tag groups, got %+v", d.TagGroups)
	}
	genres, tags := d.TagGroups[0], d.TagGroups[1]
	if genres.ID != "genres" || len(genres.Tags) != 2 {
		t.Errorf("Unexpected genres group: %+v", genres)
	}
	if len(tags.Tags) != 2 || tags.Tags[1].ID != "sword-play" {
		t.Errorf("Expected hyphenated tag id 'sword-play', got %+v", tags)
	}
}

func TestSeriesDetailsContentRatings(t *testing.T) {
	s := newCatalogSource()
	cases := map[string]string{
		"dragon-slayer-chronicles": models.RatingAdult,
		"the-iron-alchemist":       models.RatingMature,
		"garden.of.glass":          models.RatingEveryone,
	}
	for id, want := range cases {
		d, err := s.SeriesDetails(context.Background(), id)
		if err != nil {
			t.Fatalf("SeriesDetails(%q) failed: %v", id, err)
		}
		if d.ContentRating != want {
			t.Errorf("SeriesDetails(%q).ContentRating = %q, want %q", id, d.ContentRating, want)
		}
	}
}

func TestSeriesDetailsNotFound(t *testing.T) {
	s := newCatalogSource()
	_, err := s.SeriesDetails(context.Background(), "no-such-title")
	if !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	var srcErr *source.Error
	if !errors.As(err, &srcErr) {
		t.Fatalf("Expected a source.Error wrapper, got %T", err)
	}
	if srcErr.SourceID != Manifest.ID || srcErr.Op != "SeriesDetails" {
		t.Errorf("Unexpected error context: %+v", srcErr)
	}
}

func TestChapters(t *testing.T) {
	s := newCatalogSource()

	t.Run("fractional numbers preserved", func(t *testing.T) {
		chapters, err := s.Chapters(context.Background(), "dragon-slayer-chronicles")
		if err != nil {
			t.Fatalf("Chapters failed: %v", err)
		}
		if len(chapters) != 3 {
			t.Fatalf("Expected 3 chapters, got %d", len(chapters))
		}
		if chapters[2].Identifier != "chapter-2.5" || chapters[2].Number != 2.5 {
			t.Errorf("Unexpected last chapter: %+v", chapters[2])
		}
		if chapters[0].Volume != 1 {
			t.Errorf("Expected volume 1, got %v", chapters[0].Volume)
		}
	})

	t.Run("missing ids skipped and numbers fall back to position", func(t *testing.T) {
		chapters, err := s.Chapters(context.Background(), "the-iron-alchemist")
		if err != nil {
			t.Fatalf("Chapters failed: %v", err)
		}
		if len(chapters) != 2 {
			t.Fatalf("Expected the empty-id chapter to be skipped, got %d", len(chapters))
		}
		if chapters[0].Number != 1 {
			t.Errorf("Expected positional fallback 1, got %v", chapters[0].Number)
		}
		if chapters[1].Identifier != "chapter-3" || chapters[1].Number != 3 {
			t.Errorf("Unexpected second chapter: %+v", chapters[1])
		}
		if chapters[0].Language != "EN" {
			t.Errorf("Expected EN default, got %q", chapters[0].Language)
		}
	})

	t.Run("unknown title", func(t *testing.T) {
		_, err := s.Chapters(context.Background(), "no-such-title")
		if !errors.Is(err, source.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestChapterPages(t *testing.T) {
	s := newCatalogSource()

	pages, err := s.ChapterPages(context.Background(), models.ChapterRef{
		SeriesID:  "dragon-slayer-chronicles",
		ChapterID: "chapter-1",
	})
	if err != nil {
		t.Fatalf("ChapterPages failed: %v", err)
	}
	if len(pages) != 3 || pages[0] != "https://demonicscans.org/pages/dsc/1/01.jpg" {
		t.Errorf("Unexpected pages: %v", pages)
	}

	_, err = s.ChapterPages(context.Background(), models.ChapterRef{
		SeriesID:  "dragon-slayer-chronicles",
		ChapterID: "chapter-99",
	})
	if !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown chapter, got %v", err)
	}
}

func TestBlockedSiteSurfacesErrBlocked(t *testing.T) {
	s := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := s.SectionItems(context.Background(), "most-viewed-today", nil)
	if !errors.Is(err, source.ErrBlocked) {
		t.Errorf("Expected ErrBlocked, got %v", err)
	}
}

func TestSearchFiltersDefault(t *testing.T) {
	s := newCatalogSource()
	filters := s.SearchFilters()
	if len(filters) != 1 || filters[0].ID != "filter-mode" {
		t.Fatalf("Unexpected filters: %+v", filters)
	}
	if filters[0].Default != "include" {
		t.Errorf("Expected include default, got %q", filters[0].Default)
	}
}
