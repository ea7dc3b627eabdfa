package catalog

import (
	"errors"
	"testing"

	"github.com/inkreader/ink-sources/internal/source"
)

const testDataset = `[
	{
		"titleId": "dragon-heir",
		"primaryTitle": "Dragon Heir",
		"thumbnailUrl": "https://cdn.example/dragon-heir.jpg",
		"synopsis": "A dragon story.",
		"status": "ONGOING",
		"author": "A. Writer",
		"rating": 4.5,
		"contentRating": "EVERYONE",
		"chapters": [
			{"chapterId": "chapter-1", "chapterNumber": 1, "pages": ["https://cdn.example/dh/1/001.jpg"]},
			{"chapterId": "chapter-2", "chapterNumber": 2, "pages": ["https://cdn.example/dh/2/001.jpg"]}
		],
		"url": "https://demonicscans.org/manga/dragon-heir"
	},
	{
		"titleId": "glass.garden",
		"primaryTitle": "Glass Garden",
		"secondaryTitles": ["The Dragonfly Diaries"],
		"thumbnailUrl": "https://cdn.example/gg.jpg",
		"synopsis": "Quiet days.",
		"status": "COMPLETED",
		"author": "B. Writer",
		"rating": 4.1,
		"contentRating": "MATURE",
		"chapters": [],
		"url": "https://demonicscans.org/manga/glass.garden"
	},
	{
		"titleId": "moonlit_academy",
		"primaryTitle": "Moonlit Academy",
		"thumbnailUrl": "https://cdn.example/ma.jpg",
		"synopsis": "School nights.",
		"status": "ONGOING",
		"author": "C. Writer",
		"rating": 3.9,
		"contentRating": "EVERYONE",
		"chapters": [],
		"url": "https://demonicscans.org/manga/moonlit_academy"
	}
]`

func loadTestTable(t *testing.T) *Table {
	t.Helper()
	table, err := Load([]byte(testDataset))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return table
}

func TestLoadRejectsBadJSON(t *testing.T) {
	if _, err := Load([]byte(`{not json`)); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestFind(t *testing.T) {
	table := loadTestTable(t)

	entry, err := table.Find("dragon-heir")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if entry.PrimaryTitle != "Dragon Heir" {
		t.Errorf("Unexpected entry: %+v", entry)
	}

	_, err = table.Find("no-such-title")
	if !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFindChapter(t *testing.T) {
	table := loadTestTable(t)

	entry, chapter, err := table.FindChapter("dragon-heir", "chapter-2")
	if err != nil {
		t.Fatalf("FindChapter failed: %v", err)
	}
	if entry.TitleID != "dragon-heir" || chapter.ChapterNumber != 2 {
		t.Errorf("Unexpected result: %+v / %+v", entry, chapter)
	}

	_, _, err = table.FindChapter("dragon-heir", "chapter-99")
	if !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown chapter, got %v", err)
	}
	_, _, err = table.FindChapter("no-such-title", "chapter-1")
	if !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown title, got %v", err)
	}
}

func TestSearchIncludeAndExcludeAreComplements(t *testing.T) {
	table := loadTestTable(t)

	included := table.Search("drag", ModeInclude)
	if len(included) != 2 {
		t.Fatalf("Expected 2 matches for 'drag', got %d", len(included))
	}
	ids := map[string]bool{}
	for _, e := range included {
		ids[e.TitleID] = true
	}
	if !ids["dragon-heir"] {
		t.Error("Expected primary-title match 'dragon-heir'")
	}
	if !ids["glass.garden"] {
		t.Error("Expected secondary-title match 'glass.garden'")
	}

	excluded := table.Search("drag", ModeExclude)
	if len(excluded) != 1 || excluded[0].TitleID != "moonlit_academy" {
		t.Fatalf("Expected exclude mode to return the complement, got %+v", excluded)
	}
	if len(included)+len(excluded) != table.Len() {
		t.Errorf("Include and exclude must partition the dataset: %d + %d != %d",
			len(included), len(excluded), table.Len())
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	table := loadTestTable(t)
	if got := table.Search("MOONLIT", ModeInclude); len(got) != 1 {
		t.Errorf("Expected case-insensitive match, got %d results", len(got))
	}
}

func TestSearchEmptyQueryMatchesAll(t *testing.T) {
	table := loadTestTable(t)
	if got := table.Search("", ModeInclude); len(got) != table.Len() {
		t.Errorf("Expected every entry to contain the empty string, got %d", len(got))
	}
	if got := table.Search("", ModeExclude); len(got) != 0 {
		t.Errorf("Expected empty complement, got %d", len(got))
	}
}
