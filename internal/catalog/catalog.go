// Package catalog serves a preloaded, read-only dataset in place of live
// scraping. The table is loaded once at startup and only ever scanned
// linearly; at catalog sizes an index would not pay for itself.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkreader/ink-sources/internal/source"
)

// Chapter is one chapter of a catalog entry. Ordering within an entry's
// Chapters slice is the canonical reading order.
type Chapter struct {
	ChapterID     string   `json:"chapterId"`
	LanguageCode  string   `json:"languageCode,omitempty"`
	ChapterNumber float64  `json:"chapterNumber,omitempty"`
	VolumeNumber  float64  `json:"volumeNumber,omitempty"`
	Pages         []string `json:"pages"`
}

// Entry is one series in the bundled dataset. TitleID is assumed unique
// across the dataset; the loader does not enforce it.
type Entry struct {
	TitleID         string    `json:"titleId"`
	PrimaryTitle    string    `json:"primaryTitle"`
	SecondaryTitles []string  `json:"secondaryTitles,omitempty"`
	ThumbnailURL    string    `json:"thumbnailUrl"`
	Synopsis        string    `json:"synopsis"`
	Status          string    `json:"status"`
	Author          string    `json:"author"`
	Rating          float64   `json:"rating"`
	Genres          []string  `json:"genres,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	ContentRating   string    `json:"contentRating"`
	Chapters        []Chapter `json:"chapters"`
	URL             string    `json:"url"`
}

// FilterMode selects whether a search keeps matching or non-matching
// entries.
type FilterMode string

const (
	ModeInclude FilterMode = "include"
	ModeExclude FilterMode = "exclude"
)

// Table is a read-only handle over the loaded dataset.
type Table struct {
	entries []Entry
}

// Load parses a bundled dataset.
func Load(data []byte) (*Table, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog dataset: %w", err)
	}
	return &Table{entries: entries}, nil
}

// MustLoad is Load for embedded datasets, where a parse failure is a
// packaging error caught at startup.
func MustLoad(data []byte) *Table {
	t, err := Load(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of entries in the dataset.
func (t *Table) Len() int {
	return len(t.entries)
}

// Find returns the entry with the exact titleID, or ErrNotFound.
func (t *Table) Find(titleID string) (*Entry, error) {
	for i := range t.entries {
		if t.entries[i].TitleID == titleID {
			return &t.entries[i], nil
		}
	}
	return nil, fmt.Errorf("no title with id %q: %w", titleID, source.ErrNotFound)
}

// FindChapter returns the entry and chapter matching the pair of ids, or
// ErrNotFound for either level.
func (t *Table) FindChapter(titleID, chapterID string) (*Entry, *Chapter, error) {
	entry, err := t.Find(titleID)
	if err != nil {
		return nil, nil, err
	}
	for i := range entry.Chapters {
		if entry.Chapters[i].ChapterID == chapterID {
			return entry, &entry.Chapters[i], nil
		}
	}
	return nil, nil, fmt.Errorf("no chapter with id %q in title %q: %w", chapterID, titleID, source.ErrNotFound)
}

// Search scans the whole dataset. An entry matches when its primary title
// or any secondary title contains the query case-insensitively; the
// secondary scan stops at the first hit. Include mode keeps matches,
// exclude mode keeps the complement. The whole result set is returned per
// call; the dataset is small enough that search is never paginated.
func (t *Table) Search(query string, mode FilterMode) []*Entry {
	needle := strings.ToLower(query)
	var out []*Entry
	for i := range t.entries {
		matched := t.entries[i].matches(needle)
		if matched == (mode != ModeExclude) {
			out = append(out, &t.entries[i])
		}
	}
	return out
}

func (e *Entry) matches(needle string) bool {
	if strings.Contains(strings.ToLower(e.PrimaryTitle), needle) {
		return true
	}
	for _, title := range e.SecondaryTitles {
		if strings.Contains(strings.ToLower(title), needle) {
			return true
		}
	}
	return false
}
