package models

import (
	"regexp"
	"strings"
	"time"
)

// Publication status values understood by the host.
const (
	StatusOngoing   = "ONGOING"
	StatusCompleted = "COMPLETED"
	StatusUnknown   = "UNKNOWN"
)

// Content rating values understood by the host.
const (
	RatingEveryone = "EVERYONE"
	RatingMature   = "MATURE"
	RatingAdult    = "ADULT"
)

// Tag is a single genre or tag attached to a series.
type Tag struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// TagSection groups tags under a heading ("Genres", "Tags").
type TagSection struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Tags  []Tag  `json:"tags"`
}

var tagIDSpaces = regexp.MustCompile(`\s+`)

// TagID derives a tag id from its display title: lower-cased, whitespace
// runs replaced by a single hyphen.
func TagID(title string) string {
	return tagIDSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
}

// NewTagSection builds a tag section from a list of display titles.
// Recomputed on every detail fetch, never persisted.
func NewTagSection(id, title string, names []string) TagSection {
	section := TagSection{ID: id, Title: title}
	for _, name := range names {
		section.Tags = append(section.Tags, Tag{ID: TagID(name), Title: name})
	}
	return section
}

// SeriesDetails is the aggregate record produced by a details operation.
type SeriesDetails struct {
	ID              string       `json:"id"`
	PrimaryTitle    string       `json:"primary_title"`
	SecondaryTitles []string     `json:"secondary_titles,omitempty"`
	ThumbnailURL    string       `json:"thumbnail_url"`
	Synopsis        string       `json:"synopsis"`
	Status          string       `json:"status"`
	ContentRating   string       `json:"content_rating"`
	Authors         []string     `json:"authors,omitempty"`
	Artists         []string     `json:"artists,omitempty"`
	Rating          float64      `json:"rating,omitempty"`
	TagGroups       []TagSection `json:"tag_groups,omitempty"`
	ShareURL        string       `json:"share_url,omitempty"`
}

// ChapterResult represents a single chapter of a series. Number is the
// display chapter number (12.5 for "Chapter 12.5").
type ChapterResult struct {
	Identifier  string    `json:"identifier"`
	Title       string    `json:"title,omitempty"`
	Language    string    `json:"language"`
	Number      float64   `json:"number"`
	Volume      float64   `json:"volume,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// ChapterRef identifies one chapter of one series for a pages lookup.
type ChapterRef struct {
	SeriesID  string `json:"series_id"`
	ChapterID string `json:"chapter_id"`
}
