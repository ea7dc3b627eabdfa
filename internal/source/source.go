// Package source defines the contract between the reader host and a
// content source, plus the registry the host uses to look sources up.
package source

import (
	"context"

	"github.com/inkreader/ink-sources/internal/models"
)

// Source is the contract every content source implements. Operations are
// independent and hold no state between calls: pagination state travels in
// the caller-supplied cursor, which the source returns updated (or nil once
// the traversal is done) and never retains.
type Source interface {
	Info() models.SourceInfo

	// DiscoverSections returns the fixed list of discover sections. No I/O.
	DiscoverSections() []models.SectionDescriptor

	// SectionItems fetches one page of the given discover section. A nil
	// cursor starts the traversal; a nil Next in the result ends it.
	SectionItems(ctx context.Context, sectionID string, cur *models.Cursor) (models.PagedListings, error)

	// SearchFilters returns the fixed list of supported filters. No I/O.
	SearchFilters() []models.FilterDescriptor

	Search(ctx context.Context, q models.SearchQuery, cur *models.Cursor) (models.PagedListings, error)

	SeriesDetails(ctx context.Context, id string) (*models.SeriesDetails, error)

	// Chapters returns the full chapter list, oldest first.
	Chapters(ctx context.Context, id string) ([]models.ChapterResult, error)

	// ChapterPages returns the ordered page image URLs for one chapter.
	ChapterPages(ctx context.Context, ref models.ChapterRef) ([]string, error)
}

// SectionHandler serves one discover section: one fetch-parse-emit cycle
// per call, threading the cursor. Sources build a fixed map of these at
// construction so an unknown section id is a lookup failure, not a switch
// falling through.
type SectionHandler func(ctx context.Context, cur *models.Cursor) (models.PagedListings, error)
