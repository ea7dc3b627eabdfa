package source

import (
	"context"
	"testing"

	"github.com/inkreader/ink-sources/internal/models"
)

// stubSource is a minimal source for registry tests.
type stubSource struct {
	id string
}

func (s *stubSource) Info() models.SourceInfo {
	return models.SourceInfo{ID: s.id, Name: "Stub"}
}
func (s *stubSource) DiscoverSections() []models.SectionDescriptor { return nil }
func (s *stubSource) SectionItems(context.Context, string, *models.Cursor) (models.PagedListings, error) {
	return models.PagedListings{}, nil
}
func (s *stubSource) SearchFilters() []models.FilterDescriptor { return nil }
func (s *stubSource) Search(context.Context, models.SearchQuery, *models.Cursor) (models.PagedListings, error) {
	return models.PagedListings{}, nil
}
func (s *stubSource) SeriesDetails(context.Context, string) (*models.SeriesDetails, error) {
	return nil, nil
}
func (s *stubSource) Chapters(context.Context, string) ([]models.ChapterResult, error) {
	return nil, nil
}
func (s *stubSource) ChapterPages(context.Context, models.ChapterRef) ([]string, error) {
	return nil, nil
}

// resetRegistry is a helper to ensure a clean state for each test run.
func resetRegistry() {
	registry = make(map[string]Source)
}

func TestSourceRegistry(t *testing.T) {
	resetRegistry()
	Register(&stubSource{id: "stub"})

	t.Run("All Sources", func(t *testing.T) {
		all := All()
		if len(all) != 1 {
			t.Fatalf("Expected 1 source, got %d", len(all))
		}
		if all[0].ID != "stub" {
			t.Errorf("Expected source ID 'stub', got '%s'", all[0].ID)
		}
	})

	t.Run("All Is Ordered", func(t *testing.T) {
		Register(&stubSource{id: "alpha"})
		all := All()
		if len(all) != 2 || all[0].ID != "alpha" || all[1].ID != "stub" {
			t.Errorf("Expected [alpha stub], got %v", all)
		}
	})

	t.Run("Get Existing Source", func(t *testing.T) {
		s, ok := Get("stub")
		if !ok {
			t.Fatal("Expected to find source 'stub', but it was not found")
		}
		if s.Info().Name != "Stub" {
			t.Errorf("Expected source name 'Stub', got '%s'", s.Info().Name)
		}
	})

	t.Run("Get Non-existent Source", func(t *testing.T) {
		_, ok := Get("nonexistent")
		if ok {
			t.Fatal("Expected not to find source 'nonexistent', but it was found")
		}
	})

	t.Run("Panic on Duplicate Registration", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected registration of a duplicate source to panic, but it did not")
			}
		}()
		Register(&stubSource{id: "stub"})
	})
}
