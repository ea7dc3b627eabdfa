package source

import (
	"fmt"
	"sort"

	"github.com/inkreader/ink-sources/internal/models"
)

var registry = make(map[string]Source)

// Register adds a source to the registry. It's called at startup.
func Register(s Source) {
	info := s.Info()
	if _, exists := registry[info.ID]; exists {
		// Panic is appropriate here as it's a developer error during setup.
		panic(fmt.Sprintf("source with ID '%s' is already registered", info.ID))
	}
	registry[info.ID] = s
}

// Get returns a source by its ID.
func Get(id string) (Source, bool) {
	s, ok := registry[id]
	return s, ok
}

// All returns information for every registered source, ordered by ID.
func All() []models.SourceInfo {
	var infos []models.SourceInfo
	for _, s := range registry {
		infos = append(infos, s.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
