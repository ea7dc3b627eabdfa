package source

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Manifest describes a source to the host: display metadata, version, and
// the capabilities the host may call. Each source bundles one as
// source.json next to its code.
type Manifest struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Version       string          `json:"version"`
	Description   string          `json:"description"`
	Language      string          `json:"language"`
	ContentRating string          `json:"content_rating"`
	SiteURL       string          `json:"site_url"`
	Capabilities  map[string]bool `json:"capabilities"`
	Badges        []ManifestBadge `json:"badges,omitempty"`
	Developers    []string        `json:"developers,omitempty"`
}

// ManifestBadge is a short label the host renders next to the source name.
type ManifestBadge struct {
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// ParseManifest parses and validates an embedded source.json.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse source.json: %w", err)
	}

	if m.ID == "" {
		return nil, fmt.Errorf("source.json missing required field: id")
	}
	if m.Name == "" {
		return nil, fmt.Errorf("source.json missing required field: name")
	}
	if m.Version == "" {
		return nil, fmt.Errorf("source.json missing required field: version")
	}
	if _, err := semver.NewVersion(strings.TrimPrefix(m.Version, "v")); err != nil {
		return nil, fmt.Errorf("source.json has invalid version %q: %w", m.Version, err)
	}

	if m.Language == "" {
		m.Language = "en"
	}
	if m.Capabilities == nil {
		m.Capabilities = make(map[string]bool)
	}

	return &m, nil
}

// MustParseManifest is ParseManifest for embedded manifests, where a parse
// failure is a packaging error caught at startup.
func MustParseManifest(data []byte) *Manifest {
	m, err := ParseManifest(data)
	if err != nil {
		panic(err)
	}
	return m
}
