package toonily

import "github.com/inkreader/ink-sources/internal/models"

// genreOptions is the fixed genre list the site exposes. Option ids are
// the slugs the site's genre query parameters expect.
var genreOptions = []models.FilterOption{
	{ID: "action", Label: "Action"},
	{ID: "adventure", Label: "Adventure"},
	{ID: "comedy", Label: "Comedy"},
	{ID: "drama", Label: "Drama"},
	{ID: "fantasy", Label: "Fantasy"},
	{ID: "gl", Label: "GL"},
	{ID: "harem", Label: "Harem"},
	{ID: "historical", Label: "Historical"},
	{ID: "horror", Label: "Horror"},
	{ID: "josei", Label: "Josei"},
	{ID: "mature", Label: "Mature"},
	{ID: "mystery", Label: "Mystery"},
	{ID: "office", Label: "Office"},
	{ID: "psychological", Label: "Psychological"},
	{ID: "romance", Label: "Romance"},
	{ID: "school-life", Label: "School Life"},
	{ID: "sci-fi", Label: "Sci-Fi"},
	{ID: "seinen", Label: "Seinen"},
	{ID: "shoujo", Label: "Shoujo"},
	{ID: "shounen", Label: "Shounen"},
	{ID: "slice-of-life", Label: "Slice of Life"},
	{ID: "sports", Label: "Sports"},
	{ID: "supernatural", Label: "Supernatural"},
	{ID: "thriller", Label: "Thriller"},
}
