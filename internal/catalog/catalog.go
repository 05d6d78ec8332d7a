// Package catalog holds the fixed, read-only movie reference table.
// Entries never change for the lifetime of the process.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"movie-review-service/internal/models"
)

//go:embed seed.json
var seedData []byte

// Catalog is an immutable set of movies with index lookups.
type Catalog struct {
	movies []models.Movie
	byID   map[string]models.Movie
}

// New builds a Catalog from the given movies.
func New(movies []models.Movie) *Catalog {
	byID := make(map[string]models.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	return &Catalog{movies: movies, byID: byID}
}

// LoadEmbedded builds the Catalog from the compiled-in seed data.
func LoadEmbedded() (*Catalog, error) {
	var movies []models.Movie
	if err := json.Unmarshal(seedData, &movies); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}
	return New(movies), nil
}

// LoadFile builds the Catalog from a JSON file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var movies []models.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return New(movies), nil
}

// All returns the catalog in its fixed order.
func (c *Catalog) All() []models.Movie {
	return c.movies
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// ByID returns the movie with the given ID.
func (c *Catalog) ByID(id string) (models.Movie, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// GenresFor returns the genre tags of one movie, nil for unknown IDs.
func (c *Catalog) GenresFor(id string) []string {
	m, ok := c.byID[id]
	if !ok {
		return nil
	}
	return m.Genre
}

// Genres returns the distinct genre tags across the catalog, sorted.
func (c *Catalog) Genres() []string {
	seen := map[string]bool{}
	var genres []string
	for _, m := range c.movies {
		for _, g := range m.Genre {
			if !seen[g] {
				seen[g] = true
				genres = append(genres, g)
			}
		}
	}
	sort.Strings(genres)
	return genres
}

// Filter returns the movies matching an exact genre tag and a
// case-insensitive search over title and genres. Empty arguments match
// everything.
func (c *Catalog) Filter(genre, search string) []models.Movie {
	search = strings.ToLower(search)
	var matched []models.Movie
	for _, m := range c.movies {
		if genre != "" && !contains(m.Genre, genre) {
			continue
		}
		if search != "" && !matchesSearch(m, search) {
			continue
		}
		matched = append(matched, m)
	}
	return matched
}

func contains(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func matchesSearch(m models.Movie, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(m.Title), lowerQuery) {
		return true
	}
	for _, g := range m.Genre {
		if strings.Contains(strings.ToLower(g), lowerQuery) {
			return true
		}
	}
	return false
}
