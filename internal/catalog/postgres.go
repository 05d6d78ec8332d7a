package catalog

import (
	"database/sql"
	"fmt"
	"log/slog"

	"movie-review-service/internal/models"
)

// LoadPostgres builds the Catalog from the reference tables. The
// database is treated as read-only after startup.
func LoadPostgres(db *sql.DB) (*Catalog, error) {
	rows, err := db.Query(`
		SELECT id, title, year, poster, description
		FROM movies
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Year, &m.Poster, &m.Description); err != nil {
			slog.Error("failed to scan movie row", "error", err)
			continue
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movies: %w", err)
	}

	for i := range movies {
		if movies[i].Genre, err = movieGenres(db, movies[i].ID); err != nil {
			return nil, err
		}
		if movies[i].Cast, err = movieCast(db, movies[i].ID); err != nil {
			return nil, err
		}
	}

	slog.Info("loaded catalog from PostgreSQL", "movies", len(movies))
	return New(movies), nil
}

func movieGenres(db *sql.DB, movieID string) ([]string, error) {
	rows, err := db.Query(`
		SELECT g.name FROM genres g
		INNER JOIN movie_genres mg ON mg.genre_id = g.id
		WHERE mg.movie_id = $1
		ORDER BY mg.position
	`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			genres = append(genres, name)
		}
	}
	return genres, rows.Err()
}

func movieCast(db *sql.DB, movieID string) ([]string, error) {
	rows, err := db.Query(`
		SELECT actor FROM movie_cast
		WHERE movie_id = $1
		ORDER BY position
	`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cast: %w", err)
	}
	defer rows.Close()

	var cast []string
	for rows.Next() {
		var actor string
		if err := rows.Scan(&actor); err == nil {
			cast = append(cast, actor)
		}
	}
	return cast, rows.Err()
}

// SeedPostgres populates empty reference tables from the given movies,
// so a fresh database serves the same catalog as the embedded seed.
// Existing rows are left untouched.
func SeedPostgres(db *sql.DB, movies []models.Movie) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM movies`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count movies: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, m := range movies {
		if _, err := db.Exec(`
			INSERT INTO movies (id, title, year, poster, description)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING
		`, m.ID, m.Title, m.Year, m.Poster, m.Description); err != nil {
			return fmt.Errorf("failed to insert movie %s: %w", m.ID, err)
		}

		for pos, genre := range m.Genre {
			var genreID int
			if err := db.QueryRow(`
				INSERT INTO genres (name)
				VALUES ($1)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id
			`, genre).Scan(&genreID); err != nil {
				return fmt.Errorf("failed to upsert genre %s: %w", genre, err)
			}
			if _, err := db.Exec(`
				INSERT INTO movie_genres (movie_id, genre_id, position)
				VALUES ($1, $2, $3)
				ON CONFLICT DO NOTHING
			`, m.ID, genreID, pos); err != nil {
				return fmt.Errorf("failed to link genre: %w", err)
			}
		}

		for pos, actor := range m.Cast {
			if _, err := db.Exec(`
				INSERT INTO movie_cast (movie_id, position, actor)
				VALUES ($1, $2, $3)
				ON CONFLICT DO NOTHING
			`, m.ID, pos, actor); err != nil {
				return fmt.Errorf("failed to insert cast member: %w", err)
			}
		}
	}

	slog.Info("seeded catalog tables", "movies", len(movies))
	return nil
}
