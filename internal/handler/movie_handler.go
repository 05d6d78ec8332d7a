package handler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"movie-review-service/internal/models"
	"movie-review-service/internal/session"
)

// MovieHandler handles catalog-facing HTTP requests.
type MovieHandler struct {
	session *session.Session
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(s *session.Session) *MovieHandler {
	return &MovieHandler{session: s}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps session errors onto HTTP statuses.
func respondError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrUnknownMovie):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}
}

// MovieDetailResponse is one movie with its derived state.
type MovieDetailResponse struct {
	models.Movie
	Stats       models.MovieStats `json:"stats"`
	InWatchlist bool              `json:"in_watchlist"`
	LikeCount   int               `json:"like_count"`
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *MovieHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movie-review-service",
	})
}

// ListMovies returns the catalog, filtered and optionally ranked.
// @Summary List movies
// @Tags movies
// @Produce json
// @Param genre query string false "Exact genre tag"
// @Param search query string false "Case-insensitive title/genre search"
// @Param sort query string false "Derived ranking" Enums(highly-rated,most-reviewed)
// @Success 200 {object} map[string]interface{}
// @Router /movies [get]
func (h *MovieHandler) ListMovies(c fiber.Ctx) error {
	params := models.MovieListParams{
		Genre:  c.Query("genre"),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	}

	movies := h.session.Movies(params)
	return c.JSON(fiber.Map{
		"data":   movies,
		"count":  len(movies),
		"genres": h.session.Genres(),
	})
}

// GetMovieDetail returns one movie with stats, like count and
// watchlist membership.
// @Summary Get movie detail
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} MovieDetailResponse
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovieDetail(c fiber.Ctx) error {
	id := c.Params("id")
	movie, ok := h.session.Movie(id)
	if !ok {
		return respondError(c, session.ErrUnknownMovie)
	}

	return c.JSON(MovieDetailResponse{
		Movie:       movie,
		Stats:       h.session.Stats(id),
		InWatchlist: h.session.InWatchlist(id),
		LikeCount:   h.session.MovieLikes(id),
	})
}

// CompareMovies returns stats for two movies side by side.
// @Summary Compare two movies
// @Tags movies
// @Produce json
// @Param a query string true "First movie ID"
// @Param b query string true "Second movie ID"
// @Success 200 {object} map[string]MovieDetailResponse
// @Failure 404 {object} ErrorResponse
// @Router /movies/compare [get]
func (h *MovieHandler) CompareMovies(c fiber.Ctx) error {
	result := map[string]MovieDetailResponse{}
	for key, id := range map[string]string{"a": c.Query("a"), "b": c.Query("b")} {
		movie, ok := h.session.Movie(id)
		if !ok {
			return respondError(c, session.ErrUnknownMovie)
		}
		result[key] = MovieDetailResponse{
			Movie:       movie,
			Stats:       h.session.Stats(id),
			InWatchlist: h.session.InWatchlist(id),
			LikeCount:   h.session.MovieLikes(id),
		}
	}
	return c.JSON(result)
}

// ShareMovie returns a share payload for one movie. Clipboard and
// platform share sheets are the caller's concern.
// @Summary Build a share payload
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id}/share [get]
func (h *MovieHandler) ShareMovie(c fiber.Ctx) error {
	id := c.Params("id")
	movie, ok := h.session.Movie(id)
	if !ok {
		return respondError(c, session.ErrUnknownMovie)
	}

	rating := "N/A"
	if s := h.session.Stats(id); s.AverageRating != nil {
		rating = fmt.Sprintf("%.1f", *s.AverageRating)
	}
	return c.JSON(fiber.Map{
		"title": movie.Title,
		"text":  fmt.Sprintf("Check out %q (%d) - Rated %s⭐", movie.Title, movie.Year, rating),
	})
}

// LikeMovie increments the movie's like counter. Not a toggle: every
// call adds one.
// @Summary Like a movie
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id}/like [post]
func (h *MovieHandler) LikeMovie(c fiber.Ctx) error {
	count, err := h.session.LikeMovie(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"movie_id": c.Params("id"), "like_count": count})
}

// ToggleWatchlist flips watchlist membership for one movie.
// @Summary Toggle watchlist membership
// @Tags watchlist
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id}/watchlist [post]
func (h *MovieHandler) ToggleWatchlist(c fiber.Ctx) error {
	added, err := h.session.ToggleWatchlist(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"movie_id": c.Params("id"), "in_watchlist": added})
}

// GetWatchlist returns the watchlist in insertion order.
// @Summary Get the watchlist
// @Tags watchlist
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /watchlist [get]
func (h *MovieHandler) GetWatchlist(c fiber.Ctx) error {
	movies := h.session.Watchlist()
	return c.JSON(fiber.Map{"data": movies, "count": len(movies)})
}

// GetFeatured returns today's featured movie.
// @Summary Get the movie of the day
// @Tags movies
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /featured [get]
func (h *MovieHandler) GetFeatured(c fiber.Ctx) error {
	movie, rec, err := h.session.Featured(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"movie": movie, "date": rec.Date})
}
