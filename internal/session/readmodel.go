package session

import (
	"movie-review-service/internal/badges"
	"movie-review-service/internal/models"
	"movie-review-service/internal/stats"
)

// Movies returns the catalog filtered by genre/search and optionally
// ordered by a derived ranking ("highly-rated" or "most-reviewed", both
// restricted to movies with at least one review).
func (s *Session) Movies(params models.MovieListParams) []models.Movie {
	params.Validate()

	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.catalog.Filter(params.Genre, params.Search)
	switch params.Sort {
	case "highly-rated":
		return stats.HighlyRated(filtered, s.reviews)
	case "most-reviewed":
		return stats.MostReviewed(filtered, s.reviews)
	default:
		return filtered
	}
}

// Movie returns one catalog entry.
func (s *Session) Movie(id string) (models.Movie, bool) {
	return s.catalog.ByID(id)
}

// Genres returns the distinct genre tags of the catalog.
func (s *Session) Genres() []string {
	return s.catalog.Genres()
}

// Stats returns the derived aggregates for one movie, recomputed from
// the review log.
func (s *Session) Stats(movieID string) models.MovieStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stats.MovieStats(s.reviews, movieID)
}

// ReviewsForMovie returns the movie's reviews in the requested order
// ("latest", "highest" or "most-liked"; default latest).
func (s *Session) ReviewsForMovie(movieID, sortBy string) []models.Review {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Review
	for _, r := range s.reviews {
		if r.MovieID == movieID {
			matched = append(matched, r)
		}
	}
	return stats.SortReviews(matched, sortBy)
}

// Leaderboard returns the top reviewers.
func (s *Session) Leaderboard() []models.LeaderboardRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stats.Leaderboard(s.reviews)
}

// Badges evaluates the badge catalog for the given username, falling
// back to the active user when empty.
func (s *Session) Badges(username string) []models.Badge {
	s.mu.Lock()
	defer s.mu.Unlock()

	if username == "" {
		username = s.activeUser
	}
	return badges.Evaluate(s.reviews, username, s.catalog.GenresFor)
}

// Watchlist resolves the watchlist to catalog entries, preserving
// insertion order.
func (s *Session) Watchlist() []models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()

	movies := make([]models.Movie, 0, len(s.watchlist))
	for _, id := range s.watchlist {
		if m, ok := s.catalog.ByID(id); ok {
			movies = append(movies, m)
		}
	}
	return movies
}

// InWatchlist reports watchlist membership for one movie.
func (s *Session) InWatchlist(movieID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.watchlist {
		if id == movieID {
			return true
		}
	}
	return false
}

// MovieLikes returns the accumulated like counter for one movie.
func (s *Session) MovieLikes(movieID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.movieLikes[movieID]
}

// Preferences returns the current display preferences.
func (s *Session) Preferences() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// ActiveUser returns the username adopted by the most recent review
// submission, empty before any submission.
func (s *Session) ActiveUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeUser
}

// Notification returns the pending badge notification, or nil once it
// has expired. Expired notifications leave no trace.
func (s *Session) Notification() *BadgeNotification {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notification == nil {
		return nil
	}
	if s.now().After(s.notification.expiresAt) {
		s.notification = nil
		return nil
	}
	return s.notification
}
