// Package stats computes derived views from the authoritative review
// log. Every function is pure and recomputes from scratch on each call;
// there are no running counters that could drift from the log.
package stats

import (
	"sort"

	"movie-review-service/internal/models"
)

const leaderboardSize = 10

// MovieStats aggregates the reviews referencing movieID. AverageRating
// is nil when there are no reviews; a zero default would bias the
// rating, so the sentinel is kept all the way to the JSON boundary.
func MovieStats(reviews []models.Review, movieID string) models.MovieStats {
	var stats models.MovieStats
	var sum int
	for _, r := range reviews {
		if r.MovieID != movieID {
			continue
		}
		stats.ReviewCount++
		stats.TotalLikes += r.Likes
		sum += r.Rating
	}
	if stats.ReviewCount > 0 {
		avg := float64(sum) / float64(stats.ReviewCount)
		stats.AverageRating = &avg
	}
	return stats
}

// Leaderboard groups reviews by username and returns the top reviewers,
// sorted descending by review count only. The sort is stable, so ties
// keep first-authored order. The avatar is taken from the user's first
// review in log order. At most ten rows are returned.
func Leaderboard(reviews []models.Review) []models.LeaderboardRow {
	type acc struct {
		row         models.LeaderboardRow
		totalRating int
	}

	byUser := map[string]*acc{}
	var order []string
	for _, r := range reviews {
		a, ok := byUser[r.Username]
		if !ok {
			a = &acc{row: models.LeaderboardRow{Username: r.Username, Avatar: r.Avatar}}
			byUser[r.Username] = a
			order = append(order, r.Username)
		}
		a.row.ReviewCount++
		a.row.TotalLikes += r.Likes
		a.totalRating += r.Rating
	}

	rows := make([]models.LeaderboardRow, 0, len(order))
	for _, username := range order {
		a := byUser[username]
		a.row.AverageRating = float64(a.totalRating) / float64(a.row.ReviewCount)
		rows = append(rows, a.row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ReviewCount > rows[j].ReviewCount
	})

	if len(rows) > leaderboardSize {
		rows = rows[:leaderboardSize]
	}
	return rows
}

// HighlyRated returns the catalog entries that have at least one review,
// sorted descending by average rating. Ties keep catalog order.
func HighlyRated(catalog []models.Movie, reviews []models.Review) []models.Movie {
	return sortReviewed(catalog, reviews, func(a, b models.MovieStats) bool {
		return *a.AverageRating > *b.AverageRating
	})
}

// MostReviewed returns the catalog entries that have at least one
// review, sorted descending by review count. Ties keep catalog order.
func MostReviewed(catalog []models.Movie, reviews []models.Review) []models.Movie {
	return sortReviewed(catalog, reviews, func(a, b models.MovieStats) bool {
		return a.ReviewCount > b.ReviewCount
	})
}

func sortReviewed(catalog []models.Movie, reviews []models.Review, less func(a, b models.MovieStats) bool) []models.Movie {
	type entry struct {
		movie models.Movie
		stats models.MovieStats
	}
	var entries []entry
	for _, m := range catalog {
		s := MovieStats(reviews, m.ID)
		if s.ReviewCount > 0 {
			entries = append(entries, entry{movie: m, stats: s})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i].stats, entries[j].stats)
	})
	result := make([]models.Movie, len(entries))
	for i, e := range entries {
		result[i] = e.movie
	}
	return result
}

// SortReviews orders a copy of reviews by the given sort key: "latest"
// (newest first), "highest" (rating desc) or "most-liked" (likes desc).
// Unknown keys fall back to latest.
func SortReviews(reviews []models.Review, sortBy string) []models.Review {
	sorted := make([]models.Review, len(reviews))
	copy(sorted, reviews)

	switch sortBy {
	case "highest":
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rating > sorted[j].Rating })
	case "most-liked":
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Likes > sorted[j].Likes })
	default:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp > sorted[j].Timestamp })
	}
	return sorted
}
