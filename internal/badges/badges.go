package badges

import "movie-review-service/internal/models"

// Available is the fixed badge catalog.
var Available = []models.Badge{
	{ID: "first-review", Name: "First Review", Icon: "⭐", Description: "Write your first review"},
	{ID: "five-ratings", Name: "Movie Buff", Icon: "🎯", Description: "Rate 5 different movies"},
	{ID: "ten-comments", Name: "Critic", Icon: "📝", Description: "Write 10 reviews"},
	{ID: "perfect-score", Name: "Perfectionist", Icon: "🌟", Description: "Give a 5-star rating"},
	{ID: "diverse-taste", Name: "Genre Explorer", Icon: "🎭", Description: "Review movies from 5 different genres"},
}

// GenreLookup resolves a movie ID to its genre tags. A nil lookup
// disables the Genre Explorer rule.
type GenreLookup func(movieID string) []string

// Evaluate returns the full badge catalog with Earned set against the
// reviews authored by username. It is stateless: re-running on a
// shrunken review log legitimately returns a smaller earned set, and
// callers must not mask that.
func Evaluate(reviews []models.Review, username string, genresFor GenreLookup) []models.Badge {
	var userReviews []models.Review
	for _, r := range reviews {
		if r.Username == username {
			userReviews = append(userReviews, r)
		}
	}

	result := make([]models.Badge, len(Available))
	copy(result, Available)

	earned := map[string]bool{}

	if len(userReviews) > 0 {
		earned["first-review"] = true
	}

	uniqueMovies := map[string]bool{}
	for _, r := range userReviews {
		uniqueMovies[r.MovieID] = true
	}
	if len(uniqueMovies) >= 5 {
		earned["five-ratings"] = true
	}

	if len(userReviews) >= 10 {
		earned["ten-comments"] = true
	}

	for _, r := range userReviews {
		if r.Rating == 5 {
			earned["perfect-score"] = true
			break
		}
	}

	if genresFor != nil {
		genres := map[string]bool{}
		for movieID := range uniqueMovies {
			for _, g := range genresFor(movieID) {
				genres[g] = true
			}
		}
		if len(genres) >= 5 {
			earned["diverse-taste"] = true
		}
	}

	for i := range result {
		result[i].Earned = earned[result[i].ID]
	}
	return result
}

// EarnedIDs returns the set of earned badge IDs, used to diff previous
// and current badge snapshots for notifications.
func EarnedIDs(list []models.Badge) map[string]bool {
	ids := map[string]bool{}
	for _, b := range list {
		if b.Earned {
			ids[b.ID] = true
		}
	}
	return ids
}
