package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-review-service/internal/catalog"
	"movie-review-service/internal/models"
	"movie-review-service/internal/storage"
)

var testMovies = []models.Movie{
	{ID: "1", Title: "Inception", Genre: []string{"Sci-Fi", "Thriller", "Action"}, Year: 2010},
	{ID: "2", Title: "The Dark Knight", Genre: []string{"Action", "Crime", "Drama"}, Year: 2008},
	{ID: "3", Title: "Interstellar", Genre: []string{"Sci-Fi", "Drama", "Adventure"}, Year: 2014},
	{ID: "4", Title: "The Shawshank Redemption", Genre: []string{"Drama"}, Year: 1994},
	{ID: "5", Title: "Pulp Fiction", Genre: []string{"Crime", "Drama"}, Year: 1994},
}

type fixture struct {
	session *Session
	gateway *storage.Gateway
	clock   *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gw := storage.NewGateway(storage.NewMemoryStore(), "")
	s := New(context.Background(), gw, catalog.New(testMovies))

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return &fixture{session: s, gateway: gw, clock: &now}
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func draft(username, movieID string, rating int, comment string) models.ReviewDraft {
	return models.ReviewDraft{
		MovieID:  movieID,
		Username: username,
		Avatar:   "😊",
		Rating:   rating,
		Comment:  comment,
	}
}

func TestAddReviewAssignsFieldsAndPersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	review, err := f.session.AddReview(ctx, draft("alice", "1", 5, "An amazing masterpiece"))
	require.NoError(t, err)

	assert.NotEmpty(t, review.ID)
	assert.Equal(t, 0, review.Likes)
	assert.Positive(t, review.Timestamp)
	assert.Equal(t, models.SentimentPositive, review.Sentiment)
	assert.Equal(t, "alice", f.session.ActiveUser(), "submission acts as login")

	persisted := f.gateway.LoadReviews(ctx)
	require.Len(t, persisted, 1)
	assert.Equal(t, review, persisted[0])
}

func TestAddReviewValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []models.ReviewDraft{
		draft("", "1", 3, "fine"),
		draft("alice", "1", 0, "fine"),
		draft("alice", "1", 6, "fine"),
		draft("alice", "1", 3, "   "),
	}
	for _, d := range cases {
		_, err := f.session.AddReview(ctx, d)
		assert.ErrorIs(t, err, ErrInvalid)
	}

	_, err := f.session.AddReview(ctx, draft("alice", "999", 3, "fine"))
	assert.ErrorIs(t, err, ErrUnknownMovie)

	assert.Empty(t, f.gateway.LoadReviews(ctx), "rejected input must not change state")
	assert.Empty(t, f.session.ActiveUser())
}

func TestAddReviewTimestampsAreMonotonic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// The fake clock is frozen, so monotonicity must come from the
	// session itself.
	first, err := f.session.AddReview(ctx, draft("alice", "1", 3, "fine movie"))
	require.NoError(t, err)
	second, err := f.session.AddReview(ctx, draft("alice", "2", 4, "fine movie"))
	require.NoError(t, err)

	assert.Greater(t, second.Timestamp, first.Timestamp)
}

func TestEditReviewSentimentRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	review, err := f.session.AddReview(ctx, draft("alice", "1", 4, "An amazing masterpiece"))
	require.NoError(t, err)
	require.Equal(t, models.SentimentPositive, review.Sentiment)

	// Rating-only edit keeps the sentiment untouched.
	newRating := 2
	updated, err := f.session.EditReview(ctx, review.ID, models.ReviewPatch{Rating: &newRating})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, models.SentimentPositive, updated.Sentiment)

	// Re-sending the identical comment is not a change.
	same := "An amazing masterpiece"
	updated, err = f.session.EditReview(ctx, review.ID, models.ReviewPatch{Comment: &same})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.SentimentPositive, updated.Sentiment)

	// A changed comment is reclassified.
	changed := "Boring waste of time"
	updated, err = f.session.EditReview(ctx, review.ID, models.ReviewPatch{Comment: &changed})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.SentimentNegative, updated.Sentiment)

	persisted := f.gateway.LoadReviews(ctx)
	require.Len(t, persisted, 1)
	assert.Equal(t, models.SentimentNegative, persisted[0].Sentiment)
}

func TestEditReviewMissingIDIsNoOp(t *testing.T) {
	f := newFixture(t)

	rating := 3
	updated, err := f.session.EditReview(context.Background(), "missing", models.ReviewPatch{Rating: &rating})
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

func TestEditReviewOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	review, err := f.session.AddReview(ctx, draft("alice", "1", 4, "fine movie"))
	require.NoError(t, err)

	// bob submits and becomes the active user.
	_, err = f.session.AddReview(ctx, draft("bob", "2", 3, "fine movie"))
	require.NoError(t, err)

	rating := 1
	_, err = f.session.EditReview(ctx, review.ID, models.ReviewPatch{Rating: &rating})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, f.session.DeleteReview(ctx, review.ID), ErrNotOwner)
}

func TestDeleteReviewRemovesLedgerToo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	review, err := f.session.AddReview(ctx, draft("alice", "1", 4, "fine movie"))
	require.NoError(t, err)
	_, err = f.session.LikeReview(ctx, review.ID, "bob")
	require.NoError(t, err)

	require.NoError(t, f.session.DeleteReview(ctx, review.ID))

	assert.Empty(t, f.gateway.LoadReviews(ctx))
	assert.Empty(t, f.gateway.LoadReviewLikes(ctx))

	// Deleting again is a silent no-op.
	assert.NoError(t, f.session.DeleteReview(ctx, review.ID))
}

func TestDeleteReviewUnEarnsBadges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	review, err := f.session.AddReview(ctx, draft("alice", "1", 5, "fine movie"))
	require.NoError(t, err)

	earned := earnedIDs(f.session.Badges("alice"))
	assert.True(t, earned["first-review"])
	assert.True(t, earned["perfect-score"])

	require.NoError(t, f.session.DeleteReview(ctx, review.ID))

	earned = earnedIDs(f.session.Badges("alice"))
	assert.False(t, earned["first-review"])
	assert.False(t, earned["perfect-score"])
}

func TestLikeReviewToggleIsIdempotentOverTwoCalls(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	review, err := f.session.AddReview(ctx, draft("alice", "1", 4, "fine movie"))
	require.NoError(t, err)

	liked, err := f.session.LikeReview(ctx, review.ID, "bob")
	require.NoError(t, err)
	require.NotNil(t, liked)
	assert.Equal(t, 1, liked.Likes)

	unliked, err := f.session.LikeReview(ctx, review.ID, "bob")
	require.NoError(t, err)
	require.NotNil(t, unliked)
	assert.Equal(t, 0, unliked.Likes, "second like by the same user undoes the first")

	// Counter always equals ledger cardinality.
	liked, err = f.session.LikeReview(ctx, review.ID, "bob")
	require.NoError(t, err)
	_, err = f.session.LikeReview(ctx, review.ID, "carol")
	require.NoError(t, err)

	persisted := f.gateway.LoadReviews(ctx)
	require.Len(t, persisted, 1)
	assert.Equal(t, 2, persisted[0].Likes)
	assert.ElementsMatch(t, []string{"bob", "carol"}, f.gateway.LoadReviewLikes(ctx)[review.ID])
}

func TestLikeReviewMissingIDIsNoOp(t *testing.T) {
	f := newFixture(t)

	review, err := f.session.LikeReview(context.Background(), "missing", "bob")
	assert.NoError(t, err)
	assert.Nil(t, review)
}

func TestLikeMovieAccumulates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	count, err := f.session.LikeMovie(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// No toggle: the same action twice always adds two.
	count, err = f.session.LikeMovie(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = f.session.LikeMovie(ctx, "999")
	assert.ErrorIs(t, err, ErrUnknownMovie)

	assert.Equal(t, map[string]int{"1": 2}, f.gateway.LoadMovieLikes(ctx))
}

func TestToggleWatchlistPreservesOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"3", "1", "5"} {
		added, err := f.session.ToggleWatchlist(ctx, id)
		require.NoError(t, err)
		assert.True(t, added)
	}

	removed, err := f.session.ToggleWatchlist(ctx, "1")
	require.NoError(t, err)
	assert.False(t, removed)

	ids := make([]string, 0)
	for _, m := range f.session.Watchlist() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"3", "5"}, ids)
	assert.Equal(t, []string{"3", "5"}, f.gateway.LoadWatchlist(ctx))
	assert.True(t, f.session.InWatchlist("3"))
	assert.False(t, f.session.InWatchlist("1"))
}

func TestFeaturedIsStableWithinADay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, rec, err := f.session.Featured(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", rec.Date)

	for i := 0; i < 10; i++ {
		movie, _, err := f.session.Featured(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.ID, movie.ID)
	}

	// A restart on the same day keeps the persisted pick.
	restarted := New(ctx, f.gateway, catalog.New(testMovies))
	restarted.now = f.session.now
	movie, _, err := restarted.Featured(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, movie.ID)
}

func TestFeaturedRollsOverAtMidnight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, rec, err := f.session.Featured(ctx)
	require.NoError(t, err)
	require.Equal(t, "2026-08-30", rec.Date)

	f.advance(24 * time.Hour)

	movie, rec, err := f.session.Featured(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", rec.Date, "date must be rewritten on rollover")
	assert.Equal(t, movie.ID, rec.MovieID)

	persisted := f.gateway.LoadRotation(ctx)
	require.NotNil(t, persisted)
	assert.Equal(t, rec, *persisted)
}

func TestBadgeNotificationLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Nil(t, f.session.Notification())

	_, err := f.session.AddReview(ctx, draft("alice", "1", 5, "fine movie"))
	require.NoError(t, err)

	n := f.session.Notification()
	require.NotNil(t, n)
	assert.Contains(t, n.Message, "First Review")
	assert.Contains(t, n.Message, "Perfectionist")
	assert.Contains(t, n.Icons, "⭐")

	f.advance(5 * time.Second)
	assert.Nil(t, f.session.Notification(), "notification expires after four seconds")

	// No new badges, no new notification.
	_, err = f.session.AddReview(ctx, draft("alice", "4", 5, "fine movie"))
	require.NoError(t, err)
	assert.Nil(t, f.session.Notification())

	// Crossing the five-movie threshold notifies the new badges only.
	for _, id := range []string{"2", "3", "5"} {
		_, err = f.session.AddReview(ctx, draft("alice", id, 4, "fine movie"))
		require.NoError(t, err)
	}
	n = f.session.Notification()
	require.NotNil(t, n)
	assert.Contains(t, n.Message, "Movie Buff")
	assert.NotContains(t, n.Message, "First Review")
}

func TestFiveDistinctMoviesScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ratings := []int{5, 4, 5, 3, 2}
	for i, rating := range ratings {
		_, err := f.session.AddReview(ctx, draft("alice", testMovies[i].ID, rating, "fine movie"))
		require.NoError(t, err)
	}

	earned := earnedIDs(f.session.Badges("alice"))
	assert.True(t, earned["first-review"])
	assert.True(t, earned["five-ratings"])
	assert.True(t, earned["perfect-score"])
	assert.False(t, earned["ten-comments"])
	// The five test movies span six distinct genres.
	assert.True(t, earned["diverse-taste"])
}

func TestSetPreferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, storage.DefaultPreferences, f.session.Preferences())

	prefs := models.Preferences{Theme: "dark", SelectedAvatar: "🎭"}
	require.NoError(t, f.session.SetPreferences(ctx, prefs))
	assert.Equal(t, prefs, f.session.Preferences())
	assert.Equal(t, prefs, f.gateway.LoadPreferences(ctx))

	err := f.session.SetPreferences(ctx, models.Preferences{Theme: "sepia", SelectedAvatar: "🎭"})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, prefs, f.session.Preferences())
}

func TestSessionRestartSeesIdenticalState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	review, err := f.session.AddReview(ctx, draft("alice", "1", 5, "An amazing masterpiece"))
	require.NoError(t, err)
	_, err = f.session.LikeReview(ctx, review.ID, "bob")
	require.NoError(t, err)
	_, err = f.session.LikeMovie(ctx, "2")
	require.NoError(t, err)
	_, err = f.session.ToggleWatchlist(ctx, "3")
	require.NoError(t, err)

	restarted := New(ctx, f.gateway, catalog.New(testMovies))

	reviews := restarted.ReviewsForMovie("1", "latest")
	require.Len(t, reviews, 1)
	assert.Equal(t, 1, reviews[0].Likes)
	assert.Equal(t, 1, restarted.MovieLikes("2"))
	assert.True(t, restarted.InWatchlist("3"))
	assert.Empty(t, restarted.ActiveUser(), "the active user is session state, not persisted")
}

func earnedIDs(list []models.Badge) map[string]bool {
	ids := map[string]bool{}
	for _, b := range list {
		if b.Earned {
			ids[b.ID] = true
		}
	}
	return ids
}
