package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"movie-review-service/internal/models"
)

// Slice keys. One JSON document per key.
const (
	KeyReviews       = "reviews"
	KeyPreferences   = "preferences"
	KeyMovieOfTheDay = "movieOfTheDay"
	KeyReviewLikes   = "reviewLikes"
	KeyMovieLikes    = "movieLikes"
	KeyWatchlist     = "watchlist"
)

// DefaultPreferences is returned when the preferences slice is absent
// or unreadable.
var DefaultPreferences = models.Preferences{Theme: "light", SelectedAvatar: "😊"}

// Gateway is a stateless JSON codec between typed state slices and the
// underlying Store. Loads never fail: an absent or corrupt slice
// degrades to its documented default rather than blocking startup.
// Saves are full-slice overwrites.
type Gateway struct {
	store  Store
	prefix string
}

// NewGateway creates a Gateway. An optional prefix namespaces the slice
// keys in a shared store.
func NewGateway(store Store, prefix string) *Gateway {
	return &Gateway{store: store, prefix: prefix}
}

// load unmarshals the slice under key into out, reporting whether a
// usable value was found. Corrupt data is logged and treated as absent.
func (g *Gateway) load(ctx context.Context, key string, out any) bool {
	data, err := g.store.Get(ctx, g.prefix+key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("failed to read slice, using default", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		slog.Warn("corrupt slice, using default", "key", key, "error", err)
		return false
	}
	return true
}

func (g *Gateway) save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return g.store.Set(ctx, g.prefix+key, data)
}

// LoadReviews returns the review log, empty when absent.
func (g *Gateway) LoadReviews(ctx context.Context) []models.Review {
	var reviews []models.Review
	if !g.load(ctx, KeyReviews, &reviews) || reviews == nil {
		return []models.Review{}
	}
	return reviews
}

// SaveReviews overwrites the review log.
func (g *Gateway) SaveReviews(ctx context.Context, reviews []models.Review) error {
	return g.save(ctx, KeyReviews, reviews)
}

// LoadPreferences returns stored preferences or the defaults.
func (g *Gateway) LoadPreferences(ctx context.Context) models.Preferences {
	prefs := DefaultPreferences
	if !g.load(ctx, KeyPreferences, &prefs) {
		return DefaultPreferences
	}
	return prefs
}

// SavePreferences overwrites the preferences slice.
func (g *Gateway) SavePreferences(ctx context.Context, prefs models.Preferences) error {
	return g.save(ctx, KeyPreferences, prefs)
}

// LoadRotation returns the persisted movie-of-the-day record, nil when
// none has been chosen yet.
func (g *Gateway) LoadRotation(ctx context.Context) *models.RotationRecord {
	var rec models.RotationRecord
	if !g.load(ctx, KeyMovieOfTheDay, &rec) {
		return nil
	}
	return &rec
}

// SaveRotation replaces the movie-of-the-day record.
func (g *Gateway) SaveRotation(ctx context.Context, rec models.RotationRecord) error {
	return g.save(ctx, KeyMovieOfTheDay, rec)
}

// LoadReviewLikes returns the review like ledger, empty when absent.
func (g *Gateway) LoadReviewLikes(ctx context.Context) map[string][]string {
	var likes map[string][]string
	if !g.load(ctx, KeyReviewLikes, &likes) || likes == nil {
		return map[string][]string{}
	}
	return likes
}

// SaveReviewLikes overwrites the review like ledger.
func (g *Gateway) SaveReviewLikes(ctx context.Context, likes map[string][]string) error {
	return g.save(ctx, KeyReviewLikes, likes)
}

// LoadMovieLikes returns the per-movie like counters, empty when absent.
func (g *Gateway) LoadMovieLikes(ctx context.Context) map[string]int {
	var likes map[string]int
	if !g.load(ctx, KeyMovieLikes, &likes) || likes == nil {
		return map[string]int{}
	}
	return likes
}

// SaveMovieLikes overwrites the per-movie like counters.
func (g *Gateway) SaveMovieLikes(ctx context.Context, likes map[string]int) error {
	return g.save(ctx, KeyMovieLikes, likes)
}

// LoadWatchlist returns the watchlist in insertion order, empty when
// absent.
func (g *Gateway) LoadWatchlist(ctx context.Context) []string {
	var watchlist []string
	if !g.load(ctx, KeyWatchlist, &watchlist) || watchlist == nil {
		return []string{}
	}
	return watchlist
}

// SaveWatchlist overwrites the watchlist slice.
func (g *Gateway) SaveWatchlist(ctx context.Context, watchlist []string) error {
	return g.save(ctx, KeyWatchlist, watchlist)
}
