// Package session owns the in-memory state slices and applies every
// mutation. Each mutation persists its changed slices before returning,
// so in-memory and durable state never observably diverge between two
// requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"movie-review-service/internal/badges"
	"movie-review-service/internal/catalog"
	"movie-review-service/internal/models"
	"movie-review-service/internal/rotation"
	"movie-review-service/internal/sentiment"
	"movie-review-service/internal/storage"
)

// badgeNoticeTTL is how long a badge notification stays visible.
const badgeNoticeTTL = 4 * time.Second

var (
	// ErrInvalid marks rejected user input; no state was changed.
	ErrInvalid = errors.New("invalid input")
	// ErrNotOwner is returned when a user edits or deletes someone
	// else's review.
	ErrNotOwner = errors.New("review belongs to another user")
	// ErrUnknownMovie is returned for IDs outside the catalog.
	ErrUnknownMovie = errors.New("movie not found")
)

// BadgeNotification is the transient payload produced when the active
// user earns new badges. It is never persisted.
type BadgeNotification struct {
	Message string   `json:"message"`
	Icons   []string `json:"icons"`

	expiresAt time.Time
}

// Session is the single mutator of all state slices.
type Session struct {
	mu      sync.Mutex
	gateway *storage.Gateway
	catalog *catalog.Catalog
	now     func() time.Time

	reviews     []models.Review
	prefs       models.Preferences
	reviewLikes map[string][]string
	movieLikes  map[string]int
	watchlist   []string
	rotation    *models.RotationRecord

	activeUser      string
	displayedBadges map[string]bool
	notification    *BadgeNotification
	lastTimestamp   int64
}

// New loads every slice from the gateway and returns the session.
// Corrupt or absent slices have already degraded to their defaults
// inside the gateway, so construction cannot fail on bad data.
func New(ctx context.Context, gw *storage.Gateway, cat *catalog.Catalog) *Session {
	s := &Session{
		gateway:         gw,
		catalog:         cat,
		now:             time.Now,
		reviews:         gw.LoadReviews(ctx),
		prefs:           gw.LoadPreferences(ctx),
		reviewLikes:     gw.LoadReviewLikes(ctx),
		movieLikes:      gw.LoadMovieLikes(ctx),
		watchlist:       gw.LoadWatchlist(ctx),
		rotation:        gw.LoadRotation(ctx),
		displayedBadges: map[string]bool{},
	}
	for _, r := range s.reviews {
		if r.Timestamp > s.lastTimestamp {
			s.lastTimestamp = r.Timestamp
		}
	}
	return s
}

// nextTimestamp returns a strictly increasing millisecond timestamp so
// recency ordering is total even within one millisecond.
func (s *Session) nextTimestamp() int64 {
	ts := s.now().UnixMilli()
	if ts <= s.lastTimestamp {
		ts = s.lastTimestamp + 1
	}
	s.lastTimestamp = ts
	return ts
}

// AddReview validates and appends a review, adopting its username as
// the active user.
func (s *Session) AddReview(ctx context.Context, draft models.ReviewDraft) (models.Review, error) {
	if err := draft.Validate(); err != nil {
		return models.Review{}, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	if _, ok := s.catalog.ByID(draft.MovieID); !ok {
		return models.Review{}, ErrUnknownMovie
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	review := models.Review{
		ID:        uuid.NewString(),
		MovieID:   draft.MovieID,
		Username:  draft.Username,
		Avatar:    draft.Avatar,
		Rating:    draft.Rating,
		Comment:   draft.Comment,
		Timestamp: s.nextTimestamp(),
		Likes:     0,
		Sentiment: sentiment.Classify(draft.Comment),
	}

	s.reviews = append(s.reviews, review)
	if err := s.gateway.SaveReviews(ctx, s.reviews); err != nil {
		s.reviews = s.reviews[:len(s.reviews)-1]
		return models.Review{}, fmt.Errorf("failed to persist reviews: %w", err)
	}

	if s.activeUser != draft.Username {
		s.activeUser = draft.Username
		s.displayedBadges = map[string]bool{}
	}
	s.refreshBadges()
	return review, nil
}

// EditReview merges a patch onto the matching review. Sentiment is
// reclassified only when the comment actually changes. A missing ID is
// a silent no-op; editing another user's review is rejected.
func (s *Session) EditReview(ctx context.Context, id string, patch models.ReviewPatch) (*models.Review, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findReview(id)
	if idx < 0 {
		return nil, nil
	}
	if s.reviews[idx].Username != s.activeUser {
		return nil, ErrNotOwner
	}

	prev := s.reviews[idx]
	updated := prev
	if patch.Rating != nil {
		updated.Rating = *patch.Rating
	}
	if patch.Comment != nil && *patch.Comment != prev.Comment {
		updated.Comment = *patch.Comment
		updated.Sentiment = sentiment.Classify(updated.Comment)
	}

	s.reviews[idx] = updated
	if err := s.gateway.SaveReviews(ctx, s.reviews); err != nil {
		s.reviews[idx] = prev
		return nil, fmt.Errorf("failed to persist reviews: %w", err)
	}

	s.refreshBadges()
	return &updated, nil
}

// DeleteReview removes a review and its like ledger entry. A missing ID
// is a silent no-op; deleting another user's review is rejected. Badges
// are re-evaluated afterwards and may legitimately un-earn.
func (s *Session) DeleteReview(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findReview(id)
	if idx < 0 {
		return nil
	}
	if s.reviews[idx].Username != s.activeUser {
		return ErrNotOwner
	}

	removed := s.reviews[idx]
	ledger, hadLedger := s.reviewLikes[id]

	s.reviews = append(s.reviews[:idx], s.reviews[idx+1:]...)
	delete(s.reviewLikes, id)

	if err := s.gateway.SaveReviews(ctx, s.reviews); err != nil {
		s.reviews = append(s.reviews[:idx], append([]models.Review{removed}, s.reviews[idx:]...)...)
		if hadLedger {
			s.reviewLikes[id] = ledger
		}
		return fmt.Errorf("failed to persist reviews: %w", err)
	}
	if err := s.gateway.SaveReviewLikes(ctx, s.reviewLikes); err != nil {
		return fmt.Errorf("failed to persist review likes: %w", err)
	}

	s.refreshBadges()
	return nil
}

// LikeReview toggles username's membership in the review's like ledger
// and recomputes the counter as the ledger cardinality. The two updates
// form one logical operation. A missing ID is a silent no-op.
func (s *Session) LikeReview(ctx context.Context, id, username string) (*models.Review, error) {
	req := models.LikeRequest{Username: username}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	username = req.Username

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findReview(id)
	if idx < 0 {
		return nil, nil
	}

	prevLedger := s.reviewLikes[id]
	prevReview := s.reviews[idx]

	ledger := make([]string, 0, len(prevLedger)+1)
	found := false
	for _, u := range prevLedger {
		if u == username {
			found = true
			continue
		}
		ledger = append(ledger, u)
	}
	if !found {
		ledger = append(ledger, username)
	}

	s.reviewLikes[id] = ledger
	s.reviews[idx].Likes = len(ledger)

	if err := s.gateway.SaveReviewLikes(ctx, s.reviewLikes); err != nil {
		s.reviewLikes[id] = prevLedger
		s.reviews[idx] = prevReview
		return nil, fmt.Errorf("failed to persist review likes: %w", err)
	}
	if err := s.gateway.SaveReviews(ctx, s.reviews); err != nil {
		s.reviewLikes[id] = prevLedger
		s.reviews[idx] = prevReview
		return nil, fmt.Errorf("failed to persist reviews: %w", err)
	}

	review := s.reviews[idx]
	return &review, nil
}

// LikeMovie unconditionally increments the movie's like counter. There
// is no ledger and no toggle: repeated likes accumulate. The asymmetry
// with review likes is intentional.
func (s *Session) LikeMovie(ctx context.Context, movieID string) (int, error) {
	if _, ok := s.catalog.ByID(movieID); !ok {
		return 0, ErrUnknownMovie
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.movieLikes[movieID]++
	if err := s.gateway.SaveMovieLikes(ctx, s.movieLikes); err != nil {
		s.movieLikes[movieID]--
		return 0, fmt.Errorf("failed to persist movie likes: %w", err)
	}
	return s.movieLikes[movieID], nil
}

// ToggleWatchlist adds the movie if absent, removes it if present, and
// reports the resulting membership. Insertion order is preserved.
func (s *Session) ToggleWatchlist(ctx context.Context, movieID string) (bool, error) {
	if _, ok := s.catalog.ByID(movieID); !ok {
		return false, ErrUnknownMovie
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.watchlist
	next := make([]string, 0, len(prev)+1)
	added := true
	for _, id := range prev {
		if id == movieID {
			added = false
			continue
		}
		next = append(next, id)
	}
	if added {
		next = append(next, movieID)
	}

	s.watchlist = next
	if err := s.gateway.SaveWatchlist(ctx, s.watchlist); err != nil {
		s.watchlist = prev
		return false, fmt.Errorf("failed to persist watchlist: %w", err)
	}
	return added, nil
}

// SetPreferences validates and persists display preferences verbatim.
func (s *Session) SetPreferences(ctx context.Context, prefs models.Preferences) error {
	if err := models.ValidatePreferences(prefs); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.prefs
	s.prefs = prefs
	if err := s.gateway.SavePreferences(ctx, prefs); err != nil {
		s.prefs = prev
		return fmt.Errorf("failed to persist preferences: %w", err)
	}
	return nil
}

// Featured returns today's featured movie, drawing and persisting a new
// pick when the stored record is absent or dated before today. Within a
// single day every call returns the same movie.
func (s *Session) Featured(ctx context.Context) (models.Movie, models.RotationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now().Format(rotation.DayFormat)
	rec := rotation.SelectFeatured(today, s.rotation, s.catalog.All())
	if s.rotation == nil || *s.rotation != rec {
		if err := s.gateway.SaveRotation(ctx, rec); err != nil {
			return models.Movie{}, models.RotationRecord{}, fmt.Errorf("failed to persist rotation: %w", err)
		}
		s.rotation = &rec
	}

	movie, _ := s.catalog.ByID(rec.MovieID)
	return movie, rec, nil
}

// refreshBadges recomputes the active user's badges and raises a
// transient notification for any newly earned ones. Un-earned badges
// are dropped from the displayed set, never masked.
func (s *Session) refreshBadges() {
	if s.activeUser == "" {
		return
	}
	current := badges.Evaluate(s.reviews, s.activeUser, s.catalog.GenresFor)
	earned := badges.EarnedIDs(current)

	var newNames, newIcons []string
	for _, b := range current {
		if b.Earned && !s.displayedBadges[b.ID] {
			newNames = append(newNames, b.Name)
			newIcons = append(newIcons, b.Icon)
		}
	}
	if len(newNames) > 0 {
		s.notification = &BadgeNotification{
			Message:   fmt.Sprintf("Badge earned: %s", strings.Join(newNames, ", ")),
			Icons:     newIcons,
			expiresAt: s.now().Add(badgeNoticeTTL),
		}
	}
	s.displayedBadges = earned
}

func (s *Session) findReview(id string) int {
	for i, r := range s.reviews {
		if r.ID == id {
			return i
		}
	}
	return -1
}
