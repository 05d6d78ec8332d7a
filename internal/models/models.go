package models

// Movie represents one entry of the fixed, read-only catalog.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Genre       []string `json:"genre"`
	Year        int      `json:"year"`
	Poster      string   `json:"poster"`
	Description string   `json:"description"`
	Cast        []string `json:"cast"`
}

// Sentiment is the derived label of a review comment.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Review is one entry of the append-mostly review log.
type Review struct {
	ID        string    `json:"id"`
	MovieID   string    `json:"movieId"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Timestamp int64     `json:"timestamp"`
	Likes     int       `json:"likes"`
	Sentiment Sentiment `json:"sentiment,omitempty"`
}

// Badge is one entry of the fixed badge catalog. Earned is always
// recomputed from the current review log, never persisted.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
}

// Preferences holds display settings, persisted verbatim.
type Preferences struct {
	Theme          string `json:"theme"`
	SelectedAvatar string `json:"selectedAvatar"`
}

// RotationRecord is the persisted movie-of-the-day pick. One record
// overall, replaced whenever Date no longer matches today.
type RotationRecord struct {
	MovieID string `json:"movieId"`
	Date    string `json:"date"`
}

// MovieStats are the derived per-movie aggregates. AverageRating is nil
// when no reviews exist; it must never default to zero.
type MovieStats struct {
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
	TotalLikes    int      `json:"total_likes"`
}

// LeaderboardRow is one leaderboard entry, grouped by username.
type LeaderboardRow struct {
	Username      string  `json:"username"`
	Avatar        string  `json:"avatar"`
	ReviewCount   int     `json:"review_count"`
	TotalLikes    int     `json:"total_likes"`
	AverageRating float64 `json:"average_rating"`
}
