package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxCommentLength bounds review comments.
const MaxCommentLength = 500

// ReviewDraft is the request body for submitting a review.
type ReviewDraft struct {
	MovieID  string `json:"movie_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// Validate checks the draft before any state is mutated.
func (d *ReviewDraft) Validate() error {
	d.Username = strings.TrimSpace(d.Username)
	d.Comment = strings.TrimSpace(d.Comment)
	if d.Username == "" {
		return fmt.Errorf("username is required")
	}
	if d.Comment == "" {
		return fmt.Errorf("comment is required")
	}
	if utf8.RuneCountInString(d.Comment) > MaxCommentLength {
		return fmt.Errorf("comment exceeds %d characters", MaxCommentLength)
	}
	if d.Rating < 1 || d.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return nil
}

// ReviewPatch is the request body for editing a review. Nil fields are
// left untouched.
type ReviewPatch struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// Validate checks only the fields present in the patch.
func (p *ReviewPatch) Validate() error {
	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	if p.Comment != nil {
		trimmed := strings.TrimSpace(*p.Comment)
		if trimmed == "" {
			return fmt.Errorf("comment cannot be empty")
		}
		if utf8.RuneCountInString(trimmed) > MaxCommentLength {
			return fmt.Errorf("comment exceeds %d characters", MaxCommentLength)
		}
		p.Comment = &trimmed
	}
	return nil
}

// LikeRequest identifies the user toggling a review like.
type LikeRequest struct {
	Username string `json:"username"`
}

// Validate checks the like request.
func (r *LikeRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}

// MovieListParams holds query parameters for catalog listing.
type MovieListParams struct {
	Genre  string `query:"genre"`
	Search string `query:"search"`
	Sort   string `query:"sort"`
}

// Validate sets defaults and discards unknown sort values.
func (p *MovieListParams) Validate() {
	validSorts := map[string]bool{"": true, "highly-rated": true, "most-reviewed": true}
	if !validSorts[p.Sort] {
		p.Sort = ""
	}
}

// ValidReviewSorts are the accepted review sort orders.
var ValidReviewSorts = map[string]bool{"latest": true, "highest": true, "most-liked": true}

// ValidThemes are the accepted preference themes.
var ValidThemes = map[string]bool{"light": true, "dark": true}

// ValidatePreferences rejects unknown themes and empty avatars.
func ValidatePreferences(p Preferences) error {
	if !ValidThemes[p.Theme] {
		return fmt.Errorf("theme must be light or dark")
	}
	if strings.TrimSpace(p.SelectedAvatar) == "" {
		return fmt.Errorf("avatar is required")
	}
	return nil
}
