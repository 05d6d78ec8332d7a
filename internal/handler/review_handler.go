package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-review-service/internal/models"
	"movie-review-service/internal/session"
)

// ReviewHandler handles review, badge and preference requests.
type ReviewHandler struct {
	session *session.Session
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(s *session.Session) *ReviewHandler {
	return &ReviewHandler{session: s}
}

// CreateReview submits a new review. The review's username becomes the
// active user.
// @Summary Submit a review
// @Tags reviews
// @Accept json
// @Produce json
// @Param review body models.ReviewDraft true "Review draft"
// @Success 201 {object} models.Review
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) CreateReview(c fiber.Ctx) error {
	var draft models.ReviewDraft
	if err := c.Bind().JSON(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	review, err := h.session.AddReview(c.Context(), draft)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// EditReview merges a patch onto an existing review. An unknown ID is a
// no-op, mirroring the id possibly having been deleted moments earlier.
// @Summary Edit a review
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param patch body models.ReviewPatch true "Fields to change"
// @Success 200 {object} models.Review
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /reviews/{id} [put]
func (h *ReviewHandler) EditReview(c fiber.Ctx) error {
	var patch models.ReviewPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	review, err := h.session.EditReview(c.Context(), c.Params("id"), patch)
	if err != nil {
		return respondError(c, err)
	}
	if review == nil {
		return c.JSON(fiber.Map{"updated": false})
	}
	return c.JSON(review)
}

// DeleteReview removes a review. An unknown ID is a no-op.
// @Summary Delete a review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} ErrorResponse
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c fiber.Ctx) error {
	if err := h.session.DeleteReview(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// LikeReview toggles the caller's like on a review.
// @Summary Toggle a review like
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param like body models.LikeRequest true "Liking username"
// @Success 200 {object} models.Review
// @Failure 400 {object} ErrorResponse
// @Router /reviews/{id}/like [post]
func (h *ReviewHandler) LikeReview(c fiber.Ctx) error {
	var req models.LikeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	review, err := h.session.LikeReview(c.Context(), c.Params("id"), req.Username)
	if err != nil {
		return respondError(c, err)
	}
	if review == nil {
		return c.JSON(fiber.Map{"updated": false})
	}
	return c.JSON(review)
}

// ListReviews returns a movie's reviews in the requested order.
// @Summary List reviews for a movie
// @Tags reviews
// @Produce json
// @Param id path string true "Movie ID"
// @Param sort query string false "Sort order" Enums(latest,highest,most-liked) default(latest)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(c fiber.Ctx) error {
	id := c.Params("id")
	if _, ok := h.session.Movie(id); !ok {
		return respondError(c, session.ErrUnknownMovie)
	}

	sortBy := c.Query("sort", "latest")
	if !models.ValidReviewSorts[sortBy] {
		sortBy = "latest"
	}

	reviews := h.session.ReviewsForMovie(id, sortBy)
	return c.JSON(fiber.Map{"data": reviews, "count": len(reviews)})
}

// GetLeaderboard returns the top reviewers.
// @Summary Get the reviewer leaderboard
// @Tags leaderboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /leaderboard [get]
func (h *ReviewHandler) GetLeaderboard(c fiber.Ctx) error {
	rows := h.session.Leaderboard()
	return c.JSON(fiber.Map{"data": rows, "count": len(rows)})
}

// GetBadges returns the badge catalog with earned flags for a username,
// defaulting to the active user.
// @Summary Get badges
// @Tags badges
// @Produce json
// @Param username query string false "Username (defaults to the active user)"
// @Success 200 {object} map[string]interface{}
// @Router /badges [get]
func (h *ReviewHandler) GetBadges(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data":        h.session.Badges(c.Query("username")),
		"active_user": h.session.ActiveUser(),
	})
}

// GetNotifications returns the pending badge notification, if any.
// @Summary Get pending notifications
// @Tags badges
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /notifications [get]
func (h *ReviewHandler) GetNotifications(c fiber.Ctx) error {
	n := h.session.Notification()
	if n == nil {
		return c.JSON(fiber.Map{"notification": nil})
	}
	return c.JSON(fiber.Map{"notification": n})
}

// GetPreferences returns display preferences.
// @Summary Get preferences
// @Tags preferences
// @Produce json
// @Success 200 {object} models.Preferences
// @Router /preferences [get]
func (h *ReviewHandler) GetPreferences(c fiber.Ctx) error {
	return c.JSON(h.session.Preferences())
}

// UpdatePreferences stores display preferences verbatim.
// @Summary Update preferences
// @Tags preferences
// @Accept json
// @Produce json
// @Param preferences body models.Preferences true "Preferences"
// @Success 200 {object} models.Preferences
// @Failure 400 {object} ErrorResponse
// @Router /preferences [put]
func (h *ReviewHandler) UpdatePreferences(c fiber.Ctx) error {
	var prefs models.Preferences
	if err := c.Bind().JSON(&prefs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if err := h.session.SetPreferences(c.Context(), prefs); err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.session.Preferences())
}
