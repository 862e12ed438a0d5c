package handlers

import (
	"yamdb/internal/middleware"
	"yamdb/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler serves reviews and their comments under a title.
type ReviewHandler struct {
	reviews  *services.ReviewService
	comments *services.CommentService
	validate *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews *services.ReviewService, comments *services.CommentService, validate *validator.Validate) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, comments: comments, validate: validate}
}

// RegisterRoutes registers review and comment routes. Reading is public;
// writing needs an authenticated user, and changing someone else's
// content needs a moderator or admin.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	reviews := router.Group("/titles/:title_id/reviews")
	reviews.Get("/", h.HandleListReviews)
	reviews.Post("/", auth, h.HandleCreateReview)
	reviews.Get("/:review_id", h.HandleGetReview)
	reviews.Patch("/:review_id", auth, h.HandleUpdateReview)
	reviews.Delete("/:review_id", auth, h.HandleDeleteReview)

	comments := reviews.Group("/:review_id/comments")
	comments.Get("/", h.HandleListComments)
	comments.Post("/", auth, h.HandleCreateComment)
	comments.Get("/:comment_id", h.HandleGetComment)
	comments.Patch("/:comment_id", auth, h.HandleUpdateComment)
	comments.Delete("/:comment_id", auth, h.HandleDeleteComment)
}

// ReviewRequest represents the request body of a review creation.
type ReviewRequest struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"required,min=1,max=10"`
}

// ReviewPatchRequest represents a partial review update.
type ReviewPatchRequest struct {
	Text  *string `json:"text" validate:"omitempty,min=1"`
	Score *int    `json:"score" validate:"omitempty,min=1,max=10"`
}

// CommentRequest is the body of a comment creation or update.
type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *ReviewHandler) HandleListReviews(c *fiber.Ctx) error {
	p, err := pathIDs(c, "title_id")
	if err != nil {
		return respondError(c, err, "")
	}
	reviews, err := h.reviews.ListReviews(p[0])
	if err != nil {
		return respondError(c, err, "Could not retrieve reviews")
	}
	out := make([]reviewResponse, len(reviews))
	for i := range reviews {
		out[i] = newReviewResponse(&reviews[i])
	}
	return c.JSON(out)
}

func (h *ReviewHandler) HandleGetReview(c *fiber.Ctx) error {
	p, err := pathIDs(c, "title_id", "review_id")
	if err != nil {
		return respondError(c, err, "")
	}
	review, err := h.reviews.GetReview(p[0], p[1])
	if err != nil {
		return respondError(c, err, "Could not retrieve review")
	}
	return c.JSON(newReviewResponse(review))
}

func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	p, err := pathIDs(c, "title_id")
	if err != nil {
		return respondError(c, err, "")
	}
	var req ReviewRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	review, err := h.reviews.CreateReview(p[0], middleware.CurrentUser(c), req.Text, req.Score)
	if err != nil {
		return respondError(c, err, "Could not create review")
	}
	return c.Status(fiber.StatusCreated).JSON(newReviewResponse(review))
}

func (h *ReviewHandler) HandleUpdateReview(c *fiber.Ctx) error {
	p, err := pathIDs(c, "title_id", "review_id")
	if err != nil {
		return respondError(c, err, "")
	}
	var req ReviewPatchRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	review, err := h.reviews.UpdateReview(middleware.CurrentUser(c), p[0], p[1], services.ReviewPatch{
		Text:  req.Text,
		Score: req.Score,
	})
	if err != nil {
		return respondError(c, err, "Could not update review")
	}
	return c.JSON(newReviewResponse(review))
}

func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	p, err := pathIDs(c, "title_id", "review_id")
	if err != nil {
		return respondError(c, err, "")
	}
	if err := h.reviews.DeleteReview(middleware.CurrentUser(c), p[0], p[1]); err != nil {
		return respondError(c, err, "Could not delete review")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ReviewHandler) HandleListComments(c *fiber.Ctx) error {
	p, err := pathIDs(c, "title_id", "review_id")
	if err != nil {
		return respondError(c, err, "")
	}
	comments, err := h.comments.ListComments(p[0], p[1])
	if err != nil {
		return respondError(c, err, "Could not retrieve comments")
	}
	out := make([]commentResponse, len(comments))
	for i := range comments {
		out[i] = newCommentResponse(&comments[i])
	}
	return c.JSON(out)
}

func (h *ReviewHandler) HandleGetComment(c *fiber.Ctx) error {
	p, err := pathIDs(c, "title_id", "review_id", "comment_id")
	if err != nil {
		return respondError(c, err, "")
	}
	comment, err := h.comments.GetComment(p[0], p[1], p[2])
	if err != nil {
		return respondError(c, err, "Could not retrieve comment")
	}
	return c.JSON(newCommentResponse(comment))
}

func (h *ReviewHandler) HandleCreateComment(c *fiber.Ctx) error {
	p, err := pathIDs(c, "title_id", "review_id")
	if err != nil {
		return respondError(c, err, "")
	}
	var req CommentRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	comment, err := h.comments.CreateComment(p[0], p[1], middleware.CurrentUser(c), req.Text)
	if err != nil {
		return respondError(c, err, "Could not create comment")
	}
	return c.Status(fiber.StatusCreated).JSON(newCommentResponse(comment))
}

func (h *ReviewHandler) HandleUpdateComment(c *fiber.Ctx) error {
	p, err := pathIDs(c, "title_id", "review_id", "comment_id")
	if err != nil {
		return respondError(c, err, "")
	}
	var req CommentRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	comment, err := h.comments.UpdateComment(middleware.CurrentUser(c), p[0], p[1], p[2], &req.Text)
	if err != nil {
		return respondError(c, err, "Could not update comment")
	}
	return c.JSON(newCommentResponse(comment))
}

func (h *ReviewHandler) HandleDeleteComment(c *fiber.Ctx) error {
	p, err := pathIDs(c, "title_id", "review_id", "comment_id")
	if err != nil {
		return respondError(c, err, "")
	}
	if err := h.comments.DeleteComment(middleware.CurrentUser(c), p[0], p[1], p[2]); err != nil {
		return respondError(c, err, "Could not delete comment")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
