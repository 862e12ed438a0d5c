package services

import (
	"errors"
	"fmt"
	"strings"

	"yamdb/internal/models"
	"yamdb/internal/repositories"
)

// ReviewPatch lists the review fields a partial update may change.
type ReviewPatch struct {
	Text  *string
	Score *int
}

// ReviewService owns reviews and the ratings derived from them.
type ReviewService struct {
	reviews repositories.ReviewRepository
	titles  repositories.TitleRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews repositories.ReviewRepository, titles repositories.TitleRepository) *ReviewService {
	return &ReviewService{reviews: reviews, titles: titles}
}

func (s *ReviewService) requireTitle(titleID uint) error {
	if _, err := s.titles.GetByID(titleID); err != nil {
		return notFound("title", fmt.Sprint(titleID), err)
	}
	return nil
}

func (s *ReviewService) ListReviews(titleID uint) ([]models.Review, error) {
	if err := s.requireTitle(titleID); err != nil {
		return nil, err
	}
	return s.reviews.ListByTitle(titleID)
}

func (s *ReviewService) GetReview(titleID, reviewID uint) (*models.Review, error) {
	review, err := s.reviews.GetByID(titleID, reviewID)
	if err != nil {
		return nil, notFound("review", fmt.Sprint(reviewID), err)
	}
	return review, nil
}

// CreateReview stores author's review of the title. Score is checked
// before anything is written; uniqueness is left to the storage index.
func (s *ReviewService) CreateReview(titleID uint, author *models.User, text string, score int) (*models.Review, error) {
	if err := validateReview(text, score); err != nil {
		return nil, err
	}
	if err := s.requireTitle(titleID); err != nil {
		return nil, err
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: author.ID,
		Text:     text,
		Score:    score,
	}
	if err := s.reviews.Create(review); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	review.Author = author
	return review, nil
}

// UpdateReview lets the author, a moderator or an admin edit a review.
func (s *ReviewService) UpdateReview(actor *models.User, titleID, reviewID uint, patch ReviewPatch) (*models.Review, error) {
	review, err := s.GetReview(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, review.AuthorID) {
		return nil, ErrPermissionDenied
	}
	if patch.Text != nil {
		review.Text = *patch.Text
	}
	if patch.Score != nil {
		review.Score = *patch.Score
	}
	if err := validateReview(review.Text, review.Score); err != nil {
		return nil, err
	}
	if err := s.reviews.Update(review); err != nil {
		return nil, notFound("review", fmt.Sprint(reviewID), err)
	}
	return review, nil
}

// DeleteReview removes a review and its comments.
func (s *ReviewService) DeleteReview(actor *models.User, titleID, reviewID uint) error {
	review, err := s.GetReview(titleID, reviewID)
	if err != nil {
		return err
	}
	if !canModify(actor, review.AuthorID) {
		return ErrPermissionDenied
	}
	if err := s.reviews.Delete(titleID, reviewID); err != nil {
		return notFound("review", fmt.Sprint(reviewID), err)
	}
	return nil
}

// ComputeRating returns the title's rating, nil when it has no reviews.
func (s *ReviewService) ComputeRating(titleID uint) (*int, error) {
	ratings, err := s.ComputeRatings(titleID)
	if err != nil {
		return nil, err
	}
	return ratings[titleID], nil
}

// ComputeRatings returns the rating of every requested title; titles
// without reviews map to nil. Ratings are never stored.
func (s *ReviewService) ComputeRatings(titleIDs ...uint) (map[uint]*int, error) {
	totals, err := s.reviews.ScoreTotals(titleIDs...)
	if err != nil {
		return nil, err
	}
	ratings := make(map[uint]*int, len(titleIDs))
	for _, id := range titleIDs {
		ratings[id] = rating(totals[id])
	}
	return ratings, nil
}

// rating is the integer mean of the scores. Scores are positive, so Go's
// truncating division is floor division.
func rating(t repositories.ScoreTotal) *int {
	if t.Count == 0 {
		return nil
	}
	r := t.Sum / t.Count
	return &r
}

func validateReview(text string, score int) error {
	fields := map[string]string{}
	if strings.TrimSpace(text) == "" {
		fields["text"] = "text is required"
	}
	if score < models.MinScore || score > models.MaxScore {
		fields["score"] = fmt.Sprintf("score must be between %d and %d", models.MinScore, models.MaxScore)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
