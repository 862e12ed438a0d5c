package services

import (
	"fmt"
	"strings"

	"yamdb/internal/models"
	"yamdb/internal/repositories"
)

// CommentService handles comments posted under a review.
type CommentService struct {
	comments repositories.CommentRepository
	reviews  repositories.ReviewRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(comments repositories.CommentRepository, reviews repositories.ReviewRepository) *CommentService {
	return &CommentService{comments: comments, reviews: reviews}
}

// requireReview checks that the review exists under the given title.
func (s *CommentService) requireReview(titleID, reviewID uint) error {
	if _, err := s.reviews.GetByID(titleID, reviewID); err != nil {
		return notFound("review", fmt.Sprint(reviewID), err)
	}
	return nil
}

func (s *CommentService) ListComments(titleID, reviewID uint) ([]models.Comment, error) {
	if err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}
	return s.comments.ListByReview(reviewID)
}

func (s *CommentService) GetComment(titleID, reviewID, commentID uint) (*models.Comment, error) {
	if err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(reviewID, commentID)
	if err != nil {
		return nil, notFound("comment", fmt.Sprint(commentID), err)
	}
	return comment, nil
}

func (s *CommentService) CreateComment(titleID, reviewID uint, author *models.User, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewValidationError("text", "text is required")
	}
	if err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: author.ID,
		Text:     text,
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.Author = author
	return comment, nil
}

func (s *CommentService) UpdateComment(actor *models.User, titleID, reviewID, commentID uint, text *string) (*models.Comment, error) {
	comment, err := s.GetComment(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, comment.AuthorID) {
		return nil, ErrPermissionDenied
	}
	if text != nil {
		if strings.TrimSpace(*text) == "" {
			return nil, NewValidationError("text", "text is required")
		}
		comment.Text = *text
	}
	if err := s.comments.Update(comment); err != nil {
		return nil, notFound("comment", fmt.Sprint(commentID), err)
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(actor *models.User, titleID, reviewID, commentID uint) error {
	comment, err := s.GetComment(titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if !canModify(actor, comment.AuthorID) {
		return ErrPermissionDenied
	}
	if err := s.comments.Delete(reviewID, commentID); err != nil {
		return notFound("comment", fmt.Sprint(commentID), err)
	}
	return nil
}
