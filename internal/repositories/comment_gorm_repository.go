package repositories

import (
	"errors"
	"fmt"

	"yamdb/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{db: db}
}

func (r *GORMCommentRepository) ListByReview(reviewID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").
		Where("review_id = ?", reviewID).
		Order("pub_date, id").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of review %d: %w", reviewID, err)
	}
	return comments, nil
}

func (r *GORMCommentRepository) GetByID(reviewID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").
		First(&comment, "id = ? AND review_id = ?", commentID, reviewID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment with ID %d of review %d not found: %w", commentID, reviewID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment %d: %w", commentID, err)
	}
	return &comment, nil
}

func (r *GORMCommentRepository) Create(comment *models.Comment) error {
	if err := r.db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *GORMCommentRepository) Update(comment *models.Comment) error {
	res := r.db.Model(&models.Comment{ID: comment.ID}).Select("Text").Updates(comment)
	if res.Error != nil {
		return fmt.Errorf("failed to update comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment with ID %d not found for update: %w", comment.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMCommentRepository) Delete(reviewID, commentID uint) error {
	res := r.db.Where("review_id = ?", reviewID).Delete(&models.Comment{}, "id = ?", commentID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment with ID %d of review %d not found for deletion: %w", commentID, reviewID, ErrNotFound)
	}
	return nil
}
