package repositories

import (
	"errors"
	"fmt"

	"yamdb/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

// ListByTitle returns the reviews of a title, oldest first.
func (r *GORMReviewRepository) ListByTitle(titleID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Author").
		Where("title_id = ?", titleID).
		Order("pub_date, id").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews of title %d: %w", titleID, err)
	}
	return reviews, nil
}

// GetByID retrieves a review that belongs to the given title.
func (r *GORMReviewRepository) GetByID(titleID, reviewID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Preload("Author").
		First(&review, "id = ? AND title_id = ?", reviewID, titleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review with ID %d of title %d not found: %w", reviewID, titleID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review %d: %w", reviewID, err)
	}
	return &review, nil
}

// Create inserts the review. The (title_id, author_id) unique index is the
// only duplicate check, so concurrent creates cannot both succeed.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if err := r.db.Omit(clause.Associations).Create(review).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("review of title %d by user %d: %w", review.TitleID, review.AuthorID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// Update writes text and score. pub_date is never rewritten.
func (r *GORMReviewRepository) Update(review *models.Review) error {
	res := r.db.Model(&models.Review{ID: review.ID}).
		Select("Text", "Score").
		Updates(review)
	if res.Error != nil {
		return fmt.Errorf("failed to update review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %d not found for update: %w", review.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMReviewRepository) Delete(titleID, reviewID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("title_id = ?", titleID).Delete(&models.Review{}, "id = ?", reviewID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete review: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("review with ID %d of title %d not found for deletion: %w", reviewID, titleID, ErrNotFound)
		}
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments of review %d: %w", reviewID, err)
		}
		return nil
	})
}

// ScoreTotals runs one grouped query for all requested titles.
func (r *GORMReviewRepository) ScoreTotals(titleIDs ...uint) (map[uint]ScoreTotal, error) {
	totals := make(map[uint]ScoreTotal, len(titleIDs))
	if len(titleIDs) == 0 {
		return totals, nil
	}
	var rows []ScoreTotal
	err := r.db.Model(&models.Review{}).
		Select("title_id, SUM(score) AS score_sum, COUNT(*) AS score_count").
		Where("title_id IN ?", titleIDs).
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate review scores: %w", err)
	}
	for _, row := range rows {
		totals[row.TitleID] = row
	}
	return totals, nil
}
