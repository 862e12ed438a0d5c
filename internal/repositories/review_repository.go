package repositories

import "yamdb/internal/models"

// ScoreTotal is the raw material of a title's rating.
type ScoreTotal struct {
	TitleID uint
	Sum     int `gorm:"column:score_sum"`
	Count   int `gorm:"column:score_count"`
}

// ReviewRepository defines the interface for review data access.
// Reviews are returned with Author preloaded.
type ReviewRepository interface {
	ListByTitle(titleID uint) ([]models.Review, error)
	GetByID(titleID, reviewID uint) (*models.Review, error)
	// Create fails with ErrDuplicate when the author already reviewed
	// the title.
	Create(review *models.Review) error
	Update(review *models.Review) error
	// Delete removes the review and all of its comments.
	Delete(titleID, reviewID uint) error
	// ScoreTotals aggregates scores per title. Titles without reviews are
	// absent from the result.
	ScoreTotals(titleIDs ...uint) (map[uint]ScoreTotal, error)
}

// CommentRepository defines the interface for comment data access.
// Comments are returned with Author preloaded.
type CommentRepository interface {
	ListByReview(reviewID uint) ([]models.Comment, error)
	GetByID(reviewID, commentID uint) (*models.Comment, error)
	Create(comment *models.Comment) error
	Update(comment *models.Comment) error
	Delete(reviewID, commentID uint) error
}
