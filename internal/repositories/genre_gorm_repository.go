package repositories

import (
	"errors"
	"fmt"

	"yamdb/internal/models"

	"gorm.io/gorm"
)

// GORMGenreRepository is a GORM implementation of GenreRepository.
type GORMGenreRepository struct {
	db *gorm.DB
}

// NewGORMGenreRepository creates a new instance of GORMGenreRepository.
func NewGORMGenreRepository(db *gorm.DB) *GORMGenreRepository {
	return &GORMGenreRepository{db: db}
}

func (r *GORMGenreRepository) List(search string) ([]models.Genre, error) {
	var genres []models.Genre
	q := r.db.Order("name")
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if err := q.Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

func (r *GORMGenreRepository) GetBySlug(slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.First(&genre, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("genre with slug %s not found: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get genre %s: %w", slug, err)
	}
	return &genre, nil
}

// GetBySlugs resolves every slug or fails with ErrNotFound naming the
// first unknown one. Duplicate slugs collapse to one genre.
func (r *GORMGenreRepository) GetBySlugs(slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return []models.Genre{}, nil
	}
	var genres []models.Genre
	if err := r.db.Where("slug IN ?", slugs).Order("name").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to get genres: %w", err)
	}
	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.Slug] = true
	}
	for _, s := range slugs {
		if !found[s] {
			return nil, fmt.Errorf("genre with slug %s not found: %w", s, ErrNotFound)
		}
	}
	return genres, nil
}

func (r *GORMGenreRepository) Create(genre *models.Genre) error {
	if err := r.db.Create(genre).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("genre %s: %w", genre.Slug, ErrDuplicate)
		}
		return fmt.Errorf("failed to create genre: %w", err)
	}
	return nil
}

func (r *GORMGenreRepository) Delete(slug string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var genre models.Genre
		if err := tx.First(&genre, "slug = ?", slug).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("genre with slug %s not found for deletion: %w", slug, ErrNotFound)
			}
			return fmt.Errorf("failed to load genre %s: %w", slug, err)
		}
		if err := tx.Where("genre_id = ?", genre.ID).Delete(&models.GenreTitle{}).Error; err != nil {
			return fmt.Errorf("failed to unlink genre %s: %w", slug, err)
		}
		if err := tx.Delete(&genre).Error; err != nil {
			return fmt.Errorf("failed to delete genre: %w", err)
		}
		return nil
	})
}
