package repositories

import (
	"errors"
	"fmt"

	"yamdb/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMTitleRepository is a GORM implementation of TitleRepository.
type GORMTitleRepository struct {
	db *gorm.DB
}

// NewGORMTitleRepository creates a new instance of GORMTitleRepository.
func NewGORMTitleRepository(db *gorm.DB) *GORMTitleRepository {
	return &GORMTitleRepository{db: db}
}

func (r *GORMTitleRepository) preloaded() *gorm.DB {
	return r.db.Preload("Category").Preload("Genres", func(db *gorm.DB) *gorm.DB {
		return db.Order("genres.name")
	})
}

// List retrieves titles matching the filter ordered by ID.
func (r *GORMTitleRepository) List(filter TitleFilter) ([]models.Title, error) {
	q := r.preloaded().Model(&models.Title{}).Order("titles.id")
	if filter.Category != "" {
		q = q.Where("titles.category_id IN (?)",
			r.db.Model(&models.Category{}).Select("id").Where("slug = ?", filter.Category))
	}
	if filter.Genre != "" {
		q = q.Where("titles.id IN (?)",
			r.db.Table("genre_titles").Select("genre_titles.title_id").
				Joins("JOIN genres ON genres.id = genre_titles.genre_id").
				Where("genres.slug = ?", filter.Genre))
	}
	if filter.Name != "" {
		q = q.Where("titles.name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Year != 0 {
		q = q.Where("titles.year = ?", filter.Year)
	}

	var titles []models.Title
	if err := q.Find(&titles).Error; err != nil {
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}
	return titles, nil
}

// GetByID retrieves a single title by its ID.
func (r *GORMTitleRepository) GetByID(id uint) (*models.Title, error) {
	var title models.Title
	if err := r.preloaded().First(&title, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("title with ID %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get title by ID %d: %w", id, err)
	}
	return &title, nil
}

// Create inserts the title and links it to title.Genres, which must
// already exist.
func (r *GORMTitleRepository) Create(title *models.Title) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(title).Error; err != nil {
			return fmt.Errorf("failed to create title: %w", err)
		}
		return linkGenres(tx, title.ID, title.Genres)
	})
}

// Update writes name, description, year and category, and replaces the
// genre links when genres is non-nil.
func (r *GORMTitleRepository) Update(title *models.Title, genres []models.Genre) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Title{ID: title.ID}).
			Select("Name", "Description", "Year", "CategoryID").
			Updates(title)
		if res.Error != nil {
			return fmt.Errorf("failed to update title: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("title with ID %d not found for update: %w", title.ID, ErrNotFound)
		}
		if genres == nil {
			return nil
		}
		if err := tx.Where("title_id = ?", title.ID).Delete(&models.GenreTitle{}).Error; err != nil {
			return fmt.Errorf("failed to unlink genres of title %d: %w", title.ID, err)
		}
		return linkGenres(tx, title.ID, genres)
	})
}

// Delete removes the title, its genre links, its reviews and their comments.
func (r *GORMTitleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		reviews := tx.Model(&models.Review{}).Select("id").Where("title_id = ?", id)
		if err := tx.Where("review_id IN (?)", reviews).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments of title %d: %w", id, err)
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews of title %d: %w", id, err)
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.GenreTitle{}).Error; err != nil {
			return fmt.Errorf("failed to unlink genres of title %d: %w", id, err)
		}
		res := tx.Delete(&models.Title{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete title: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("title with ID %d not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}

func linkGenres(tx *gorm.DB, titleID uint, genres []models.Genre) error {
	if len(genres) == 0 {
		return nil
	}
	links := make([]models.GenreTitle, 0, len(genres))
	seen := make(map[uint]bool, len(genres))
	for _, g := range genres {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		links = append(links, models.GenreTitle{TitleID: titleID, GenreID: g.ID})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link genres to title %d: %w", titleID, err)
	}
	return nil
}
