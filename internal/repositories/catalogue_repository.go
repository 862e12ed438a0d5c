package repositories

import "yamdb/internal/models"

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	List(search string) ([]models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	Create(category *models.Category) error
	// Delete removes the category and clears it from every title.
	Delete(slug string) error
}

// GenreRepository defines the interface for genre data access.
type GenreRepository interface {
	List(search string) ([]models.Genre, error)
	GetBySlug(slug string) (*models.Genre, error)
	GetBySlugs(slugs []string) ([]models.Genre, error)
	Create(genre *models.Genre) error
	// Delete removes the genre and its title links.
	Delete(slug string) error
}

// TitleFilter narrows a title listing. Zero values do not filter.
type TitleFilter struct {
	Category string
	Genre    string
	Name     string
	Year     int
}

// TitleRepository defines the interface for title data access.
// Titles are always returned with Category and Genres preloaded.
type TitleRepository interface {
	List(filter TitleFilter) ([]models.Title, error)
	GetByID(id uint) (*models.Title, error)
	Create(title *models.Title) error
	// Update saves scalar columns and the category. A non-nil genres
	// slice replaces the genre links.
	Update(title *models.Title, genres []models.Genre) error
	Delete(id uint) error
}
