package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"yamdb/internal/models"
	"yamdb/internal/repositories"
)

// RatingSource computes title ratings on demand.
type RatingSource interface {
	ComputeRatings(titleIDs ...uint) (map[uint]*int, error)
}

// TitleView is a title together with its current rating.
type TitleView struct {
	models.Title
	Rating *int
}

// TitleInput is the payload of a title creation.
type TitleInput struct {
	Name        string
	Year        int
	Description *string
	Genre       []string
	Category    string
}

// TitlePatch lists the title fields a partial update may change. A
// non-nil Genre replaces the whole genre set.
type TitlePatch struct {
	Name        *string
	Year        *int
	Description *string
	Genre       []string
	Category    *string
}

// CatalogueService manages categories, genres and titles.
type CatalogueService struct {
	categories repositories.CategoryRepository
	genres     repositories.GenreRepository
	titles     repositories.TitleRepository
	ratings    RatingSource
	now        func() time.Time
}

// NewCatalogueService creates a new CatalogueService.
func NewCatalogueService(
	categories repositories.CategoryRepository,
	genres repositories.GenreRepository,
	titles repositories.TitleRepository,
	ratings RatingSource,
) *CatalogueService {
	return &CatalogueService{
		categories: categories,
		genres:     genres,
		titles:     titles,
		ratings:    ratings,
		now:        time.Now,
	}
}

func validateNamed(name, slug string) error {
	fields := map[string]string{}
	if strings.TrimSpace(name) == "" {
		fields["name"] = "name is required"
	} else if len(name) > 256 {
		fields["name"] = "name must be at most 256 characters"
	}
	if !models.ValidSlug(slug) {
		fields["slug"] = "slug must match ^[-a-zA-Z0-9_]+$ and be at most 50 characters"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *CatalogueService) ListCategories(search string) ([]models.Category, error) {
	return s.categories.List(search)
}

func (s *CatalogueService) CreateCategory(name, slug string) (*models.Category, error) {
	if err := validateNamed(name, slug); err != nil {
		return nil, err
	}
	category := &models.Category{Name: name, Slug: slug}
	if err := s.categories.Create(category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewValidationError("slug", "category with this name or slug already exists")
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes the category; its titles remain without one.
func (s *CatalogueService) DeleteCategory(slug string) error {
	if err := s.categories.Delete(slug); err != nil {
		return notFound("category", slug, err)
	}
	return nil
}

func (s *CatalogueService) ListGenres(search string) ([]models.Genre, error) {
	return s.genres.List(search)
}

func (s *CatalogueService) CreateGenre(name, slug string) (*models.Genre, error) {
	if err := validateNamed(name, slug); err != nil {
		return nil, err
	}
	genre := &models.Genre{Name: name, Slug: slug}
	if err := s.genres.Create(genre); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewValidationError("slug", "genre with this name or slug already exists")
		}
		return nil, err
	}
	return genre, nil
}

func (s *CatalogueService) DeleteGenre(slug string) error {
	if err := s.genres.Delete(slug); err != nil {
		return notFound("genre", slug, err)
	}
	return nil
}

// ListTitles returns the titles matching filter with their ratings.
func (s *CatalogueService) ListTitles(filter repositories.TitleFilter) ([]TitleView, error) {
	titles, err := s.titles.List(filter)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(titles))
	for i, t := range titles {
		ids[i] = t.ID
	}
	ratings, err := s.ratings.ComputeRatings(ids...)
	if err != nil {
		return nil, err
	}
	views := make([]TitleView, len(titles))
	for i, t := range titles {
		views[i] = TitleView{Title: t, Rating: ratings[t.ID]}
	}
	return views, nil
}

func (s *CatalogueService) GetTitle(id uint) (*TitleView, error) {
	title, err := s.titles.GetByID(id)
	if err != nil {
		return nil, notFound("title", fmt.Sprint(id), err)
	}
	ratings, err := s.ratings.ComputeRatings(id)
	if err != nil {
		return nil, err
	}
	return &TitleView{Title: *title, Rating: ratings[id]}, nil
}

// CreateTitle resolves the category and genre slugs and stores the title.
func (s *CatalogueService) CreateTitle(in TitleInput) (*TitleView, error) {
	if err := s.validateTitle(in.Name, in.Year); err != nil {
		return nil, err
	}
	category, err := s.categories.GetBySlug(in.Category)
	if err != nil {
		return nil, notFound("category", in.Category, err)
	}
	genres, err := s.genres.GetBySlugs(in.Genre)
	if err != nil {
		return nil, notFound("genre", strings.Join(in.Genre, ","), err)
	}

	title := &models.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
		CategoryID:  &category.ID,
		Genres:      genres,
	}
	if err := s.titles.Create(title); err != nil {
		return nil, err
	}
	return s.GetTitle(title.ID)
}

// UpdateTitle applies a partial update. A category slug in the patch is
// resolved again and must exist.
func (s *CatalogueService) UpdateTitle(id uint, patch TitlePatch) (*TitleView, error) {
	title, err := s.titles.GetByID(id)
	if err != nil {
		return nil, notFound("title", fmt.Sprint(id), err)
	}
	if patch.Name != nil {
		title.Name = *patch.Name
	}
	if patch.Year != nil {
		title.Year = *patch.Year
	}
	if patch.Description != nil {
		title.Description = patch.Description
	}
	if err := s.validateTitle(title.Name, title.Year); err != nil {
		return nil, err
	}
	if patch.Category != nil {
		category, err := s.categories.GetBySlug(*patch.Category)
		if err != nil {
			return nil, notFound("category", *patch.Category, err)
		}
		title.CategoryID = &category.ID
	}
	var genres []models.Genre
	if patch.Genre != nil {
		genres, err = s.genres.GetBySlugs(patch.Genre)
		if err != nil {
			return nil, notFound("genre", strings.Join(patch.Genre, ","), err)
		}
	}
	if err := s.titles.Update(title, genres); err != nil {
		return nil, notFound("title", fmt.Sprint(id), err)
	}
	return s.GetTitle(id)
}

// DeleteTitle removes the title with its reviews and their comments.
func (s *CatalogueService) DeleteTitle(id uint) error {
	if err := s.titles.Delete(id); err != nil {
		return notFound("title", fmt.Sprint(id), err)
	}
	return nil
}

func (s *CatalogueService) validateTitle(name string, year int) error {
	fields := map[string]string{}
	if strings.TrimSpace(name) == "" {
		fields["name"] = "name is required"
	} else if len(name) > 256 {
		fields["name"] = "name must be at most 256 characters"
	}
	if err := models.ValidateYear(year, s.now()); err != nil {
		fields["year"] = err.Error()
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
