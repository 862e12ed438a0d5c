package services

import (
	"testing"
	"time"

	"yamdb/internal/models"
	"yamdb/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedRatings map[uint]*int

func (f fixedRatings) ComputeRatings(titleIDs ...uint) (map[uint]*int, error) {
	out := make(map[uint]*int, len(titleIDs))
	for _, id := range titleIDs {
		out[id] = f[id]
	}
	return out, nil
}

type catalogueMocks struct {
	categories *MockCategoryRepository
	genres     *MockGenreRepository
	titles     *MockTitleRepository
}

func newTestCatalogueService(ratings fixedRatings) (*CatalogueService, catalogueMocks) {
	m := catalogueMocks{
		categories: new(MockCategoryRepository),
		genres:     new(MockGenreRepository),
		titles:     new(MockTitleRepository),
	}
	s := NewCatalogueService(m.categories, m.genres, m.titles, ratings)
	s.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return s, m
}

func TestCatalogueService_CreateCategory(t *testing.T) {
	s, m := newTestCatalogueService(nil)

	m.categories.On("Create", mock.AnythingOfType("*models.Category")).Return(nil).Once()
	category, err := s.CreateCategory("Books", "books")
	require.NoError(t, err)
	assert.Equal(t, "books", category.Slug)

	_, err = s.CreateCategory("Books", "bad slug!")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "slug")

	m.categories.On("Create", mock.AnythingOfType("*models.Category")).Return(repositories.ErrDuplicate).Once()
	_, err = s.CreateCategory("Books", "books")
	assert.ErrorAs(t, err, &verr)
}

func TestCatalogueService_DeleteGenre(t *testing.T) {
	s, m := newTestCatalogueService(nil)
	m.genres.On("Delete", "drama").Return(nil).Once()
	m.genres.On("Delete", "nope").Return(repositories.ErrNotFound).Once()

	assert.NoError(t, s.DeleteGenre("drama"))
	var nf *NotFoundError
	assert.ErrorAs(t, s.DeleteGenre("nope"), &nf)
}

func TestCatalogueService_CreateTitle(t *testing.T) {
	eight := 8

	t.Run("success", func(t *testing.T) {
		s, m := newTestCatalogueService(fixedRatings{1: &eight})
		category := &models.Category{ID: 2, Name: "Books", Slug: "books"}
		genres := []models.Genre{{ID: 3, Name: "Sci-Fi", Slug: "sci-fi"}}
		m.categories.On("GetBySlug", "books").Return(category, nil).Once()
		m.genres.On("GetBySlugs", []string{"sci-fi"}).Return(genres, nil).Once()
		m.titles.On("Create", mock.MatchedBy(func(title *models.Title) bool {
			return title.Name == "Dune" && *title.CategoryID == 2 && len(title.Genres) == 1
		})).Return(nil).Once()
		m.titles.On("GetByID", uint(1)).Return(&models.Title{ID: 1, Name: "Dune", Year: 1965, Category: category, Genres: genres}, nil).Once()

		view, err := s.CreateTitle(TitleInput{Name: "Dune", Year: 1965, Genre: []string{"sci-fi"}, Category: "books"})
		require.NoError(t, err)
		assert.Equal(t, "Dune", view.Name)
		require.NotNil(t, view.Rating)
		assert.Equal(t, 8, *view.Rating)
	})

	t.Run("future year", func(t *testing.T) {
		s, m := newTestCatalogueService(nil)
		_, err := s.CreateTitle(TitleInput{Name: "Later", Year: 2030, Category: "books"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "year")
		m.titles.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("unknown category", func(t *testing.T) {
		s, m := newTestCatalogueService(nil)
		m.categories.On("GetBySlug", "nope").Return(nil, repositories.ErrNotFound).Once()

		_, err := s.CreateTitle(TitleInput{Name: "Dune", Year: 1965, Category: "nope"})
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "category", nf.Resource)
	})

	t.Run("unknown genre", func(t *testing.T) {
		s, m := newTestCatalogueService(nil)
		m.categories.On("GetBySlug", "books").Return(&models.Category{ID: 2}, nil).Once()
		m.genres.On("GetBySlugs", []string{"nope"}).Return(nil, repositories.ErrNotFound).Once()

		_, err := s.CreateTitle(TitleInput{Name: "Dune", Year: 1965, Category: "books", Genre: []string{"nope"}})
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "genre", nf.Resource)
	})
}

func TestCatalogueService_UpdateTitle(t *testing.T) {
	existing := func() *models.Title {
		return &models.Title{ID: 1, Name: "Dune", Year: 1965}
	}

	t.Run("genres untouched when absent", func(t *testing.T) {
		s, m := newTestCatalogueService(nil)
		name := "Dune Messiah"
		m.titles.On("GetByID", uint(1)).Return(existing(), nil).Twice()
		m.titles.On("Update", mock.AnythingOfType("*models.Title"), []models.Genre(nil)).Return(nil).Once()

		view, err := s.UpdateTitle(1, TitlePatch{Name: &name})
		require.NoError(t, err)
		assert.Nil(t, view.Rating)
		m.genres.AssertNotCalled(t, "GetBySlugs", mock.Anything)
		m.titles.AssertExpectations(t)
	})

	t.Run("empty genre list clears genres", func(t *testing.T) {
		s, m := newTestCatalogueService(nil)
		m.titles.On("GetByID", uint(1)).Return(existing(), nil).Twice()
		m.genres.On("GetBySlugs", []string{}).Return([]models.Genre{}, nil).Once()
		m.titles.On("Update", mock.AnythingOfType("*models.Title"), []models.Genre{}).Return(nil).Once()

		_, err := s.UpdateTitle(1, TitlePatch{Genre: []string{}})
		require.NoError(t, err)
		m.titles.AssertExpectations(t)
	})

	t.Run("missing title", func(t *testing.T) {
		s, m := newTestCatalogueService(nil)
		m.titles.On("GetByID", uint(5)).Return(nil, repositories.ErrNotFound).Once()

		_, err := s.UpdateTitle(5, TitlePatch{})
		var nf *NotFoundError
		assert.ErrorAs(t, err, &nf)
	})
}

func TestCatalogueService_ListTitles(t *testing.T) {
	seven := 7
	s, m := newTestCatalogueService(fixedRatings{2: &seven})
	filter := repositories.TitleFilter{Genre: "drama"}
	m.titles.On("List", filter).Return([]models.Title{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}, nil).Once()

	views, err := s.ListTitles(filter)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Nil(t, views[0].Rating)
	assert.Equal(t, 7, *views[1].Rating)
}

func TestUserService(t *testing.T) {
	t.Run("profile update cannot change role", func(t *testing.T) {
		repo := new(MockUserRepository)
		s := NewUserService(repo, nil)
		actor := &models.User{ID: 1, Username: "alice", Email: "a@x.io", Role: models.RoleUser}
		admin := models.RoleAdmin
		bio := "reader"
		repo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

		user, err := s.UpdateProfile(actor, UserPatch{Role: &admin, Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.Equal(t, "reader", user.Bio)
	})

	t.Run("admin sets role", func(t *testing.T) {
		repo := new(MockUserRepository)
		s := NewUserService(repo, nil)
		moderator := models.RoleModerator
		repo.On("GetByUsername", "alice").Return(&models.User{ID: 1, Username: "alice", Email: "a@x.io", Role: models.RoleUser}, nil).Once()
		repo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

		user, err := s.UpdateUser("alice", UserPatch{Role: &moderator})
		require.NoError(t, err)
		assert.True(t, user.Role.CanModerate())
		assert.False(t, user.Role.IsAdmin())
	})

	t.Run("unknown role", func(t *testing.T) {
		repo := new(MockUserRepository)
		s := NewUserService(repo, nil)
		err := s.CreateUser(&models.User{Username: "bob", Email: "b@x.io", Role: "superuser"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "role")
	})

	t.Run("reserved username", func(t *testing.T) {
		repo := new(MockUserRepository)
		s := NewUserService(repo, nil)
		err := s.CreateUser(&models.User{Username: "me", Email: "me@x.io"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("duplicate", func(t *testing.T) {
		repo := new(MockUserRepository)
		s := NewUserService(repo, nil)
		repo.On("Create", mock.AnythingOfType("*models.User")).Return(repositories.ErrDuplicate).Once()
		err := s.CreateUser(&models.User{Username: "bob", Email: "b@x.io"})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := new(MockUserRepository)
		s := NewUserService(repo, nil)
		repo.On("Delete", "ghost").Return(repositories.ErrNotFound).Once()
		var nf *NotFoundError
		assert.ErrorAs(t, s.DeleteUser("ghost"), &nf)
	})
}
