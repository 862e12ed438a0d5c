package services

import (
	"yamdb/internal/models"
	"yamdb/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	if user.ID == 0 {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsernameAndEmail(username, email string) (*models.User, error) {
	args := m.Called(username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(search string) ([]models.User, error) {
	args := m.Called(search)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepository) Delete(username string) error {
	return m.Called(username).Error(0)
}

// MockReviewRepository is a mock implementation of repositories.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) ListByTitle(titleID uint) ([]models.Review, error) {
	args := m.Called(titleID)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByID(titleID, reviewID uint) (*models.Review, error) {
	args := m.Called(titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) Create(review *models.Review) error {
	return m.Called(review).Error(0)
}

func (m *MockReviewRepository) Update(review *models.Review) error {
	return m.Called(review).Error(0)
}

func (m *MockReviewRepository) Delete(titleID, reviewID uint) error {
	return m.Called(titleID, reviewID).Error(0)
}

func (m *MockReviewRepository) ScoreTotals(titleIDs ...uint) (map[uint]repositories.ScoreTotal, error) {
	args := m.Called(titleIDs)
	return args.Get(0).(map[uint]repositories.ScoreTotal), args.Error(1)
}

// MockCommentRepository is a mock implementation of repositories.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) ListByReview(reviewID uint) ([]models.Comment, error) {
	args := m.Called(reviewID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetByID(reviewID, commentID uint) (*models.Comment, error) {
	args := m.Called(reviewID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Create(comment *models.Comment) error {
	return m.Called(comment).Error(0)
}

func (m *MockCommentRepository) Update(comment *models.Comment) error {
	return m.Called(comment).Error(0)
}

func (m *MockCommentRepository) Delete(reviewID, commentID uint) error {
	return m.Called(reviewID, commentID).Error(0)
}

// MockTitleRepository is a mock implementation of repositories.TitleRepository
type MockTitleRepository struct {
	mock.Mock
}

func (m *MockTitleRepository) List(filter repositories.TitleFilter) ([]models.Title, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Title), args.Error(1)
}

func (m *MockTitleRepository) GetByID(id uint) (*models.Title, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleRepository) Create(title *models.Title) error {
	args := m.Called(title)
	if title.ID == 0 {
		title.ID = 1
	}
	return args.Error(0)
}

func (m *MockTitleRepository) Update(title *models.Title, genres []models.Genre) error {
	return m.Called(title, genres).Error(0)
}

func (m *MockTitleRepository) Delete(id uint) error {
	return m.Called(id).Error(0)
}

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(search string) ([]models.Category, error) {
	args := m.Called(search)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(category *models.Category) error {
	return m.Called(category).Error(0)
}

func (m *MockCategoryRepository) Delete(slug string) error {
	return m.Called(slug).Error(0)
}

// MockGenreRepository is a mock implementation of repositories.GenreRepository
type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) List(search string) ([]models.Genre, error) {
	args := m.Called(search)
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) GetBySlug(slug string) (*models.Genre, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreRepository) GetBySlugs(slugs []string) ([]models.Genre, error) {
	args := m.Called(slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) Create(genre *models.Genre) error {
	return m.Called(genre).Error(0)
}

func (m *MockGenreRepository) Delete(slug string) error {
	return m.Called(slug).Error(0)
}

// MockSender records confirmation codes instead of mailing them.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendConfirmationCode(email, code string) error {
	return m.Called(email, code).Error(0)
}
