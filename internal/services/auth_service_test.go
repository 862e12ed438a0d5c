package services

import (
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"yamdb/internal/models"
	"yamdb/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func newTestAuthService(repo *MockUserRepository, sender *MockSender) *AuthService {
	return NewAuthService(repo, sender, AuthConfig{
		Secret:     "test_jwt_secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		CodeTTL:    time.Hour,
	})
}

func TestAuthService_DeriveConfirmationCode(t *testing.T) {
	s := newTestAuthService(new(MockUserRepository), new(MockSender))

	code := s.DeriveConfirmationCode("alice")
	assert.Len(t, code, 10)
	assert.Regexp(t, "^[0-9a-f]{10}$", code)
	assert.Equal(t, code, s.DeriveConfirmationCode("alice"), "code must be stable for a username")
	assert.NotEqual(t, code, s.DeriveConfirmationCode("bob"))

	other := NewAuthService(new(MockUserRepository), new(MockSender), AuthConfig{Secret: "another_secret"})
	assert.NotEqual(t, code, other.DeriveConfirmationCode("alice"), "code must depend on the secret")
}

func TestAuthService_RequestConfirmationCode_NewUser(t *testing.T) {
	repo := new(MockUserRepository)
	sender := new(MockSender)
	s := newTestAuthService(repo, sender)
	code := s.DeriveConfirmationCode("alice")

	repo.On("GetByUsernameAndEmail", "alice", "a@x.io").Return(nil, repositories.ErrNotFound).Once()
	repo.On("GetByUsername", "alice").Return(nil, repositories.ErrNotFound).Once()
	repo.On("GetByEmail", "a@x.io").Return(nil, repositories.ErrNotFound).Once()
	repo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	sender.On("SendConfirmationCode", "a@x.io", code).Return(nil).Once()

	user, err := s.RequestConfirmationCode("alice", "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotNil(t, user.ConfirmationSentAt)
	repo.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestAuthService_RequestConfirmationCode_Resend(t *testing.T) {
	repo := new(MockUserRepository)
	sender := new(MockSender)
	s := newTestAuthService(repo, sender)
	existing := &models.User{ID: 7, Username: "alice", Email: "a@x.io", Role: models.RoleModerator}

	repo.On("GetByUsernameAndEmail", "alice", "a@x.io").Return(existing, nil).Once()
	repo.On("Update", existing).Return(nil).Once()
	sender.On("SendConfirmationCode", "a@x.io", s.DeriveConfirmationCode("alice")).Return(nil).Once()

	user, err := s.RequestConfirmationCode("alice", "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, user.Role, "resend must not change the account")
	repo.AssertNotCalled(t, "Create", mock.Anything)
	repo.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestAuthService_RequestConfirmationCode_Rejections(t *testing.T) {
	t.Run("reserved username", func(t *testing.T) {
		repo := new(MockUserRepository)
		sender := new(MockSender)
		s := newTestAuthService(repo, sender)
		repo.On("GetByUsernameAndEmail", "me", "me@x.io").Return(nil, repositories.ErrNotFound).Once()

		_, err := s.RequestConfirmationCode("me", "me@x.io")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "username")
		repo.AssertNotCalled(t, "Create", mock.Anything)
		sender.AssertNotCalled(t, "SendConfirmationCode", mock.Anything, mock.Anything)
	})

	t.Run("username taken with another email", func(t *testing.T) {
		repo := new(MockUserRepository)
		sender := new(MockSender)
		s := newTestAuthService(repo, sender)
		repo.On("GetByUsernameAndEmail", "alice", "other@x.io").Return(nil, repositories.ErrNotFound).Once()
		repo.On("GetByUsername", "alice").Return(&models.User{ID: 1, Username: "alice"}, nil).Once()

		_, err := s.RequestConfirmationCode("alice", "other@x.io")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "username")
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("email taken by another user", func(t *testing.T) {
		repo := new(MockUserRepository)
		sender := new(MockSender)
		s := newTestAuthService(repo, sender)
		repo.On("GetByUsernameAndEmail", "carol", "a@x.io").Return(nil, repositories.ErrNotFound).Once()
		repo.On("GetByUsername", "carol").Return(nil, repositories.ErrNotFound).Once()
		repo.On("GetByEmail", "a@x.io").Return(&models.User{ID: 1, Username: "alice"}, nil).Once()

		_, err := s.RequestConfirmationCode("carol", "a@x.io")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "email")
	})

	t.Run("sender failure", func(t *testing.T) {
		repo := new(MockUserRepository)
		sender := new(MockSender)
		s := newTestAuthService(repo, sender)
		existing := &models.User{ID: 7, Username: "alice", Email: "a@x.io", Role: models.RoleUser}
		repo.On("GetByUsernameAndEmail", "alice", "a@x.io").Return(existing, nil).Once()
		repo.On("Update", existing).Return(nil).Once()
		sender.On("SendConfirmationCode", "a@x.io", mock.Anything).Return(errors.New("smtp down")).Once()

		_, err := s.RequestConfirmationCode("alice", "a@x.io")
		assert.ErrorContains(t, err, "smtp down")
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid code", func(t *testing.T) {
		repo := new(MockUserRepository)
		s := newTestAuthService(repo, new(MockSender))
		s.now = func() time.Time { return now }
		sent := now.Add(-10 * time.Minute)
		user := &models.User{ID: 3, Username: "alice", Role: models.RoleUser, ConfirmationSentAt: &sent}
		repo.On("GetByUsername", "alice").Return(user, nil).Once()

		pair, err := s.Authenticate("alice", s.DeriveConfirmationCode("alice"))
		require.NoError(t, err)
		assert.NotEmpty(t, pair.Access)
		assert.NotEmpty(t, pair.Refresh)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockUserRepository)
		s := newTestAuthService(repo, new(MockSender))
		repo.On("GetByUsername", "ghost").Return(nil, repositories.ErrNotFound).Once()

		_, err := s.Authenticate("ghost", "0123456789")
		var aerr *AuthError
		require.ErrorAs(t, err, &aerr)
		assert.ErrorIs(t, err, ErrUnknownUser)
	})

	t.Run("wrong code", func(t *testing.T) {
		repo := new(MockUserRepository)
		s := newTestAuthService(repo, new(MockSender))
		s.now = func() time.Time { return now }
		sent := now
		repo.On("GetByUsername", "alice").Return(&models.User{ID: 3, Username: "alice", ConfirmationSentAt: &sent}, nil).Once()

		_, err := s.Authenticate("alice", s.DeriveConfirmationCode("bob"))
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("expired code", func(t *testing.T) {
		repo := new(MockUserRepository)
		s := newTestAuthService(repo, new(MockSender))
		s.now = func() time.Time { return now }
		sent := now.Add(-2 * time.Hour)
		repo.On("GetByUsername", "alice").Return(&models.User{ID: 3, Username: "alice", ConfirmationSentAt: &sent}, nil).Once()

		_, err := s.Authenticate("alice", s.DeriveConfirmationCode("alice"))
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("no expiry when ttl is zero", func(t *testing.T) {
		repo := new(MockUserRepository)
		s := NewAuthService(repo, new(MockSender), AuthConfig{Secret: "s", AccessTTL: time.Hour, RefreshTTL: time.Hour})
		repo.On("GetByUsername", "alice").Return(&models.User{ID: 3, Username: "alice"}, nil).Once()

		_, err := s.Authenticate("alice", s.DeriveConfirmationCode("alice"))
		assert.NoError(t, err)
	})
}

func TestAuthService_Tokens(t *testing.T) {
	repo := new(MockUserRepository)
	s := newTestAuthService(repo, new(MockSender))
	user := &models.User{ID: 42, Username: "alice", Role: models.RoleUser}

	pair, err := s.IssueTokenPair(user)
	require.NoError(t, err)

	claims, err := s.ValidateToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["username"])
	id, err := UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = s.ValidateToken(pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "a refresh token is not an access token")

	_, err = s.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(repo, new(MockSender), AuthConfig{Secret: "another_secret", AccessTTL: time.Hour})
	_, err = other.ValidateToken(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	repo.On("GetByID", uint(42)).Return(user, nil).Once()
	refreshed, err := s.Refresh(pair.Refresh)
	require.NoError(t, err)
	_, err = s.ValidateToken(refreshed.Access)
	assert.NoError(t, err)

	_, err = s.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ExpiredToken(t *testing.T) {
	s := newTestAuthService(new(MockUserRepository), new(MockSender))
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	pair, err := s.IssueTokenPair(&models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = s.ValidateToken(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
