package services

import (
	"errors"
	"fmt"

	"yamdb/internal/models"
	"yamdb/internal/repositories"
)

// UserPatch lists the profile fields a partial update may change.
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *models.Role
}

// UserService handles account management by admins and by the users
// themselves.
type UserService struct {
	repo     repositories.UserRepository
	reserved []string
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, reserved []string) *UserService {
	if reserved == nil {
		reserved = models.DefaultReservedUsernames
	}
	return &UserService{repo: repo, reserved: reserved}
}

func (s *UserService) ListUsers(search string) ([]models.User, error) {
	return s.repo.List(search)
}

func (s *UserService) GetUser(username string) (*models.User, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		return nil, notFound("user", username, err)
	}
	return user, nil
}

// GetUserByID is used by the authentication middleware.
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, notFound("user", fmt.Sprint(id), err)
	}
	return user, nil
}

// CreateUser registers an account on behalf of an admin.
func (s *UserService) CreateUser(user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := s.validate(user); err != nil {
		return err
	}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return NewValidationError("username", "a user with that username or email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser applies an admin's partial update to username's account.
func (s *UserService) UpdateUser(username string, patch UserPatch) (*models.User, error) {
	user, err := s.GetUser(username)
	if err != nil {
		return nil, err
	}
	return s.apply(user, patch)
}

// UpdateProfile applies a user's own partial update. The role cannot be
// changed this way.
func (s *UserService) UpdateProfile(actor *models.User, patch UserPatch) (*models.User, error) {
	patch.Role = nil
	user := *actor
	return s.apply(&user, patch)
}

func (s *UserService) DeleteUser(username string) error {
	if err := s.repo.Delete(username); err != nil {
		return notFound("user", username, err)
	}
	return nil
}

func (s *UserService) apply(user *models.User, patch UserPatch) (*models.User, error) {
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if err := s.validate(user); err != nil {
		return nil, err
	}
	if err := s.repo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewValidationError("username", "a user with that username or email already exists")
		}
		return nil, fmt.Errorf("failed to update user %s: %w", user.Username, err)
	}
	return user, nil
}

func (s *UserService) validate(user *models.User) error {
	fields := map[string]string{}
	if err := models.ValidateUsername(user.Username, s.reserved); err != nil {
		fields["username"] = err.Error()
	}
	if user.Email == "" {
		fields["email"] = "email is required"
	}
	if !user.Role.Valid() {
		fields["role"] = fmt.Sprintf("unknown role %q", user.Role)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// notFound converts a repository miss into a NotFoundError and passes other
// errors through.
func notFound(resource, key string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return &NotFoundError{Resource: resource, Key: key, Err: err}
	}
	return err
}
