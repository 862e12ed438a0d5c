package repositories

import "yamdb/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	// GetByUsernameAndEmail matches both fields of the same account.
	GetByUsernameAndEmail(username, email string) (*models.User, error)
	List(search string) ([]models.User, error)
	Update(user *models.User) error
	Delete(username string) error
}
