package models

import (
	"fmt"
	"regexp"
	"time"
)

// Role is the privilege tier of a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role grants catalogue and user management.
// It is the only source of elevated access; there is no separate flag.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanModerate reports whether the role may edit or delete content written
// by other users.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// DefaultReservedUsernames cannot be registered.
var DefaultReservedUsernames = []string{"me"}

// User represents an account on the platform.
type User struct {
	ID                 uint       `json:"-" gorm:"primaryKey"`
	Username           string     `json:"username" gorm:"uniqueIndex;uniqueIndex:idx_users_username_email;type:varchar(150);not null"`
	Email              string     `json:"email" gorm:"uniqueIndex;uniqueIndex:idx_users_username_email;type:varchar(254);not null"`
	Role               Role       `json:"role" gorm:"type:varchar(20);not null;default:user"`
	Bio                string     `json:"bio"`
	FirstName          string     `json:"first_name" gorm:"type:varchar(150)"`
	LastName           string     `json:"last_name" gorm:"type:varchar(150)"`
	ConfirmationSentAt *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"-"`
	UpdatedAt          time.Time  `json:"-"`
}

// ValidateUsername checks the allowed characters, length and the reserved
// names list.
func ValidateUsername(username string, reserved []string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) > 150 {
		return fmt.Errorf("username must be at most 150 characters")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username may contain only letters, digits and @/./+/-/_")
	}
	for _, r := range reserved {
		if username == r {
			return fmt.Errorf("username '%s' is reserved", username)
		}
	}
	return nil
}
