package services

import "yamdb/internal/models"

// canModify reports whether actor may edit or delete content written by
// authorID: its author, a moderator or an admin.
func canModify(actor *models.User, authorID uint) bool {
	if actor == nil {
		return false
	}
	return actor.ID == authorID || actor.Role.CanModerate()
}
