package repositories_test

import (
	"fmt"
	"testing"

	"yamdb/internal/database"
	"yamdb/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := database.Open("sqlite", dsn, "silent")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTitle(t *testing.T, db *gorm.DB, name string, year int, category *models.Category, genres ...models.Genre) *models.Title {
	t.Helper()
	title := &models.Title{Name: name, Year: year}
	if category != nil {
		title.CategoryID = &category.ID
	}
	require.NoError(t, db.Omit("Genres").Create(title).Error)
	for _, g := range genres {
		require.NoError(t, db.Create(&models.GenreTitle{TitleID: title.ID, GenreID: g.ID}).Error)
	}
	return title
}
