//go:build integration
// +build integration

package repositories_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"yamdb/internal/database"
	"yamdb/internal/models"
	"yamdb/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// setupPostgres starts a PostgreSQL container and returns a migrated
// connection to it.
func setupPostgres(t *testing.T) *gorm.DB {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("yamdb"),
		postgres.WithUsername("yamdb"),
		postgres.WithPassword("yamdb"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open("postgres", connStr, "silent")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestPostgres_ConcurrentReviewsOfOneTitle(t *testing.T) {
	db := setupPostgres(t)
	reviews := repositories.NewGORMReviewRepository(db)

	alice := seedUser(t, db, "alice", models.RoleUser)
	title := seedTitle(t, db, "Dune", 1965, nil)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			errs <- reviews.Create(&models.Review{TitleID: title.ID, AuthorID: alice.ID, Text: "mine", Score: score})
		}(i%10 + 1)
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, repositories.ErrDuplicate)
	}
	assert.Equal(t, 1, created, "exactly one review per author and title")
}

func TestPostgres_CascadesAndRatings(t *testing.T) {
	db := setupPostgres(t)
	users := repositories.NewGORMUserRepository(db)
	categories := repositories.NewGORMCategoryRepository(db)
	titles := repositories.NewGORMTitleRepository(db)
	reviews := repositories.NewGORMReviewRepository(db)
	comments := repositories.NewGORMCommentRepository(db)

	books := &models.Category{Name: "Books", Slug: "books"}
	require.NoError(t, categories.Create(books))
	alice := seedUser(t, db, "alice", models.RoleUser)
	bob := seedUser(t, db, "bob", models.RoleUser)
	dune := seedTitle(t, db, "Dune", 1965, books)

	review := &models.Review{TitleID: dune.ID, AuthorID: alice.ID, Text: "great", Score: 8}
	require.NoError(t, reviews.Create(review))
	require.NoError(t, reviews.Create(&models.Review{TitleID: dune.ID, AuthorID: bob.ID, Text: "fine", Score: 5}))
	require.NoError(t, comments.Create(&models.Comment{ReviewID: review.ID, AuthorID: bob.ID, Text: "agreed"}))

	totals, err := reviews.ScoreTotals(dune.ID)
	require.NoError(t, err)
	assert.Equal(t, 13, totals[dune.ID].Sum)
	assert.Equal(t, 2, totals[dune.ID].Count)

	require.NoError(t, categories.Delete("books"))
	got, err := titles.GetByID(dune.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	require.NoError(t, users.Delete("alice"))
	left, err := comments.ListByReview(review.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	require.NoError(t, titles.Delete(dune.ID))
	remaining, err := reviews.ListByTitle(dune.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
