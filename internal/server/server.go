package server

import (
	"errors"
	"log"
	"time"

	"yamdb/internal/database"
	"yamdb/internal/handlers"
	"yamdb/internal/middleware"
	"yamdb/internal/repositories"
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Options configures the application assembled by New.
type Options struct {
	Auth       services.AuthConfig
	Sender     services.ConfirmationSender
	RequestLog bool
}

// App bundles the Fiber application with the services tests and commands
// need direct access to.
type App struct {
	Fiber   *fiber.App
	Auth    *services.AuthService
	Reviews *services.ReviewService
}

// New wires repositories, services and handlers on top of db and mounts
// the API under /v1.
func New(db *gorm.DB, opts Options) *App {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	genreRepo := repositories.NewGORMGenreRepository(db)
	titleRepo := repositories.NewGORMTitleRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, opts.Sender, opts.Auth)
	userService := services.NewUserService(userRepo, opts.Auth.ReservedUsernames)
	reviewService := services.NewReviewService(reviewRepo, titleRepo)
	commentService := services.NewCommentService(commentRepo, reviewRepo)
	catalogueService := services.NewCatalogueService(categoryRepo, genreRepo, titleRepo, reviewService)

	// --- Handlers ---
	validate := handlers.NewValidator()
	authHandler := handlers.NewAuthHandler(authService, validate)
	userHandler := handlers.NewUserHandler(userService, validate)
	catalogueHandler := handlers.NewCatalogueHandler(catalogueService, validate)
	titleHandler := handlers.NewTitleHandler(catalogueService, validate)
	reviewHandler := handlers.NewReviewHandler(reviewService, commentService, validate)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	if opts.RequestLog {
		app.Use(logger.New())
	}

	auth := middleware.AuthRequired(authService, userService)

	v1 := app.Group("/v1")
	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1, auth)
	catalogueHandler.RegisterRoutes(v1, auth)
	titleHandler.RegisterRoutes(v1, auth)
	reviewHandler.RegisterRoutes(v1, auth)

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "ok"
		if err := database.Ping(db); err != nil {
			log.Printf("Health check: database unavailable: %v", err)
			dbStatus = "unavailable"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
		})
	})

	return &App{
		Fiber:   app,
		Auth:    authService,
		Reviews: reviewService,
	}
}

// errorHandler renders errors that escape handlers, such as unknown routes
// and recovered panics, in the same JSON shape as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code == fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{
		"message": err.Error(),
	})
}
