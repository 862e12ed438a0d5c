package handlers

import (
	"yamdb/internal/middleware"
	"yamdb/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CatalogueHandler serves categories and genres.
type CatalogueHandler struct {
	service  *services.CatalogueService
	validate *validator.Validate
}

// NewCatalogueHandler creates a new CatalogueHandler.
func NewCatalogueHandler(service *services.CatalogueService, validate *validator.Validate) *CatalogueHandler {
	return &CatalogueHandler{service: service, validate: validate}
}

// RegisterRoutes registers /categories and /genres. Listing is public;
// creating and deleting need an admin.
func (h *CatalogueHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	admin := middleware.AdminOnly()

	router.Get("/categories", h.HandleListCategories)
	router.Post("/categories", auth, admin, h.HandleCreateCategory)
	router.Delete("/categories/:slug", auth, admin, h.HandleDeleteCategory)

	router.Get("/genres", h.HandleListGenres)
	router.Post("/genres", auth, admin, h.HandleCreateGenre)
	router.Delete("/genres/:slug", auth, admin, h.HandleDeleteGenre)
}

// NamedRequest is the body of a category or genre creation.
type NamedRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

func (h *CatalogueHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.Query("search"))
	if err != nil {
		return respondError(c, err, "Could not retrieve categories")
	}
	return c.JSON(categories)
}

func (h *CatalogueHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req NamedRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	category, err := h.service.CreateCategory(req.Name, req.Slug)
	if err != nil {
		return respondError(c, err, "Could not create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CatalogueHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.Params("slug")); err != nil {
		return respondError(c, err, "Could not delete category")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CatalogueHandler) HandleListGenres(c *fiber.Ctx) error {
	genres, err := h.service.ListGenres(c.Query("search"))
	if err != nil {
		return respondError(c, err, "Could not retrieve genres")
	}
	return c.JSON(genres)
}

func (h *CatalogueHandler) HandleCreateGenre(c *fiber.Ctx) error {
	var req NamedRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	genre, err := h.service.CreateGenre(req.Name, req.Slug)
	if err != nil {
		return respondError(c, err, "Could not create genre")
	}
	return c.Status(fiber.StatusCreated).JSON(genre)
}

func (h *CatalogueHandler) HandleDeleteGenre(c *fiber.Ctx) error {
	if err := h.service.DeleteGenre(c.Params("slug")); err != nil {
		return respondError(c, err, "Could not delete genre")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
