package handlers

import (
	"strconv"

	"yamdb/internal/middleware"
	"yamdb/internal/repositories"
	"yamdb/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TitleHandler serves /titles.
type TitleHandler struct {
	service  *services.CatalogueService
	validate *validator.Validate
}

// NewTitleHandler creates a new TitleHandler.
func NewTitleHandler(service *services.CatalogueService, validate *validator.Validate) *TitleHandler {
	return &TitleHandler{service: service, validate: validate}
}

// RegisterRoutes registers the title routes. Reading is public; writes
// need an admin.
func (h *TitleHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	admin := middleware.AdminOnly()
	titles := router.Group("/titles")
	titles.Get("/", h.HandleListTitles)
	titles.Post("/", auth, admin, h.HandleCreateTitle)
	titles.Get("/:id", h.HandleGetTitle)
	titles.Patch("/:id", auth, admin, h.HandleUpdateTitle)
	titles.Delete("/:id", auth, admin, h.HandleDeleteTitle)
}

// TitleRequest represents the request body of a title creation.
type TitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required,notfuture"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" validate:"dive,slug"`
	Category    string   `json:"category" validate:"required,slug"`
}

// TitlePatchRequest represents a partial title update.
type TitlePatchRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=256"`
	Year        *int     `json:"year" validate:"omitempty,notfuture"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" validate:"omitempty,dive,slug"`
	Category    *string  `json:"category" validate:"omitempty,slug"`
}

// HandleListTitles lists titles filtered by category, genre, name and year.
func (h *TitleHandler) HandleListTitles(c *fiber.Ctx) error {
	filter := repositories.TitleFilter{
		Category: c.Query("category"),
		Genre:    c.Query("genre"),
		Name:     c.Query("name"),
	}
	if year := c.Query("year"); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  fiber.Map{"year": "year must be a number"},
			})
		}
		filter.Year = y
	}

	titles, err := h.service.ListTitles(filter)
	if err != nil {
		return respondError(c, err, "Could not retrieve titles")
	}
	out := make([]titleResponse, len(titles))
	for i, t := range titles {
		out[i] = newTitleResponse(t)
	}
	return c.JSON(out)
}

func (h *TitleHandler) HandleGetTitle(c *fiber.Ctx) error {
	p, err := pathIDs(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	id := p[0]
	title, err := h.service.GetTitle(id)
	if err != nil {
		return respondError(c, err, "Could not retrieve title")
	}
	return c.JSON(newTitleResponse(*title))
}

func (h *TitleHandler) HandleCreateTitle(c *fiber.Ctx) error {
	var req TitleRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	title, err := h.service.CreateTitle(services.TitleInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Genre:       req.Genre,
		Category:    req.Category,
	})
	if err != nil {
		return respondError(c, err, "Could not create title")
	}
	return c.Status(fiber.StatusCreated).JSON(newTitleResponse(*title))
}

func (h *TitleHandler) HandleUpdateTitle(c *fiber.Ctx) error {
	p, err := pathIDs(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	id := p[0]
	var req TitlePatchRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	title, err := h.service.UpdateTitle(id, services.TitlePatch{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Genre:       req.Genre,
		Category:    req.Category,
	})
	if err != nil {
		return respondError(c, err, "Could not update title")
	}
	return c.JSON(newTitleResponse(*title))
}

func (h *TitleHandler) HandleDeleteTitle(c *fiber.Ctx) error {
	p, err := pathIDs(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	id := p[0]
	if err := h.service.DeleteTitle(id); err != nil {
		return respondError(c, err, "Could not delete title")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
