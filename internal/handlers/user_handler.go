package handlers

import (
	"yamdb/internal/middleware"
	"yamdb/internal/models"
	"yamdb/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles account management requests.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, validate *validator.Validate) *UserHandler {
	return &UserHandler{service: service, validate: validate}
}

// RegisterRoutes registers /users. auth must authenticate the request.
// /users/me is open to every user, the rest to admins only.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	users := router.Group("/users")
	users.Get("/me", auth, h.HandleGetMe)
	users.Patch("/me", auth, h.HandleUpdateMe)

	admin := middleware.AdminOnly()
	users.Get("/", auth, admin, h.HandleListUsers)
	users.Post("/", auth, admin, h.HandleCreateUser)
	users.Get("/:username", auth, admin, h.HandleGetUser)
	users.Patch("/:username", auth, admin, h.HandleUpdateUser)
	users.Delete("/:username", auth, admin, h.HandleDeleteUser)
}

// UserRequest represents the request body of an admin creating a user.
type UserRequest struct {
	Username  string      `json:"username" validate:"required,max=150,username"`
	Email     string      `json:"email" validate:"required,email,max=254"`
	FirstName string      `json:"first_name" validate:"max=150"`
	LastName  string      `json:"last_name" validate:"max=150"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// UserPatchRequest represents a partial profile update.
type UserPatchRequest struct {
	Username  *string      `json:"username" validate:"omitempty,max=150,username"`
	Email     *string      `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string      `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string      `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

func (r UserPatchRequest) patch() services.UserPatch {
	return services.UserPatch{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
		Role:      r.Role,
	}
}

// HandleListUsers lists users; ?search= matches a username exactly.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.Query("search"))
	if err != nil {
		return respondError(c, err, "Could not retrieve users")
	}
	return c.JSON(users)
}

func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req UserRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      req.Role,
	}
	if err := h.service.CreateUser(user); err != nil {
		return respondError(c, err, "Could not create user")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.Params("username"))
	if err != nil {
		return respondError(c, err, "Could not retrieve user")
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req UserPatchRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	user, err := h.service.UpdateUser(c.Params("username"), req.patch())
	if err != nil {
		return respondError(c, err, "Could not update user")
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.Params("username")); err != nil {
		return respondError(c, err, "Could not delete user")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetMe returns the caller's own profile.
func (h *UserHandler) HandleGetMe(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// HandleUpdateMe updates the caller's own profile. A role in the body is
// ignored.
func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var req UserPatchRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	user, err := h.service.UpdateProfile(middleware.CurrentUser(c), req.patch())
	if err != nil {
		return respondError(c, err, "Could not update profile")
	}
	return c.JSON(user)
}
