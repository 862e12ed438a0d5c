package handlers

import (
	"log"

	"yamdb/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for signup and token exchange.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validate,
	}
}

// RegisterRoutes registers the authentication routes. They are public.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/token", h.HandleToken)
	authRoutes.Post("/token/refresh", h.HandleRefresh)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

// HandleSignup registers a user if needed and sends a confirmation code.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.authService.RequestConfirmationCode(req.Username, req.Email)
	if err != nil {
		return respondError(c, err, "Signup failed")
	}
	return c.JSON(SignupRequest{Username: user.Username, Email: user.Email})
}

// TokenRequest represents the request body for the token exchange.
type TokenRequest struct {
	Username         string `json:"username" validate:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" validate:"required,max=10"`
}

// HandleToken exchanges a confirmation code for an access/refresh pair.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	var req TokenRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	pair, err := h.authService.Authenticate(req.Username, req.ConfirmationCode)
	if err != nil {
		log.Printf("Token exchange failed for user %s: %v", req.Username, err)
		return respondError(c, err, "Authentication failed")
	}
	return c.JSON(pair)
}

// RefreshRequest represents the request body for a token refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// HandleRefresh issues a new pair for a valid refresh token.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	pair, err := h.authService.Refresh(req.Refresh)
	if err != nil {
		return respondError(c, err, "Token refresh failed")
	}
	return c.JSON(pair)
}
