// Package handlers contains the HTTP layer: thin fiber handlers that
// parse requests, call services, and map errors to status codes.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"plata/internal/services/auth"
	"plata/internal/utils"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a user account and its wallet.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input auth.RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Email == "" || input.Username == "" || input.Password == "" {
		return utils.BadRequest(c, "Email, username and password are required")
	}

	user, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidEmail),
			errors.Is(err, auth.ErrEmailTaken),
			errors.Is(err, auth.ErrUsernameTaken),
			errors.Is(err, auth.ErrWeakPassword):
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Registration failed")
	}

	return utils.Success(c, fiber.Map{
		"message": "User created successfully",
		"user":    user.Public(),
	})
}

// Login authenticates a user and returns a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Username == "" || input.Password == "" {
		return utils.BadRequest(c, "Username and password are required")
	}

	user, token, err := h.authService.Login(c.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return utils.Unauthorized(c, "Invalid username or password")
		}
		return utils.InternalError(c, "Authentication failed")
	}

	return utils.Success(c, fiber.Map{
		"token": token,
		"user":  user.Public(),
	})
}
