package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"plata/internal/models"
	"plata/internal/repositories"
	"plata/internal/services/auth"
	"plata/internal/utils"
)

type stubAuthService struct {
	tokenVersion int
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	return nil, "", auth.ErrInvalidCredentials
}

func (s *stubAuthService) GetUserByID(id uint) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (s *stubAuthService) GetUserByUsername(username string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (s *stubAuthService) GetUserTokenVersion(userID uint) (int, error) {
	return s.tokenVersion, nil
}

func newTestApp(t *testing.T, tokenVersion int) *fiber.App {
	t.Helper()
	app := fiber.New()
	m := NewAuthMiddleware(&stubAuthService{tokenVersion: tokenVersion})
	app.Get("/protected", m.Handler, func(c *fiber.Ctx) error {
		claims, ok := Claims(c)
		if !ok {
			return utils.InternalError(c, "claims missing")
		}
		return utils.Success(c, fiber.Map{"user_id": claims.UserID})
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateToken(&models.UserClaims{
		UserID:       7,
		Username:     "ana",
		TokenVersion: 2,
	})
	assert.NoError(t, err)

	t.Run("valid token passes", func(t *testing.T) {
		app := newTestApp(t, 2)
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing header", func(t *testing.T) {
		app := newTestApp(t, 2)
		resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		app := newTestApp(t, 2)
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Token "+token)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		app := newTestApp(t, 2)
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer nope")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("stale token version", func(t *testing.T) {
		app := newTestApp(t, 3)
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
