package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crp-service/internal/api/dto"
	"github.com/spec-kit/crp-service/internal/auth"
	"github.com/spec-kit/crp-service/internal/config"
	apperrors "github.com/spec-kit/crp-service/pkg/util"
)

// AuthHandler issues operator tokens.
type AuthHandler struct {
	cfg    config.AuthConfig
	tokens *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(cfg config.AuthConfig, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{cfg: cfg, tokens: tokens}
}

// Login POST /auth/login. Verifies the operator credentials and returns a
// bearer token for mutation endpoints.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	if h.cfg.OperatorPasswordHash == "" {
		return apperrors.NewPreconditionFailed("operator credentials not configured", nil)
	}
	if req.Email != h.cfg.OperatorEmail {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(h.cfg.OperatorPasswordHash, req.Password); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := h.tokens.GenerateToken(req.Email)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}})
}
