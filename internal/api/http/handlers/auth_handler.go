package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/staff-portal/internal/api/dto"
	"github.com/spec-kit/staff-portal/internal/auth"
	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/service"
	apperrors "github.com/spec-kit/staff-portal/pkg/util"
)

// AuthHandler exposes login, password change and session endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	session, err := h.authService.Authenticate(c.UserContext(), service.LoginInput{
		Username:        req.Username,
		AlternateHandle: req.Handle(),
		Password:        req.Password,
		Category:        req.Category,
		SourceAddress:   utils.CopyString(c.IP()),
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Success:   true,
		Message:   "login successful",
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      session.Staff,
	})
}

// ChangePassword handles POST /auth/change-password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	view, err := h.authService.ChangePassword(c.UserContext(), req.Username, req.OldPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(dto.ChangePasswordResponse{
		Success: true,
		Message: "password changed successfully",
		User:    *view,
	})
}

// Session handles GET /auth/session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	claims, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	session := dto.SessionClaims{
		ID:       claims.StaffID,
		Username: claims.Username,
		Role:     claims.Role,
		Email:    claims.Email,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return c.JSON(dto.SessionResponse{
		Success:     true,
		Session:     session,
		Permissions: domain.PermissionsFor(claims.Role),
	})
}
