package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-portal/internal/api/dto"
	"github.com/spec-kit/staff-portal/internal/auth"
	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/service"
	apperrors "github.com/spec-kit/staff-portal/pkg/util"
)

const scopeToday = "today"

// LoginLogsHandler exposes the login audit log to administrators.
type LoginLogsHandler struct {
	logs *service.LoginLogService
}

// NewLoginLogsHandler constructs handler.
func NewLoginLogsHandler(logs *service.LoginLogService) *LoginLogsHandler {
	return &LoginLogsHandler{logs: logs}
}

// List handles GET /auth/login-logs.
func (h *LoginLogsHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return apperrors.NewValidationError("limit must be positive", map[string]any{"limit": limit})
	}

	var (
		logs []domain.LoginLogEntry
		err  error
	)
	switch {
	case c.Query("staffId") != "":
		logs, err = h.logs.ListForStaff(c.UserContext(), c.Query("staffId"), limit)
	case strings.EqualFold(c.Query("scope"), scopeToday):
		logs, err = h.logs.ListToday(c.UserContext(), limit)
	default:
		logs, err = h.logs.ListAll(c.UserContext(), limit)
	}
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginLogsResponse{Success: true, Logs: logs})
}

// Count handles GET /auth/login-logs/count.
func (h *LoginLogsHandler) Count(c *fiber.Ctx) error {
	scope := "all"
	var (
		n   int64
		err error
	)
	if strings.EqualFold(c.Query("scope"), scopeToday) {
		scope = scopeToday
		n, err = h.logs.CountToday(c.UserContext())
	} else {
		n, err = h.logs.CountAll(c.UserContext())
	}
	if err != nil {
		return err
	}
	return c.JSON(dto.CountResponse{Success: true, Scope: scope, Count: n})
}

// Purge handles DELETE /auth/login-logs.
func (h *LoginLogsHandler) Purge(c *fiber.Ctx) error {
	actor := ""
	if claims, ok := auth.PrincipalFromContext(c); ok {
		actor = claims.StaffID
	}
	if _, err := h.logs.PurgeAll(c.UserContext(), actor); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "login logs cleared"})
}
