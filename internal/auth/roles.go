package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-portal/internal/domain"
	apperrors "github.com/spec-kit/staff-portal/pkg/util"
)

// RequireRole ensures the principal has one of the allowed roles.
func RequireRole(allowed ...domain.StaffRole) fiber.Handler {
	allowedSet := make(map[domain.StaffRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequirePermission gates a route on a capability of the principal's role.
func RequirePermission(check func(domain.Permissions) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !check(domain.PermissionsFor(principal.Role)) {
			return apperrors.NewForbidden("insufficient permissions")
		}
		return c.Next()
	}
}
