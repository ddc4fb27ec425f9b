// Package seed provisions the demo staff roster.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/repository"
)

// Demo bcrypt hashes (cost 10). Plaintexts: admin0786, supervisor8654, staff1921.
const (
	adminHash      = "$2b$10$EWJ6VprdVEXkuCLWzHGwUuyL0MKgyg/Eu8c3R2wi/8wmPzgPILeIK"
	supervisorHash = "$2b$10$RAwfmUBu2k41oeBhmdsH/.6y5btSMK6tLVUH6rM7kTOu01AmQRPZ6"
	staffHash      = "$2b$10$dPqlG6LBRu3NuQ5Xz8yJV.SS0B91iTvsC55o7uIGajzmqC5lYXxx."
)

// DemoRoster returns fresh copies of the demo staff records.
func DemoRoster() []domain.StaffMember {
	return []domain.StaffMember{
		{Username: "admin", AlternateHandle: "AdminUser#0001", Email: "admin@singaporeairlines.com", Name: "Admin User", Role: domain.StaffRoleAdmin, Department: "Management", PasswordHash: adminHash},
		{Username: "supervisor", AlternateHandle: "SupervisorSQ#0002", Email: "supervisor@singaporeairlines.com", Name: "Supervisor User", Role: domain.StaffRoleSupervisor, Department: "Operations", PasswordHash: supervisorHash},
		{Username: "staff", AlternateHandle: "StaffCrew#0003", Email: "staff@singaporeairlines.com", Name: "Staff User", Role: domain.StaffRoleStaff, Department: "Crew", PasswordHash: staffHash},
		{Username: "john.doe", AlternateHandle: "JohnDoe#0456", Email: "john.doe@singaporeairlines.com", Name: "John Doe", Role: domain.StaffRoleStaff, Department: "Maintenance", PasswordHash: staffHash},
		{Username: "jane.smith", AlternateHandle: "JaneSmith#0789", Email: "jane.smith@singaporeairlines.com", Name: "Jane Smith", Role: domain.StaffRoleSupervisor, Department: "Catering", PasswordHash: supervisorHash},
		{Username: "aizen", AlternateHandle: "aizen123", Email: "aizen@singaporeairlines.com", Name: "Aizen", Role: domain.StaffRoleStaff, Department: "Operations", PasswordHash: staffHash},
	}
}

// Provision creates each member, skipping usernames that already exist.
// Members without a status are provisioned active.
// It returns the number of records created.
func Provision(ctx context.Context, repo repository.StaffRepository, roster []domain.StaffMember, logger *zap.Logger) (int, error) {
	created := 0
	for i := range roster {
		member := roster[i]
		if member.Status == "" {
			member.Status = domain.StaffStatusActive
		}
		err := repo.Create(ctx, &member)
		switch {
		case errors.Is(err, repository.ErrConflict):
			logger.Debug("staff already provisioned", zap.String("username", member.Username))
		case err != nil:
			return created, fmt.Errorf("provision %s: %w", member.Username, err)
		default:
			created++
			logger.Info("staff provisioned",
				zap.String("username", member.Username),
				zap.String("role", string(member.Role)),
			)
		}
	}
	return created, nil
}
