package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/staff-portal/internal/auth"
	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/repository/memory"
)

func TestProvisionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStaffRepository()

	n, err := Provision(ctx, repo, DemoRoster(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = Provision(ctx, repo, DemoRoster(), zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, n)

	aizen, err := repo.GetByAlternateHandle(ctx, "AIZEN123")
	require.NoError(t, err)
	assert.Equal(t, "aizen", aizen.Username)
	assert.Equal(t, domain.StaffStatusActive, aizen.Status)
}

func TestDemoHashesUseDefaultCost(t *testing.T) {
	for _, m := range DemoRoster() {
		cost, err := bcrypt.Cost([]byte(m.PasswordHash))
		require.NoError(t, err, m.Username)
		assert.Equal(t, auth.DefaultBcryptCost, cost, m.Username)
	}
}

func TestProvisionKeepsExplicitStatus(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStaffRepository()
	roster := []domain.StaffMember{
		{Username: "retired", AlternateHandle: "Retired#0009", Role: domain.StaffRoleStaff, Status: domain.StaffStatusInactive, PasswordHash: "x"},
		{Username: "fresh", AlternateHandle: "Fresh#0010", Role: domain.StaffRoleStaff, PasswordHash: "x"},
	}

	n, err := Provision(ctx, repo, roster, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	retired, err := repo.GetByUsername(ctx, "retired")
	require.NoError(t, err)
	assert.Equal(t, domain.StaffStatusInactive, retired.Status)
	assert.False(t, retired.Active())

	fresh, err := repo.GetByUsername(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, domain.StaffStatusActive, fresh.Status)
}
