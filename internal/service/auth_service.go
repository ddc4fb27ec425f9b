package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/staff-portal/internal/auth"
	"github.com/spec-kit/staff-portal/internal/config"
	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/events"
	"github.com/spec-kit/staff-portal/internal/ids"
	"github.com/spec-kit/staff-portal/internal/observability"
	"github.com/spec-kit/staff-portal/internal/repository"
	apperrors "github.com/spec-kit/staff-portal/pkg/util"
)

// DefaultMinPasswordLength is the shortest accepted replacement password.
const DefaultMinPasswordLength = 6

const msgInvalidCredentials = "invalid username, handle or password"

// AuthService coordinates login and password change flows.
type AuthService struct {
	staff             repository.StaffRepository
	credentials       repository.CredentialRepository
	loginLogs         repository.LoginLogRepository
	limiter           auth.LoginLimiter
	dispatcher        events.Dispatcher
	logger            *zap.Logger
	metrics           *observability.Metrics
	tokenMgr          *auth.TokenManager
	issuer            TokenIssuer
	bcryptCost        int
	minPasswordLength int
	now               func() time.Time
}

// TokenIssuer signs session tokens. *auth.TokenManager satisfies it.
type TokenIssuer interface {
	GenerateToken(staff *domain.StaffMember) (string, time.Time, error)
}

// AuthDependencies encapsulates collaborators for the auth service.
// A nil TokenIssuer signs with the service's own token manager.
type AuthDependencies struct {
	StaffRepo      repository.StaffRepository
	CredentialRepo repository.CredentialRepository
	LoginLogRepo   repository.LoginLogRepository
	Limiter        auth.LoginLimiter
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	TokenIssuer    TokenIssuer
}

// LoginInput is a raw login submission.
type LoginInput struct {
	Username        string
	AlternateHandle string
	Password        string
	Category        string
	SourceAddress   string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	limiter := deps.Limiter
	if limiter == nil {
		limiter = auth.NoopLimiter{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	minLen := cfg.MinPasswordLength
	if minLen <= 0 {
		minLen = DefaultMinPasswordLength
	}
	tokenMgr := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	var issuer TokenIssuer = tokenMgr
	if deps.TokenIssuer != nil {
		issuer = deps.TokenIssuer
	}
	return &AuthService{
		staff:             deps.StaffRepo,
		credentials:       deps.CredentialRepo,
		loginLogs:         deps.LoginLogRepo,
		limiter:           limiter,
		dispatcher:        deps.Dispatcher,
		logger:            logger,
		metrics:           deps.Metrics,
		tokenMgr:          tokenMgr,
		issuer:            issuer,
		bcryptCost:        cfg.BcryptCost,
		minPasswordLength: minLen,
		now:               time.Now,
	}
}

// Authenticate verifies a login submission and issues a session token.
// Every successful call appends exactly one login log entry; failures append none.
func (s *AuthService) Authenticate(ctx context.Context, in LoginInput) (*domain.Session, error) {
	session, err := s.authenticate(ctx, in)
	s.metrics.RecordLogin(outcome(err))
	return session, err
}

func (s *AuthService) authenticate(ctx context.Context, in LoginInput) (*domain.Session, error) {
	username := strings.TrimSpace(in.Username)
	handle := strings.TrimSpace(in.AlternateHandle)
	password := strings.TrimSpace(in.Password)
	if username == "" || handle == "" || password == "" {
		return nil, apperrors.NewValidationError("username, alternate handle and password are required", nil)
	}

	category := domain.StaffRoleAdmin
	if c := strings.TrimSpace(in.Category); c != "" {
		parsed, ok := domain.ParseStaffRole(c)
		if !ok {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": c})
		}
		category = parsed
	}

	if locked, retryAfter := s.checkLockout(ctx, username); locked {
		return nil, apperrors.NewTooManyAttempts(int(math.Ceil(retryAfter.Seconds())))
	}

	staff, method, err := s.resolve(ctx, username, handle)
	if err != nil {
		return nil, err
	}
	if staff.Role != category {
		return nil, apperrors.NewCategoryMismatch(category.Label())
	}
	if !staff.Active() {
		return nil, apperrors.NewAccountInactive()
	}

	hash, err := s.effectiveHash(ctx, staff)
	if err != nil {
		return nil, err
	}
	if err := verify(hash, password); err != nil {
		if apperrors.HasCode(err, apperrors.CodeInvalidCredentials) {
			s.recordFailure(ctx, username)
			return nil, apperrors.NewInvalidCredentials(msgInvalidCredentials)
		}
		return nil, err
	}

	token, expiresAt, err := s.issuer.GenerateToken(staff)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now()
	s.appendLoginLog(ctx, staff, method, handle, in.SourceAddress, now)
	if err := s.limiter.Reset(ctx, username); err != nil {
		s.logger.Warn("login limiter reset failed", zap.String("username", username), zap.Error(err))
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventStaffLoggedIn,
		StaffID:   staff.ID,
		Username:  staff.Username,
		Timestamp: now,
		Payload: events.StaffLoggedInPayload{
			Role:          staff.Role,
			LoginMethod:   method,
			SourceAddress: in.SourceAddress,
		},
	})

	return &domain.Session{Token: token, ExpiresAt: expiresAt, Staff: staff.View()}, nil
}

// ChangePassword replaces the caller's effective password with a new override hash.
func (s *AuthService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) (*domain.StaffView, error) {
	view, err := s.changePassword(ctx, username, oldPassword, newPassword)
	s.metrics.RecordPasswordChange(outcome(err))
	return view, err
}

func (s *AuthService) changePassword(ctx context.Context, username, oldPassword, newPassword string) (*domain.StaffView, error) {
	username = strings.TrimSpace(username)
	oldPassword = strings.TrimSpace(oldPassword)
	newPassword = strings.TrimSpace(newPassword)
	if username == "" || oldPassword == "" || newPassword == "" {
		return nil, apperrors.NewValidationError("username, old password and new password are required", nil)
	}

	staff, err := s.staff.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("staff member", map[string]any{"username": username})
		}
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := s.effectiveHash(ctx, staff)
	if err != nil {
		return nil, err
	}
	if err := verify(hash, oldPassword); err != nil {
		if apperrors.HasCode(err, apperrors.CodeInvalidCredentials) {
			return nil, apperrors.NewInvalidCredentials("old password is incorrect")
		}
		return nil, err
	}

	if len(newPassword) < s.minPasswordLength {
		return nil, apperrors.NewPolicyViolation(fmt.Sprintf("new password must be at least %d characters", s.minPasswordLength))
	}
	if newPassword == oldPassword {
		return nil, apperrors.NewPolicyViolation("new password must differ from the old password")
	}

	newHash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	now := s.now()
	if err := s.credentials.Set(ctx, staff.ID, newHash, now); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("password changed", zap.String("staff_id", staff.ID), zap.String("username", staff.Username))
	s.publishEvent(ctx, events.Event{
		Type:      events.EventPasswordChanged,
		StaffID:   staff.ID,
		Username:  staff.Username,
		Timestamp: now,
		Payload:   events.PasswordChangedPayload{Email: staff.Email, Name: staff.Name},
	})

	view := staff.View()
	return &view, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// resolve looks up by username first, then by alternate handle.
func (s *AuthService) resolve(ctx context.Context, username, handle string) (*domain.StaffMember, domain.LoginMethod, error) {
	staff, err := s.staff.GetByUsername(ctx, username)
	if err == nil {
		return staff, domain.LoginMethodUsername, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", apperrors.NewInternalError(err)
	}

	staff, err = s.staff.GetByAlternateHandle(ctx, handle)
	if err == nil {
		return staff, domain.LoginMethodAlternateHandle, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		s.recordFailure(ctx, username)
		return nil, "", apperrors.NewInvalidCredentials(msgInvalidCredentials)
	}
	return nil, "", apperrors.NewInternalError(err)
}

// effectiveHash prefers the override hash over the baseline.
func (s *AuthService) effectiveHash(ctx context.Context, staff *domain.StaffMember) (string, error) {
	override, err := s.credentials.Get(ctx, staff.ID)
	switch {
	case err == nil:
		return override.PasswordHash, nil
	case errors.Is(err, repository.ErrNotFound):
		return staff.PasswordHash, nil
	default:
		return "", apperrors.NewInternalError(err)
	}
}

func verify(hash, password string) error {
	err := auth.ComparePassword(hash, password)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return apperrors.NewInvalidCredentials(msgInvalidCredentials)
	default:
		return apperrors.NewInternalError(err)
	}
}

func (s *AuthService) appendLoginLog(ctx context.Context, staff *domain.StaffMember, method domain.LoginMethod, handle, source string, at time.Time) {
	entry := &domain.LoginLogEntry{
		ID:              ids.New(at),
		StaffID:         staff.ID,
		Username:        staff.Username,
		Name:            staff.Name,
		Role:            staff.Role,
		LoginMethod:     method,
		SubmittedHandle: handle,
		Timestamp:       at,
		SourceAddress:   source,
	}
	if err := s.loginLogs.Append(ctx, entry); err != nil {
		s.metrics.RecordLoginLogFailure()
		s.logger.Error("append login log failed",
			zap.String("staff_id", staff.ID),
			zap.String("username", staff.Username),
			zap.Error(err),
		)
	}
}

// checkLockout fails open on limiter errors.
func (s *AuthService) checkLockout(ctx context.Context, username string) (bool, time.Duration) {
	locked, retryAfter, err := s.limiter.Check(ctx, username)
	if err != nil {
		s.logger.Warn("login limiter check failed", zap.String("username", username), zap.Error(err))
		return false, 0
	}
	return locked, retryAfter
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		s.logger.Warn("login limiter record failed", zap.String("username", username), zap.Error(err))
	}
}

func (s *AuthService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if event.ID == "" {
		event.ID = ids.New(event.Timestamp)
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// outcome labels metrics by error code.
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return strings.ToLower(apperrors.ToDomainError(err).Code)
}
