package dto

import (
	"time"

	"github.com/spec-kit/staff-portal/internal/domain"
)

// LoginRequest payload. discordUsername is accepted as an alias of alternateHandle.
type LoginRequest struct {
	Username        string `json:"username"`
	AlternateHandle string `json:"alternateHandle"`
	DiscordUsername string `json:"discordUsername"`
	Password        string `json:"password"`
	Category        string `json:"category"`
}

// Handle returns the submitted alternate handle under either field name.
func (r LoginRequest) Handle() string {
	if r.AlternateHandle != "" {
		return r.AlternateHandle
	}
	return r.DiscordUsername
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	Username    string `json:"username"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      domain.StaffView `json:"user"`
}

// ChangePasswordResponse is returned on successful password change.
type ChangePasswordResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	User    domain.StaffView `json:"user"`
}

// LoginLogsResponse lists audit entries, most recent first.
type LoginLogsResponse struct {
	Success bool                   `json:"success"`
	Logs    []domain.LoginLogEntry `json:"logs"`
}

// CountResponse carries a login log count.
type CountResponse struct {
	Success bool   `json:"success"`
	Scope   string `json:"scope"`
	Count   int64  `json:"count"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SessionClaims is the decoded session token.
type SessionClaims struct {
	ID        string           `json:"id"`
	Username  string           `json:"username"`
	Role      domain.StaffRole `json:"role"`
	Email     string           `json:"email"`
	IssuedAt  time.Time        `json:"issuedAt"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// SessionResponse describes the caller's session and capabilities.
type SessionResponse struct {
	Success     bool               `json:"success"`
	Session     SessionClaims      `json:"session"`
	Permissions domain.Permissions `json:"permissions"`
}

// ErrorResponse is rendered for every failed request.
type ErrorResponse struct {
	Success bool           `json:"success"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
