package events

import (
	"time"

	"github.com/spec-kit/staff-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffLoggedIn   EventType = "staff.logged_in"
	EventPasswordChanged EventType = "staff.password_changed"
	EventLoginLogsPurged EventType = "login_logs.purged"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StaffID   string      `json:"staff_id,omitempty"`
	Username  string      `json:"username,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// StaffLoggedInPayload payload.
type StaffLoggedInPayload struct {
	Role          domain.StaffRole   `json:"role"`
	LoginMethod   domain.LoginMethod `json:"login_method"`
	SourceAddress string             `json:"source_address,omitempty"`
}

// PasswordChangedPayload payload.
type PasswordChangedPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginLogsPurgedPayload payload.
type LoginLogsPurgedPayload struct {
	Removed int64 `json:"removed"`
}
