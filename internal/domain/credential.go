package domain

import "time"

// CredentialOverride replaces a staff member's baseline hash after a password change.
type CredentialOverride struct {
	StaffID      string
	PasswordHash string
	ChangedAt    time.Time
}
