package domain

import "time"

// LoginMethod records which identifier resolved the account.
type LoginMethod string

const (
	LoginMethodUsername        LoginMethod = "username"
	LoginMethodAlternateHandle LoginMethod = "alternate_handle"
)

// LoginLogEntry is one successful authentication.
type LoginLogEntry struct {
	ID              string      `json:"id"`
	StaffID         string      `json:"staffId"`
	Username        string      `json:"username"`
	Name            string      `json:"name"`
	Role            StaffRole   `json:"role"`
	LoginMethod     LoginMethod `json:"loginMethod"`
	SubmittedHandle string      `json:"submittedHandle,omitempty"`
	Timestamp       time.Time   `json:"timestamp"`
	SourceAddress   string      `json:"sourceAddress,omitempty"`
}
