package domain

import "time"

// StaffStatus gates whether a staff member may log in.
type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "active"
	StaffStatusInactive StaffStatus = "inactive"
)

// StaffMember models a portal account.
type StaffMember struct {
	ID              string
	Username        string
	AlternateHandle string
	Email           string
	Name            string
	Role            StaffRole
	Department      string
	Status          StaffStatus
	PasswordHash    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Active reports whether the account may authenticate.
func (s *StaffMember) Active() bool {
	return s.Status == StaffStatusActive
}

// StaffView is the public projection of a staff member. It never carries a hash.
type StaffView struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       StaffRole `json:"role"`
	Department string    `json:"department"`
}

// View returns the public projection.
func (s *StaffMember) View() StaffView {
	return StaffView{
		ID:         s.ID,
		Username:   s.Username,
		Name:       s.Name,
		Email:      s.Email,
		Role:       s.Role,
		Department: s.Department,
	}
}
