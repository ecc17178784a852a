package auth

import "time"

// StaffUser represents a staff account able to sign into the panel.
type StaffUser struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
