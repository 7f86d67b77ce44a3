package auth

import "time"

// User is the account record used for authentication and principal assembly.
// LegacyRole is the single-string role field kept for pre-role-array
// records; CompanyID is nil for platform-wide accounts.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	CompanyID    *int64
	LegacyRole   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
