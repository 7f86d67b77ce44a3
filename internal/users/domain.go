package users

import (
	"time"

	"github.com/chancery-dms/chancery/internal/authz"
)

// User is the administrative view of an account.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CompanyID *int64    `json:"company_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Detail combines the account with its role assignments and effective
// permission grants, direct grants flagged.
type Detail struct {
	User        User                    `json:"user"`
	Roles       []authz.Role            `json:"roles"`
	Permissions []authz.PermissionGrant `json:"permissions"`
}
