// Package roles provides role administration: tenant-scoped role CRUD and
// role/permission assignment. Resolution of effective permissions lives in
// the authz package; this package only manages the records it reads.
package roles

import "github.com/chancery-dms/chancery/internal/authz"

// Role aliases the authorization role record.
type Role = authz.Role

// Detail combines a role with the permissions attached to it.
type Detail struct {
	Role        Role               `json:"role"`
	Permissions []authz.Permission `json:"permissions"`
}
