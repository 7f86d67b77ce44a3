// Package authz implements the authorization core: permission storage,
// effective-permission resolution, role hierarchy comparison and the
// impersonation decision.
package authz

// Legacy values carried by the single-string role field. Compatibility shims
// for records predating the role-array model.
const (
	LegacyRoleSuperAdmin = "SUPER_ADMIN"
	LegacyRoleOwner      = "Owner"
	LegacyRoleAdmin      = "ADMIN"
)

// LevelUnknown is the sentinel effective level for principals without any
// ranked role. Lowest possible privilege.
const LevelUnknown = 999

// LevelOwner is the most privileged role level.
const LevelOwner = 1

// Permission is an atomic capability. Name is a flat dotted string
// ("proceeding.attach-box"); Level is informational and only used for
// display grouping, never for gating.
type Permission struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Role is a named permission grouping with a seniority level (1 = most
// privileged). CompanyID is nil for system roles shared across tenants;
// system roles are immutable through tenant-admin flows.
type Role struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Level     int    `json:"level"`
	CompanyID *int64 `json:"company_id,omitempty"`
}

// RoleRef is a role as attached to a principal. Upstream sources represent
// roles either as a bare name or as a record carrying a level; both shapes
// normalize to RoleRef at the boundary. Level 0 means the source carried only
// a name.
type RoleRef struct {
	Name  string `json:"name"`
	Level int    `json:"level,omitempty"`
}

// RoleName builds a RoleRef from a bare name.
func RoleName(name string) RoleRef {
	return RoleRef{Name: name}
}

// RoleRecord builds a RoleRef from a full role record.
func RoleRecord(name string, level int) RoleRef {
	return RoleRef{Name: name, Level: level}
}

// NormalizedLevel resolves the candidate seniority level for the ref: the
// explicit level when present, else the legacy name mapping, else 0.
func (r RoleRef) NormalizedLevel() int {
	if r.Level > 0 {
		return r.Level
	}
	if lvl, ok := legacyLevelByName[r.Name]; ok {
		return lvl
	}
	return 0
}

// Principal is the identity an authorization decision is evaluated for.
// AllPermissions is the precomputed union of role-inherited and direct
// grants. LegacyRole is the single-string role field kept for the
// SUPER_ADMIN bypass and the Owner/ADMIN level fallback. ImpersonatorID is
// set when this principal is itself an impersonated identity.
type Principal struct {
	ID             int64     `json:"id"`
	CompanyID      *int64    `json:"company_id,omitempty"`
	Roles          []RoleRef `json:"roles"`
	AllPermissions []string  `json:"all_permissions"`
	LegacyRole     string    `json:"role,omitempty"`
	ImpersonatorID *int64    `json:"impersonator_id,omitempty"`
}

// PermissionGrant is the read view of a granted permission. IsDirect marks
// grants attached to the user directly rather than inherited from a role.
type PermissionGrant struct {
	Permission Permission `json:"permission"`
	IsDirect   bool       `json:"is_direct"`
}
