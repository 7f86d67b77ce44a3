package authz

// permissionOverrides are legacy single-string role shims consulted, in
// order, before the grant-backed permission set. Deliberate back-compat with
// pre-role-array records; not a pattern to extend.
var permissionOverrides = []func(Principal) bool{
	func(p Principal) bool { return p.LegacyRole == LegacyRoleSuperAdmin },
}

func overrideGrantsAll(p Principal) bool {
	for _, grants := range permissionOverrides {
		if grants(p) {
			return true
		}
	}
	return false
}

// Has reports whether the principal holds the named permission. Exact string
// membership only; dots in names are a display convention, never a wildcard
// hierarchy. Total; a principal without a permission set simply has nothing.
func Has(p Principal, name string) bool {
	if overrideGrantsAll(p) {
		return true
	}
	for _, granted := range p.AllPermissions {
		if granted == name {
			return true
		}
	}
	return false
}

// HasAny reports whether at least one of the named permissions is held.
func HasAny(p Principal, names ...string) bool {
	if overrideGrantsAll(p) {
		return true
	}
	for _, name := range names {
		if Has(p, name) {
			return true
		}
	}
	return false
}

// HasAll reports whether every named permission is held.
func HasAll(p Principal, names ...string) bool {
	if overrideGrantsAll(p) {
		return true
	}
	for _, name := range names {
		if !Has(p, name) {
			return false
		}
	}
	return true
}

// HasRole reports whether any of the principal's roles carries the given
// name. Works for both name-only and record-shaped refs.
func HasRole(p Principal, roleName string) bool {
	for _, ref := range p.Roles {
		if ref.Name == roleName {
			return true
		}
	}
	return false
}
