package authz

// legacyLevelByName maps legacy role names to seniority levels for refs that
// carry no explicit level. Compatibility shim; do not extend.
var legacyLevelByName = map[string]int{
	LegacyRoleOwner: 1,
	LegacyRoleAdmin: 2,
}

// EffectiveLevel returns the principal's seniority rank: the minimum of all
// candidate role levels (the most privileged role dominates), or
// LevelUnknown when no candidate exists. The legacy single-string role field
// contributes a candidate through the same name mapping as name-only refs.
// Total; never fails.
func EffectiveLevel(p Principal) int {
	best := 0
	consider := func(lvl int) {
		if lvl <= 0 {
			return
		}
		if best == 0 || lvl < best {
			best = lvl
		}
	}
	for _, ref := range p.Roles {
		consider(ref.NormalizedLevel())
	}
	if lvl, ok := legacyLevelByName[p.LegacyRole]; ok {
		consider(lvl)
	}
	if best == 0 {
		return LevelUnknown
	}
	return best
}

// MoreSenior reports whether a outranks b strictly (lower level wins).
func MoreSenior(a, b Principal) bool {
	return EffectiveLevel(a) < EffectiveLevel(b)
}
