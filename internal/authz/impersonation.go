package authz

import "github.com/chancery-dms/chancery/internal/shared"

// CanImpersonate decides whether actor may assume target's identity. Pure
// and total; the checks short-circuit in this exact order:
//
//  1. actors never impersonate themselves;
//  2. an identity that is itself impersonated may not impersonate further
//     (one level deep, no chains);
//  3. the actor must hold the "user.impersonate" capability;
//  4. the actor must be strictly more senior than the target, except that a
//     level-1 actor may impersonate a level-1 peer unless the peer's legacy
//     role field is literally "Owner".
//
// Rule 4 consults only the target's legacy role string for Owner status, not
// the roles array. Asymmetric on purpose; kept as shipped.
func CanImpersonate(actor, target Principal) bool {
	if actor.ID == target.ID {
		return false
	}
	if actor.ImpersonatorID != nil {
		return false
	}
	if !Has(actor, shared.PermUserImpersonate) {
		return false
	}
	actorLevel := EffectiveLevel(actor)
	targetLevel := EffectiveLevel(target)
	if actorLevel < targetLevel {
		return true
	}
	if actorLevel == LevelOwner && target.LegacyRole != LegacyRoleOwner {
		return true
	}
	return false
}

// CanImpersonate reports the decision with p as the acting identity.
func (p Principal) CanImpersonate(target Principal) bool {
	return CanImpersonate(p, target)
}
