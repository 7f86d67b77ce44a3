package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chancery-dms/chancery/internal/authz"
	"github.com/chancery-dms/chancery/internal/shared"
)

// PrincipalAssembler builds full principals (user record + role refs +
// effective permission union) and caches the snapshot in Redis. The cached
// AllPermissions set is recomputed whenever the snapshot is invalidated
// after a grant change, keeping the union invariant.
type PrincipalAssembler struct {
	repo   Repository
	grants *authz.Service
	cache  *redis.Client
	ttl    time.Duration
}

// NewPrincipalAssembler constructs a PrincipalAssembler. The cache client
// may be nil, in which case every call assembles from the store.
func NewPrincipalAssembler(repo Repository, grants *authz.Service, cache *redis.Client, ttl time.Duration) *PrincipalAssembler {
	return &PrincipalAssembler{repo: repo, grants: grants, cache: cache, ttl: ttl}
}

// Principal resolves a user ID to a fully assembled principal.
func (a *PrincipalAssembler) Principal(ctx context.Context, userID int64) (authz.Principal, error) {
	if a.cache != nil {
		payload, err := a.cache.Get(ctx, principalKey(userID)).Bytes()
		if err == nil {
			var cached authz.Principal
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
		}
	}

	principal, err := a.assemble(ctx, userID)
	if err != nil {
		return authz.Principal{}, err
	}

	if a.cache != nil {
		if raw, err := json.Marshal(principal); err == nil {
			_ = a.cache.Set(ctx, principalKey(userID), raw, a.ttl).Err()
		}
	}
	return principal, nil
}

// Invalidate drops the cached snapshot so the next resolution recomputes the
// permission union. Called after any role or permission grant change.
func (a *PrincipalAssembler) Invalidate(ctx context.Context, userID int64) error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Del(ctx, principalKey(userID)).Err()
}

func (a *PrincipalAssembler) assemble(ctx context.Context, userID int64) (authz.Principal, error) {
	user, err := a.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return authz.Principal{}, fmt.Errorf("user %d: %w", userID, authz.ErrNotFound)
		}
		return authz.Principal{}, err
	}

	roles, err := a.grants.RolesForUser(ctx, userID)
	if err != nil {
		return authz.Principal{}, err
	}
	perms, err := a.grants.EffectivePermissions(ctx, userID)
	if err != nil {
		return authz.Principal{}, err
	}

	refs := make([]authz.RoleRef, 0, len(roles))
	for _, role := range roles {
		refs = append(refs, authz.RoleRecord(role.Name, role.Level))
	}

	return authz.Principal{
		ID:             user.ID,
		CompanyID:      user.CompanyID,
		Roles:          refs,
		AllPermissions: perms,
		LegacyRole:     user.LegacyRole,
	}, nil
}

func principalKey(userID int64) string {
	return "principal:" + strconv.FormatInt(userID, 10)
}

var _ authz.PrincipalSource = (*PrincipalAssembler)(nil)
