package auth

import (
	"context"
	"fmt"

	"github.com/upb/channel-links/internal/shared"
)

// Identity is an authenticated user, threaded explicitly into every
// authorization decision.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// MembershipStore answers the relation lookups role resolution needs.
type MembershipStore interface {
	IsSuperUser(ctx context.Context, userID int64) (bool, error)
	IsOwner(ctx context.Context, userID, channelID int64) (bool, error)
	IsAdmin(ctx context.Context, userID, channelID int64) (bool, error)
	IsMember(ctx context.Context, userID, channelID int64) (bool, error)
}

// RoleResolver computes the effective role of a user.
type RoleResolver struct {
	store MembershipStore
}

// NewRoleResolver creates a resolver backed by store.
func NewRoleResolver(store MembershipStore) *RoleResolver {
	return &RoleResolver{store: store}
}

// GlobalRole returns RoleSuperUser or RoleNotAllowed.
func (r *RoleResolver) GlobalRole(ctx context.Context, userID int64) (Role, error) {
	isSuper, err := r.store.IsSuperUser(ctx, userID)
	if err != nil {
		return RoleNotAllowed, shared.WrapInternal("failed to check super user", err)
	}
	if isSuper {
		return RoleSuperUser, nil
	}
	return RoleNotAllowed, nil
}

// RoleInScope returns the highest role the user holds in the channel.
// Checks run from the highest role down and stop at the first match.
func (r *RoleResolver) RoleInScope(ctx context.Context, userID, channelID int64) (Role, error) {
	role, err := r.GlobalRole(ctx, userID)
	if err != nil || role == RoleSuperUser {
		return role, err
	}

	checks := []struct {
		role  Role
		check func(context.Context, int64, int64) (bool, error)
	}{
		{RoleOwner, r.store.IsOwner},
		{RoleAdmin, r.store.IsAdmin},
		{RoleMember, r.store.IsMember},
	}

	for _, c := range checks {
		ok, err := c.check(ctx, userID, channelID)
		if err != nil {
			return RoleNotAllowed, shared.WrapInternal("failed to resolve channel role", err)
		}
		if ok {
			return c.role, nil
		}
	}

	return RoleNotAllowed, nil
}

// HasAtLeast reports whether the user's role in the channel reaches required.
func (r *RoleResolver) HasAtLeast(ctx context.Context, userID, channelID int64, required Role) (bool, error) {
	if err := checkRequired(required); err != nil {
		return false, err
	}
	role, err := r.RoleInScope(ctx, userID, channelID)
	if err != nil {
		return false, err
	}
	return role.AtLeast(required), nil
}

// checkRequired rejects role requirements outside the declared set.
func checkRequired(required Role) error {
	if !required.IsValid() {
		return shared.WrapInternal("invalid role requirement", fmt.Errorf("unknown role %q", required))
	}
	return nil
}
