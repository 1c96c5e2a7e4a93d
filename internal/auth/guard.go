package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/upb/channel-links/internal/shared"
)

// AccessGuard enforces role requirements before services touch protected data.
type AccessGuard struct {
	resolver *RoleResolver
	logger   *zap.Logger
}

// NewAccessGuard creates a guard.
func NewAccessGuard(resolver *RoleResolver, logger *zap.Logger) *AccessGuard {
	return &AccessGuard{resolver: resolver, logger: logger}
}

// Resolver exposes the underlying resolver for read-only role queries.
func (g *AccessGuard) Resolver() *RoleResolver {
	return g.resolver
}

// RequireScopeRole fails with a forbidden error unless user holds at least
// minimum in the channel.
func (g *AccessGuard) RequireScopeRole(ctx context.Context, user Identity, channelID int64, minimum Role) error {
	if err := checkRequired(minimum); err != nil {
		return err
	}
	role, err := g.resolver.RoleInScope(ctx, user.ID, channelID)
	if err != nil {
		return err
	}
	if !role.AtLeast(minimum) {
		g.logger.Debug("channel access denied",
			zap.Int64("user_id", user.ID),
			zap.Int64("channel_id", channelID),
			zap.String("role", role.String()),
			zap.String("required", minimum.String()),
		)
		return shared.ErrForbidden
	}
	return nil
}

// RequireSuperUser fails with a forbidden error unless user is a super user.
func (g *AccessGuard) RequireSuperUser(ctx context.Context, user Identity) error {
	role, err := g.resolver.GlobalRole(ctx, user.ID)
	if err != nil {
		return err
	}
	if role != RoleSuperUser {
		g.logger.Debug("super user access denied", zap.Int64("user_id", user.ID))
		return shared.ErrForbidden
	}
	return nil
}

// RequireSelfOrRole passes when user owns the resource, otherwise falls back
// to RequireScopeRole. The ownership check needs no storage reads.
func (g *AccessGuard) RequireSelfOrRole(ctx context.Context, user Identity, resourceOwnerID, channelID int64, minimum Role) error {
	if err := checkRequired(minimum); err != nil {
		return err
	}
	if user.ID == resourceOwnerID {
		return nil
	}
	return g.RequireScopeRole(ctx, user, channelID, minimum)
}
