package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/internal/shared"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/repositories"
)

// SuperUserService manages the global super user set. Every operation
// requires the caller to be a super user.
type SuperUserService struct {
	users      repositories.UserRepository
	superUsers repositories.SuperUserRepository
	txMgr      repositories.TransactionManager
	guard      *auth.AccessGuard
	logger     *zap.Logger
}

// NewSuperUserService creates a new super user service
func NewSuperUserService(repos *repositories.Repositories, txMgr repositories.TransactionManager, guard *auth.AccessGuard, logger *zap.Logger) *SuperUserService {
	return &SuperUserService{
		users:      repos.Users,
		superUsers: repos.SuperUsers,
		txMgr:      txMgr,
		guard:      guard,
		logger:     logger,
	}
}

// List returns every super user.
func (s *SuperUserService) List(ctx context.Context, actor auth.Identity) ([]*models.SuperUser, error) {
	if err := s.guard.RequireSuperUser(ctx, actor); err != nil {
		return nil, err
	}
	return s.superUsers.List(ctx)
}

// Add promotes userID to super user.
func (s *SuperUserService) Add(ctx context.Context, actor auth.Identity, userID int64) (*models.SuperUser, error) {
	if err := s.guard.RequireSuperUser(ctx, actor); err != nil {
		return nil, err
	}

	exists, err := s.superUsers.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyMember.WithDetail("user_id", userID)
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	su, err := s.superUsers.Add(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("super user added",
		zap.Int64("user_id", userID),
		zap.Int64("added_by", actor.ID),
	)
	return su, nil
}

// Remove demotes userID. At least one super user always remains.
func (s *SuperUserService) Remove(ctx context.Context, actor auth.Identity, userID int64) error {
	if err := s.guard.RequireSuperUser(ctx, actor); err != nil {
		return err
	}

	err := WithTransaction(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) error {
		exists, err := s.superUsers.Exists(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.ErrUserNotFound.WithDetail("user_id", userID)
		}

		count, err := s.superUsers.Count(ctx)
		if err != nil {
			return err
		}
		if count <= 1 {
			return shared.ErrLastSuperUser
		}
		return s.superUsers.Remove(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("super user removed",
		zap.Int64("user_id", userID),
		zap.Int64("removed_by", actor.ID),
	)
	return nil
}
