package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/internal/shared"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/repositories"
)

// UserService manages users and owns the super user bootstrap rule.
// It is the IdentityStore the session manager logs users in against.
type UserService struct {
	users      repositories.UserRepository
	superUsers repositories.SuperUserRepository
	txMgr      repositories.TransactionManager
	guard      *auth.AccessGuard
	logger     *zap.Logger
}

var _ auth.IdentityStore = (*UserService)(nil)

// NewUserService creates a new user service
func NewUserService(repos *repositories.Repositories, txMgr repositories.TransactionManager, guard *auth.AccessGuard, logger *zap.Logger) *UserService {
	return &UserService{
		users:      repos.Users,
		superUsers: repos.SuperUsers,
		txMgr:      txMgr,
		guard:      guard,
		logger:     logger,
	}
}

// FindIdentityByEmail returns the identity registered under email.
func (s *UserService) FindIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	user, err := s.users.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return toIdentity(user), nil
}

// CreateIdentity registers a new user. The first user created while no
// super user exists is granted super user in the same transaction.
func (s *UserService) CreateIdentity(ctx context.Context, email string) (*auth.Identity, error) {
	user := models.NewUser(email)
	if user.Email == "" {
		return nil, shared.ErrInvalidInput.WithDetail("email", "email is required")
	}

	return WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) (*auth.Identity, error) {
		if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
			return nil, shared.ErrDuplicateEmail
		} else if !shared.IsNotFoundError(err) {
			return nil, err
		}

		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}

		count, err := s.superUsers.Count(ctx)
		if err != nil {
			return nil, err
		}
		if count < 1 {
			if _, err := s.superUsers.Add(ctx, user.ID); err != nil {
				return nil, fmt.Errorf("failed to grant initial super user: %w", err)
			}
			s.logger.Info("granted super user to first user",
				zap.Int64("user_id", user.ID),
				zap.String("email", user.Email),
			)
		}

		s.logger.Info("user created", zap.Int64("user_id", user.ID))
		return toIdentity(user), nil
	})
}

// List returns users whose email contains search.
func (s *UserService) List(ctx context.Context, search string) ([]*models.User, error) {
	return s.users.List(ctx, search)
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Self returns the caller's own user record.
func (s *UserService) Self(ctx context.Context, actor auth.Identity) (*models.User, error) {
	return s.users.GetByID(ctx, actor.ID)
}

// Delete removes a user. Only super users may delete, and the last user
// and the last super user are kept.
func (s *UserService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	if err := s.guard.RequireSuperUser(ctx, actor); err != nil {
		return err
	}

	err := WithTransaction(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) error {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			return err
		}

		count, err := s.users.Count(ctx)
		if err != nil {
			return err
		}
		if count <= 1 {
			return shared.ErrLastUser
		}

		isSuper, err := s.superUsers.Exists(ctx, id)
		if err != nil {
			return err
		}
		if isSuper {
			supers, err := s.superUsers.Count(ctx)
			if err != nil {
				return err
			}
			if supers <= 1 {
				return shared.ErrLastSuperUser
			}
		}

		return s.users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted",
		zap.Int64("user_id", id),
		zap.Int64("deleted_by", actor.ID),
	)
	return nil
}

func toIdentity(user *models.User) *auth.Identity {
	return &auth.Identity{ID: user.ID, Email: user.Email}
}
