package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/internal/shared"
	"github.com/upb/channel-links/models"
)

func TestUserService_CreateIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("first user becomes super user", func(t *testing.T) {
		f := newFixture()
		svc := NewUserService(f.repos, f.txMgr, f.guard, f.logger)

		f.users.On("GetByEmail", mock.Anything, "first@example.com").Return(nil, shared.ErrUserNotFound)
		f.users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) { args.Get(1).(*models.User).ID = 5 }).
			Return(nil)
		f.superUsers.On("Count", mock.Anything).Return(0, nil)
		f.superUsers.On("Add", mock.Anything, int64(5)).Return(&models.SuperUser{UserID: 5}, nil)

		identity, err := svc.CreateIdentity(ctx, " First@Example.com ")

		require.NoError(t, err)
		assert.Equal(t, &auth.Identity{ID: 5, Email: "first@example.com"}, identity)
		f.assertExpectations(t)
	})

	t.Run("later users are not promoted", func(t *testing.T) {
		f := newFixture()
		svc := NewUserService(f.repos, f.txMgr, f.guard, f.logger)

		f.users.On("GetByEmail", mock.Anything, "second@example.com").Return(nil, shared.ErrUserNotFound)
		f.users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
		f.superUsers.On("Count", mock.Anything).Return(1, nil)

		_, err := svc.CreateIdentity(ctx, "second@example.com")

		require.NoError(t, err)
		f.superUsers.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		f := newFixture()
		svc := NewUserService(f.repos, f.txMgr, f.guard, f.logger)

		f.users.On("GetByEmail", mock.Anything, "dup@example.com").Return(&models.User{ID: 3, Email: "dup@example.com"}, nil)

		_, err := svc.CreateIdentity(ctx, "dup@example.com")

		assert.True(t, shared.IsConflictError(err))
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("empty email is invalid", func(t *testing.T) {
		f := newFixture()
		svc := NewUserService(f.repos, f.txMgr, f.guard, f.logger)

		_, err := svc.CreateIdentity(ctx, "   ")

		assert.True(t, shared.IsValidationError(err))
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		f := newFixture()
		svc := NewUserService(f.repos, f.txMgr, f.guard, f.logger)

		f.users.On("GetByEmail", mock.Anything, "x@example.com").Return(nil, errors.New("connection reset"))

		_, err := svc.CreateIdentity(ctx, "x@example.com")

		assert.EqualError(t, err, "connection reset")
	})
}

func TestUserService_FindIdentityByEmail(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.repos, f.txMgr, f.guard, f.logger)

	f.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(&models.User{ID: 9, Email: "alice@example.com"}, nil)
	f.users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, shared.ErrUserNotFound)

	identity, err := svc.FindIdentityByEmail(context.Background(), "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(9), identity.ID)

	_, err = svc.FindIdentityByEmail(context.Background(), "nobody@example.com")
	assert.True(t, shared.IsNotFoundError(err))
}

func TestUserService_Self(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.repos, f.txMgr, f.guard, f.logger)

	f.users.On("GetByID", mock.Anything, actorID).Return(&models.User{ID: actorID, Email: actor.Email}, nil)

	user, err := svc.Self(context.Background(), actor)

	require.NoError(t, err)
	assert.Equal(t, actor.Email, user.Email)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(f *fixture)
		check   func(t *testing.T, err error)
		deleted bool
	}{
		{
			name: "non super user is forbidden",
			setup: func(f *fixture) {
				f.grantRole(actorID, 0, auth.RoleNotAllowed)
			},
			check: func(t *testing.T, err error) { assert.True(t, shared.IsForbiddenError(err)) },
		},
		{
			name: "unknown user",
			setup: func(f *fixture) {
				f.grantRole(actorID, 0, auth.RoleSuperUser)
				f.users.On("GetByID", mock.Anything, otherID).Return(nil, shared.ErrUserNotFound)
			},
			check: func(t *testing.T, err error) { assert.True(t, shared.IsNotFoundError(err)) },
		},
		{
			name: "last user is kept",
			setup: func(f *fixture) {
				f.grantRole(actorID, 0, auth.RoleSuperUser)
				f.users.On("GetByID", mock.Anything, otherID).Return(&models.User{ID: otherID}, nil)
				f.users.On("Count", mock.Anything).Return(1, nil)
			},
			check: func(t *testing.T, err error) { assert.Equal(t, shared.ErrLastUser, err) },
		},
		{
			name: "last super user is kept",
			setup: func(f *fixture) {
				f.grantRole(actorID, 0, auth.RoleSuperUser)
				f.users.On("GetByID", mock.Anything, otherID).Return(&models.User{ID: otherID}, nil)
				f.users.On("Count", mock.Anything).Return(3, nil)
				f.superUsers.On("Exists", mock.Anything, otherID).Return(true, nil)
				f.superUsers.On("Count", mock.Anything).Return(1, nil)
			},
			check: func(t *testing.T, err error) { assert.Equal(t, shared.ErrLastSuperUser, err) },
		},
		{
			name: "deletes user",
			setup: func(f *fixture) {
				f.grantRole(actorID, 0, auth.RoleSuperUser)
				f.users.On("GetByID", mock.Anything, otherID).Return(&models.User{ID: otherID}, nil)
				f.users.On("Count", mock.Anything).Return(2, nil)
				f.superUsers.On("Exists", mock.Anything, otherID).Return(false, nil)
				f.users.On("Delete", mock.Anything, otherID).Return(nil)
			},
			check:   func(t *testing.T, err error) { assert.NoError(t, err) },
			deleted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			svc := NewUserService(f.repos, f.txMgr, f.guard, f.logger)
			tt.setup(f)

			err := svc.Delete(ctx, actor, otherID)

			tt.check(t, err)
			if !tt.deleted {
				f.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			}
			f.assertExpectations(t)
		})
	}
}
