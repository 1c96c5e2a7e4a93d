package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/internal/shared"
	"github.com/upb/channel-links/models"
)

const linkID int64 = 30

func TestChannelLinkService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		channel *models.Channel
		role    auth.Role
		allowed bool
	}{
		{"public channel is open", publicChannel(), auth.RoleNotAllowed, true},
		{"private channel member", privateChannel(), auth.RoleMember, true},
		{"private channel stranger", privateChannel(), auth.RoleNotAllowed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			svc := NewChannelLinkService(f.repos, f.guard, f.logger)
			f.grantRole(actorID, channelID, tt.role)
			f.channels.On("GetByID", mock.Anything, channelID).Return(tt.channel, nil)
			f.channelLinks.On("ListByChannel", mock.Anything, channelID, models.LinkFilter{}).
				Return([]*models.ChannelLink{{ID: 1, ChannelID: channelID}}, nil).Maybe()

			links, err := svc.List(ctx, actor, channelID, models.LinkFilter{})

			if tt.allowed {
				require.NoError(t, err)
				assert.Len(t, links, 1)
				return
			}
			assert.True(t, shared.IsForbiddenError(err))
		})
	}
}

func TestChannelLinkService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("posts own link with its title", func(t *testing.T) {
		f := newFixture()
		svc := NewChannelLinkService(f.repos, f.guard, f.logger)
		f.channels.On("GetByID", mock.Anything, channelID).Return(publicChannel(), nil)
		f.links.On("GetByID", mock.Anything, linkID).
			Return(&models.Link{ID: linkID, UserID: actorID, URL: "https://go.dev", Title: "Go"}, nil)
		f.channelLinks.On("Create", mock.Anything, mock.AnythingOfType("*models.ChannelLink")).Return(nil)

		cl, err := svc.Create(ctx, actor, channelID, ChannelLinkInput{LinkID: linkID})

		require.NoError(t, err)
		assert.Equal(t, "Go", cl.Title)
		assert.Equal(t, actorID, cl.UserID)
		assert.Equal(t, "https://go.dev", cl.URL)
		f.assertExpectations(t)
	})

	t.Run("cannot post someone else's link", func(t *testing.T) {
		f := newFixture()
		svc := NewChannelLinkService(f.repos, f.guard, f.logger)
		f.channels.On("GetByID", mock.Anything, channelID).Return(publicChannel(), nil)
		f.links.On("GetByID", mock.Anything, linkID).Return(&models.Link{ID: linkID, UserID: otherID}, nil)

		_, err := svc.Create(ctx, actor, channelID, ChannelLinkInput{LinkID: linkID, Title: "mine"})

		assert.True(t, shared.IsNotFoundError(err))
		f.channelLinks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("private channel requires membership", func(t *testing.T) {
		f := newFixture()
		svc := NewChannelLinkService(f.repos, f.guard, f.logger)
		f.grantRole(actorID, channelID, auth.RoleNotAllowed)
		f.channels.On("GetByID", mock.Anything, channelID).Return(privateChannel(), nil)

		_, err := svc.Create(ctx, actor, channelID, ChannelLinkInput{LinkID: linkID})

		assert.True(t, shared.IsForbiddenError(err))
		f.links.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestChannelLinkService_EditRules(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		authorID int64
		role     auth.Role
		allowed  bool
	}{
		{"author edits own post", actorID, auth.RoleNotAllowed, true},
		{"admin edits others' posts", otherID, auth.RoleAdmin, true},
		{"owner edits others' posts", otherID, auth.RoleOwner, true},
		{"super user edits others' posts", otherID, auth.RoleSuperUser, true},
		{"member cannot edit others' posts", otherID, auth.RoleMember, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			svc := NewChannelLinkService(f.repos, f.guard, f.logger)
			if tt.authorID != actorID {
				f.grantRole(actorID, channelID, tt.role)
			}
			f.channelLinks.On("GetByID", mock.Anything, channelID, linkID).
				Return(&models.ChannelLink{ID: linkID, ChannelID: channelID, UserID: tt.authorID, Title: "old"}, nil)
			f.channelLinks.On("Update", mock.Anything, mock.AnythingOfType("*models.ChannelLink")).Return(nil).Maybe()
			f.channelLinks.On("Delete", mock.Anything, channelID, linkID).Return(nil).Maybe()

			updated, updateErr := svc.Update(ctx, actor, channelID, linkID, ChannelLinkUpdate{Title: "new title"})
			deleteErr := svc.Delete(ctx, actor, channelID, linkID)

			if tt.allowed {
				require.NoError(t, updateErr)
				require.NoError(t, deleteErr)
				assert.Equal(t, "new title", updated.Title)
				return
			}
			assert.True(t, shared.IsForbiddenError(updateErr))
			assert.True(t, shared.IsForbiddenError(deleteErr))
			f.channelLinks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			f.channelLinks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("author check reads no roles", func(t *testing.T) {
		f := newFixture()
		svc := NewChannelLinkService(f.repos, f.guard, f.logger)
		f.channelLinks.On("GetByID", mock.Anything, channelID, linkID).
			Return(&models.ChannelLink{ID: linkID, ChannelID: channelID, UserID: actorID}, nil)
		f.channelLinks.On("Delete", mock.Anything, channelID, linkID).Return(nil)

		require.NoError(t, svc.Delete(ctx, actor, channelID, linkID))
		f.superUsers.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
		f.memberships.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
