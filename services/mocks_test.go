package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/repositories"
)

const (
	actorID   int64 = 1
	otherID   int64 = 2
	channelID int64 = 10
)

var actor = auth.Identity{ID: actorID, Email: "actor@example.com"}

// MockTransactionManager runs the callback inline with the caller's context.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, nil)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, search string) ([]*models.User, error) {
	args := m.Called(ctx, search)
	if users := args.Get(0); users != nil {
		return users.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSuperUserRepository is a mock implementation of SuperUserRepository
type MockSuperUserRepository struct {
	mock.Mock
}

func (m *MockSuperUserRepository) Add(ctx context.Context, userID int64) (*models.SuperUser, error) {
	args := m.Called(ctx, userID)
	if su := args.Get(0); su != nil {
		return su.(*models.SuperUser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSuperUserRepository) Remove(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSuperUserRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSuperUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSuperUserRepository) List(ctx context.Context) ([]*models.SuperUser, error) {
	args := m.Called(ctx)
	if sus := args.Get(0); sus != nil {
		return sus.([]*models.SuperUser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockChannelRepository is a mock implementation of ChannelRepository
type MockChannelRepository struct {
	mock.Mock
}

func (m *MockChannelRepository) Create(ctx context.Context, channel *models.Channel) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockChannelRepository) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	args := m.Called(ctx, id)
	if ch := args.Get(0); ch != nil {
		return ch.(*models.Channel), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChannelRepository) List(ctx context.Context, filter models.ChannelFilter) ([]*models.Channel, error) {
	args := m.Called(ctx, filter)
	if chs := args.Get(0); chs != nil {
		return chs.([]*models.Channel), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChannelRepository) ListVisibleTo(ctx context.Context, userID int64, filter models.ChannelFilter) ([]*models.Channel, error) {
	args := m.Called(ctx, userID, filter)
	if chs := args.Get(0); chs != nil {
		return chs.([]*models.Channel), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChannelRepository) Update(ctx context.Context, channel *models.Channel) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockChannelRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMembershipRepository is a mock implementation of MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Add(ctx context.Context, relation models.Relation, channelID, userID int64) (*models.Membership, error) {
	args := m.Called(ctx, relation, channelID, userID)
	if ms := args.Get(0); ms != nil {
		return ms.(*models.Membership), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMembershipRepository) Remove(ctx context.Context, relation models.Relation, channelID, userID int64) error {
	args := m.Called(ctx, relation, channelID, userID)
	return args.Error(0)
}

func (m *MockMembershipRepository) Exists(ctx context.Context, relation models.Relation, channelID, userID int64) (bool, error) {
	args := m.Called(ctx, relation, channelID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRepository) Count(ctx context.Context, relation models.Relation, channelID int64) (int, error) {
	args := m.Called(ctx, relation, channelID)
	return args.Int(0), args.Error(1)
}

func (m *MockMembershipRepository) List(ctx context.Context, relation models.Relation, channelID int64) ([]*models.Membership, error) {
	args := m.Called(ctx, relation, channelID)
	if ms := args.Get(0); ms != nil {
		return ms.([]*models.Membership), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockLinkRepository is a mock implementation of LinkRepository
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) Create(ctx context.Context, link *models.Link) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockLinkRepository) GetByID(ctx context.Context, id int64) (*models.Link, error) {
	args := m.Called(ctx, id)
	if link := args.Get(0); link != nil {
		return link.(*models.Link), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLinkRepository) ListByUser(ctx context.Context, userID int64, filter models.LinkFilter) ([]*models.Link, error) {
	args := m.Called(ctx, userID, filter)
	if links := args.Get(0); links != nil {
		return links.([]*models.Link), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLinkRepository) Update(ctx context.Context, link *models.Link) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockLinkRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockChannelLinkRepository is a mock implementation of ChannelLinkRepository
type MockChannelLinkRepository struct {
	mock.Mock
}

func (m *MockChannelLinkRepository) Create(ctx context.Context, link *models.ChannelLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockChannelLinkRepository) GetByID(ctx context.Context, channelID, id int64) (*models.ChannelLink, error) {
	args := m.Called(ctx, channelID, id)
	if link := args.Get(0); link != nil {
		return link.(*models.ChannelLink), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChannelLinkRepository) ListByChannel(ctx context.Context, channelID int64, filter models.LinkFilter) ([]*models.ChannelLink, error) {
	args := m.Called(ctx, channelID, filter)
	if links := args.Get(0); links != nil {
		return links.([]*models.ChannelLink), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChannelLinkRepository) Update(ctx context.Context, link *models.ChannelLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockChannelLinkRepository) Delete(ctx context.Context, channelID, id int64) error {
	args := m.Called(ctx, channelID, id)
	return args.Error(0)
}

// fixture wires every service dependency to mocks. Role lookups go through
// the real resolver so tests exercise the same precedence as production.
type fixture struct {
	users        *MockUserRepository
	superUsers   *MockSuperUserRepository
	channels     *MockChannelRepository
	memberships  *MockMembershipRepository
	links        *MockLinkRepository
	channelLinks *MockChannelLinkRepository
	txMgr        *MockTransactionManager
	repos        *repositories.Repositories
	guard        *auth.AccessGuard
	logger       *zap.Logger
}

func newFixture() *fixture {
	f := &fixture{
		users:        new(MockUserRepository),
		superUsers:   new(MockSuperUserRepository),
		channels:     new(MockChannelRepository),
		memberships:  new(MockMembershipRepository),
		links:        new(MockLinkRepository),
		channelLinks: new(MockChannelLinkRepository),
		txMgr:        new(MockTransactionManager),
		logger:       zap.NewNop(),
	}
	f.repos = &repositories.Repositories{
		Users:        f.users,
		SuperUsers:   f.superUsers,
		Channels:     f.channels,
		Memberships:  f.memberships,
		Links:        f.links,
		ChannelLinks: f.channelLinks,
	}
	store := NewMembershipStore(f.superUsers, f.memberships)
	f.guard = auth.NewAccessGuard(auth.NewRoleResolver(store), f.logger)
	f.txMgr.On("InTransaction", mock.Anything).Return(nil).Maybe()
	return f
}

// grantRole makes userID resolve to role in the channel.
func (f *fixture) grantRole(userID, chID int64, role auth.Role) {
	f.superUsers.On("Exists", mock.Anything, userID).Return(role == auth.RoleSuperUser, nil).Maybe()
	relations := []struct {
		relation models.Relation
		role     auth.Role
	}{
		{models.RelationOwner, auth.RoleOwner},
		{models.RelationAdmin, auth.RoleAdmin},
		{models.RelationMember, auth.RoleMember},
	}
	for _, r := range relations {
		f.memberships.On("Exists", mock.Anything, r.relation, chID, userID).Return(role == r.role, nil).Maybe()
	}
}

func (f *fixture) assertExpectations(t mock.TestingT) {
	f.users.AssertExpectations(t)
	f.superUsers.AssertExpectations(t)
	f.channels.AssertExpectations(t)
	f.memberships.AssertExpectations(t)
	f.links.AssertExpectations(t)
	f.channelLinks.AssertExpectations(t)
}

func publicChannel() *models.Channel {
	return &models.Channel{ID: channelID, Name: "golang", Visibility: models.VisibilityPublic}
}

func privateChannel() *models.Channel {
	return &models.Channel{ID: channelID, Name: "secret", Visibility: models.VisibilityPrivate}
}
