package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/middleware"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/services"
	"github.com/upb/channel-links/utils"
)

var caller = auth.Identity{ID: 1, Email: "alice@example.com"}

// newRequest builds a request with chi URL params and, optionally, a caller identity.
func newRequest(method, target, body string, params map[string]string, identity *auth.Identity) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if identity != nil {
		ctx = middleware.WithIdentity(ctx, *identity)
	}
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var response utils.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

// decodeData decodes the "data" envelope into dst.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

// MockSessionService mocks SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Login(ctx context.Context, code string) (*auth.TokenPair, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenPair), args.Error(1)
}

func (m *MockSessionService) Refresh(refreshToken string) (*auth.TokenPair, error) {
	args := m.Called(refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenPair), args.Error(1)
}

// MockAuthorizationURLBuilder mocks AuthorizationURLBuilder
type MockAuthorizationURLBuilder struct {
	mock.Mock
}

func (m *MockAuthorizationURLBuilder) AuthorizationURL(state string) string {
	return m.Called(state).String(0)
}

// MockUserService mocks UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, search string) ([]*models.User, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Self(ctx context.Context, actor auth.Identity) (*models.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

// MockSuperUserService mocks SuperUserService
type MockSuperUserService struct {
	mock.Mock
}

func (m *MockSuperUserService) List(ctx context.Context, actor auth.Identity) ([]*models.SuperUser, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SuperUser), args.Error(1)
}

func (m *MockSuperUserService) Add(ctx context.Context, actor auth.Identity, userID int64) (*models.SuperUser, error) {
	args := m.Called(ctx, actor, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SuperUser), args.Error(1)
}

func (m *MockSuperUserService) Remove(ctx context.Context, actor auth.Identity, userID int64) error {
	return m.Called(ctx, actor, userID).Error(0)
}

// MockChannelService mocks ChannelService
type MockChannelService struct {
	mock.Mock
}

func (m *MockChannelService) List(ctx context.Context, actor auth.Identity, filter models.ChannelFilter) ([]*models.Channel, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Channel), args.Error(1)
}

func (m *MockChannelService) Get(ctx context.Context, actor auth.Identity, id int64) (*models.Channel, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *MockChannelService) Role(ctx context.Context, actor auth.Identity, channelID *int64) (auth.Role, error) {
	args := m.Called(ctx, actor, channelID)
	return args.Get(0).(auth.Role), args.Error(1)
}

func (m *MockChannelService) Create(ctx context.Context, actor auth.Identity, input services.ChannelInput) (*models.Channel, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *MockChannelService) Update(ctx context.Context, actor auth.Identity, id int64, input services.ChannelInput) (*models.Channel, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *MockChannelService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

// MockMembershipService mocks MembershipService
type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) List(ctx context.Context, actor auth.Identity, channelID int64, relation models.Relation) ([]*models.Membership, error) {
	args := m.Called(ctx, actor, channelID, relation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Membership), args.Error(1)
}

func (m *MockMembershipService) Add(ctx context.Context, actor auth.Identity, channelID int64, relation models.Relation, userID int64) (*models.Membership, error) {
	args := m.Called(ctx, actor, channelID, relation, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

func (m *MockMembershipService) Remove(ctx context.Context, actor auth.Identity, channelID int64, relation models.Relation, userID int64) error {
	return m.Called(ctx, actor, channelID, relation, userID).Error(0)
}

// MockLinkService mocks LinkService
type MockLinkService struct {
	mock.Mock
}

func (m *MockLinkService) List(ctx context.Context, actor auth.Identity, filter models.LinkFilter) ([]*models.Link, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Link), args.Error(1)
}

func (m *MockLinkService) Get(ctx context.Context, actor auth.Identity, id int64) (*models.Link, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockLinkService) Create(ctx context.Context, actor auth.Identity, input services.LinkInput) (*models.Link, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockLinkService) Update(ctx context.Context, actor auth.Identity, id int64, input services.LinkInput) (*models.Link, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockLinkService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

// MockChannelLinkService mocks ChannelLinkService
type MockChannelLinkService struct {
	mock.Mock
}

func (m *MockChannelLinkService) List(ctx context.Context, actor auth.Identity, channelID int64, filter models.LinkFilter) ([]*models.ChannelLink, error) {
	args := m.Called(ctx, actor, channelID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChannelLink), args.Error(1)
}

func (m *MockChannelLinkService) Get(ctx context.Context, actor auth.Identity, channelID, id int64) (*models.ChannelLink, error) {
	args := m.Called(ctx, actor, channelID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelLink), args.Error(1)
}

func (m *MockChannelLinkService) Create(ctx context.Context, actor auth.Identity, channelID int64, input services.ChannelLinkInput) (*models.ChannelLink, error) {
	args := m.Called(ctx, actor, channelID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelLink), args.Error(1)
}

func (m *MockChannelLinkService) Update(ctx context.Context, actor auth.Identity, channelID, id int64, input services.ChannelLinkUpdate) (*models.ChannelLink, error) {
	args := m.Called(ctx, actor, channelID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelLink), args.Error(1)
}

func (m *MockChannelLinkService) Delete(ctx context.Context, actor auth.Identity, channelID, id int64) error {
	return m.Called(ctx, actor, channelID, id).Error(0)
}
