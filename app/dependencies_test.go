package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/channel-links/config"
	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/repositories/postgres"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestNewDependenciesFromFactory(t *testing.T) {
	t.Run("wires every component", func(t *testing.T) {
		deps, mock := mockDependencies(t, testConfig())

		// Infrastructure
		assert.NotNil(t, deps.Config)
		assert.NotNil(t, deps.DB)
		assert.NotNil(t, deps.Logger)

		// Repositories
		require.NotNil(t, deps.Repos)
		assert.NotNil(t, deps.Repos.Users)
		assert.NotNil(t, deps.Repos.SuperUsers)
		assert.NotNil(t, deps.Repos.Channels)
		assert.NotNil(t, deps.Repos.Memberships)
		assert.NotNil(t, deps.Repos.Links)
		assert.NotNil(t, deps.Repos.ChannelLinks)
		assert.NotNil(t, deps.TxManager)

		// Access control and services
		assert.NotNil(t, deps.Codec)
		assert.NotNil(t, deps.Guard)
		assert.NotNil(t, deps.Sessions)
		assert.NotNil(t, deps.Provider)
		assert.NotNil(t, deps.Users)
		assert.NotNil(t, deps.SuperUsers)
		assert.NotNil(t, deps.Channels)
		assert.NotNil(t, deps.Memberships)
		assert.NotNil(t, deps.Links)
		assert.NotNil(t, deps.ChannelLinks)

		// HTTP
		assert.NotNil(t, deps.AuthMiddleware)
		require.NotNil(t, deps.Handlers)
		assert.NotNil(t, deps.Handlers.Auth)
		assert.NotNil(t, deps.Handlers.Health)
		assert.NotNil(t, deps.Handlers.Owners)
		assert.NotNil(t, deps.Handlers.Admins)
		assert.NotNil(t, deps.Handlers.Members)
		assert.NotNil(t, deps.Handlers.ChannelLinks)

		mock.ExpectClose()
		assert.NoError(t, deps.Close(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("issued tokens use the configured lifetimes", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.AccessTokenTTL = 15 * time.Minute
		deps, _ := mockDependencies(t, cfg)

		token, err := deps.Codec.Issue("alice@example.com", auth.TokenKindAccess)
		require.NoError(t, err)

		claims, err := deps.Codec.Verify(token, auth.TokenKindAccess)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", claims.Subject)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.JWTSecret = ""

		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		factory := postgres.NewRepositoryFactoryFromDB(postgres.Wrap(db, zap.NewNop()), zap.NewNop())
		deps, err := NewDependenciesFromFactory(cfg, factory, zap.NewNop())
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize auth")
	})

	t.Run("readiness probes the database", func(t *testing.T) {
		deps, mock := mockDependencies(t, testConfig())
		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		w := httptest.NewRecorder()
		deps.Handlers.Health.HandleReadiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewDependencies(t *testing.T) {
	t.Run("database connection failure", func(t *testing.T) {
		cfg := testConfig()
		cfg.Database.Host = "invalid-host-that-does-not-exist"
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(context.Background(), cfg, logger)
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize database")
	})
}

func TestDependenciesClose(t *testing.T) {
	deps, mock := mockDependencies(t, testConfig())
	mock.ExpectClose()

	require.NoError(t, deps.Close(context.Background()))

	// Second close is a no-op
	assert.NoError(t, deps.Close(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Test helpers

func mockDependencies(t *testing.T, cfg *config.Config) (*Dependencies, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := zaptest.NewLogger(t)
	factory := postgres.NewRepositoryFactoryFromDB(postgres.Wrap(db, logger), logger)

	deps, err := NewDependenciesFromFactory(cfg, factory, logger)
	require.NoError(t, err)
	return deps, mock
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  time.Minute,
		},
		Database: config.DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "dev",
			Database:        "channel_links_test",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Auth: config.AuthConfig{
			JWTSecret:       "0123456789abcdef0123456789abcdef",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
			CookieSecure:    true,
		},
		OAuth: config.OAuthConfig{
			Authority:   "https://login.microsoftonline.com",
			TenantID:    "tenant",
			ClientID:    "client",
			RedirectURI: "http://localhost:5173/login",
			Scope:       "openid profile email",
			HTTPTimeout: 5 * time.Second,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Observability: config.ObservabilityConfig{
			LogLevel:  "debug",
			LogFormat: "json",
		},
	}
}
