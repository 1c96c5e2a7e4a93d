package app

import (
	"context"
	"fmt"

	"github.com/upb/channel-links/config"
	"github.com/upb/channel-links/handlers"
	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/middleware"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/repositories"
	"github.com/upb/channel-links/repositories/postgres"
	"github.com/upb/channel-links/services"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	// Access control
	Guard    *auth.AccessGuard
	Codec    *auth.TokenCodec
	Sessions *auth.SessionManager
	Provider *services.AzureIdentityProvider

	// Services
	Users        *services.UserService
	SuperUsers   *services.SuperUserService
	Channels     *services.ChannelService
	Memberships  *services.MembershipService
	Links        *services.LinkService
	ChannelLinks *services.ChannelLinkService

	// HTTP
	AuthMiddleware *middleware.AuthMiddleware
	Handlers       *Handlers
}

// Handlers groups the HTTP handlers mounted by the router
type Handlers struct {
	Auth         *handlers.AuthHandler
	Health       *handlers.HealthHandler
	Users        *handlers.UserHandler
	SuperUsers   *handlers.SuperUserHandler
	Channels     *handlers.ChannelHandler
	Owners       *handlers.MembershipHandler
	Admins       *handlers.MembershipHandler
	Members      *handlers.MembershipHandler
	Links        *handlers.LinkHandler
	ChannelLinks *handlers.ChannelLinkHandler
}

// NewDependencies opens the database and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps, err := NewDependenciesFromFactory(cfg, factory, logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewDependenciesFromFactory wires every component over an existing repository factory.
func NewDependenciesFromFactory(cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	deps.initRepositories()

	if err := deps.initAuth(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	deps.initServices()
	deps.initSessions(cfg)
	deps.initHandlers(cfg)

	return deps, nil
}

// initDatabase opens the pool and creates missing tables
func initDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*postgres.RepositoryFactory, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository factory: %w", err)
	}

	if err := factory.InitSchema(ctx); err != nil {
		_ = factory.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return factory, nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	d.Repos = d.RepoFactory.NewRepositories()
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initAuth builds the token codec and the role resolution chain
func (d *Dependencies) initAuth(cfg *config.Config) error {
	codec, err := auth.NewTokenCodec(auth.TokenConfig{
		Secret:     cfg.Auth.JWTSecret,
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	})
	if err != nil {
		return err
	}
	d.Codec = codec

	store := services.NewMembershipStore(d.Repos.SuperUsers, d.Repos.Memberships)
	d.Guard = auth.NewAccessGuard(auth.NewRoleResolver(store), d.Logger)

	if cfg.OAuth.TenantID == "" || cfg.OAuth.ClientID == "" {
		d.Logger.Warn("identity provider not configured, logins will fail")
	}
	d.Provider = services.NewAzureIdentityProvider(cfg.OAuth, d.Logger)
	return nil
}

func (d *Dependencies) initServices() {
	d.Users = services.NewUserService(d.Repos, d.TxManager, d.Guard, d.Logger)
	d.SuperUsers = services.NewSuperUserService(d.Repos, d.TxManager, d.Guard, d.Logger)
	d.Channels = services.NewChannelService(d.Repos, d.TxManager, d.Guard, d.Logger)
	d.Memberships = services.NewMembershipService(d.Repos, d.TxManager, d.Guard, d.Logger)
	d.Links = services.NewLinkService(d.Repos, d.Logger)
	d.ChannelLinks = services.NewChannelLinkService(d.Repos, d.Guard, d.Logger)
}

// initSessions wires the session manager to the user store and the auth middleware
func (d *Dependencies) initSessions(cfg *config.Config) {
	d.Sessions = auth.NewSessionManager(d.Codec, d.Provider, d.Users, d.Logger)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Sessions, d.Users, cookieConfig(cfg), d.Logger)
}

func (d *Dependencies) initHandlers(cfg *config.Config) {
	d.Handlers = &Handlers{
		Auth:         handlers.NewAuthHandler(d.Sessions, d.Provider, cookieConfig(cfg), d.Logger),
		Health:       handlers.NewHealthHandler(d.Logger, handlers.DatabaseCheck(d.DB)),
		Users:        handlers.NewUserHandler(d.Users, d.Logger),
		SuperUsers:   handlers.NewSuperUserHandler(d.SuperUsers, d.Logger),
		Channels:     handlers.NewChannelHandler(d.Channels, d.Logger),
		Owners:       handlers.NewMembershipHandler(models.RelationOwner, d.Memberships, d.Logger),
		Admins:       handlers.NewMembershipHandler(models.RelationAdmin, d.Memberships, d.Logger),
		Members:      handlers.NewMembershipHandler(models.RelationMember, d.Memberships, d.Logger),
		Links:        handlers.NewLinkHandler(d.Links, d.Logger),
		ChannelLinks: handlers.NewChannelLinkHandler(d.ChannelLinks, d.Logger),
	}
}

func cookieConfig(cfg *config.Config) middleware.CookieConfig {
	return middleware.CookieConfig{
		Secure: cfg.Auth.CookieSecure,
		Domain: cfg.Auth.CookieDomain,
	}
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Close database connection
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
