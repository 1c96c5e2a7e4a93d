package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/channel-links/app"
	"github.com/upb/channel-links/handlers"
	"github.com/upb/channel-links/middleware"
	"github.com/upb/channel-links/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()
	h := deps.Handlers

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(deps.Config.Server.RequestTimeout))

	// Credentialed CORS for the browser client
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/healthz", h.Health.HandleHealth)
	r.Get("/readyz", h.Health.HandleReadiness)

	r.Route("/api", func(r chi.Router) {
		// Session endpoints manage their own cookies
		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", h.Auth.HandleLoginURL)
			r.Post("/login", h.Auth.HandleLogin)
			r.Post("/refresh", h.Auth.HandleRefresh)
			r.Post("/logout", h.Auth.HandleLogout)
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.Authenticate)
			r.Use(deps.AuthMiddleware.RequireAuth)

			r.Route("/user", func(r chi.Router) {
				r.Get("/", h.Users.HandleList)
				r.Get("/self", h.Users.HandleSelf)
				r.Get("/{id}", h.Users.HandleGet)
				r.Delete("/{id}", h.Users.HandleDelete)
			})

			r.Route("/superuser", func(r chi.Router) {
				r.Get("/", h.SuperUsers.HandleList)
				r.Post("/{userId}", h.SuperUsers.HandleAdd)
				r.Delete("/{userId}", h.SuperUsers.HandleRemove)
			})

			r.Route("/channel", func(r chi.Router) {
				r.Get("/", h.Channels.HandleList)
				r.Post("/", h.Channels.HandleCreate)
				r.Get("/role", h.Channels.HandleRole)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Channels.HandleGet)
					r.Put("/", h.Channels.HandleUpdate)
					r.Delete("/", h.Channels.HandleDelete)

					mountMembership(r, "/owners", h.Owners)
					mountMembership(r, "/admins", h.Admins)
					mountMembership(r, "/members", h.Members)

					r.Route("/links", func(r chi.Router) {
						r.Get("/", h.ChannelLinks.HandleList)
						r.Post("/", h.ChannelLinks.HandleCreate)
						r.Get("/{linkId}", h.ChannelLinks.HandleGet)
						r.Put("/{linkId}", h.ChannelLinks.HandleUpdate)
						r.Delete("/{linkId}", h.ChannelLinks.HandleDelete)
					})
				})
			})

			r.Route("/link", func(r chi.Router) {
				r.Get("/", h.Links.HandleList)
				r.Post("/", h.Links.HandleCreate)
				r.Get("/{id}", h.Links.HandleGet)
				r.Put("/{id}", h.Links.HandleUpdate)
				r.Delete("/{id}", h.Links.HandleDelete)
			})
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})

	return r
}

func mountMembership(r chi.Router, path string, h *handlers.MembershipHandler) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleAdd)
		r.Delete("/{userId}", h.HandleRemove)
	})
}
