// Package auth mounts the HTTP surface for the authentication flows: JSON
// registration and login, magic-link issuance and verification, the Google
// OAuth redirect pair and the session-protected read endpoints.
package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartbuy/auth/pkg/auth"
	"github.com/smartbuy/auth/pkg/jwt"
	"github.com/smartbuy/auth/pkg/logger"
)

// Module bundles the handlers with their dependencies.
type Module struct {
	service  *auth.Service
	sessions *jwt.Service
	logger   *slog.Logger
}

// Option configures the module.
type Option func(*Module)

// WithLogger sets a custom logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(m *Module) { m.logger = l }
}

// NewModule wires the HTTP surface over the auth service.
func NewModule(service *auth.Service, sessions *jwt.Service, opts ...Option) *Module {
	m := &Module{
		service:  service,
		sessions: sessions,
		logger:   logger.Noop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Router returns the module's routes, ready to mount at the server root.
// Endpoints that need an authenticated session sit behind the bearer
// middleware; everything else is public.
func (m *Module) Router() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", m.handleRegister)
	r.Post("/login", m.handleLogin)
	r.Get("/logout", m.handleLogout)

	r.Post("/magic-link", m.handleMagicLinkRequest)
	r.Get("/magic-link/verify", m.handleMagicLinkVerify)

	r.Post("/forgot-password", m.handleForgotPassword)

	r.Get("/auth/google", m.handleGoogleRedirect)
	r.Get("/auth/google/callback", m.handleGoogleCallback)

	r.Group(func(protected chi.Router) {
		protected.Use(jwt.Middleware(m.sessions))
		protected.Get("/me", m.handleMe)
		protected.Get("/users", m.handleListUsers)
	})

	return r
}

// Handle exposes the router as a plain http.Handler.
func (m *Module) Handle() http.Handler {
	return m.Router()
}
