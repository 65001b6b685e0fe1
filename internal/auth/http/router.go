package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/sessionauth/api/auth" // Swagger docs
	"github.com/aussiebroadwan/sessionauth/internal/auth/metrics"
	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
	"github.com/aussiebroadwan/sessionauth/pkg/httpx"
	"github.com/aussiebroadwan/sessionauth/pkg/slogx"
)

// Options are the deployment-specific knobs of the HTTP surface.
type Options struct {
	BuildVersion string

	// CookieSecure marks the session cookie Secure. Enable behind TLS.
	CookieSecure bool

	// LogoutRedirect is where DELETE /sessions redirects. Empty answers
	// with a JSON message instead.
	LogoutRedirect string
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux *chi.Mux

	auth      *service.AuthManager
	store     store.Store
	metrics   *metrics.Metrics
	logger    *slog.Logger
	opts      Options
	startTime time.Time
}

func NewRouter(
	auth *service.AuthManager,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts Options,
) *Router {
	r := &Router{
		Mux:       chi.NewRouter(),
		auth:      auth,
		store:     st,
		metrics:   m,
		logger:    logger,
		opts:      opts,
		startTime: time.Now(),
	}

	r.Mux.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		slogx.HTTPMiddleware(r.logger, chimiddleware.GetReqID),
	)
	if m != nil {
		r.Mux.Use(m.HTTPMiddleware)
	}
	r.Mux.Use(chimiddleware.Recoverer)

	r.Mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		authsdk.ErrNotFound.WriteError(w)
	})
	r.Mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		authsdk.ErrMethodNotAllowed.WriteError(w)
	})

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerSessions()
	r.registerSystem()

	r.Mux.Handle("/swagger/*", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router.
//
//	@title			Session Authentication Service API
//	@version		0.1.0
//	@description	Registers users, verifies credentials and issues opaque session cookies.
//	@description	Passwords are reset through single-use tokens.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/sessionauth
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Mux.ServeHTTP(w, req)
}

func (r *Router) sessionRequired() httpx.Middleware {
	return httpx.SessionMiddleware(authsdk.SessionCookie, sessionResolver{auth: r.auth})
}

func (r *Router) registerAccounts() {
	users := &UsersHandler{Auth: r.auth}
	reset := &ResetPasswordHandler{Auth: r.auth}

	r.Mux.Post("/users", users.HandleRegister)
	r.Mux.Post("/reset_password", reset.HandleRequest)
	r.Mux.Put("/reset_password", reset.HandleUpdate)
}

func (r *Router) registerSessions() {
	sessions := &SessionsHandler{
		Auth:           r.auth,
		CookieSecure:   r.opts.CookieSecure,
		LogoutRedirect: r.opts.LogoutRedirect,
	}

	r.Mux.Post("/sessions", sessions.HandleLogin)
	r.Mux.Method(http.MethodDelete, "/sessions",
		httpx.Chain(http.HandlerFunc(sessions.HandleLogout), r.sessionRequired()),
	)
	r.Mux.Method(http.MethodGet, "/profile",
		httpx.Chain(http.HandlerFunc(HandleProfile), r.sessionRequired()),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Get("/", HandleIndex)
	r.Mux.Get("/api/v1/status", HandleStatus)
	r.Mux.Get("/api/v1/stats", StatsHandler(r.auth))

	health := &HealthHandler{Store: r.store, Version: r.opts.BuildVersion, Started: r.startTime}
	r.Mux.Get("/livez", health.HandleLivez)
	r.Mux.Get("/readyz", health.HandleReadyz)

	if r.metrics != nil {
		r.Mux.Handle("/metrics", r.metrics.Handler())
	}
}
