package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/aussiebroadwan/sessionauth/pkg/httpx"
	"github.com/aussiebroadwan/sessionauth/pkg/jwtx"
	"github.com/aussiebroadwan/sessionauth/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	auth *service.AuthService,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		AuthService:  auth,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerPassword()
	r.registerProfile()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Session Authentication Service API
//	@version		0.1.0
//	@description	Username and password sessions with HS512-signed access tokens and single-use refresh tokens.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authenticated wraps h with bearer verification and, when roles are
// given, a role check.
func (r *Router) authenticated(h http.HandlerFunc, roles ...string) http.Handler {
	mws := []httpx.Middleware{httpx.AuthnMiddleware(r.verifier)}
	if len(roles) > 0 {
		mws = append(mws, httpx.RequireRole(roles...))
	}
	return httpx.Chain(h, mws...)
}

func (r *Router) registerSession() {
	h := &SessionHandler{Auth: r.AuthService}

	// POST /register - anonymous; an admin token unlocks the role field
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.OptionalAuthnMiddleware(r.verifier),
		),
	)

	r.Mux.HandleFunc("POST /api/auth/login", h.HandleLogin)
	r.Mux.HandleFunc("POST /api/auth/refresh-token", h.HandleRefresh)
	r.Mux.Handle("POST /api/auth/signout", r.authenticated(h.HandleSignOut))
}

func (r *Router) registerPassword() {
	h := &PasswordHandler{Auth: r.AuthService}

	r.Mux.Handle("POST /api/auth/check-password", r.authenticated(h.HandleCheck))
	r.Mux.Handle("POST /api/auth/change-password", r.authenticated(h.HandleChange))
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{Auth: r.AuthService}

	// {$} keeps the probe from swallowing every unmatched /api/auth/ path
	r.Mux.Handle("GET /api/auth/{$}", r.authenticated(AckHandler("You are authenticated!")))
	r.Mux.Handle("GET /api/auth/admin-only", r.authenticated(AckHandler("You are an admin!"), domain.RoleAdmin))
	r.Mux.Handle("GET /api/auth/me", r.authenticated(h.HandleMe))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{Auth: r.AuthService}

	r.Mux.Handle("PUT /api/auth/users/{id}/password", r.authenticated(h.HandleSetPassword, domain.RoleAdmin))
	r.Mux.Handle("PUT /api/auth/users/{id}/role", r.authenticated(h.HandleSetRole, domain.RoleAdmin))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
