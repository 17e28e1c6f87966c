package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/metrics"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/service"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store"
	"github.com/burenvoorburen/helpdesk/pkg/httpx"
	"github.com/burenvoorburen/helpdesk/pkg/jwtx"
	"github.com/burenvoorburen/helpdesk/pkg/slogx"

	_ "github.com/burenvoorburen/helpdesk/api/helpdesk" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	RequestService   *service.RequestService
	IdentityService  *service.IdentityService
	SessionService   *service.SessionService
	BootstrapService *service.BootstrapService
	DirectoryService *service.DirectoryService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	corsOrigins []string,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		httpx.CORS(corsOrigins),
		slogx.HTTPMiddleware(r.logger),
		metrics.HTTPMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerHelpRequests()
	r.registerDirectory()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	// The mobile client prefixes every call with /api.
	r.Mux.Handle("/api/", http.StripPrefix("/api", r.Mux))
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Buren voor Buren Help Desk API
//	@version		0.1.0
//	@description	Neighbourhood help desk: residents submit help requests, approved volunteers accept them and coordinators manage volunteers.
//	@description
//	@description				Sessions are EdDSA signed JWTs returned by the login endpoints.
//
//	@contact.name				Buren voor Buren
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
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// coordinator guards h with a session of the coordinator role.
func (r *Router) coordinator(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier, r.SessionService.ResolveSession),
		httpx.RequireAnyRole(string(domain.RoleCoordinator)),
		httpx.RateLimitByUser(limit),
	)
}

// authenticated guards h with any valid session.
func (r *Router) authenticated(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier, r.SessionService.ResolveSession),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		IdentityService: r.IdentityService,
		SessionService:  r.SessionService,
	}

	// Credential endpoints are limited strictly by IP against guessing.
	r.Mux.Handle("POST /register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /coordinator-login",
		httpx.Chain(http.HandlerFunc(h.HandleCoordinatorLogin), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /volunteer-login",
		httpx.Chain(http.HandlerFunc(h.HandleVolunteerLogin), httpx.RateLimitByIP(httpx.StrictLimit)))

	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /bootstrap",
		httpx.Chain(bootstrapHandler, httpx.RateLimitByIP(httpx.StrictLimit)))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{IdentityService: r.IdentityService}

	r.Mux.Handle("GET /pending-volunteers", r.coordinator(h.HandleListPending, httpx.LenientLimit))
	r.Mux.Handle("POST /accept-volunteer", r.coordinator(h.HandleApprove, httpx.ModerateLimit))
	r.Mux.Handle("POST /add-coordinator", r.coordinator(h.HandlePromote, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /pending-volunteers/{id}", r.coordinator(h.HandleDeletePending, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /users/{id}", r.coordinator(h.HandleDeleteUser, httpx.ModerateLimit))

	r.Mux.Handle("POST /volunteers/updatePushToken", r.authenticated(h.HandleUpdatePushToken, httpx.ModerateLimit))
}

func (r *Router) registerHelpRequests() {
	h := &HelpRequestsHandler{RequestService: r.RequestService}

	// Reads work anonymously; a session only widens what is visible.
	optional := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.OptionalAuthn(r.verifier, r.SessionService.ResolveSession),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /help-requests", optional(h.HandleList))
	r.Mux.Handle("GET /help-requests/{id}", optional(h.HandleGet))
	r.Mux.Handle("POST /help-requests",
		httpx.Chain(http.HandlerFunc(h.HandleCreate), httpx.RateLimitByIP(httpx.ModerateLimit)))
	r.Mux.Handle("POST /help-requests/{id}/accept", r.authenticated(h.HandleAccept, httpx.ModerateLimit))
	r.Mux.Handle("POST /help-requests/{id}/cancel", r.authenticated(h.HandleCancel, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /help-requests/{id}", r.coordinator(h.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerDirectory() {
	h := &DirectoryHandler{DirectoryService: r.DirectoryService}

	r.Mux.Handle("POST /contacts",
		httpx.Chain(http.HandlerFunc(h.HandleCreateContact), httpx.RateLimitByIP(httpx.ModerateLimit)))
	r.Mux.Handle("GET /contacts", r.coordinator(h.HandleListContacts, httpx.LenientLimit))
	r.Mux.Handle("DELETE /contacts/{id}", r.coordinator(h.HandleDeleteContact, httpx.ModerateLimit))

	r.Mux.Handle("POST /volunteers",
		httpx.Chain(http.HandlerFunc(h.HandleCreateVolunteer), httpx.RateLimitByIP(httpx.ModerateLimit)))
	r.Mux.Handle("GET /volunteers", r.coordinator(h.HandleListVolunteers, httpx.LenientLimit))
	r.Mux.Handle("DELETE /volunteers/{id}", r.coordinator(h.HandleDeleteVolunteer, httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	// Monitoring systems poll frequently.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion), httpx.RateLimitByIP(httpx.LenientLimit)))
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys), httpx.RateLimitByIP(httpx.LenientLimit)))
	r.Mux.Handle("GET /metrics", metrics.Handler())
}
