package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/auth"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/services"
)

type Server struct {
	dashboard    *services.Dashboard
	mux          *http.ServeMux
	logger       *slog.Logger
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
	authHandlers *handlers.AuthHandlers
	pages        *handlers.PageHandlers
	session      middleware.Middleware
	management   middleware.Middleware
}

func NewServer(dashboard *services.Dashboard, authSvc *auth.Service, secureCookie bool, logger *slog.Logger) *Server {
	authHandlers := handlers.NewAuthHandlers(authSvc, secureCookie, logger)
	s := &Server{
		dashboard:    dashboard,
		mux:          http.NewServeMux(),
		logger:       logger,
		apiHandlers:  handlers.NewAPIHandlers(dashboard, logger),
		sseHandlers:  handlers.NewSSEHandlers(dashboard, logger),
		authHandlers: authHandlers,
		pages:        handlers.NewPageHandlers(authHandlers, dashboard, logger),
		session:      middleware.RequireSession(authSvc, logger),
	}
	s.management = middleware.Chain(s.session, middleware.RequireManagement(logger))
	s.setupRoutes()
	return s
}

func (s *Server) authed(h http.HandlerFunc) http.Handler {
	return s.session(h)
}

func (s *Server) managed(h http.HandlerFunc) http.Handler {
	return s.management(h)
}

func (s *Server) setupRoutes() {
	// Pages
	s.mux.HandleFunc("GET /{$}", s.pages.HandleDashboard)
	s.mux.HandleFunc("GET /login", s.pages.HandleLoginPage)
	s.mux.HandleFunc("POST /login", s.pages.HandleLoginForm)
	s.mux.HandleFunc("POST /logout", s.pages.HandleLogoutForm)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)

	// Session API
	s.mux.HandleFunc("POST /api/login", s.authHandlers.HandleLogin)
	s.mux.HandleFunc("POST /api/logout", s.authHandlers.HandleLogout)
	s.mux.Handle("GET /api/session", s.authed(s.authHandlers.HandleSession))

	// Representative views; handlers check the session may see {rep}
	s.mux.Handle("GET /api/reps", s.authed(s.apiHandlers.HandleRepresentatives))
	s.mux.Handle("GET /api/reps/{rep}/metrics", s.authed(s.apiHandlers.HandleRepMetrics))
	s.mux.Handle("GET /api/reps/{rep}/daily", s.authed(s.apiHandlers.HandleRepDaily))
	s.mux.Handle("GET /api/reps/{rep}/transactions", s.authed(s.apiHandlers.HandleRepTransactions))
	s.mux.Handle("GET /api/reps/{rep}/territory", s.authed(s.apiHandlers.HandleRepTerritory))
	s.mux.Handle("GET /api/reps/{rep}/schedule", s.authed(s.apiHandlers.HandleRepSchedule))
	s.mux.Handle("GET /api/reps/{rep}/activity", s.authed(s.apiHandlers.HandleRepActivity))
	s.mux.Handle("GET /api/reps/{rep}/bonus", s.authed(s.apiHandlers.HandleRepBonus))
	s.mux.Handle("GET /api/bonus/standings", s.authed(s.apiHandlers.HandleBonusStandings))

	// Management views
	s.mux.Handle("GET /api/management/metrics", s.managed(s.apiHandlers.HandleManagementMetrics))
	s.mux.Handle("GET /api/management/top-reps", s.managed(s.apiHandlers.HandleTopReps))
	s.mux.Handle("GET /api/management/top-accounts", s.managed(s.apiHandlers.HandleTopAccounts))
	s.mux.Handle("GET /api/management/territory", s.managed(s.apiHandlers.HandleManagementTerritory))
	s.mux.Handle("GET /api/management/transactions", s.managed(s.apiHandlers.HandleManagementTransactions))
	s.mux.Handle("GET /api/management/activity", s.managed(s.apiHandlers.HandleActivitySummary))

	// Admin
	s.mux.Handle("GET /admin/stats", s.managed(s.apiHandlers.HandleStats))
	s.mux.Handle("POST /admin/reload", s.managed(s.apiHandlers.HandleReload))

	// Datastar SSE endpoints
	s.mux.Handle("GET /sse/overview", s.authed(s.sseHandlers.HandleOverview))
	s.mux.Handle("GET /sse/territory", s.authed(s.sseHandlers.HandleTerritory))
	s.mux.Handle("GET /sse/bonus", s.authed(s.sseHandlers.HandleBonus))
	s.mux.Handle("GET /sse/reps/{rep}/schedule", s.authed(s.sseHandlers.HandleSchedule))
	s.mux.Handle("GET /sse/reps/{rep}/activity", s.authed(s.sseHandlers.HandleRepActivity))
	s.mux.Handle("GET /sse/top-reps", s.managed(s.sseHandlers.HandleTopReps))
	s.mux.Handle("GET /sse/top-accounts", s.managed(s.sseHandlers.HandleTopAccounts))
	s.mux.Handle("GET /sse/activity", s.managed(s.sseHandlers.HandleActivitySummary))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
