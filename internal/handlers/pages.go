package handlers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"sales-dashboard/internal/auth"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

// PageHandlers serve the HTML shell. Unlike the API they redirect to the
// login page instead of answering 401.
type PageHandlers struct {
	auth      *AuthHandlers
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewPageHandlers(a *AuthHandlers, dashboard *services.Dashboard, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		auth:      a,
		dashboard: dashboard,
		logger:    logger,
	}
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := c.Render(ctx, w); err != nil {
		observability.LoggerFrom(r.Context(), h.logger).Error("render page", "error", err)
	}
}

func (h *PageHandlers) session(r *http.Request) (auth.Session, bool) {
	token := middleware.SessionToken(r)
	if token == "" {
		return auth.Session{}, false
	}
	sess, err := h.auth.auth.Session(token)
	return sess, err == nil
}

func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	stats := h.dashboard.Stats()
	h.render(w, r, http.StatusOK, templates.Dashboard(templates.DashboardView{
		DisplayName: sess.DisplayName,
		Role:        string(sess.Role),
		RepID:       string(sess.RepID),
		Management:  sess.IsManagement(),
		Source:      stats.Source,
		Records:     stats.Records,
		LoadedAt:    stats.LoadedAt,
	}))
}

func (h *PageHandlers) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, templates.Login(""))
}

// HandleLoginForm authenticates the posted form and redirects to the
// dashboard, or re-renders the form with a message.
func (h *PageHandlers) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, templates.Login("Could not read the login form."))
		return
	}
	sess, err := h.auth.login(r.PostFormValue("username"), r.PostFormValue("password"), models.Role(r.PostFormValue("role")))
	if err != nil {
		msg := "Invalid username or password."
		if stderrors.Is(err, auth.ErrRoleMismatch) {
			msg = "That account does not have the selected role."
		}
		h.render(w, r, http.StatusUnauthorized, templates.Login(msg))
		return
	}
	h.auth.setCookie(w, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandlers) HandleLogoutForm(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		h.auth.auth.Logout(token)
	}
	h.auth.clearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
