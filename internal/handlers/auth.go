package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/auth"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/models"
)

// Authenticator is the part of auth.Service the handlers need.
type Authenticator interface {
	Authenticate(username, password string, role models.Role) (auth.Session, error)
	Session(token string) (auth.Session, error)
	Logout(token string)
}

type loginRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type AuthHandlers struct {
	auth         Authenticator
	logger       *slog.Logger
	secureCookie bool
}

func NewAuthHandlers(a Authenticator, secureCookie bool, logger *slog.Logger) *AuthHandlers {
	return &AuthHandlers{
		auth:         a,
		logger:       logger,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandlers) login(username, password string, role models.Role) (auth.Session, error) {
	if username == "" || password == "" {
		return auth.Session{}, errors.BadRequest("username and password are required")
	}
	if !role.Valid() {
		return auth.Session{}, errors.BadRequest("role must be Sales Representative or Management")
	}
	return h.auth.Authenticate(username, password, role)
}

func (h *AuthHandlers) setCookie(w http.ResponseWriter, sess auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// HandleLogin accepts a JSON body and answers with the session; the token is
// also set as a cookie.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		fail(w, r, h.logger, errors.BadRequestWrap(err, "invalid login body"))
		return
	}
	sess, err := h.login(req.Username, req.Password, req.Role)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	h.setCookie(w, sess)
	errors.WriteSuccess(w, sess)
}

func (h *AuthHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		h.auth.Logout(token)
	}
	h.clearCookie(w)
	errors.WriteSuccess(w, map[string]string{"status": "logged out"})
}

func (h *AuthHandlers) HandleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		fail(w, r, h.logger, errors.Unauthorized("login required"))
		return
	}
	errors.WriteSuccess(w, sess)
}
