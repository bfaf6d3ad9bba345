// Package auth checks dashboard logins against the credential list and keeps
// short-lived sessions in memory.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sales-dashboard/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRoleMismatch       = errors.New("role does not match user")
	ErrSessionExpired     = errors.New("session expired")
	ErrForbidden          = errors.New("not permitted for this session")
)

const DefaultSessionTTL = 8 * time.Hour

// Session is an authenticated login. Sales representatives are bound to the
// representative named by their display name.
type Session struct {
	Token       string                  `json:"token"`
	Username    string                  `json:"username"`
	DisplayName string                  `json:"name"`
	Role        models.Role             `json:"role"`
	RepID       models.RepresentativeID `json:"rep_id,omitempty"`
	ExpiresAt   time.Time               `json:"expires_at"`
}

// CanView reports whether the session may read the representative's data.
func (s Session) CanView(rep models.RepresentativeID) bool {
	return s.Role == models.RoleManagement || s.RepID == rep
}

func (s Session) IsManagement() bool { return s.Role == models.RoleManagement }

type Service struct {
	users  map[string]models.Credential
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]Session
}

func NewService(creds []models.Credential, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	users := make(map[string]models.Credential, len(creds))
	for _, c := range creds {
		users[c.Username] = c
	}
	return &Service{
		users:    users,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		sessions: make(map[string]Session),
	}
}

// Authenticate verifies the login and opens a session. A correct password with
// the wrong role yields ErrRoleMismatch.
func (s *Service) Authenticate(username, password string, role models.Role) (Session, error) {
	cred, ok := s.users[strings.TrimSpace(username)]
	if !ok || !passwordMatches(cred.Password, password) {
		s.logger.Warn("login rejected", "username", username, "reason", "credentials")
		return Session{}, ErrInvalidCredentials
	}
	if cred.Role != role {
		s.logger.Warn("login rejected", "username", username, "reason", "role")
		return Session{}, fmt.Errorf("%w: %s is not %s", ErrRoleMismatch, cred.Username, role)
	}

	sess := Session{
		Token:       uuid.NewString(),
		Username:    cred.Username,
		DisplayName: cred.DisplayName,
		Role:        cred.Role,
		ExpiresAt:   s.now().Add(s.ttl),
	}
	if cred.Role == models.RoleSalesRep {
		sess.RepID = models.RepresentativeID(cred.DisplayName)
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	s.logger.Info("login", "username", cred.Username, "role", cred.Role)
	return sess, nil
}

// passwordMatches accepts bcrypt hashes and, for legacy files, plain text.
func passwordMatches(stored, given string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func (s *Service) Session(token string) (Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return Session{}, ErrInvalidCredentials
	}
	if !s.now().Before(sess.ExpiresAt) {
		s.Logout(token)
		return Session{}, ErrSessionExpired
	}
	return sess, nil
}

func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Service) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// HashPassword is used by the CLI to prepare users files.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
