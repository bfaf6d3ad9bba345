package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"sales-dashboard/internal/auth"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/tables"
)

var testLogger = slog.New(slog.DiscardHandler)

func newTestServer(t *testing.T) (*Server, *auth.Service) {
	t.Helper()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	snap := tables.Build([]models.Transaction{
		models.Transaction{Date: day, LocationID: "A1", RepName: "Alice", City: "Austin", Amount: 900}.WithCalendarFields(),
		models.Transaction{Date: day, LocationID: "B1", RepName: "Bob", City: "Dallas", Amount: 100}.WithCalendarFields(),
	}, tables.FixedTargets{"Alice": 1000, "Bob": 1000})

	d := services.NewDashboard(nil, nil, testLogger)
	d.SetSnapshot(snap)

	svc := auth.NewService([]models.Credential{
		{Username: "alice", Password: "pw", Role: models.RoleSalesRep, DisplayName: "Alice"},
		{Username: "boss", Password: "pw", Role: models.RoleManagement, DisplayName: "Boss"},
	}, time.Hour, testLogger)
	return NewServer(d, svc, false, testLogger), svc
}

func TestServerRoutes(t *testing.T) {
	srv, svc := newTestServer(t)
	alice, err := svc.Authenticate("alice", "pw", models.RoleSalesRep)
	if err != nil {
		t.Fatal(err)
	}
	boss, err := svc.Authenticate("boss", "pw", models.RoleManagement)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"login page is public", http.MethodGet, "/login", "", http.StatusOK},
		{"dashboard redirects", http.MethodGet, "/", "", http.StatusSeeOther},
		{"dashboard renders", http.MethodGet, "/", alice.Token, http.StatusOK},
		{"api needs session", http.MethodGet, "/api/reps/Alice/metrics", "", http.StatusUnauthorized},
		{"own metrics", http.MethodGet, "/api/reps/Alice/metrics", alice.Token, http.StatusOK},
		{"other rep", http.MethodGet, "/api/reps/Bob/metrics", alice.Token, http.StatusForbidden},
		{"management only", http.MethodGet, "/api/management/metrics", alice.Token, http.StatusForbidden},
		{"management metrics", http.MethodGet, "/api/management/metrics", boss.Token, http.StatusOK},
		{"stats for management", http.MethodGet, "/admin/stats", boss.Token, http.StatusOK},
		{"sse for rep", http.MethodGet, "/sse/overview", alice.Token, http.StatusOK},
		{"sse management only", http.MethodGet, "/sse/top-reps", alice.Token, http.StatusForbidden},
		{"unknown token", http.MethodGet, "/api/session", "nope", http.StatusUnauthorized},
		{"unknown path", http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: tt.token})
			}
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("%s %s = %d, want %d: %s", tt.method, tt.path, w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestServer_BearerToken(t *testing.T) {
	srv, svc := newTestServer(t)
	boss, err := svc.Authenticate("boss", "pw", models.RoleManagement)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/management/top-reps", nil)
	req.Header.Set("Authorization", "Bearer "+boss.Token)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Alice") {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}
}

func TestGracefulServer_Shutdown(t *testing.T) {
	srv, _ := newTestServer(t)
	httpServer := &http.Server{Handler: srv}
	gs := NewGracefulServer(httpServer, testLogger, config.ServerConfig{ShutdownTimeout: 5 * time.Second})

	var ran atomic.Int32
	gs.RegisterShutdownHook("first", func(context.Context) error { ran.Add(1); return nil })
	gs.RegisterShutdownHook("second", func(context.Context) error { ran.Add(1); return nil })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	if ran.Load() != 2 {
		t.Errorf("ran %d hooks, want 2", ran.Load())
	}
}

func TestGracefulServer_HookError(t *testing.T) {
	gs := NewGracefulServer(&http.Server{}, testLogger, config.ServerConfig{ShutdownTimeout: time.Second})
	boom := errors.New("boom")
	gs.RegisterShutdownHook("source", func(context.Context) error { return boom })

	if err := gs.Shutdown(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Shutdown() = %v, want boom", err)
	}
}
