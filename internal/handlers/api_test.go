package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sales-dashboard/internal/auth"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/tables"
)

var testLogger = slog.New(slog.DiscardHandler)

var (
	managerSession = auth.Session{Username: "boss", DisplayName: "Boss", Role: models.RoleManagement}
	aliceSession   = auth.Session{Username: "alice", DisplayName: "Alice", Role: models.RoleSalesRep, RepID: "Alice"}
)

func tx(day string, loc, rep, city string, amount float64) models.Transaction {
	d, _ := time.Parse(models.DateLayout, day)
	return models.Transaction{
		Date:         d,
		LocationID:   loc,
		LocationName: loc + " Store",
		OrgName:      "Org " + loc,
		RepName:      rep,
		City:         city,
		Coordinates:  &models.GeoPoint{Latitude: 30.1, Longitude: -97.7},
		Address:      "1 Main St",
		Amount:       amount,
	}.WithCalendarFields()
}

func testDashboard(withActivity bool) *services.Dashboard {
	txns := []models.Transaction{
		tx("2024-01-05", "A1", "Alice", "Austin", 1000),
		tx("2024-02-10", "A1", "Alice", "Austin", 500),
		tx("2024-02-11", "B1", "Bob", "Dallas", 250),
	}
	snap := tables.Build(txns, tables.FixedTargets{"Alice": 2000, "Bob": 1000})
	snap.Source = "test"
	if withActivity {
		snap.Activity = &models.ActivityData{Records: []models.PerformanceRecord{
			{RepName: "Alice", Date: txns[0].Date, Month: 1, Year: 2024, Counts: map[string]int{models.ActivityEmail: 4, models.ActivityDiscoveryCall: 2}},
			{RepName: "Bob", Date: txns[2].Date, Month: 2, Year: 2024, Counts: map[string]int{models.ActivityEmail: 1}},
		}}
	}
	d := services.NewDashboard(nil, nil, testLogger)
	d.SetSnapshot(snap)
	return d
}

// serve routes the request through a mux so path values resolve.
func serve(pattern string, h http.HandlerFunc, target string, sess *auth.Session) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if sess != nil {
		req = req.WithContext(auth.WithSession(req.Context(), *sess))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	if into != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, into); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return env
}

func TestHandleHealth(t *testing.T) {
	h := NewAPIHandlers(testDashboard(false), testLogger)
	w := serve("GET /health", h.HandleHealth, "/health", nil)

	var body map[string]string
	decode(t, w, &body)
	if w.Code != http.StatusOK || body["status"] != "healthy" {
		t.Errorf("got %d %v", w.Code, body)
	}
}

func TestHandleStats(t *testing.T) {
	h := NewAPIHandlers(testDashboard(true), testLogger)
	w := serve("GET /admin/stats", h.HandleStats, "/admin/stats", &managerSession)

	var s services.Stats
	decode(t, w, &s)
	if s.Records != 3 || s.Representatives != 2 || !s.ActivityAvailable || s.Source != "test" {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestHandleRepMetrics(t *testing.T) {
	h := NewAPIHandlers(testDashboard(false), testLogger)
	const pattern = "GET /api/reps/{rep}/metrics"

	tests := []struct {
		name       string
		target     string
		sess       *auth.Session
		wantStatus int
		wantCode   string
		wantAmount float64
	}{
		{name: "own data", target: "/api/reps/Alice/metrics", sess: &aliceSession, wantStatus: http.StatusOK, wantAmount: 1500},
		{name: "window", target: "/api/reps/Alice/metrics?start=2024-02-01&end=2024-02-28", sess: &aliceSession, wantStatus: http.StatusOK, wantAmount: 500},
		{name: "management sees anyone", target: "/api/reps/Bob/metrics", sess: &managerSession, wantStatus: http.StatusOK, wantAmount: 250},
		{name: "other rep forbidden", target: "/api/reps/Bob/metrics", sess: &aliceSession, wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "unknown rep", target: "/api/reps/Zed/metrics", sess: &managerSession, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "bad date", target: "/api/reps/Alice/metrics?start=01/02/2024", sess: &aliceSession, wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "reversed window", target: "/api/reps/Alice/metrics?start=2024-03-01&end=2024-01-01", sess: &aliceSession, wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "start after data", target: "/api/reps/Alice/metrics?start=2025-01-01", sess: &aliceSession, wantStatus: http.StatusOK, wantAmount: 0},
		{name: "end before data", target: "/api/reps/Alice/metrics?end=2023-12-31", sess: &aliceSession, wantStatus: http.StatusOK, wantAmount: 0},
		{name: "no session", target: "/api/reps/Alice/metrics", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(pattern, h.HandleRepMetrics, tt.target, tt.sess)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			var m models.RepMetrics
			env := decode(t, w, &m)
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
				}
				return
			}
			if m.TotalAmount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", m.TotalAmount, tt.wantAmount)
			}
			if w.Header().Get("Cache-Control") != cacheControl {
				t.Errorf("Cache-Control = %q", w.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestHandleRepMetrics_Completion(t *testing.T) {
	h := NewAPIHandlers(testDashboard(false), testLogger)
	w := serve("GET /api/reps/{rep}/metrics", h.HandleRepMetrics, "/api/reps/Alice/metrics", &aliceSession)

	var m models.RepMetrics
	decode(t, w, &m)
	if m.Goal != 2000 || m.CompletionPct != 75 || m.BonusEligible || m.TotalCount != 2 {
		t.Errorf("unexpected metrics %+v", m)
	}
}

func TestHandleRepDailyAndTransactions(t *testing.T) {
	h := NewAPIHandlers(testDashboard(false), testLogger)

	w := serve("GET /api/reps/{rep}/daily", h.HandleRepDaily, "/api/reps/Alice/daily", &aliceSession)
	var daily []models.DailyTotal
	decode(t, w, &daily)
	if len(daily) != 2 || daily[0].Date != "2024-01-05" || daily[1].TotalAmount != 500 {
		t.Errorf("unexpected daily series %+v", daily)
	}

	w = serve("GET /api/reps/{rep}/transactions", h.HandleRepTransactions, "/api/reps/Alice/transactions", &aliceSession)
	var rows []models.RepTransactionRow
	decode(t, w, &rows)
	if len(rows) != 2 || rows[0].Month != "January" {
		t.Errorf("unexpected rows %+v", rows)
	}
}

func TestHandleRepTerritory(t *testing.T) {
	h := NewAPIHandlers(testDashboard(false), testLogger)
	w := serve("GET /api/reps/{rep}/territory", h.HandleRepTerritory, "/api/reps/Alice/territory", &aliceSession)

	var resp territoryResponse
	decode(t, w, &resp)
	if len(resp.Rollups) != 1 || resp.Rollups[0].City != "Austin" || resp.Rollups[0].TotalAmount != 1500 {
		t.Errorf("unexpected rollups %+v", resp.Rollups)
	}
	if len(resp.Points) != 1 || resp.Points[0].MarkerSize != 50 {
		t.Errorf("unexpected points %+v", resp.Points)
	}
}

func TestHandleRepSchedule(t *testing.T) {
	h := NewAPIHandlers(testDashboard(false), testLogger)
	const pattern = "GET /api/reps/{rep}/schedule"

	w := serve(pattern, h.HandleRepSchedule, "/api/reps/Alice/schedule?threshold=120000", &aliceSession)
	var s models.SyntheticSchedule
	decode(t, w, &s)
	if !s.Synthetic || s.AnnualThreshold != 120000 || len(s.Months()) != 12 {
		t.Errorf("unexpected schedule %+v", s)
	}

	again := serve(pattern, h.HandleRepSchedule, "/api/reps/Alice/schedule?threshold=120000", &aliceSession)
	if again.Body.String() != w.Body.String() {
		t.Error("schedule should be deterministic per representative")
	}

	w = serve(pattern, h.HandleRepSchedule, "/api/reps/Alice/schedule?threshold=lots", &aliceSession)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRepActivity(t *testing.T) {
	const pattern = "GET /api/reps/{rep}/activity"

	tests := []struct {
		name       string
		activity   bool
		target     string
		wantStatus int
		wantCode   string
	}{
		{name: "series", activity: true, target: "/api/reps/Alice/activity", wantStatus: http.StatusOK},
		{name: "group", activity: true, target: "/api/reps/Alice/activity?group=discovery", wantStatus: http.StatusOK},
		{name: "unknown group", activity: true, target: "/api/reps/Alice/activity?group=golf", wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "no rows in window", activity: true, target: "/api/reps/Alice/activity?start=2024-02-01", wantStatus: http.StatusNotFound, wantCode: "NO_DATA"},
		{name: "dataset missing", target: "/api/reps/Alice/activity", wantStatus: http.StatusNotFound, wantCode: "NO_DATA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAPIHandlers(testDashboard(tt.activity), testLogger)
			w := serve(pattern, h.HandleRepActivity, tt.target, &aliceSession)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			var s models.ActivitySeries
			env := decode(t, w, &s)
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
				}
				return
			}
			if len(s.Buckets) != 1 || s.Buckets[0].Label != "Jan 2024" {
				t.Errorf("unexpected series %+v", s)
			}
		})
	}
}

func TestHandleBonus(t *testing.T) {
	h := NewAPIHandlers(testDashboard(false), testLogger)

	w := serve("GET /api/bonus/standings", h.HandleBonusStandings, "/api/bonus/standings", &aliceSession)
	var standings []models.BonusStanding
	decode(t, w, &standings)
	if len(standings) != 2 {
		t.Fatalf("got %d standings", len(standings))
	}
	for _, s := range standings {
		if s.IsCurrentRep != (s.RepID == "Alice") {
			t.Errorf("current marker wrong for %+v", s)
		}
	}

	w = serve("GET /api/reps/{rep}/bonus", h.HandleRepBonus, "/api/reps/Alice/bonus", &aliceSession)
	var att models.BonusAttainment
	decode(t, w, &att)
	if att.CompletionPct != 75 || att.PayoutPct != 35 {
		t.Errorf("unexpected attainment %+v", att)
	}
}

func TestHandleManagementEndpoints(t *testing.T) {
	h := NewAPIHandlers(testDashboard(false), testLogger)

	w := serve("GET /api/management/metrics", h.HandleManagementMetrics, "/api/management/metrics", &managerSession)
	var m models.ManagementMetrics
	decode(t, w, &m)
	if m.TotalAmount != 1750 || m.TotalCount != 3 || m.Goal != 3000 {
		t.Errorf("unexpected management metrics %+v", m)
	}

	w = serve("GET /api/management/top-reps", h.HandleTopReps, "/api/management/top-reps?n=1", &managerSession)
	var reps []models.RepAmount
	decode(t, w, &reps)
	if len(reps) != 1 || reps[0].RepName != "Alice" {
		t.Errorf("unexpected top reps %+v", reps)
	}

	w = serve("GET /api/management/top-reps", h.HandleTopReps, "/api/management/top-reps?n=-1", &managerSession)
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative n: status = %d", w.Code)
	}

	w = serve("GET /api/management/top-accounts", h.HandleTopAccounts, "/api/management/top-accounts", &managerSession)
	var accounts []models.AccountAmount
	decode(t, w, &accounts)
	if len(accounts) != 2 || accounts[0].AccountID != "A1" {
		t.Errorf("unexpected top accounts %+v", accounts)
	}

	w = serve("GET /api/management/territory", h.HandleManagementTerritory, "/api/management/territory", &managerSession)
	var terr territoryResponse
	decode(t, w, &terr)
	if len(terr.Rollups) != 2 {
		t.Errorf("unexpected territory %+v", terr)
	}

	w = serve("GET /api/management/transactions", h.HandleManagementTransactions, "/api/management/transactions", &managerSession)
	var rows []models.ManagementTransactionRow
	decode(t, w, &rows)
	if len(rows) != 2 || rows[0].RepName != "Alice" {
		t.Errorf("unexpected management rows %+v", rows)
	}
}

func TestHandleActivitySummary(t *testing.T) {
	h := NewAPIHandlers(testDashboard(true), testLogger)
	w := serve("GET /api/management/activity", h.HandleActivitySummary, "/api/management/activity", &managerSession)

	var s models.ActivitySummary
	decode(t, w, &s)
	if len(s.TopPerformers) == 0 || s.TopPerformers[0].RepName != "Alice" {
		t.Errorf("unexpected summary %+v", s)
	}

	h = NewAPIHandlers(testDashboard(false), testLogger)
	w = serve("GET /api/management/activity", h.HandleActivitySummary, "/api/management/activity", &managerSession)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "NO_DATA") {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}
}

func TestHandleRepresentatives(t *testing.T) {
	h := NewAPIHandlers(testDashboard(false), testLogger)

	tests := []struct {
		name string
		sess *auth.Session
		want int
	}{
		{"management", &managerSession, 2},
		{"sales rep", &aliceSession, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve("GET /api/reps", h.HandleRepresentatives, "/api/reps", tt.sess)
			var reps []models.Representative
			decode(t, w, &reps)
			if len(reps) != tt.want {
				t.Errorf("got %d reps, want %d", len(reps), tt.want)
			}
		})
	}
}

func BenchmarkHandleTopAccounts(b *testing.B) {
	h := NewAPIHandlers(testDashboard(false), testLogger)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/management/top-accounts", h.HandleTopAccounts)
	req := httptest.NewRequest(http.MethodGet, "/api/management/top-accounts", nil)
	req = req.WithContext(auth.WithSession(req.Context(), managerSession))

	for b.Loop() {
		mux.ServeHTTP(httptest.NewRecorder(), req)
	}
}
