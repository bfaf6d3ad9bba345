package handlers

import (
	"encoding/json"
	stderrors "errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/activity"
	"sales-dashboard/internal/auth"
	"sales-dashboard/internal/metrics"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const maxTableRows = 50

var funcs = template.FuncMap{
	"money": formatMoney,
	"pct":   func(v float64) string { return formatFloat(v, 1) + "%" },
}

var panels = template.Must(template.New("panels").Funcs(funcs).Parse(`
{{define "cards"}}<div id="kpi-cards" class="cards">
{{range .}}<div class="card"><h3>{{.Label}}</h3><p>{{.Value}}</p></div>{{end}}
</div>{{end}}

{{define "top-reps"}}<div id="top-reps"><table class="modern-table">
<thead><tr><th>Representative</th><th>Processing</th></tr></thead>
<tbody>{{range .}}<tr><td>{{.RepName}}</td><td><strong>{{money .TotalAmount}}</strong></td></tr>{{end}}</tbody>
</table></div>{{end}}

{{define "top-accounts"}}<div id="top-accounts"><table class="modern-table">
<thead><tr><th>Account</th><th>Organization</th><th>Representative</th><th>Processing</th><th>Share</th></tr></thead>
<tbody>{{range .}}<tr><td>{{.AccountName}}</td><td>{{.OrgName}}</td><td>{{.RepName}}</td><td>{{money .TotalAmount}}</td><td>{{pct .SharePct}}</td></tr>{{end}}</tbody>
</table></div>{{end}}

{{define "territory"}}<div id="territory"><table class="modern-table">
<thead><tr><th>City</th><th>Processing</th><th>Transactions</th><th>Address</th></tr></thead>
<tbody>{{range .}}<tr><td>{{.City}}</td><td>{{money .TotalAmount}}</td><td>{{.TotalTransactions}}</td><td>{{.Address}}</td></tr>{{end}}</tbody>
</table></div>{{end}}

{{define "bonus"}}<div id="bonus"><table class="modern-table">
<thead><tr><th>Representative</th><th>Completion</th><th>Tier</th></tr></thead>
<tbody>{{range .}}<tr{{if .IsCurrentRep}} class="current"{{end}}><td>{{.RepName}}</td><td>{{pct .CompletionPct}}</td><td>{{.Tier}}</td></tr>{{end}}</tbody>
</table></div>{{end}}

{{define "schedule"}}<div id="schedule"><p class="placeholder">Illustrative figures only. Not derived from processing data.</p><table class="modern-table">
<thead><tr><th>Month</th><th>Target</th><th>Actual</th><th>Completion</th><th>Base rate</th><th>Bonus rate</th><th>Total</th></tr></thead>
<tbody>{{range .Months}}<tr><td>{{.Month}}</td><td>{{money .Target}}</td><td>{{money .Actual}}</td><td>{{pct .CompletionPct}}</td><td>{{pct .BaseRate}}</td><td>{{pct .BonusRate}}</td><td>{{money .Total}}</td></tr>{{end}}</tbody>
</table></div>{{end}}

{{define "activity"}}<div id="activity"><table class="modern-table">
<thead><tr><th>Month</th>{{range .Metrics}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range $b := .Buckets}}<tr><td>{{$b.Label}}</td>{{range $.Metrics}}<td>{{index $b.Counts .}}</td>{{end}}</tr>{{end}}</tbody>
</table></div>{{end}}

{{define "activity-summary"}}<div id="activity"><table class="modern-table">
<thead><tr><th>Activity</th><th>Total</th><th>Average</th><th>Std Dev</th></tr></thead>
<tbody>{{range .Stats}}<tr><td>{{.Metric}}</td><td>{{.Total}}</td><td>{{printf "%.1f" .Mean}}</td><td>{{printf "%.1f" .StdDev}}</td></tr>{{end}}</tbody>
</table>
<h3>Top performers</h3><ol>{{range .TopPerformers}}<li>{{.RepName}} ({{.Total}})</li>{{end}}</ol></div>{{end}}

{{define "empty"}}<div id="{{.ID}}"><p class="placeholder">{{.Message}}</p></div>{{end}}
`))

var errNoRows = stderrors.New("no rows in window")

type card struct {
	Label string
	Value string
}

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

func render(name string, data any) (string, error) {
	var buf strings.Builder
	err := panels.ExecuteTemplate(&buf, name, data)
	return buf.String(), err
}

// patch renders a panel and streams it, falling back to a "no data" notice
// when the query failed.
func (h *SSEHandlers) patch(r *http.Request, sse *datastar.ServerSentEventGenerator, id, name string, data any, queryErr error) {
	logger := observability.LoggerFrom(r.Context(), h.logger)
	var (
		html string
		err  error
	)
	if queryErr != nil {
		html, err = render("empty", map[string]string{"ID": id, "Message": emptyMessage(queryErr)})
	} else {
		html, err = render(name, data)
	}
	if err != nil {
		logger.Error("render panel", "panel", id, "error", err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		logger.Warn("patch panel", "panel", id, "error", err)
	}
}

func (h *SSEHandlers) signals(r *http.Request, sse *datastar.ServerSentEventGenerator, values map[string]any) {
	data, err := json.Marshal(values)
	if err != nil {
		observability.LoggerFrom(r.Context(), h.logger).Error("marshal signals", "error", err)
		return
	}
	if err := sse.PatchSignals(data); err != nil {
		observability.LoggerFrom(r.Context(), h.logger).Warn("patch signals", "error", err)
	}
}

func emptyMessage(err error) string {
	switch {
	case stderrors.Is(err, activity.ErrActivityUnavailable):
		return "Activity data is not available."
	case stderrors.Is(err, activity.ErrNoActivity):
		return "No activity recorded for this period."
	case stderrors.Is(err, metrics.ErrUnknownRepresentative):
		return "No data for this representative."
	default:
		return "No data available."
	}
}

func limit[T any](rows []T) []T {
	return rows[:min(len(rows), maxTableRows)]
}

// HandleOverview streams the KPI cards for the signed-in persona.
func (h *SSEHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	e := h.dashboard.Engine()
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	if sess.IsManagement() {
		m := e.ManagementMetrics(win)
		h.patch(r, sse, "kpi-cards", "cards", []card{
			{"Total Processing", formatMoney(m.TotalAmount)},
			{"Transactions", formatInt(m.TotalCount)},
			{"Combined Goal", formatMoney(m.Goal)},
			{"Completion", formatFloat(m.CompletionPct, 1) + "%"},
			{"Bonus Eligible Reps", formatInt(m.EligibleCount)},
		}, nil)
		h.signals(r, sse, map[string]any{"managementMetrics": m})
		return
	}

	m, err := e.RepMetrics(sess.RepID, win)
	if err != nil {
		h.patch(r, sse, "kpi-cards", "cards", nil, err)
		return
	}
	eligible := "No"
	if m.BonusEligible {
		eligible = "Yes"
	}
	h.patch(r, sse, "kpi-cards", "cards", []card{
		{"Total Processed", formatMoney(m.TotalAmount)},
		{"Transactions", formatInt(m.TotalCount)},
		{"Goal", formatMoney(m.Goal)},
		{"Completion", formatFloat(m.CompletionPct, 1) + "%"},
		{"Bonus Eligible", eligible},
	}, nil)
	daily, _ := e.DailySeries(sess.RepID, win)
	h.signals(r, sse, map[string]any{"repMetrics": m, "dailySeries": daily})
}

func (h *SSEHandlers) HandleTopReps(w http.ResponseWriter, r *http.Request) {
	e := h.dashboard.Engine()
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	top := e.TopNByAmount(win, metrics.DefaultTopReps)
	sse := datastar.NewSSE(w, r)
	h.patch(r, sse, "top-reps", "top-reps", top, nil)
	h.signals(r, sse, map[string]any{"topReps": top})
}

func (h *SSEHandlers) HandleTopAccounts(w http.ResponseWriter, r *http.Request) {
	e := h.dashboard.Engine()
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	top := e.TopAccountsByAmount(win, metrics.DefaultTopAccounts)
	sse := datastar.NewSSE(w, r)
	h.patch(r, sse, "top-accounts", "top-accounts", top, nil)
	h.signals(r, sse, map[string]any{"topAccounts": top})
}

// HandleTerritory streams the city table and the map points; sales
// representatives only see their own accounts.
func (h *SSEHandlers) HandleTerritory(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	e := h.dashboard.Engine()
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	var rep *models.RepresentativeID
	if !sess.IsManagement() {
		rep = &sess.RepID
	}
	rollups, queryErr := e.TerritoryMap(win, rep)

	sse := datastar.NewSSE(w, r)
	if queryErr == nil && len(rollups) == 0 {
		h.patch(r, sse, "territory", "territory", nil, errNoRows)
		return
	}
	h.patch(r, sse, "territory", "territory", limit(rollups), queryErr)
	if queryErr == nil {
		h.signals(r, sse, map[string]any{"mapPoints": metrics.MapPoints(rollups)})
	}
}

func (h *SSEHandlers) HandleBonus(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	var current *models.RepresentativeID
	if sess.RepID != "" {
		current = &sess.RepID
	}
	standings := h.dashboard.Engine().BonusStandings(current)
	sse := datastar.NewSSE(w, r)
	h.patch(r, sse, "bonus", "bonus", standings, nil)
	if sess.RepID != "" {
		if att, err := h.dashboard.Engine().BonusAttainment(sess.RepID); err == nil {
			h.signals(r, sse, map[string]any{"bonusAttainment": att})
		}
	}
}

func (h *SSEHandlers) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	rep, err := repParam(r)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	s, queryErr := h.dashboard.Schedule(rep, nil)
	sse := datastar.NewSSE(w, r)
	h.patch(r, sse, "schedule", "schedule", s, queryErr)
}

func (h *SSEHandlers) HandleRepActivity(w http.ResponseWriter, r *http.Request) {
	rep, err := repParam(r)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	e := h.dashboard.Engine()
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	series, queryErr := activity.Series(h.dashboard.Activity(), rep, win, activity.Group(r.URL.Query().Get("group")))
	sse := datastar.NewSSE(w, r)
	h.patch(r, sse, "activity", "activity", series, queryErr)
}

func (h *SSEHandlers) HandleActivitySummary(w http.ResponseWriter, r *http.Request) {
	summary, queryErr := activity.Summarize(h.dashboard.Activity(), activity.DefaultTopPerformers)
	sse := datastar.NewSSE(w, r)
	h.patch(r, sse, "activity", "activity-summary", summary, queryErr)
}
