package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/activity"
	"sales-dashboard/internal/auth"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/metrics"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats())
}

// HandleReload rebuilds the snapshot. A failed load still answers with the
// new (empty) stats so the caller can see what happened.
func (h *APIHandlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Reload(r.Context()); err != nil {
		fail(w, r, h.logger, errors.Wrap(err, errors.CodeServiceUnavail, "reload failed, serving empty dashboard"))
		return
	}
	errors.WriteSuccess(w, h.dashboard.Stats())
}

// HandleRepresentatives lists the representatives the session may view.
func (h *APIHandlers) HandleRepresentatives(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	reps := h.dashboard.Engine().Representatives()
	if !sess.IsManagement() {
		visible := make([]models.Representative, 0, 1)
		for _, rep := range reps {
			if sess.CanView(rep.ID) {
				visible = append(visible, rep)
			}
		}
		reps = visible
	}
	respond(w, reps)
}

func (h *APIHandlers) HandleRepMetrics(w http.ResponseWriter, r *http.Request) {
	e := h.dashboard.Engine()
	rep, err := repParam(r)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	m, err := e.RepMetrics(rep, win)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	respond(w, m)
}

func (h *APIHandlers) HandleRepDaily(w http.ResponseWriter, r *http.Request) {
	e := h.dashboard.Engine()
	rep, err := repParam(r)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	series, err := e.DailySeries(rep, win)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	respond(w, series)
}

func (h *APIHandlers) HandleRepTransactions(w http.ResponseWriter, r *http.Request) {
	e := h.dashboard.Engine()
	rep, err := repParam(r)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	rows, err := e.RepTransactionTable(rep, win)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	respond(w, rows)
}

type territoryResponse struct {
	Rollups []models.TerritoryRollup `json:"rollups"`
	Points  []models.MapPoint        `json:"points"`
}

func (h *APIHandlers) HandleRepTerritory(w http.ResponseWriter, r *http.Request) {
	e := h.dashboard.Engine()
	rep, err := repParam(r)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	rollups, err := e.TerritoryMap(win, &rep)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	respond(w, territoryResponse{Rollups: rollups, Points: metrics.MapPoints(rollups)})
}

func (h *APIHandlers) HandleRepSchedule(w http.ResponseWriter, r *http.Request) {
	rep, err := repParam(r)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	threshold, err := floatParam(r, "threshold")
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	s, err := h.dashboard.Schedule(rep, threshold)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	respond(w, s)
}

func (h *APIHandlers) HandleRepActivity(w http.ResponseWriter, r *http.Request) {
	e := h.dashboard.Engine()
	rep, err := repParam(r)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	series, err := activity.Series(h.dashboard.Activity(), rep, win, activity.Group(r.URL.Query().Get("group")))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	respond(w, series)
}

func (h *APIHandlers) HandleRepBonus(w http.ResponseWriter, r *http.Request) {
	rep, err := repParam(r)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	att, err := h.dashboard.Engine().BonusAttainment(rep)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	respond(w, att)
}

// HandleBonusStandings marks the caller's own row for sales representatives.
func (h *APIHandlers) HandleBonusStandings(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	var current *models.RepresentativeID
	if sess.RepID != "" {
		current = &sess.RepID
	}
	respond(w, h.dashboard.Engine().BonusStandings(current))
}

func (h *APIHandlers) HandleManagementMetrics(w http.ResponseWriter, r *http.Request) {
	e := h.dashboard.Engine()
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	respond(w, e.ManagementMetrics(win))
}

func (h *APIHandlers) HandleTopReps(w http.ResponseWriter, r *http.Request) {
	e := h.dashboard.Engine()
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	n, err := intParam(r, "n", metrics.DefaultTopReps)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	respond(w, e.TopNByAmount(win, n))
}

func (h *APIHandlers) HandleTopAccounts(w http.ResponseWriter, r *http.Request) {
	e := h.dashboard.Engine()
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	n, err := intParam(r, "n", metrics.DefaultTopAccounts)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	respond(w, e.TopAccountsByAmount(win, n))
}

func (h *APIHandlers) HandleManagementTerritory(w http.ResponseWriter, r *http.Request) {
	e := h.dashboard.Engine()
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	rollups, err := e.TerritoryMap(win, nil)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	respond(w, territoryResponse{Rollups: rollups, Points: metrics.MapPoints(rollups)})
}

func (h *APIHandlers) HandleManagementTransactions(w http.ResponseWriter, r *http.Request) {
	e := h.dashboard.Engine()
	win, err := window(r, e)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	respond(w, e.ManagementTable(win))
}

func (h *APIHandlers) HandleActivitySummary(w http.ResponseWriter, r *http.Request) {
	top, err := intParam(r, "top", activity.DefaultTopPerformers)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	summary, err := activity.Summarize(h.dashboard.Activity(), top)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	respond(w, summary)
}
