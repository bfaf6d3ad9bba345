// Package services owns the loaded snapshot and rebuilds it on demand.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/metrics"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/schedule"
	"sales-dashboard/internal/tables"
)

// ActivityLoader loads the optional activity dataset; nil data means absent.
type ActivityLoader func(ctx context.Context) (*models.ActivityData, error)

// Stats describes the current snapshot.
type Stats struct {
	Source            string    `json:"source"`
	Records           int       `json:"records"`
	Dropped           int       `json:"dropped"`
	Representatives   int       `json:"representatives"`
	Accounts          int       `json:"accounts"`
	Territories       int       `json:"territories"`
	ActivityAvailable bool      `json:"activity_available"`
	LoadedAt          time.Time `json:"loaded_at"`
	LoadError         string    `json:"load_error,omitempty"`
}

// Dashboard holds the current engine. Readers take the engine once per
// request; Reload swaps it atomically under the lock.
type Dashboard struct {
	source    dataset.Source
	activity  ActivityLoader
	targets   tables.TargetSource
	generator *schedule.Generator
	logger    *slog.Logger

	mu     sync.RWMutex
	engine *metrics.Engine
	stats  Stats
}

func NewDashboard(source dataset.Source, activity ActivityLoader, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dashboard{
		source:    source,
		activity:  activity,
		targets:   tables.SyntheticTargets{},
		generator: schedule.NewGenerator(nil),
		logger:    logger,
	}
	d.install(tables.Empty(), dataset.LoadStats{}, nil)
	return d
}

// Load rebuilds the snapshot from the source. On failure the error is logged
// once, an empty snapshot is installed and the error is returned.
func (d *Dashboard) Load(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, "dashboard.load")
	defer span.End(d.logger)

	var loadErr error
	snap := tables.Empty()
	var stats dataset.LoadStats

	if d.source == nil {
		loadErr = fmt.Errorf("no transaction source configured")
	} else {
		span.SetTag("source", d.source.Name())
		txns, s, err := d.source.Load(ctx)
		if err != nil {
			loadErr = fmt.Errorf("load %s: %w", d.source.Name(), err)
		} else {
			snap = tables.Build(txns, d.targets)
			stats = s
		}
		snap.Source = d.source.Name()
	}
	if loadErr != nil {
		span.SetError(loadErr)
		d.logger.Error("transaction data unavailable, serving empty dashboard", "error", loadErr)
	}

	if d.activity != nil {
		data, err := d.activity(ctx)
		if err != nil {
			d.logger.Warn("activity data unavailable", "error", err)
		}
		snap.Activity = data
	}

	d.install(snap, stats, loadErr)
	return loadErr
}

// Reload is Load under its operational name.
func (d *Dashboard) Reload(ctx context.Context) error {
	return d.Load(ctx)
}

// SetSnapshot installs a prebuilt snapshot.
func (d *Dashboard) SetSnapshot(snap *tables.Snapshot) {
	d.install(snap, dataset.LoadStats{Rows: len(snap.Transactions), Kept: len(snap.Transactions)}, nil)
}

func (d *Dashboard) install(snap *tables.Snapshot, ls dataset.LoadStats, loadErr error) {
	engine := metrics.NewEngine(snap)
	stats := Stats{
		Source:            snap.Source,
		Records:           len(snap.Transactions),
		Dropped:           ls.Dropped,
		Representatives:   len(snap.Representatives),
		Accounts:          len(snap.Accounts),
		Territories:       len(snap.Territories),
		ActivityAvailable: snap.Activity != nil,
		LoadedAt:          snap.LoadedAt,
	}
	if loadErr != nil {
		stats.LoadError = loadErr.Error()
	}

	d.mu.Lock()
	d.engine = engine
	d.stats = stats
	d.mu.Unlock()

	d.logger.Info("dashboard snapshot installed",
		"records", stats.Records,
		"dropped", stats.Dropped,
		"representatives", stats.Representatives,
		"activity", stats.ActivityAvailable,
	)
}

func (d *Dashboard) Engine() *metrics.Engine {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.engine
}

func (d *Dashboard) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stats
}

func (d *Dashboard) Activity() *models.ActivityData {
	return d.Engine().Snapshot().Activity
}

// Schedule generates the placeholder compensation schedule. Without an explicit
// threshold it uses the representative's bonus threshold, then the generator
// default. It fails only for unknown representatives.
func (d *Dashboard) Schedule(id models.RepresentativeID, threshold *float64) (models.SyntheticSchedule, error) {
	e := d.Engine()
	if !e.HasRepresentative(id) {
		return models.SyntheticSchedule{}, fmt.Errorf("%w: %q", metrics.ErrUnknownRepresentative, id)
	}
	if threshold == nil {
		if t, ok := e.Snapshot().Targets[id]; ok && t.BonusThreshold > 0 {
			threshold = &t.BonusThreshold
		}
	}
	return d.generator.Generate(id, threshold), nil
}
