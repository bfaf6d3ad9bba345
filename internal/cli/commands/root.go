// Package commands implements repctl, which runs the dashboard reports
// against a ledger file without starting the web server.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const (
	version     = "1.0.0"
	loadTimeout = 2 * time.Minute
)

// options holds the flags shared by every report.
type options struct {
	configFile   string
	csvFile      string
	activityFile string
	cacheDir     string
	start        string
	end          string
	logLevel     string
	noCache      bool

	stdout io.Writer
	stderr io.Writer
}

// NewRootCommand builds the repctl command tree writing reports to stdout and
// logs to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:     "repctl",
		Short:   "Sales performance reports from the command line",
		Version: version,
		Long: `repctl loads a transaction ledger (and optionally the activity dataset)
and prints the same figures the dashboard shows, as JSON.`,
		Example: `  # Scorecard for one representative in Q1
  $ repctl rep "Jane Doe" --csv data.csv --start 2024-01-01 --end 2024-03-31

  # Management ranking
  $ repctl top-reps -n 10

  # Hash a password for the users file
  $ repctl hash-password s3cret`,
		SilenceUsage: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVar(&opts.configFile, "config", "", "config file (defaults to CONFIG_FILE)")
	f.StringVar(&opts.csvFile, "csv", "", "transaction ledger CSV (overrides CSV_FILE)")
	f.StringVar(&opts.activityFile, "activity", "", "activity CSV (overrides ACTIVITY_FILE)")
	f.StringVar(&opts.cacheDir, "cache-dir", "", "parsed ledger cache directory (overrides CACHE_DIR)")
	f.BoolVar(&opts.noCache, "no-cache", false, "always parse the ledger")
	f.StringVar(&opts.start, "start", "", "window start, YYYY-MM-DD (defaults to first ledger date)")
	f.StringVar(&opts.end, "end", "", "window end, YYYY-MM-DD (defaults to last ledger date)")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		newRepCommand(opts),
		newManagementCommand(opts),
		newTopRepsCommand(opts),
		newTopAccountsCommand(opts),
		newTerritoryCommand(opts),
		newScheduleCommand(opts),
		newActivityCommand(opts),
		newHashPasswordCommand(opts),
	)
	return root
}

// Execute runs repctl with the process arguments.
func Execute(ctx context.Context, stdout, stderr io.Writer) error {
	return NewRootCommand(stdout, stderr).ExecuteContext(ctx)
}

// load reads the configuration, applies flag overrides and loads the ledger.
func (o *options) load(ctx context.Context) (*services.Dashboard, *slog.Logger, error) {
	cfg, err := config.LoadFile(o.configFile)
	if err != nil {
		return nil, nil, err
	}
	if o.csvFile != "" {
		cfg.Data.Source = config.SourceCSV
		cfg.Data.CSVFile = o.csvFile
	}
	if o.activityFile != "" {
		cfg.Data.ActivityFile = o.activityFile
	}
	if o.cacheDir != "" {
		cfg.Data.CacheDir = o.cacheDir
	}
	if o.noCache {
		cfg.Data.CacheDir = ""
	}
	cfg.Logger.Level = o.logLevel
	logger := observability.NewLoggerTo(o.stderr, cfg.Logger)

	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	source, closeSource, err := services.OpenSource(ctx, cfg.Data, logger)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := closeSource(context.Background()); err != nil {
			logger.Warn("close data source", "error", err)
		}
	}()

	d := services.NewDashboard(source, services.ActivityFromFile(cfg.Data.ActivityFile, logger), logger)
	if err := d.Load(ctx); err != nil {
		return nil, nil, fmt.Errorf("load ledger: %w", err)
	}
	return d, logger, nil
}

// window resolves --start/--end against the loaded data span. A lone bound
// past either edge of the span gives an empty window.
func (o *options) window(d *services.Dashboard) (models.Window, error) {
	w := d.Engine().DataWindow()
	if o.start != "" {
		t, err := time.Parse(models.DateLayout, o.start)
		if err != nil {
			return models.Window{}, fmt.Errorf("--start: %w", err)
		}
		w.Start = t
	}
	if o.end != "" {
		t, err := time.Parse(models.DateLayout, o.end)
		if err != nil {
			return models.Window{}, fmt.Errorf("--end: %w", err)
		}
		w.End = t
	}
	if w.End.Before(w.Start) {
		switch {
		case o.start != "" && o.end != "":
			return models.Window{}, fmt.Errorf("--end %s is before --start %s", o.end, o.start)
		case o.start != "":
			w.End = w.Start
		default:
			w.Start = w.End
		}
	}
	return models.NewWindow(w.Start, w.End), nil
}

func (o *options) print(v any) error {
	enc := json.NewEncoder(o.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
