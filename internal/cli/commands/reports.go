package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/activity"
	"sales-dashboard/internal/metrics"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

// windowed loads the ledger and hands the report its window.
func windowed(opts *options, report func(d *services.Dashboard, w models.Window, args []string) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		d, _, err := opts.load(cmd.Context())
		if err != nil {
			return err
		}
		w, err := opts.window(d)
		if err != nil {
			return err
		}
		out, err := report(d, w, args)
		if err != nil {
			return err
		}
		return opts.print(out)
	}
}

func newRepCommand(opts *options) *cobra.Command {
	var daily bool
	cmd := &cobra.Command{
		Use:   "rep <representative>",
		Short: "scorecard for one representative",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&daily, "daily", false, "include the daily series and transaction table")
	cmd.RunE = windowed(opts, func(d *services.Dashboard, w models.Window, args []string) (any, error) {
		id := models.RepresentativeID(args[0])
		e := d.Engine()
		m, err := e.RepMetrics(id, w)
		if err != nil {
			return nil, err
		}
		if !daily {
			return m, nil
		}
		series, err := e.DailySeries(id, w)
		if err != nil {
			return nil, err
		}
		rows, err := e.RepTransactionTable(id, w)
		if err != nil {
			return nil, err
		}
		return map[string]any{"metrics": m, "daily": series, "transactions": rows}, nil
	})
	return cmd
}

func newManagementCommand(opts *options) *cobra.Command {
	var table bool
	cmd := &cobra.Command{
		Use:   "management",
		Short: "totals across every representative",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().BoolVar(&table, "table", false, "include the per representative and organization table")
	cmd.RunE = windowed(opts, func(d *services.Dashboard, w models.Window, _ []string) (any, error) {
		m := d.Engine().ManagementMetrics(w)
		if !table {
			return m, nil
		}
		return map[string]any{"metrics": m, "transactions": d.Engine().ManagementTable(w)}, nil
	})
	return cmd
}

func newTopRepsCommand(opts *options) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "top-reps",
		Short: "representatives ranked by processing amount",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().IntVarP(&n, "limit", "n", metrics.DefaultTopReps, "number of representatives")
	cmd.RunE = windowed(opts, func(d *services.Dashboard, w models.Window, _ []string) (any, error) {
		if n < 0 {
			return nil, fmt.Errorf("--limit must not be negative")
		}
		return d.Engine().TopNByAmount(w, n), nil
	})
	return cmd
}

func newTopAccountsCommand(opts *options) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "top-accounts",
		Short: "accounts ranked by processing amount with their share",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().IntVarP(&n, "limit", "n", metrics.DefaultTopAccounts, "number of accounts")
	cmd.RunE = windowed(opts, func(d *services.Dashboard, w models.Window, _ []string) (any, error) {
		if n < 0 {
			return nil, fmt.Errorf("--limit must not be negative")
		}
		return d.Engine().TopAccountsByAmount(w, n), nil
	})
	return cmd
}

func newTerritoryCommand(opts *options) *cobra.Command {
	var rep string
	cmd := &cobra.Command{
		Use:   "territory",
		Short: "processing rolled up by city",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&rep, "rep", "", "restrict to one representative's accounts")
	cmd.RunE = windowed(opts, func(d *services.Dashboard, w models.Window, _ []string) (any, error) {
		var id *models.RepresentativeID
		if rep != "" {
			r := models.RepresentativeID(rep)
			id = &r
		}
		rollups, err := d.Engine().TerritoryMap(w, id)
		if err != nil {
			return nil, err
		}
		return map[string]any{"rollups": rollups, "points": metrics.MapPoints(rollups)}, nil
	})
	return cmd
}

func newScheduleCommand(opts *options) *cobra.Command {
	var threshold float64
	cmd := &cobra.Command{
		Use:   "schedule <representative>",
		Short: "illustrative compensation schedule (synthetic figures)",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "annual threshold (defaults to the built-in placeholder)")
	cmd.RunE = windowed(opts, func(d *services.Dashboard, _ models.Window, args []string) (any, error) {
		var t *float64
		if cmd.Flags().Changed("threshold") {
			t = &threshold
		}
		return d.Schedule(models.RepresentativeID(args[0]), t)
	})
	return cmd
}

func newActivityCommand(opts *options) *cobra.Command {
	var (
		rep   string
		group string
		top   int
	)
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "activity summary, or one representative's monthly series",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&rep, "rep", "", "monthly series for this representative")
	cmd.Flags().StringVar(&group, "group", "", "metric group: discovery, demo or all")
	cmd.Flags().IntVar(&top, "top", activity.DefaultTopPerformers, "number of top performers")
	cmd.RunE = windowed(opts, func(d *services.Dashboard, w models.Window, _ []string) (any, error) {
		if rep != "" {
			return activity.Series(d.Activity(), models.RepresentativeID(rep), w, activity.Group(group))
		}
		return activity.Summarize(d.Activity(), top)
	})
	return cmd
}
