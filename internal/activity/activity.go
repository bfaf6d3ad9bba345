// Package activity summarizes the optional call/visit/demo dataset.
package activity

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/montanaflynn/stats"

	"sales-dashboard/internal/models"
)

var (
	ErrActivityUnavailable = errors.New("activity data unavailable")
	ErrNoActivity          = errors.New("no activity recorded")
	ErrUnknownGroup        = errors.New("unknown activity group")
)

type Group string

const (
	GroupDiscovery Group = "discovery"
	GroupDemo      Group = "demo"
	GroupAll       Group = "all"
)

const DefaultTopPerformers = 3

// Metrics returns the activity columns charted for a group.
func (g Group) Metrics() ([]string, error) {
	switch g {
	case GroupDiscovery:
		return []string{
			models.ActivityDiscoveryCall,
			models.ActivityFollowUpCall,
			models.ActivityEmail,
			models.ActivityDMAdded,
			models.ActivityDiscoveryVisit,
			models.ActivityFollowUpVisit,
		}, nil
	case GroupDemo:
		return []string{
			models.ActivityDemoScheduled,
			models.ActivityDemoCompleted,
			models.ActivityRegistration,
		}, nil
	case GroupAll, "":
		return slices.Clone(models.ActivityColumns), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, g)
	}
}

// Series buckets one representative's activity by calendar month. A missing
// dataset, a representative without rows and an empty window are reported as
// errors rather than as an empty series.
func Series(data *models.ActivityData, rep models.RepresentativeID, w models.Window, group Group) (models.ActivitySeries, error) {
	metrics, err := group.Metrics()
	if err != nil {
		return models.ActivitySeries{}, err
	}
	if data == nil {
		return models.ActivitySeries{}, ErrActivityUnavailable
	}

	type key struct {
		year  int
		month int
	}
	buckets := make(map[key]map[string]int)
	seenRep := false
	for _, rec := range data.Records {
		if models.RepresentativeID(rec.RepName) != rep {
			continue
		}
		seenRep = true
		if !w.Contains(rec.Date) {
			continue
		}
		k := key{year: rec.Year, month: rec.Month}
		counts, ok := buckets[k]
		if !ok {
			counts = make(map[string]int, len(metrics))
			for _, m := range metrics {
				counts[m] = 0
			}
			buckets[k] = counts
		}
		for _, m := range metrics {
			counts[m] += rec.Counts[m]
		}
	}
	if !seenRep {
		return models.ActivitySeries{}, fmt.Errorf("%w for %q", ErrNoActivity, rep)
	}
	if len(buckets) == 0 {
		return models.ActivitySeries{}, fmt.Errorf("%w for %q in window", ErrNoActivity, rep)
	}

	out := models.ActivitySeries{RepID: rep, Metrics: metrics, Buckets: make([]models.ActivityBucket, 0, len(buckets))}
	for k, counts := range buckets {
		out.Buckets = append(out.Buckets, models.ActivityBucket{
			Year:   k.year,
			Month:  k.month,
			Label:  bucketLabel(k.year, k.month),
			Counts: counts,
		})
	}
	slices.SortFunc(out.Buckets, func(a, b models.ActivityBucket) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Month, b.Month))
	})
	return out, nil
}

func bucketLabel(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

// Summarize computes per-representative totals across the whole dataset,
// per-metric total, mean and sample standard deviation across
// representatives, and the topN most active representatives.
func Summarize(data *models.ActivityData, topN int) (models.ActivitySummary, error) {
	if data == nil {
		return models.ActivitySummary{}, ErrActivityUnavailable
	}
	if len(data.Records) == 0 {
		return models.ActivitySummary{}, ErrNoActivity
	}
	if topN <= 0 {
		topN = DefaultTopPerformers
	}

	var order []string
	perRep := make(map[string]*models.RepActivity)
	for _, rec := range data.Records {
		ra, ok := perRep[rec.RepName]
		if !ok {
			ra = &models.RepActivity{RepName: rec.RepName, Counts: make(map[string]int, len(models.ActivityColumns))}
			perRep[rec.RepName] = ra
			order = append(order, rec.RepName)
		}
		for _, m := range models.ActivityColumns {
			ra.Counts[m] += rec.Counts[m]
			ra.Total += rec.Counts[m]
		}
	}

	summary := models.ActivitySummary{PerRep: make([]models.RepActivity, 0, len(order))}
	for _, name := range order {
		summary.PerRep = append(summary.PerRep, *perRep[name])
	}

	for _, m := range models.ActivityColumns {
		values := make(stats.Float64Data, 0, len(order))
		for _, ra := range summary.PerRep {
			values = append(values, float64(ra.Counts[m]))
		}
		stat, err := metricStat(m, values)
		if err != nil {
			return models.ActivitySummary{}, err
		}
		summary.Stats = append(summary.Stats, stat)
	}

	top := slices.Clone(summary.PerRep)
	slices.SortStableFunc(top, func(a, b models.RepActivity) int {
		return cmp.Compare(b.Total, a.Total)
	})
	summary.TopPerformers = top[:min(topN, len(top))]
	return summary, nil
}

func metricStat(metric string, values stats.Float64Data) (models.ActivityStat, error) {
	total, err := values.Sum()
	if err != nil {
		return models.ActivityStat{}, fmt.Errorf("sum %s: %w", metric, err)
	}
	mean, err := values.Mean()
	if err != nil {
		return models.ActivityStat{}, fmt.Errorf("mean %s: %w", metric, err)
	}
	std := 0.0
	if values.Len() > 1 {
		if std, err = values.StandardDeviationSample(); err != nil {
			return models.ActivityStat{}, fmt.Errorf("std dev %s: %w", metric, err)
		}
	}
	return models.ActivityStat{
		Metric: metric,
		Total:  int(total),
		Mean:   mean,
		StdDev: std,
	}, nil
}
