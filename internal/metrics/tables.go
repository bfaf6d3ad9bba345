package metrics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"sales-dashboard/internal/models"
)

// DailySeries sums a representative's amount and volume per calendar day.
func (e *Engine) DailySeries(id models.RepresentativeID, w models.Window) ([]models.DailyTotal, error) {
	if _, err := e.lookup(id); err != nil {
		return nil, err
	}

	type day struct {
		date   time.Time
		amount models.Amount
		count  int
	}
	days := make(map[time.Time]*day)
	for _, tx := range e.repTransactions(id, w) {
		d, ok := days[tx.Date]
		if !ok {
			d = &day{date: tx.Date}
			days[tx.Date] = d
		}
		d.amount.Add(tx.Amount)
		d.count += tx.Count
	}

	out := make([]models.DailyTotal, 0, len(days))
	for _, d := range days {
		out = append(out, models.DailyTotal{
			Date:        d.date.Format(models.DateLayout),
			TotalAmount: d.amount.Float(),
			TotalCount:  d.count,
		})
	}
	slices.SortFunc(out, func(a, b models.DailyTotal) int { return strings.Compare(a.Date, b.Date) })
	return out, nil
}

type repRowKey struct {
	loc, org, rep string
	year          int
	quarter       string
	month         time.Month
}

// RepTransactionTable groups a representative's window by account,
// organization and calendar month.
func (e *Engine) RepTransactionTable(id models.RepresentativeID, w models.Window) ([]models.RepTransactionRow, error) {
	if _, err := e.lookup(id); err != nil {
		return nil, err
	}

	type acc struct {
		key    repRowKey
		amount models.Amount
		count  int
	}
	groups := make(map[repRowKey]*acc)
	for _, tx := range e.repTransactions(id, w) {
		key := repRowKey{
			loc:     tx.LocationID,
			org:     orDefault(tx.OrgName, models.UnknownOrg),
			rep:     tx.RepName,
			year:    tx.Year,
			quarter: tx.Quarter,
			month:   tx.Date.Month(),
		}
		g, ok := groups[key]
		if !ok {
			g = &acc{key: key}
			groups[key] = g
		}
		g.amount.Add(tx.Amount)
		g.count += tx.Count
	}

	keys := make([]repRowKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b repRowKey) int {
		return cmp.Or(
			cmp.Compare(a.year, b.year),
			cmp.Compare(a.month, b.month),
			cmp.Compare(a.loc, b.loc),
			cmp.Compare(a.org, b.org),
			cmp.Compare(a.rep, b.rep),
		)
	})

	out := make([]models.RepTransactionRow, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		out = append(out, models.RepTransactionRow{
			AccountID:   k.loc,
			OrgName:     k.org,
			RepName:     k.rep,
			Year:        k.year,
			Quarter:     k.quarter,
			Month:       k.month.String(),
			TotalAmount: g.amount.Float(),
			TotalCount:  g.count,
		})
	}
	return out, nil
}

// ManagementTable groups the window by representative and organization,
// ordered by representative name and then by amount, largest first.
func (e *Engine) ManagementTable(w models.Window) []models.ManagementTransactionRow {
	type key struct{ rep, org string }
	type acc struct {
		amount models.Amount
		count  int
	}
	groups := make(map[key]*acc)
	for _, tx := range filterWindow(e.snap.Transactions, w) {
		k := key{rep: tx.RepName, org: orDefault(tx.OrgName, models.UnknownOrg)}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.amount.Add(tx.Amount)
		g.count += tx.Count
	}

	out := make([]models.ManagementTransactionRow, 0, len(groups))
	for k, g := range groups {
		out = append(out, models.ManagementTransactionRow{
			RepName:     k.rep,
			OrgName:     k.org,
			TotalAmount: g.amount.Float(),
			TotalCount:  g.count,
		})
	}
	slices.SortFunc(out, func(a, b models.ManagementTransactionRow) int {
		return cmp.Or(
			cmp.Compare(a.RepName, b.RepName),
			cmp.Compare(b.TotalAmount, a.TotalAmount),
			cmp.Compare(a.OrgName, b.OrgName),
		)
	})
	return out
}
