package metrics

import (
	"cmp"
	"slices"

	"sales-dashboard/internal/models"
)

const (
	DefaultTopReps     = 5
	DefaultTopAccounts = 10
)

// TopNByAmount ranks representatives by amount in the window. Ties keep the
// order in which the representatives first appear in the ledger.
func (e *Engine) TopNByAmount(w models.Window, n int) []models.RepAmount {
	if n <= 0 {
		n = DefaultTopReps
	}

	var (
		order []string
		sums  = make(map[string]*models.Amount)
	)
	for _, tx := range filterWindow(e.snap.Transactions, w) {
		name := e.ownerName(tx)
		sum, ok := sums[name]
		if !ok {
			sum = &models.Amount{}
			sums[name] = sum
			order = append(order, name)
		}
		sum.Add(tx.Amount)
	}

	out := make([]models.RepAmount, 0, len(order))
	for _, name := range order {
		out = append(out, models.RepAmount{RepName: name, TotalAmount: sums[name].Float()})
	}
	slices.SortStableFunc(out, func(a, b models.RepAmount) int {
		return cmp.Compare(b.TotalAmount, a.TotalAmount)
	})
	return out[:min(n, len(out))]
}

type accountKey struct {
	id, name, org, rep string
}

// TopAccountsByAmount ranks locations by amount, each carrying its share of
// the window total.
func (e *Engine) TopAccountsByAmount(w models.Window, n int) []models.AccountAmount {
	if n <= 0 {
		n = DefaultTopAccounts
	}

	var (
		order []accountKey
		sums  = make(map[accountKey]*models.Amount)
		total models.Amount
	)
	for _, tx := range filterWindow(e.snap.Transactions, w) {
		key := accountKey{
			id:   tx.LocationID,
			name: orDefault(tx.LocationName, models.UnknownAccount),
			org:  orDefault(tx.OrgName, models.UnknownOrg),
			rep:  orDefault(e.ownerName(tx), models.UnknownRep),
		}
		sum, ok := sums[key]
		if !ok {
			sum = &models.Amount{}
			sums[key] = sum
			order = append(order, key)
		}
		sum.Add(tx.Amount)
		total.Add(tx.Amount)
	}

	out := make([]models.AccountAmount, 0, len(order))
	for _, key := range order {
		amount := sums[key].Float()
		out = append(out, models.AccountAmount{
			AccountID:   key.id,
			AccountName: key.name,
			OrgName:     key.org,
			RepName:     key.rep,
			TotalAmount: amount,
			SharePct:    models.Ratio(100*amount, total.Float()),
		})
	}
	slices.SortStableFunc(out, func(a, b models.AccountAmount) int {
		return cmp.Compare(b.TotalAmount, a.TotalAmount)
	})
	return out[:min(n, len(out))]
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
