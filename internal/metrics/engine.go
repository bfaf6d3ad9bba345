// Package metrics answers every dashboard query over a loaded snapshot. All
// windows are inclusive on both ends and compared on calendar dates.
package metrics

import (
	"errors"
	"fmt"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/tables"
)

// RepBonusThresholdPct is the completion a representative needs to be bonus
// eligible on their own scorecard.
const RepBonusThresholdPct = 100.0

var ErrUnknownRepresentative = errors.New("unknown representative")

// Engine is immutable once built and safe for concurrent readers.
type Engine struct {
	snap     *tables.Snapshot
	accounts map[string]models.Account
	reps     map[models.RepresentativeID]models.Representative
	// byRep holds each representative's transactions, attributed through the
	// owning account rather than the name on the row.
	byRep map[models.RepresentativeID][]models.Transaction
}

func NewEngine(snap *tables.Snapshot) *Engine {
	if snap == nil {
		snap = tables.Empty()
	}
	e := &Engine{
		snap:     snap,
		accounts: make(map[string]models.Account, len(snap.Accounts)),
		reps:     make(map[models.RepresentativeID]models.Representative, len(snap.Representatives)),
		byRep:    make(map[models.RepresentativeID][]models.Transaction, len(snap.Representatives)),
	}
	for _, a := range snap.Accounts {
		e.accounts[a.AccountID] = a
	}
	for _, r := range snap.Representatives {
		e.reps[r.ID] = r
	}
	for _, tx := range snap.Transactions {
		owner := e.owner(tx)
		e.byRep[owner] = append(e.byRep[owner], tx)
	}
	return e
}

func (e *Engine) Snapshot() *tables.Snapshot { return e.snap }

func (e *Engine) Representatives() []models.Representative { return e.snap.Representatives }

// DataWindow spans the earliest to the latest transaction date, or all time
// when the snapshot is empty.
func (e *Engine) DataWindow() models.Window {
	if len(e.snap.Transactions) == 0 {
		return models.AllTime()
	}
	first, last := e.snap.Transactions[0].Date, e.snap.Transactions[0].Date
	for _, tx := range e.snap.Transactions[1:] {
		if tx.Date.Before(first) {
			first = tx.Date
		}
		if tx.Date.After(last) {
			last = tx.Date
		}
	}
	return models.NewWindow(first, last)
}

func (e *Engine) HasRepresentative(id models.RepresentativeID) bool {
	_, ok := e.reps[id]
	return ok
}

// owner returns the representative that owns the transaction's location, or
// the unknown-rep placeholder when the location has no account.
func (e *Engine) owner(tx models.Transaction) models.RepresentativeID {
	if a, ok := e.accounts[tx.LocationID]; ok {
		return a.RepID
	}
	return models.RepresentativeID(models.UnknownRep)
}

func (e *Engine) ownerName(tx models.Transaction) string {
	id := e.owner(tx)
	if r, ok := e.reps[id]; ok {
		return r.Name
	}
	return string(id)
}

func (e *Engine) lookup(id models.RepresentativeID) (models.Representative, error) {
	r, ok := e.reps[id]
	if !ok {
		return models.Representative{}, fmt.Errorf("%w: %q", ErrUnknownRepresentative, id)
	}
	return r, nil
}

func (e *Engine) repTransactions(id models.RepresentativeID, w models.Window) []models.Transaction {
	return filterWindow(e.byRep[id], w)
}

func filterWindow(txns []models.Transaction, w models.Window) []models.Transaction {
	out := make([]models.Transaction, 0, len(txns))
	for _, tx := range txns {
		if w.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

func totals(txns []models.Transaction) (float64, int) {
	var (
		sum   models.Amount
		count int
	)
	for _, tx := range txns {
		sum.Add(tx.Amount)
		count += tx.Count
	}
	return sum.Float(), count
}

func completion(amount, goal float64) float64 {
	return models.Round2(100 * models.Ratio(amount, goal))
}

// RepMetrics returns the scorecard of one representative over the window.
func (e *Engine) RepMetrics(id models.RepresentativeID, w models.Window) (models.RepMetrics, error) {
	if _, err := e.lookup(id); err != nil {
		return models.RepMetrics{}, err
	}
	return e.repMetrics(id, w), nil
}

func (e *Engine) repMetrics(id models.RepresentativeID, w models.Window) models.RepMetrics {
	amount, count := totals(e.repTransactions(id, w))
	goal := e.snap.Targets[id].BonusThreshold
	pct := completion(amount, goal)
	return models.RepMetrics{
		RepID:         id,
		TotalAmount:   amount,
		TotalCount:    count,
		Goal:          goal,
		CompletionPct: pct,
		BonusEligible: pct >= RepBonusThresholdPct,
	}
}

func (e *Engine) ManagementMetrics(w models.Window) models.ManagementMetrics {
	amount, count := totals(filterWindow(e.snap.Transactions, w))

	var goal models.Amount
	eligible := 0
	for _, r := range e.snap.Representatives {
		goal.Add(e.snap.Targets[r.ID].BonusThreshold)
		if e.repMetrics(r.ID, w).BonusEligible {
			eligible++
		}
	}

	return models.ManagementMetrics{
		TotalAmount:   amount,
		TotalCount:    count,
		Goal:          goal.Float(),
		CompletionPct: completion(amount, goal.Float()),
		EligibleCount: eligible,
	}
}
