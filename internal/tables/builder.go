// Package tables derives the accounts, representatives, targets and territory
// tables from cleaned transactions.
package tables

import (
	"cmp"
	"slices"
	"time"

	"sales-dashboard/internal/models"
)

// Snapshot is the immutable set of tables every metric query reads.
type Snapshot struct {
	Transactions    []models.Transaction
	Accounts        []models.Account
	Representatives []models.Representative
	Targets         map[models.RepresentativeID]models.SalesTarget
	Territories     []models.TerritoryRollup
	Activity        *models.ActivityData
	LoadedAt        time.Time
	Source          string
}

// Empty returns a snapshot with no rows.
func Empty() *Snapshot {
	return &Snapshot{
		Transactions:    []models.Transaction{},
		Accounts:        []models.Account{},
		Representatives: []models.Representative{},
		Targets:         map[models.RepresentativeID]models.SalesTarget{},
		Territories:     []models.TerritoryRollup{},
		LoadedAt:        time.Now(),
	}
}

func Build(txns []models.Transaction, targets TargetSource) *Snapshot {
	if targets == nil {
		targets = SyntheticTargets{}
	}
	snap := Empty()
	snap.Transactions = txns
	snap.Accounts = BuildAccounts(txns)
	snap.Representatives = BuildRepresentatives(txns)
	for _, rep := range snap.Representatives {
		snap.Targets[rep.ID] = targets.Target(rep)
	}
	snap.Territories = RollupTerritories(txns)
	return snap
}

// BuildAccounts keeps the first occurrence of each location id.
func BuildAccounts(txns []models.Transaction) []models.Account {
	seen := make(map[string]struct{})
	accounts := make([]models.Account, 0)
	for _, tx := range txns {
		if _, ok := seen[tx.LocationID]; ok {
			continue
		}
		seen[tx.LocationID] = struct{}{}
		accounts = append(accounts, models.Account{
			AccountID:   tx.LocationID,
			AccountName: orDefault(tx.LocationName, models.UnknownAccount),
			RepID:       models.RepresentativeID(tx.RepName),
			City:        orDefault(tx.City, models.UnknownCity),
			Coordinates: tx.Coordinates,
			Address:     orDefault(tx.Address, models.UnknownAddress),
		})
	}
	return accounts
}

// BuildRepresentatives lists distinct representatives in first-seen order.
func BuildRepresentatives(txns []models.Transaction) []models.Representative {
	seen := make(map[string]struct{})
	reps := make([]models.Representative, 0)
	for _, tx := range txns {
		if _, ok := seen[tx.RepName]; ok {
			continue
		}
		seen[tx.RepName] = struct{}{}
		reps = append(reps, models.Representative{ID: models.RepresentativeID(tx.RepName), Name: tx.RepName})
	}
	return reps
}

// RollupTerritories groups transactions by city, sorted by city name. The
// first non-nil coordinates and first non-empty address per city win.
func RollupTerritories(txns []models.Transaction) []models.TerritoryRollup {
	type acc struct {
		rollup models.TerritoryRollup
		amount models.Amount
		hasGeo bool
	}
	byCity := make(map[string]*acc)
	for _, tx := range txns {
		city := orDefault(tx.City, models.UnknownCity)
		a, ok := byCity[city]
		if !ok {
			a = &acc{rollup: models.TerritoryRollup{City: city}}
			byCity[city] = a
		}
		a.amount.Add(tx.Amount)
		a.rollup.TotalTransactions += tx.Count
		if !a.hasGeo && tx.Coordinates != nil {
			a.rollup.Latitude = tx.Coordinates.Latitude
			a.rollup.Longitude = tx.Coordinates.Longitude
			a.hasGeo = true
		}
		if a.rollup.Address == "" && tx.Address != "" {
			a.rollup.Address = tx.Address
		}
	}

	out := make([]models.TerritoryRollup, 0, len(byCity))
	for _, a := range byCity {
		r := a.rollup
		r.TotalAmount = a.amount.Float()
		if r.Address == "" {
			r.Address = models.UnknownAddress
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(x, y models.TerritoryRollup) int {
		return cmp.Compare(x.City, y.City)
	})
	return out
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
