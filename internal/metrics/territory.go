package metrics

import (
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/tables"
)

const (
	minMarkerSize   = 15.0
	markerSizeRange = 35.0
	profitMargin    = 0.3
)

// TerritoryMap rolls the window up by city, restricted to one representative's
// accounts when rep is non-nil. No matching rows is an empty result.
func (e *Engine) TerritoryMap(w models.Window, rep *models.RepresentativeID) ([]models.TerritoryRollup, error) {
	source := e.snap.Transactions
	if rep != nil {
		if _, err := e.lookup(*rep); err != nil {
			return nil, err
		}
		source = e.byRep[*rep]
	}
	return tables.RollupTerritories(filterWindow(source, w)), nil
}

// MapPoints turns rollups into plottable markers. Rollups without coordinates
// stay out of the plot but remain in the rollup totals.
func MapPoints(rollups []models.TerritoryRollup) []models.MapPoint {
	points := make([]models.MapPoint, 0, len(rollups))
	maxAmount := 0.0
	for _, r := range rollups {
		if r.Latitude == 0 || r.Longitude == 0 {
			continue
		}
		maxAmount = max(maxAmount, r.TotalAmount)
		points = append(points, models.MapPoint{
			City:              r.City,
			Latitude:          r.Latitude,
			Longitude:         r.Longitude,
			TotalAmount:       r.TotalAmount,
			TotalTransactions: r.TotalTransactions,
			EstimatedProfit:   r.TotalAmount * profitMargin,
			Address:           r.Address,
		})
	}
	if maxAmount <= 0 {
		maxAmount = 1
	}
	for i := range points {
		points[i].MarkerSize = max(minMarkerSize, minMarkerSize+points[i].TotalAmount/maxAmount*markerSizeRange)
	}
	return points
}
