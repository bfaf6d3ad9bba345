package metrics

import (
	"cmp"
	"math"
	"slices"

	"sales-dashboard/internal/models"
)

// ComparativeBonusThresholdPct is the completion at which a representative
// shows as bonus eligible on the comparative standings. It is a separate rule
// from RepBonusThresholdPct.
const ComparativeBonusThresholdPct = 30.0

const (
	TierTargetMet     = "target_met"
	TierOnTrack       = "on_track"
	TierBonusEligible = "bonus_eligible"
	TierBelow         = "below"

	onTrackPct = 50.0
)

// Attainment scale: 30% completion pays 15%, each further 10% adds 5%, up to
// 95% for the 190-200% band. Completion above the cap pays as the cap.
const (
	attainmentFloorPct = 30.0
	attainmentCapPct   = 200.0
	attainmentStepPct  = 10.0
	payoutFloorPct     = 15.0
	payoutStepPct      = 5.0
	attainmentBands    = 17
)

func tier(pct float64) string {
	switch {
	case pct >= RepBonusThresholdPct:
		return TierTargetMet
	case pct >= onTrackPct:
		return TierOnTrack
	case pct >= ComparativeBonusThresholdPct:
		return TierBonusEligible
	default:
		return TierBelow
	}
}

// BonusStandings lists every representative's all-time completion, lowest
// first, marking current when it is non-nil.
func (e *Engine) BonusStandings(current *models.RepresentativeID) []models.BonusStanding {
	out := make([]models.BonusStanding, 0, len(e.snap.Representatives))
	for _, r := range e.snap.Representatives {
		pct := e.repMetrics(r.ID, models.AllTime()).CompletionPct
		out = append(out, models.BonusStanding{
			RepID:         r.ID,
			RepName:       r.Name,
			CompletionPct: pct,
			Tier:          tier(pct),
			IsCurrentRep:  current != nil && *current == r.ID,
		})
	}
	slices.SortStableFunc(out, func(a, b models.BonusStanding) int {
		return cmp.Compare(a.CompletionPct, b.CompletionPct)
	})
	return out
}

// PayoutPct maps a completion percentage onto the attainment scale.
func PayoutPct(completion float64) float64 {
	if completion < attainmentFloorPct {
		return 0
	}
	band := int(math.Floor((min(completion, attainmentCapPct) - attainmentFloorPct) / attainmentStepPct))
	band = min(band, attainmentBands-1)
	return payoutFloorPct + float64(band)*payoutStepPct
}

func (e *Engine) BonusAttainment(id models.RepresentativeID) (models.BonusAttainment, error) {
	if _, err := e.lookup(id); err != nil {
		return models.BonusAttainment{}, err
	}
	pct := e.repMetrics(id, models.AllTime()).CompletionPct
	return models.BonusAttainment{
		RepID:         id,
		CompletionPct: pct,
		PayoutPct:     PayoutPct(pct),
		Capped:        pct > attainmentCapPct,
	}, nil
}
