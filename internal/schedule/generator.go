// Package schedule generates the placeholder compensation schedule shown on a
// representative's dashboard. Nothing here reads the transaction ledger.
package schedule

import (
	"math/rand/v2"
	"time"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/tables"
)

const DefaultAnnualThreshold = 150000.0

// Uniform is the only randomness the generator needs.
type Uniform interface {
	Float64() float64
}

// Seeder returns the random stream for one representative.
type Seeder func(id models.RepresentativeID) Uniform

// HashSeeder seeds a PCG stream with the FNV-1a hash of the id.
func HashSeeder(id models.RepresentativeID) Uniform {
	h := tables.RepHash(id)
	return rand.New(rand.NewPCG(h, ^h))
}

type Generator struct {
	seed Seeder
}

func NewGenerator(seed Seeder) *Generator {
	if seed == nil {
		seed = HashSeeder
	}
	return &Generator{seed: seed}
}

type halfRule struct {
	lowBase, lowStep, lowFloor   float64
	highBase, highStep, highCeil float64
	rateDivisor                  float64
	bonusMin, bonusMax           float64
}

var (
	firstHalf = halfRule{
		lowBase:     40,
		lowStep:     5,
		lowFloor:    30,
		highBase:    50,
		highStep:    7,
		highCeil:    85,
		rateDivisor: 100,
		bonusMin:    0.5,
		bonusMax:    1.0,
	}
	secondHalf = halfRule{
		lowBase:     70,
		lowStep:     3,
		lowFloor:    50,
		highBase:    90,
		highStep:    5,
		highCeil:    120,
		rateDivisor: 200,
		bonusMin:    0.7,
		bonusMax:    1.5,
	}
)

// Generate builds twelve months for the representative. A nil threshold uses
// DefaultAnnualThreshold.
func (g *Generator) Generate(id models.RepresentativeID, threshold *float64) models.SyntheticSchedule {
	annual := DefaultAnnualThreshold
	if threshold != nil {
		annual = *threshold
	}
	target := annual / 12
	rng := g.seed(id)

	return models.SyntheticSchedule{
		RepID:           id,
		AnnualThreshold: annual,
		FirstHalf:       half(rng, firstHalf, time.January, target),
		SecondHalf:      half(rng, secondHalf, time.July, target),
		Synthetic:       true,
	}
}

func half(rng Uniform, rule halfRule, first time.Month, target float64) []models.SyntheticMonth {
	months := make([]models.SyntheticMonth, 0, 6)
	for i := range 6 {
		step := float64(i)
		low := max(rule.lowFloor, rule.lowBase+rule.lowStep*step)
		high := min(rule.highCeil, rule.highBase+rule.highStep*step)
		drawn := uniform(rng, low, high)

		baseRate := 1 + drawn/rule.rateDivisor
		bonusRate := baseRate + uniform(rng, rule.bonusMin, rule.bonusMax)

		actual := target * drawn / 100
		base := actual * baseRate / 100
		// Bonus commission is reported as zero even above target; kept as the
		// dashboard has always shown it.
		bonus := 0.0

		months = append(months, models.SyntheticMonth{
			Month:           (first + time.Month(i)).String()[:3],
			Target:          target,
			Actual:          actual,
			CompletionPct:   100 * models.Ratio(actual, target),
			BaseRate:        baseRate,
			BonusRate:       bonusRate,
			BaseCommission:  base,
			BonusCommission: bonus,
			Total:           base + bonus,
		})
	}
	return months
}

func uniform(rng Uniform, low, high float64) float64 {
	if high < low {
		low, high = high, low
	}
	return low + rng.Float64()*(high-low)
}
