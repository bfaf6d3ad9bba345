package tables

import (
	"hash/fnv"
	"math/rand/v2"

	"sales-dashboard/internal/models"
)

const (
	minSyntheticThreshold = 100000
	maxSyntheticThreshold = 500000
)

// TargetSource yields the sales target for a representative.
type TargetSource interface {
	Target(rep models.Representative) models.SalesTarget
}

// SyntheticTargets draws placeholder targets from a PRNG seeded by the
// representative id, so the same id always gets the same target.
type SyntheticTargets struct{}

func (SyntheticTargets) Target(rep models.Representative) models.SalesTarget {
	h := RepHash(rep.ID)
	rng := rand.New(rand.NewPCG(h, h>>1|1))

	threshold := minSyntheticThreshold + rng.IntN(maxSyntheticThreshold-minSyntheticThreshold)
	p := 0.2 + float64(h%6)/10

	return models.SalesTarget{
		RepID:          rep.ID,
		BonusThreshold: float64(threshold),
		BonusEligible:  rng.Float64() < p,
		Synthetic:      true,
	}
}

// RepHash is the FNV-1a hash of a representative id.
func RepHash(id models.RepresentativeID) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

// FixedTargets serves targets from a map, falling back to a zero threshold.
type FixedTargets map[models.RepresentativeID]float64

func (f FixedTargets) Target(rep models.Representative) models.SalesTarget {
	return models.SalesTarget{RepID: rep.ID, BonusThreshold: f[rep.ID]}
}
