package models

// SyntheticMonth is one generated row of the compensation schedule. None of its
// figures come from the transaction ledger.
type SyntheticMonth struct {
	Month           string  `json:"month"`
	Target          float64 `json:"target"`
	Actual          float64 `json:"actual"`
	CompletionPct   float64 `json:"completion_pct"`
	BaseRate        float64 `json:"base_rate"`
	BonusRate       float64 `json:"bonus_rate"`
	BaseCommission  float64 `json:"base_commission"`
	BonusCommission float64 `json:"bonus_commission"`
	Total           float64 `json:"total"`
}

// SyntheticSchedule is a placeholder compensation schedule for display.
type SyntheticSchedule struct {
	RepID           RepresentativeID `json:"rep_id"`
	AnnualThreshold float64          `json:"annual_threshold"`
	FirstHalf       []SyntheticMonth `json:"first_half"`
	SecondHalf      []SyntheticMonth `json:"second_half"`
	Synthetic       bool             `json:"synthetic"`
}

func (s SyntheticSchedule) Months() []SyntheticMonth {
	out := make([]SyntheticMonth, 0, len(s.FirstHalf)+len(s.SecondHalf))
	out = append(out, s.FirstHalf...)
	return append(out, s.SecondHalf...)
}
