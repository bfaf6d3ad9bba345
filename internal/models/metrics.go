package models

// RepMetrics is the scorecard of one representative over a window.
type RepMetrics struct {
	RepID         RepresentativeID `json:"rep_id"`
	TotalAmount   float64          `json:"total_processed"`
	TotalCount    int              `json:"total_volume"`
	Goal          float64          `json:"ytd_goal"`
	CompletionPct float64          `json:"completion_percentage"`
	BonusEligible bool             `json:"bonus_eligibility"`
}

type ManagementMetrics struct {
	TotalAmount   float64 `json:"total_processing"`
	TotalCount    int     `json:"total_volume"`
	Goal          float64 `json:"total_ytd_goal"`
	CompletionPct float64 `json:"completion_percentage"`
	EligibleCount int     `json:"bonus_eligible_count"`
}

type RepAmount struct {
	RepName     string  `json:"rep_name"`
	TotalAmount float64 `json:"processing_amount"`
}

type AccountAmount struct {
	AccountID   string  `json:"account_id"`
	AccountName string  `json:"account_name"`
	OrgName     string  `json:"grandparent_name"`
	RepName     string  `json:"rep_name"`
	TotalAmount float64 `json:"processing_amount"`
	SharePct    float64 `json:"percentage"`
}

type DailyTotal struct {
	Date        string  `json:"date"`
	TotalAmount float64 `json:"processing_amount"`
	TotalCount  int     `json:"transaction_volume"`
}

type RepTransactionRow struct {
	AccountID   string  `json:"account_id"`
	OrgName     string  `json:"grandparent_name"`
	RepName     string  `json:"rep_name"`
	Year        int     `json:"year"`
	Quarter     string  `json:"quarter"`
	Month       string  `json:"month"`
	TotalAmount float64 `json:"sum_processing_amount"`
	TotalCount  int     `json:"count_transactions"`
}

type ManagementTransactionRow struct {
	RepName     string  `json:"rep_name"`
	OrgName     string  `json:"grandparent_name"`
	TotalAmount float64 `json:"sum_processing_amount"`
	TotalCount  int     `json:"count_transaction_volume"`
}

type MapPoint struct {
	City              string  `json:"city"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	TotalAmount       float64 `json:"total_processing"`
	TotalTransactions int     `json:"total_transactions"`
	EstimatedProfit   float64 `json:"estimated_profit"`
	MarkerSize        float64 `json:"marker_size"`
	Address           string  `json:"full_address"`
}

type BonusStanding struct {
	RepID         RepresentativeID `json:"rep_id"`
	RepName       string           `json:"rep_name"`
	CompletionPct float64          `json:"completion"`
	Tier          string           `json:"tier"`
	IsCurrentRep  bool             `json:"is_current_rep"`
}

type BonusAttainment struct {
	RepID         RepresentativeID `json:"rep_id"`
	CompletionPct float64          `json:"completion_percentage"`
	PayoutPct     float64          `json:"payout_percentage"`
	Capped        bool             `json:"capped"`
}
