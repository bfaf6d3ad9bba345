package models

import "time"

// Activity columns tracked in the performance dataset.
const (
	ActivityDiscoveryCall  = "Discovery Call"
	ActivityFollowUpCall   = "F/U Call"
	ActivityEmail          = "Email"
	ActivityDMAdded        = "DM Added"
	ActivityDiscoveryVisit = "Discovery Visit"
	ActivityFollowUpVisit  = "F/U Visit"
	ActivityDemoScheduled  = "Demo Scheduled"
	ActivityDemoCompleted  = "Demo Completed"
	ActivityRegistration   = "Registration"
)

var ActivityColumns = []string{
	ActivityDiscoveryCall,
	ActivityFollowUpCall,
	ActivityEmail,
	ActivityDMAdded,
	ActivityDiscoveryVisit,
	ActivityFollowUpVisit,
	ActivityDemoScheduled,
	ActivityDemoCompleted,
	ActivityRegistration,
}

// PerformanceRecord is one representative's activity on one date.
type PerformanceRecord struct {
	RepName string
	Date    time.Time
	Month   int
	Year    int
	Counts  map[string]int
}

// ActivityData is the optional activity dataset. A nil *ActivityData means the
// dataset is unavailable.
type ActivityData struct {
	Records []PerformanceRecord
}

type ActivityBucket struct {
	Year   int            `json:"year"`
	Month  int            `json:"month"`
	Label  string         `json:"label"`
	Counts map[string]int `json:"counts"`
}

type ActivitySeries struct {
	RepID   RepresentativeID `json:"rep_id"`
	Metrics []string         `json:"metrics"`
	Buckets []ActivityBucket `json:"buckets"`
}

type ActivityStat struct {
	Metric string  `json:"metric"`
	Total  int     `json:"total"`
	Mean   float64 `json:"average"`
	StdDev float64 `json:"standard_deviation"`
}

type RepActivity struct {
	RepName string         `json:"rep_name"`
	Counts  map[string]int `json:"counts"`
	Total   int            `json:"total_activity"`
}

type ActivitySummary struct {
	Stats         []ActivityStat `json:"summary"`
	PerRep        []RepActivity  `json:"metrics"`
	TopPerformers []RepActivity  `json:"top_performers"`
}
