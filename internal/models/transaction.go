package models

import (
	"fmt"
	"time"
)

// Placeholders used wherever a categorical field is missing.
const (
	UnknownAccount = "Unknown Account"
	UnknownAddress = "Address Unavailable"
	UnknownCity    = "Unknown"
	UnknownRep     = "Unknown Rep"
	UnknownOrg     = "N/A"
)

const (
	TransactionCount = 1
	DateLayout       = "2006-01-02"
)

// RepresentativeID identifies a sales representative. It is populated from the
// representative name today, but call sites should not rely on that.
type RepresentativeID string

func (id RepresentativeID) String() string { return string(id) }

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Transaction is one payment-processing event from the ledger.
type Transaction struct {
	Date         time.Time
	LocationID   string
	LocationName string
	OrgName      string
	RepName      string
	City         string
	Coordinates  *GeoPoint
	Address      string
	Amount       float64
	Count        int
	Month        string
	Quarter      string
	Year         int
}

// WithCalendarFields normalizes the date to a calendar day and fills the
// month, quarter, year and count fields.
func (t Transaction) WithCalendarFields() Transaction {
	t.Date = DateOnly(t.Date)
	t.Month = t.Date.Month().String()
	t.Quarter = QuarterLabel(t.Date)
	t.Year = t.Date.Year()
	t.Count = TransactionCount
	return t
}

func QuarterLabel(d time.Time) string {
	return fmt.Sprintf("Q%d", (int(d.Month())-1)/3+1)
}

func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Account struct {
	AccountID   string           `json:"account_id"`
	AccountName string           `json:"account_name"`
	RepID       RepresentativeID `json:"rep_id"`
	City        string           `json:"city"`
	Coordinates *GeoPoint        `json:"coordinates,omitempty"`
	Address     string           `json:"full_address"`
}

type Representative struct {
	ID   RepresentativeID `json:"rep_id"`
	Name string           `json:"rep_name"`
}

// SalesTarget is placeholder target data, not a business figure.
type SalesTarget struct {
	RepID          RepresentativeID `json:"rep_id"`
	BonusThreshold float64          `json:"bonus_threshold"`
	BonusEligible  bool             `json:"bonus_eligibility"`
	Synthetic      bool             `json:"synthetic"`
}

type TerritoryRollup struct {
	City              string  `json:"city"`
	TotalAmount       float64 `json:"total_processing"`
	TotalTransactions int     `json:"total_transactions"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	Address           string  `json:"full_address"`
}

// Window is an inclusive calendar date range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewWindow(start, end time.Time) Window {
	return Window{Start: DateOnly(start), End: DateOnly(end)}
}

func (w Window) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// AllTime spans every date the ledger can hold.
func AllTime() Window {
	return Window{End: time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)}
}
