// Package dataset loads the transaction ledger, the optional activity dataset
// and the credential list, and normalizes them into models types.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sales-dashboard/internal/models"
)

var (
	ErrEmptySource    = errors.New("empty source")
	ErrMissingColumns = errors.New("missing required columns")
)

// Source produces cleaned transactions from some backing store.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]models.Transaction, LoadStats, error)
}

type LoadStats struct {
	Rows     int           `json:"rows"`
	Kept     int           `json:"kept"`
	Dropped  int           `json:"dropped"`
	Duration time.Duration `json:"duration"`
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05.999999-07",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return models.DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", value)
}

func parseFloat(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "nan") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// record is a raw ledger row with every field in textual form. All sources
// funnel through it so the row rules live in one place.
type record struct {
	Date         string
	LocationID   string
	LocationName string
	OrgName      string
	RepName      string
	City         string
	Latitude     string
	Longitude    string
	Address      string
	Amount       string
}

// transaction applies the row rules: rows missing a date, location id,
// representative or amount are rejected.
func (r record) transaction() (models.Transaction, bool) {
	date, err := parseDate(r.Date)
	if err != nil {
		return models.Transaction{}, false
	}
	locationID := strings.TrimSpace(r.LocationID)
	repName := strings.TrimSpace(r.RepName)
	if locationID == "" || repName == "" {
		return models.Transaction{}, false
	}
	amount, ok := parseFloat(r.Amount)
	if !ok {
		return models.Transaction{}, false
	}

	tx := models.Transaction{
		Date:         date,
		LocationID:   locationID,
		LocationName: strings.TrimSpace(r.LocationName),
		OrgName:      strings.TrimSpace(r.OrgName),
		RepName:      repName,
		City:         strings.TrimSpace(r.City),
		Address:      strings.TrimSpace(r.Address),
		Amount:       amount,
	}

	lat, latOK := parseFloat(r.Latitude)
	lon, lonOK := parseFloat(r.Longitude)
	if latOK && lonOK {
		tx.Coordinates = &models.GeoPoint{Latitude: lat, Longitude: lon}
	}

	return tx.WithCalendarFields(), true
}
