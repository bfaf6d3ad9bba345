package dataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockFinder struct {
	docs []bson.M
	err  error
}

func (m *mockFinder) FindAll(ctx context.Context) ([]bson.M, error) {
	return m.docs, m.err
}

func TestMongoSource_Load(t *testing.T) {
	finder := &mockFinder{docs: []bson.M{
		{
			"tran_dt":   primitive.NewDateTimeFromTime(time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)),
			"lctn_id":   "L1",
			"rep_name":  "Alice",
			"city_nm":   "Austin",
			"latitude":  30.25,
			"longitude": -97.75,
			"tran_am":   int32(500),
		},
		{"tran_dt": "2024-03-10", "lctn_id": "L2", "rep_name": "Bob", "tran_am": 12.5},
		{"tran_dt": "2024-03-10", "lctn_id": "L3", "tran_am": 1.0},
	}}

	txns, stats, err := NewMongoSource(finder, "ledger", discardLogger()).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Rows != 3 || stats.Kept != 2 || stats.Dropped != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if txns[0].Amount != 500 || txns[0].Month != "March" || txns[0].Coordinates == nil {
		t.Errorf("unexpected first transaction %+v", txns[0])
	}
	if txns[1].Coordinates != nil {
		t.Errorf("expected no coordinates, got %+v", txns[1].Coordinates)
	}
}

func TestMongoSource_FinderError(t *testing.T) {
	want := errors.New("boom")
	_, _, err := NewMongoSource(&mockFinder{err: want}, "ledger", discardLogger()).Load(context.Background())
	if !errors.Is(err, want) {
		t.Errorf("expected finder error, got %v", err)
	}
}

func TestSanitizeTable(t *testing.T) {
	good := []string{"transactions", "public.transactions", "_t1"}
	for _, name := range good {
		if _, err := sanitizeTable(name); err != nil {
			t.Errorf("sanitizeTable(%q) unexpected error: %v", name, err)
		}
	}
	bad := []string{"", "t; DROP TABLE x", "1abc", "a.b.c"}
	for _, name := range bad {
		if _, err := sanitizeTable(name); err == nil {
			t.Errorf("sanitizeTable(%q) expected error", name)
		}
	}
}
