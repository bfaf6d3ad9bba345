package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sales-dashboard/internal/models"
)

func TestLoadActivity(t *testing.T) {
	content := "Sales Rep,Date,Discovery Call,F/U Call,Email,DM Added,Discovery Visit,F/U Visit,Demo Scheduled,Demo Completed,Registration\n" +
		"Alice,2024-01-03,5,2,10,1,0,1,2,1,1\n" +
		"Alice,2024-02-10,3,,4,0,1,0,1,1,0\n" +
		"Bob,bad-date,1,1,1,1,1,1,1,1,1\n" +
		",2024-01-03,1,1,1,1,1,1,1,1,1\n"
	path := filepath.Join(t.TempDir(), "activity.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := LoadActivity(context.Background(), path, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if data == nil || len(data.Records) != 2 {
		t.Fatalf("expected 2 records, got %+v", data)
	}

	feb := data.Records[1]
	if feb.Month != 2 || feb.Year != 2024 {
		t.Errorf("month/year = %d/%d, want 2/2024", feb.Month, feb.Year)
	}
	if feb.Counts[models.ActivityFollowUpCall] != 0 {
		t.Errorf("blank cell should count as 0, got %d", feb.Counts[models.ActivityFollowUpCall])
	}
	if feb.Counts[models.ActivityEmail] != 4 {
		t.Errorf("Email = %d, want 4", feb.Counts[models.ActivityEmail])
	}
}

func TestLoadActivity_MissingFileIsUnavailable(t *testing.T) {
	data, err := LoadActivity(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Errorf("expected nil dataset, got %+v", data)
	}
}

func TestLoadActivity_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.csv")
	if err := os.WriteFile(path, []byte("Date,Email\n2024-01-01,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadActivity(context.Background(), path, discardLogger())
	if !errors.Is(err, ErrMissingColumns) {
		t.Errorf("expected ErrMissingColumns, got %v", err)
	}
}
