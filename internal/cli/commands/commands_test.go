package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"sales-dashboard/internal/models"
)

const ledger = "TRAN_DT,LCTN_ID,CHILD_LCTN_DBA_NM,GRANDPARENT_CORP_DBA_NM,REP NAME,CITY_NM,latitude,longitude,preprocessed_address,TRAN_AM\n" +
	"2024-01-05,L1,Cafe One,Org A,Alice,Austin,30.2,-97.7,1 Main St,1000\n" +
	"2024-02-05,L1,Cafe One,Org A,Alice,Austin,30.2,-97.7,1 Main St,500\n" +
	"2024-02-06,L2,Cafe Two,Org B,Bob,Dallas,32.7,-96.8,2 Elm St,250\n"

const activityCSV = "Sales Rep,Date,Discovery Call,F/U Call,Email,DM Added,Discovery Visit,F/U Visit,Demo Scheduled,Demo Completed,Registration\n" +
	"Alice,2024-01-10,3,1,5,0,0,0,1,1,0\n" +
	"Bob,2024-02-10,1,0,2,0,0,0,0,0,0\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes repctl against a fresh ledger and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	dir := t.TempDir()
	base := []string{
		"--csv", writeFile(t, dir, "ledger.csv", ledger),
		"--activity", writeFile(t, dir, "activity.csv", activityCSV),
		"--cache-dir", filepath.Join(dir, "cache"),
	}

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(&stdout, &stderr)
	cmd.SetArgs(append(args, base...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestRepCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    float64
		wantErr bool
	}{
		{name: "all time", args: []string{"rep", "Alice"}, want: 1500},
		{name: "window", args: []string{"rep", "Alice", "--start", "2024-02-01"}, want: 500},
		{name: "start after data", args: []string{"rep", "Alice", "--start", "2030-01-01"}, want: 0},
		{name: "reversed window", args: []string{"rep", "Alice", "--start", "2024-03-01", "--end", "2024-01-01"}, wantErr: true},
		{name: "unknown", args: []string{"rep", "Zed"}, wantErr: true},
		{name: "bad date", args: []string{"rep", "Alice", "--end", "March"}, wantErr: true},
		{name: "missing arg", args: []string{"rep"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", out)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			var m models.RepMetrics
			if err := json.Unmarshal([]byte(out), &m); err != nil {
				t.Fatalf("decode %q: %v", out, err)
			}
			if m.TotalAmount != tt.want {
				t.Errorf("amount = %v, want %v", m.TotalAmount, tt.want)
			}
		})
	}
}

func TestRepCommand_Daily(t *testing.T) {
	out, err := run(t, "rep", "Alice", "--daily")
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Daily        []models.DailyTotal        `json:"daily"`
		Transactions []models.RepTransactionRow `json:"transactions"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Daily) != 2 || len(got.Transactions) != 2 {
		t.Errorf("unexpected report %s", out)
	}
}

func TestManagementCommands(t *testing.T) {
	out, err := run(t, "management")
	if err != nil {
		t.Fatal(err)
	}
	var m models.ManagementMetrics
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatal(err)
	}
	if m.TotalAmount != 1750 || m.TotalCount != 3 {
		t.Errorf("unexpected metrics %+v", m)
	}

	out, err = run(t, "top-reps", "-n", "1")
	if err != nil {
		t.Fatal(err)
	}
	var reps []models.RepAmount
	if err := json.Unmarshal([]byte(out), &reps); err != nil {
		t.Fatal(err)
	}
	if len(reps) != 1 || reps[0].RepName != "Alice" {
		t.Errorf("unexpected top reps %+v", reps)
	}

	out, err = run(t, "top-accounts")
	if err != nil {
		t.Fatal(err)
	}
	var accounts []models.AccountAmount
	if err := json.Unmarshal([]byte(out), &accounts); err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 2 || accounts[0].AccountID != "L1" {
		t.Errorf("unexpected top accounts %+v", accounts)
	}

	if _, err := run(t, "top-reps", "-n", "-2"); err == nil {
		t.Error("negative limit should fail")
	}
}

func TestTerritoryCommand(t *testing.T) {
	out, err := run(t, "territory", "--rep", "Bob")
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Rollups []models.TerritoryRollup `json:"rollups"`
		Points  []models.MapPoint        `json:"points"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Rollups) != 1 || got.Rollups[0].City != "Dallas" || len(got.Points) != 1 {
		t.Errorf("unexpected territory %s", out)
	}
}

func TestScheduleCommand(t *testing.T) {
	out, err := run(t, "schedule", "Alice", "--threshold", "240000")
	if err != nil {
		t.Fatal(err)
	}
	var s models.SyntheticSchedule
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatal(err)
	}
	if !s.Synthetic || s.AnnualThreshold != 240000 || len(s.FirstHalf) != 6 || len(s.SecondHalf) != 6 {
		t.Errorf("unexpected schedule %+v", s)
	}
	for _, m := range s.Months() {
		if m.Target != 20000 {
			t.Errorf("%s target = %v, want 20000", m.Month, m.Target)
		}
	}
}

func TestActivityCommand(t *testing.T) {
	out, err := run(t, "activity")
	if err != nil {
		t.Fatal(err)
	}
	var summary models.ActivitySummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatal(err)
	}
	if len(summary.TopPerformers) != 2 || summary.TopPerformers[0].RepName != "Alice" {
		t.Errorf("unexpected summary %s", out)
	}

	out, err = run(t, "activity", "--rep", "Alice", "--group", "demo")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"Jan 2024"`) || !strings.Contains(out, `"Demo Completed": 1`) {
		t.Errorf("unexpected series %s", out)
	}

	if _, err := run(t, "activity", "--rep", "Alice", "--group", "nope"); err == nil {
		t.Error("unknown group should fail")
	}
}

func TestHashPasswordCommand(t *testing.T) {
	var stdout bytes.Buffer
	cmd := NewRootCommand(&stdout, &bytes.Buffer{})
	cmd.SetArgs([]string{"hash-password", "s3cret"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	hash := strings.TrimSpace(stdout.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
}
