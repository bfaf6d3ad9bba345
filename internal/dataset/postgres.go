package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"sales-dashboard/internal/models"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresSource reads the ledger from a Postgres table whose columns use the
// normalized ledger names (tran_dt, lctn_id, rep_name, tran_am, ...).
type PostgresSource struct {
	URL    string
	Table  string
	logger *slog.Logger
}

func NewPostgresSource(url, table string, logger *slog.Logger) *PostgresSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSource{URL: url, Table: table, logger: logger}
}

func (s *PostgresSource) Name() string { return "postgres:" + s.Table }

func sanitizeTable(value string) (string, error) {
	value = strings.TrimSpace(value)
	if !identPattern.MatchString(value) {
		return "", fmt.Errorf("invalid table name %q", value)
	}
	return value, nil
}

func ledgerQuery(table string) string {
	cols := make([]string, len(ledgerColumns))
	for i, c := range ledgerColumns {
		cols[i] = c + "::text"
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), table)
}

func (s *PostgresSource) Load(ctx context.Context) ([]models.Transaction, LoadStats, error) {
	start := time.Now()

	table, err := sanitizeTable(s.Table)
	if err != nil {
		return nil, LoadStats{}, err
	}

	db, err := sql.Open("pgx", s.URL)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, ledgerQuery(table))
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var (
		txns  []models.Transaction
		stats LoadStats
	)
	for rows.Next() {
		var f [10]sql.NullString
		if err := rows.Scan(&f[0], &f[1], &f[2], &f[3], &f[4], &f[5], &f[6], &f[7], &f[8], &f[9]); err != nil {
			return nil, stats, fmt.Errorf("scan row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++
		if tx, ok := nullRecord(f).transaction(); ok {
			txns = append(txns, tx)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, stats, fmt.Errorf("iterate %s: %w", table, err)
	}

	stats.Kept = len(txns)
	stats.Dropped = stats.Rows - stats.Kept
	stats.Duration = time.Since(start)

	s.logger.Info("transaction ledger loaded",
		"source", s.Name(),
		"rows", stats.Rows,
		"kept", stats.Kept,
		"dropped", stats.Dropped,
		"duration", stats.Duration,
	)
	return txns, stats, nil
}

// nullRecord maps scanned columns, in ledgerColumns order, onto a record.
func nullRecord(f [10]sql.NullString) record {
	return record{
		Date:         f[0].String,
		LocationID:   f[1].String,
		LocationName: f[2].String,
		OrgName:      f[3].String,
		RepName:      f[4].String,
		City:         f[5].String,
		Latitude:     f[6].String,
		Longitude:    f[7].String,
		Address:      f[8].String,
		Amount:       f[9].String,
	}
}
