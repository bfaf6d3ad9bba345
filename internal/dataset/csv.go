package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

// CSVSource reads the transaction ledger from a CSV file.
type CSVSource struct {
	Path   string
	logger *slog.Logger
}

func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSource{Path: path, logger: logger}
}

func (s *CSVSource) Name() string { return "csv:" + s.Path }

func (s *CSVSource) Load(ctx context.Context) ([]models.Transaction, LoadStats, error) {
	start := time.Now()

	file, err := os.Open(s.Path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	txns, stats, err := parseLedger(ctx, file)
	if err != nil {
		return nil, stats, fmt.Errorf("parse %s: %w", s.Path, err)
	}
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

func parseLedger(ctx context.Context, r io.Reader) ([]models.Transaction, LoadStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, LoadStats{}, ErrEmptySource
		}
		return nil, LoadStats{}, fmt.Errorf("read header: %w", err)
	}
	index := headerIndex(header)
	if missing := missingColumns(index, requiredColumns); len(missing) > 0 {
		return nil, LoadStats{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var (
		txns  []models.Transaction
		stats LoadStats
	)
	batch := make([][]string, 0, batchSize)

	flush := func() error {
		parsed, err := parseBatch(ctx, batch, index)
		if err != nil {
			return err
		}
		txns = append(txns, parsed...)
		batch = batch[:0]
		return nil
	}

	for {
		row, readErr := reader.Read()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, stats, fmt.Errorf("read record %d: %w", stats.Rows+1, readErr)
		}
		stats.Rows++
		batch = append(batch, row)

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return nil, stats, err
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return nil, stats, err
		}
	}

	stats.Kept = len(txns)
	stats.Dropped = stats.Rows - stats.Kept
	return txns, stats, nil
}

// parseBatch converts rows concurrently while keeping their input order.
func parseBatch(ctx context.Context, rows [][]string, index map[string]int) ([]models.Transaction, error) {
	type slot struct {
		tx    models.Transaction
		valid bool
	}
	slots := make([]slot, len(rows))

	var g errgroup.Group
	g.SetLimit(maxWorkers)

	chunk := (len(rows) + maxWorkers - 1) / maxWorkers
	for lo := 0; lo < len(rows); lo += chunk {
		hi := min(lo+chunk, len(rows))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				tx, ok := rowRecord(rows[i], index).transaction()
				slots[i] = slot{tx: tx, valid: ok}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.Transaction, 0, len(rows))
	for _, s := range slots {
		if s.valid {
			out = append(out, s.tx)
		}
	}
	return out, nil
}

func rowRecord(row []string, index map[string]int) record {
	return record{
		Date:         getValue(row, index, colDate),
		LocationID:   getValue(row, index, colLocationID),
		LocationName: getValue(row, index, colLocationName),
		OrgName:      getValue(row, index, colOrgName),
		RepName:      getValue(row, index, colRepName),
		City:         getValue(row, index, colCity),
		Latitude:     getValue(row, index, colLatitude),
		Longitude:    getValue(row, index, colLongitude),
		Address:      getValue(row, index, colAddress),
		Amount:       getValue(row, index, colAmount),
	}
}
