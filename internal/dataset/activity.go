package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strings"

	"sales-dashboard/internal/models"
)

const (
	colActivityRep  = "sales_rep"
	colActivityDate = "date"
)

// LoadActivity reads the optional activity dataset. A missing file is not an
// error: it yields a nil dataset and a single warning.
func LoadActivity(ctx context.Context, path string, logger *slog.Logger) (*models.ActivityData, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		logger.Warn("activity dataset not configured")
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("activity dataset unavailable", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("open activity file: %w", err)
	}
	defer file.Close()

	data, dropped, err := parseActivity(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	logger.Info("activity dataset loaded", "path", path, "records", len(data.Records), "dropped", dropped)
	return data, nil
}

func parseActivity(ctx context.Context, r io.Reader) (*models.ActivityData, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, ErrEmptySource
		}
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	index := headerIndex(header)
	if missing := missingColumns(index, []string{colActivityRep, colActivityDate}); len(missing) > 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	data := &models.ActivityData{Records: []models.PerformanceRecord{}}
	dropped := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, dropped, err
		}
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, dropped, fmt.Errorf("read record: %w", err)
		}

		rep := strings.TrimSpace(getValue(row, index, colActivityRep))
		date, dateErr := parseDate(getValue(row, index, colActivityDate))
		if rep == "" || dateErr != nil {
			dropped++
			continue
		}

		counts := make(map[string]int, len(models.ActivityColumns))
		for _, metric := range models.ActivityColumns {
			counts[metric] = parseCount(getValue(row, index, normalizeHeader(metric)))
		}
		data.Records = append(data.Records, models.PerformanceRecord{
			RepName: rep,
			Date:    date,
			Month:   int(date.Month()),
			Year:    date.Year(),
			Counts:  counts,
		})
	}
	return data, dropped, nil
}

// parseCount treats blank or malformed cells as zero activity.
func parseCount(value string) int {
	v, ok := parseFloat(value)
	if !ok || v < 0 {
		return 0
	}
	return int(math.Round(v))
}
