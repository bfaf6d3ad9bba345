package dataset

import (
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sales-dashboard/internal/models"
)

const cacheVersion = "v2"

type cacheEntry struct {
	Transactions []models.Transaction
	Stats        LoadStats
	LastModified time.Time
}

// CachedSource wraps a CSVSource with a gob snapshot of its cleaned rows. The
// snapshot is used only while it is newer than the underlying file.
type CachedSource struct {
	inner  *CSVSource
	dir    string
	logger *slog.Logger
}

func NewCachedSource(inner *CSVSource, dir string, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = ".cache"
	}
	return &CachedSource{inner: inner, dir: dir, logger: logger}
}

func (s *CachedSource) Name() string { return s.inner.Name() }

func (s *CachedSource) Load(ctx context.Context) ([]models.Transaction, LoadStats, error) {
	info, err := os.Stat(s.inner.Path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("stat %s: %w", s.inner.Path, err)
	}

	if cached, err := s.read(); err == nil && info.ModTime().Before(cached.LastModified) {
		s.logger.Info("loaded from cache", "source", s.Name(), "records", len(cached.Transactions))
		return cached.Transactions, cached.Stats, nil
	}

	txns, stats, err := s.inner.Load(ctx)
	if err != nil {
		return nil, stats, err
	}
	if err := s.write(cacheEntry{Transactions: txns, Stats: stats, LastModified: time.Now()}); err != nil {
		s.logger.Warn("failed to save cache", "error", err)
	}
	return txns, stats, nil
}

func (s *CachedSource) filename() string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(s.inner.Path)
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.gob", name, cacheVersion))
}

func (s *CachedSource) write(entry cacheEntry) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	file, err := os.Create(s.filename())
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer file.Close()
	return gob.NewEncoder(file).Encode(entry)
}

func (s *CachedSource) read() (*cacheEntry, error) {
	file, err := os.Open(s.filename())
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entry cacheEntry
	if err := gob.NewDecoder(file).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
