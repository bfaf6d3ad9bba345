package services

import (
	"context"
	"fmt"
	"log/slog"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
)

// OpenSource builds the configured ledger source. The returned closer releases
// any connection the source holds.
func OpenSource(ctx context.Context, cfg config.DataConfig, logger *slog.Logger) (dataset.Source, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Source {
	case config.SourceCSV, "":
		csv := dataset.NewCSVSource(cfg.CSVFile, logger)
		if cfg.CacheDir == "" {
			return csv, noop, nil
		}
		return dataset.NewCachedSource(csv, cfg.CacheDir, logger), noop, nil

	case config.SourcePostgres:
		return dataset.NewPostgresSource(cfg.DatabaseURL, cfg.DatabaseTable, logger), noop, nil

	case config.SourceMongo:
		client, err := dataset.ConnectToMongoDB(ctx, cfg.MongoURI)
		if err != nil {
			return nil, noop, err
		}
		coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		src := dataset.NewMongoSource(&dataset.MongoCollection{Collection: coll}, cfg.MongoDatabase+"."+cfg.MongoCollection, logger)
		return src, client.Disconnect, nil

	default:
		return nil, noop, fmt.Errorf("unknown data source %q", cfg.Source)
	}
}

// ActivityFromFile loads the activity dataset from a CSV path.
func ActivityFromFile(path string, logger *slog.Logger) ActivityLoader {
	return func(ctx context.Context) (*models.ActivityData, error) {
		return dataset.LoadActivity(ctx, path, logger)
	}
}
