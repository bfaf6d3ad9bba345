package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sales-dashboard/internal/models"
)

// DocumentFinder is the slice of a Mongo collection the source needs.
type DocumentFinder interface {
	FindAll(ctx context.Context) ([]bson.M, error)
}

// MongoCollection adapts *mongo.Collection to DocumentFinder.
type MongoCollection struct {
	*mongo.Collection
}

func (c *MongoCollection) FindAll(ctx context.Context) ([]bson.M, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to perform Find: %w", err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return docs, nil
}

// ConnectToMongoDB establishes a connection to MongoDB.
func ConnectToMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// MongoSource reads ledger documents keyed by the normalized ledger names.
type MongoSource struct {
	finder DocumentFinder
	name   string
	logger *slog.Logger
}

func NewMongoSource(finder DocumentFinder, name string, logger *slog.Logger) *MongoSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoSource{finder: finder, name: name, logger: logger}
}

func (s *MongoSource) Name() string { return "mongo:" + s.name }

func (s *MongoSource) Load(ctx context.Context) ([]models.Transaction, LoadStats, error) {
	start := time.Now()

	docs, err := s.finder.FindAll(ctx)
	if err != nil {
		return nil, LoadStats{}, err
	}

	stats := LoadStats{Rows: len(docs)}
	txns := make([]models.Transaction, 0, len(docs))
	for _, doc := range docs {
		if tx, ok := documentRecord(doc).transaction(); ok {
			txns = append(txns, tx)
		}
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

func documentRecord(doc bson.M) record {
	get := func(key string) string { return bsonString(doc[key]) }
	return record{
		Date:         get(colDate),
		LocationID:   get(colLocationID),
		LocationName: get(colLocationName),
		OrgName:      get(colOrgName),
		RepName:      get(colRepName),
		City:         get(colCity),
		Latitude:     get(colLatitude),
		Longitude:    get(colLongitude),
		Address:      get(colAddress),
		Amount:       get(colAmount),
	}
}

func bsonString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case primitive.Decimal128:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
