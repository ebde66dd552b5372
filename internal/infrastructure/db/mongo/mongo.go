package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second

	// quantityPlaces bounds the precision of stored quantities.
	quantityPlaces = 3
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the indexes of every collection this package owns.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := NewInventoryRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("inventory indexes: %w", err)
	}
	if err := NewMovementRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("movement indexes: %w", err)
	}
	return nil
}

// Quantities are stored as Decimal128 so $inc and $gte stay exact.

func toDecimal128(v float64) primitive.Decimal128 {
	return decimalToDecimal128(decimal.NewFromFloat(v))
}

func decimalToDecimal128(d decimal.Decimal) primitive.Decimal128 {
	out, err := primitive.ParseDecimal128(d.Round(quantityPlaces).String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return out
}

func fromDecimal128(d primitive.Decimal128) float64 {
	v, err := decimal.NewFromString(d.String())
	if err != nil {
		return 0
	}
	return v.Round(quantityPlaces).InexactFloat64()
}
