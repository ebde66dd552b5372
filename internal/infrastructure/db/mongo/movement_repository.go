package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restauranthub/inventory-system/internal/core/domain"
)

const movementsCollection = "stock_movements"

// MovementRepository implements ports.MovementRepository using MongoDB.
type MovementRepository struct {
	col *mongo.Collection
}

func NewMovementRepository(db *mongo.Database) *MovementRepository {
	return &MovementRepository{col: db.Collection(movementsCollection)}
}

type movementDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	ItemID        string               `bson:"item_id"`
	ItemName      string               `bson:"item_name"`
	Kind          string               `bson:"kind"`
	Delta         primitive.Decimal128 `bson:"delta"`
	QuantityAfter primitive.Decimal128 `bson:"quantity_after"`
	ActorID       string               `bson:"actor_id"`
	At            time.Time            `bson:"at"`
	RecordedAt    time.Time            `bson:"recorded_at"`
}

// Insert persists a movement to the stock_movements audit collection.
func (r *MovementRepository) Insert(ctx context.Context, m *domain.StockMovement) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := movementDoc{
		ItemID:        m.ItemID,
		ItemName:      m.ItemName,
		Kind:          string(m.Kind),
		Delta:         toDecimal128(m.Delta),
		QuantityAfter: toDecimal128(m.QuantityAfter),
		ActorID:       m.ActorID,
		At:            m.At.UTC(),
		RecordedAt:    time.Now().UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid.Hex()
	}
	return nil
}

func (r *MovementRepository) ListByItem(ctx context.Context, itemID string, limit int) ([]*domain.StockMovement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{"item_id": itemID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer cur.Close(ctx)

	var docs []movementDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movements: %w", err)
	}

	out := make([]*domain.StockMovement, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.StockMovement{
			ID:            d.ID.Hex(),
			ItemID:        d.ItemID,
			ItemName:      d.ItemName,
			Kind:          domain.MovementKind(d.Kind),
			Delta:         fromDecimal128(d.Delta),
			QuantityAfter: fromDecimal128(d.QuantityAfter),
			ActorID:       d.ActorID,
			At:            d.At,
		})
	}
	return out, nil
}

// EnsureIndexes creates the per-item timeline index.
func (r *MovementRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "item_id", Value: 1}, {Key: "at", Value: -1}},
	})
	return err
}
