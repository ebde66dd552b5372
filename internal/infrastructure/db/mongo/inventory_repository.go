package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restauranthub/inventory-system/internal/core/domain"
	"github.com/restauranthub/inventory-system/internal/core/ports"
)

const inventoryCollection = "inventory"

// InventoryRepository implements ports.InventoryRepository using MongoDB.
type InventoryRepository struct {
	col *mongo.Collection
}

func NewInventoryRepository(db *mongo.Database) *InventoryRepository {
	return &InventoryRepository{col: db.Collection(inventoryCollection)}
}

type itemDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Name          string               `bson:"name"`
	Category      string               `bson:"category"`
	Quantity      primitive.Decimal128 `bson:"quantity"`
	Unit          string               `bson:"unit"`
	ReorderLevel  primitive.Decimal128 `bson:"reorder_level"`
	Image         string               `bson:"image,omitempty"`
	LastUpdatedBy string               `bson:"last_updated_by,omitempty"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

func (d *itemDoc) toDomain() *domain.InventoryItem {
	return &domain.InventoryItem{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Category:      domain.Category(d.Category),
		Quantity:      fromDecimal128(d.Quantity),
		Unit:          domain.Unit(d.Unit),
		ReorderLevel:  fromDecimal128(d.ReorderLevel),
		ImageRef:      d.Image,
		LastUpdatedBy: d.LastUpdatedBy,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := itemDoc{
		Name:          item.Name,
		Category:      string(item.Category),
		Quantity:      toDecimal128(item.Quantity),
		Unit:          string(item.Unit),
		ReorderLevel:  toDecimal128(item.ReorderLevel),
		Image:         item.ImageRef,
		LastUpdatedBy: item.LastUpdatedBy,
		CreatedAt:     item.CreatedAt.UTC(),
		UpdatedAt:     item.UpdatedAt.UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *InventoryRepository) FindByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc itemDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// List filters in the store: name by case-insensitive regex, status by
// comparing the two stored decimals with $expr.
func (r *InventoryRepository) List(ctx context.Context, f ports.ListItemsFilter) ([]*domain.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Search != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	if f.Category != "" {
		filter["category"] = string(f.Category)
	}
	switch f.Status {
	case domain.StockStatusLow:
		filter["$expr"] = bson.M{"$lte": bson.A{"$quantity", "$reorder_level"}}
	case domain.StockStatusInStock:
		filter["$expr"] = bson.M{"$gt": bson.A{"$quantity", "$reorder_level"}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer cur.Close(ctx)

	var docs []itemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	items := make([]*domain.InventoryItem, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toDomain())
	}
	return items, nil
}

func (r *InventoryRepository) Update(ctx context.Context, id string, c ports.ItemChanges, actorID string, at time.Time) (*domain.InventoryItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	set := bson.M{
		"last_updated_by": actorID,
		"updated_at":      at.UTC(),
	}
	if c.Name != nil {
		set["name"] = *c.Name
	}
	if c.Category != nil {
		set["category"] = string(*c.Category)
	}
	if c.Quantity != nil {
		set["quantity"] = toDecimal128(*c.Quantity)
	}
	if c.Unit != nil {
		set["unit"] = string(*c.Unit)
	}
	if c.ReorderLevel != nil {
		set["reorder_level"] = toDecimal128(*c.ReorderLevel)
	}
	if c.ImageRef != nil {
		set["image"] = *c.ImageRef
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
}

func (r *InventoryRepository) Delete(ctx context.Context, id string) (*domain.InventoryItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc itemDoc
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("delete item: %w", err)
	}
	return doc.toDomain(), nil
}

// DeleteAll empties the collection. Only the seeder uses it.
func (r *InventoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("delete all items: %w", err)
	}
	return res.DeletedCount, nil
}

// ApplyDelta is a single conditional write: the filter only matches while
// quantity >= -delta, and $inc runs on the matched document atomically.
// A miss is then classified as unknown id or insufficient stock.
func (r *InventoryRepository) ApplyDelta(ctx context.Context, id string, delta float64, actorID string, at time.Time) (*domain.InventoryItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	d := decimal.NewFromFloat(delta).Round(quantityPlaces)
	filter := bson.M{
		"_id":      oid,
		"quantity": bson.M{"$gte": decimalToDecimal128(d.Neg())},
	}
	update := bson.M{
		"$inc": bson.M{"quantity": decimalToDecimal128(d)},
		"$set": bson.M{
			"last_updated_by": actorID,
			"updated_at":      at.UTC(),
		},
	}

	item, err := r.findOneAndUpdate(ctx, filter, update)
	if !errors.Is(err, domain.ErrItemNotFound) {
		return item, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	n, cerr := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if cerr != nil {
		return nil, fmt.Errorf("apply delta: %w", cerr)
	}
	if n == 0 {
		return nil, domain.ErrItemNotFound
	}
	return nil, domain.ErrInsufficientStock
}

func (r *InventoryRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc itemDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates necessary indexes on the inventory collection.
func (r *InventoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
