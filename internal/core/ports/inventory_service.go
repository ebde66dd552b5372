package ports

import (
	"context"

	"github.com/restauranthub/inventory-system/internal/core/domain"
)

// ListItemsInput carries the raw query parameters of GET /api/inventory.
type ListItemsInput struct {
	Search   string
	Category string
	Status   string
}

// CreateItemInput carries all data needed to create a new item.
// Quantity is required; a nil ReorderLevel falls back to domain.DefaultReorderLevel.
type CreateItemInput struct {
	Name         string
	Category     string
	Quantity     *float64
	Unit         string
	ReorderLevel *float64
	Image        *ImageUpload // optional
}

// UpdateItemInput is a partial update: only non-nil fields overwrite.
// A new Image upload takes precedence over ImageRef.
type UpdateItemInput struct {
	Name         *string
	Category     *string
	Quantity     *float64
	Unit         *string
	ReorderLevel *float64
	ImageRef     *string
	Image        *ImageUpload
}

// StockAdjustment is a signed quantity delta: positive restocks, negative consumes.
type StockAdjustment struct {
	ItemID string
	Amount float64
	// IdempotencyKey, when set, makes retries of the same request return the
	// first result instead of applying the delta again.
	IdempotencyKey string
}

// ItemStats summarises the inventory for the dashboard header.
type ItemStats struct {
	TotalItems     int                     `json:"totalItems"`
	LowStock       int                     `json:"lowStock"`
	OutOfStock     int                     `json:"outOfStock"`
	QuantityByUnit map[domain.Unit]float64 `json:"quantityByUnit"`
}

// InventoryService defines use-case operations for inventory items.
type InventoryService interface {
	List(ctx context.Context, input ListItemsInput) ([]*domain.InventoryItem, error)
	Get(ctx context.Context, id string) (*domain.InventoryItem, error)
	Stats(ctx context.Context) (*ItemStats, error)
	Create(ctx context.Context, actor domain.Identity, input CreateItemInput) (*domain.InventoryItem, error)
	Update(ctx context.Context, actor domain.Identity, id string, input UpdateItemInput) (*domain.InventoryItem, error)
	Delete(ctx context.Context, actor domain.Identity, id string) error
	AdjustStock(ctx context.Context, actor domain.Identity, adj StockAdjustment) (*domain.InventoryItem, error)
	Movements(ctx context.Context, actor domain.Identity, itemID string, limit int) ([]*domain.StockMovement, error)
}
