package ports

import (
	"context"
	"time"

	"github.com/restauranthub/inventory-system/internal/core/domain"
)

// ListItemsFilter carries the optional query parameters for listing items.
// Zero values mean "no filter".
type ListItemsFilter struct {
	Search   string             // case-insensitive substring of the item name
	Category domain.Category    // exact category
	Status   domain.StockStatus // low / in_stock, derived from quantity and reorder level
}

// ItemChanges is a partial update: nil fields are left untouched.
type ItemChanges struct {
	Name         *string
	Category     *domain.Category
	Quantity     *float64
	Unit         *domain.Unit
	ReorderLevel *float64
	ImageRef     *string
}

// Empty reports whether no field is set.
func (c ItemChanges) Empty() bool {
	return c.Name == nil && c.Category == nil && c.Quantity == nil &&
		c.Unit == nil && c.ReorderLevel == nil && c.ImageRef == nil
}

// InventoryRepository defines persistence operations for inventory items.
// Lookups by an unknown or malformed id return domain.ErrItemNotFound.
type InventoryRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error)
	FindByID(ctx context.Context, id string) (*domain.InventoryItem, error)
	// List returns matching items, newest first.
	List(ctx context.Context, filter ListItemsFilter) ([]*domain.InventoryItem, error)
	// Update applies changes in a single write and returns the updated item.
	Update(ctx context.Context, id string, changes ItemChanges, actorID string, at time.Time) (*domain.InventoryItem, error)
	// Delete removes the item and returns it as it was before removal.
	Delete(ctx context.Context, id string) (*domain.InventoryItem, error)

	// ApplyDelta atomically adds delta to the stored quantity if and only if
	// the result stays >= 0, stamping actorID and at in the same write.
	// Returns domain.ErrInsufficientStock (store unchanged) when it would not.
	ApplyDelta(ctx context.Context, id string, delta float64, actorID string, at time.Time) (*domain.InventoryItem, error)
}
