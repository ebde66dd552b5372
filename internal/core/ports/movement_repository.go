package ports

import (
	"context"

	"github.com/restauranthub/inventory-system/internal/core/domain"
)

// MovementRepository persists the append-only stock movement log.
type MovementRepository interface {
	Insert(ctx context.Context, m *domain.StockMovement) error
	// ListByItem returns at most limit movements for the item, newest first.
	ListByItem(ctx context.Context, itemID string, limit int) ([]*domain.StockMovement, error)
}
