package ports

import "github.com/restauranthub/inventory-system/internal/core/domain"

// MovementPublisher hands a movement to the audit pipeline. Publishing never
// blocks the request and never fails it; the log is best-effort.
type MovementPublisher interface {
	Publish(m domain.StockMovement)
}
