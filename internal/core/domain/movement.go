package domain

import "time"

// MovementKind labels an entry in the stock movement log.
type MovementKind string

const (
	MovementCreate      MovementKind = "create"
	MovementUpdate      MovementKind = "update"
	MovementDelete      MovementKind = "delete"
	MovementRestock     MovementKind = "restock"
	MovementConsumption MovementKind = "consumption"
)

// MovementKindForDelta maps a signed stock delta to restock or consumption.
// A zero delta counts as a restock.
func MovementKindForDelta(delta float64) MovementKind {
	if delta < 0 {
		return MovementConsumption
	}
	return MovementRestock
}

// StockMovement is one append-only audit record of an inventory mutation.
type StockMovement struct {
	ID            string       `json:"id"`
	ItemID        string       `json:"itemId"`
	ItemName      string       `json:"itemName"`
	Kind          MovementKind `json:"kind"`
	Delta         float64      `json:"delta"`
	QuantityAfter float64      `json:"quantityAfter"`
	ActorID       string       `json:"actorId"`
	At            time.Time    `json:"at"`
}
