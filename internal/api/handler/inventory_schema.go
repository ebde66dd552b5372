package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---
// Create and update accept JSON or multipart/form-data with the same field names.

type createItemRequest struct {
	Name         string   `json:"name"         validate:"required,max=120"`
	Category     string   `json:"category"     validate:"required,category"`
	Quantity     *float64 `json:"quantity"     validate:"required,gte=0"`
	Unit         string   `json:"unit"         validate:"required,unit"`
	ReorderLevel *float64 `json:"reorderLevel" validate:"omitempty,gte=0"`
}

type updateItemRequest struct {
	Name         *string  `json:"name"         validate:"omitempty,min=1,max=120"`
	Category     *string  `json:"category"     validate:"omitempty,category"`
	Quantity     *float64 `json:"quantity"     validate:"omitempty,gte=0"`
	Unit         *string  `json:"unit"         validate:"omitempty,unit"`
	ReorderLevel *float64 `json:"reorderLevel" validate:"omitempty,gte=0"`
	Image        *string  `json:"image"`
}

type adjustStockRequest struct {
	Amount *float64 `json:"amount" validate:"required"`
}

// --- Response types ---
// Kept separate from domain types so the JSON contract is not coupled to
// internal changes.

type itemResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Quantity      float64   `json:"quantity"`
	Unit          string    `json:"unit"`
	ReorderLevel  float64   `json:"reorderLevel"`
	Image         *string   `json:"image"`
	LastUpdatedBy string    `json:"lastUpdatedBy,omitempty"`
	LowStock      bool      `json:"lowStock"`
	StockLevel    string    `json:"stockLevel"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type statsResponse struct {
	TotalItems     int                `json:"totalItems"`
	LowStock       int                `json:"lowStock"`
	OutOfStock     int                `json:"outOfStock"`
	QuantityByUnit map[string]float64 `json:"quantityByUnit"`
}

type movementResponse struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"itemId"`
	ItemName      string    `json:"itemName"`
	Kind          string    `json:"kind"`
	Delta         float64   `json:"delta"`
	QuantityAfter float64   `json:"quantityAfter"`
	ActorID       string    `json:"actorId"`
	At            time.Time `json:"at"`
}
