package handler

import (
	"github.com/restauranthub/inventory-system/internal/core/domain"
	"github.com/restauranthub/inventory-system/internal/core/ports"
)

func toItemResponse(i *domain.InventoryItem) itemResponse {
	var image *string
	if i.ImageRef != "" {
		ref := i.ImageRef
		image = &ref
	}
	return itemResponse{
		ID:            i.ID,
		Name:          i.Name,
		Category:      string(i.Category),
		Quantity:      i.Quantity,
		Unit:          string(i.Unit),
		ReorderLevel:  i.ReorderLevel,
		Image:         image,
		LastUpdatedBy: i.LastUpdatedBy,
		LowStock:      i.LowStock(),
		StockLevel:    string(i.Level()),
		CreatedAt:     i.CreatedAt.UTC(),
		UpdatedAt:     i.UpdatedAt.UTC(),
	}
}

func toItemsResponse(items []*domain.InventoryItem) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

func toStatsResponse(s *ports.ItemStats) statsResponse {
	byUnit := make(map[string]float64, len(s.QuantityByUnit))
	for unit, total := range s.QuantityByUnit {
		byUnit[string(unit)] = total
	}
	return statsResponse{
		TotalItems:     s.TotalItems,
		LowStock:       s.LowStock,
		OutOfStock:     s.OutOfStock,
		QuantityByUnit: byUnit,
	}
}

func toMovementsResponse(ms []*domain.StockMovement) []movementResponse {
	out := make([]movementResponse, len(ms))
	for i, m := range ms {
		out[i] = movementResponse{
			ID:            m.ID,
			ItemID:        m.ItemID,
			ItemName:      m.ItemName,
			Kind:          string(m.Kind),
			Delta:         m.Delta,
			QuantityAfter: m.QuantityAfter,
			ActorID:       m.ActorID,
			At:            m.At.UTC(),
		}
	}
	return out
}
