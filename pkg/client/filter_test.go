package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/restauranthub/inventory-system/internal/core/domain"
)

func sampleInventory() []Item {
	return []Item{
		{ID: "1", Name: "Chicken Breast", Category: domain.CategoryMeat, Quantity: 8, Unit: domain.UnitKg, ReorderLevel: 15},
		{ID: "2", Name: "Whole Milk", Category: domain.CategoryDairy, Quantity: 24, Unit: domain.UnitLiters, ReorderLevel: 20},
		{ID: "3", Name: "Basmati Rice", Category: domain.CategoryGrains, Quantity: 50, Unit: domain.UnitKg, ReorderLevel: 25},
		{ID: "4", Name: "Skim Milk", Category: domain.CategoryDairy, Quantity: 0, Unit: domain.UnitLiters, ReorderLevel: 4},
	}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestFilterItems(t *testing.T) {
	items := sampleInventory()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"1", "2", "3", "4"}},
		{"search is case-insensitive", Filter{Search: "  MILK "}, []string{"2", "4"}},
		{"category", Filter{Category: domain.CategoryDairy}, []string{"2", "4"}},
		{"low stock", Filter{Status: domain.StockStatusLow}, []string{"1", "4"}},
		{"in stock", Filter{Status: domain.StockStatusInStock}, []string{"2", "3"}},
		{"all status", Filter{Status: domain.StockStatusAll}, []string{"1", "2", "3", "4"}},
		{"combined", Filter{Search: "milk", Status: domain.StockStatusInStock}, []string{"2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterItems(items, tt.filter)))
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleInventory())

	assert.Equal(t, 4, s.TotalItems)
	assert.Equal(t, 2, s.LowStock)
	assert.Equal(t, 1, s.OutOfStock)
	assert.Equal(t, 58.0, s.QuantityByUnit[domain.UnitKg])
	assert.Equal(t, 24.0, s.QuantityByUnit[domain.UnitLiters])
}
