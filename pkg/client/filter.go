package client

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/restauranthub/inventory-system/internal/core/domain"
)

// Filter narrows an already-fetched item list. Zero values match everything.
type Filter struct {
	Search   string
	Category domain.Category
	Status   domain.StockStatus
}

// FilterItems keeps the items matching every criterion, in input order.
func FilterItems(items []Item, f Filter) []Item {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if search != "" && !strings.Contains(strings.ToLower(it.Name), search) {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		d := it.domain()
		if !d.MatchesStatus(f.Status) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Summary is the dashboard header computed locally.
type Summary struct {
	TotalItems     int
	LowStock       int
	OutOfStock     int
	QuantityByUnit map[domain.Unit]float64
}

func Summarize(items []Item) Summary {
	sums := make(map[domain.Unit]decimal.Decimal)
	s := Summary{TotalItems: len(items), QuantityByUnit: make(map[domain.Unit]float64)}
	for _, it := range items {
		d := it.domain()
		if d.LowStock() {
			s.LowStock++
		}
		if d.OutOfStock() {
			s.OutOfStock++
		}
		sums[it.Unit] = sums[it.Unit].Add(decimal.NewFromFloat(it.Quantity))
	}
	for u, sum := range sums {
		s.QuantityByUnit[u] = sum.InexactFloat64()
	}
	return s
}

func (it Item) domain() *domain.InventoryItem {
	return &domain.InventoryItem{
		ID:           it.ID,
		Name:         it.Name,
		Category:     it.Category,
		Quantity:     it.Quantity,
		Unit:         it.Unit,
		ReorderLevel: it.ReorderLevel,
	}
}
