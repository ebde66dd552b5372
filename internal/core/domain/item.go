package domain

import "time"

// Category groups inventory items on the dashboard.
type Category string

const (
	CategoryVegetables Category = "Vegetables"
	CategoryMeat       Category = "Meat"
	CategoryDairy      Category = "Dairy"
	CategoryGrains     Category = "Grains"
	CategorySpices     Category = "Spices"
	CategoryBeverages  Category = "Beverages"
	CategorySeafood    Category = "Seafood"
	CategoryBakery     Category = "Bakery"
	CategoryOther      Category = "Other"
)

var categories = []Category{
	CategoryVegetables,
	CategoryMeat,
	CategoryDairy,
	CategoryGrains,
	CategorySpices,
	CategoryBeverages,
	CategorySeafood,
	CategoryBakery,
	CategoryOther,
}

// Categories returns every accepted category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, allowed := range categories {
		if allowed == c {
			return true
		}
	}
	return false
}

// Unit is the measure an item's quantity is counted in.
type Unit string

const (
	UnitKg      Unit = "kg"
	UnitGrams   Unit = "grams"
	UnitLiters  Unit = "liters"
	UnitMl      Unit = "ml"
	UnitPackets Unit = "packets"
	UnitUnits   Unit = "units"
	UnitBoxes   Unit = "boxes"
	UnitTrays   Unit = "trays"
)

var units = []Unit{UnitKg, UnitGrams, UnitLiters, UnitMl, UnitPackets, UnitUnits, UnitBoxes, UnitTrays}

// Units returns every accepted unit.
func Units() []Unit {
	out := make([]Unit, len(units))
	copy(out, units)
	return out
}

// Valid reports whether u is one of the fixed units.
func (u Unit) Valid() bool {
	for _, allowed := range units {
		if allowed == u {
			return true
		}
	}
	return false
}

// DefaultReorderLevel applies when an item is created without a reorder level.
const DefaultReorderLevel = 5

// StockStatus filters items by their derived low-stock condition.
type StockStatus string

const (
	StockStatusAll     StockStatus = "all"
	StockStatusLow     StockStatus = "low"
	StockStatusInStock StockStatus = "in_stock"
)

// Valid reports whether s is a known status filter. The empty value means all.
func (s StockStatus) Valid() bool {
	switch s {
	case "", StockStatusAll, StockStatusLow, StockStatusInStock:
		return true
	}
	return false
}

// InventoryItem is the core aggregate root.
type InventoryItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      Category  `json:"category"`
	Quantity      float64   `json:"quantity"`
	Unit          Unit      `json:"unit"`
	ReorderLevel  float64   `json:"reorderLevel"`
	ImageRef      string    `json:"image,omitempty"`
	LastUpdatedBy string    `json:"lastUpdatedBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// LowStock is derived at read time and never persisted.
func (i *InventoryItem) LowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

// OutOfStock reports whether nothing is left.
func (i *InventoryItem) OutOfStock() bool {
	return i.Quantity == 0
}

// StockLevel grades an item for display: low at or below the reorder level,
// medium up to one and a half times it, healthy above that.
type StockLevel string

const (
	StockLevelLow     StockLevel = "low"
	StockLevelMedium  StockLevel = "medium"
	StockLevelHealthy StockLevel = "healthy"
)

// Level derives the display grade. Like LowStock it is never persisted.
func (i *InventoryItem) Level() StockLevel {
	switch {
	case i.LowStock():
		return StockLevelLow
	case i.Quantity <= i.ReorderLevel*1.5:
		return StockLevelMedium
	default:
		return StockLevelHealthy
	}
}

// MatchesStatus reports whether the item passes the given status filter.
func (i *InventoryItem) MatchesStatus(s StockStatus) bool {
	switch s {
	case StockStatusLow:
		return i.LowStock()
	case StockStatusInStock:
		return !i.LowStock()
	default:
		return true
	}
}
