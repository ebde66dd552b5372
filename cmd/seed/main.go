// Command seed replaces the inventory collection with a sample kitchen stock.
// Users are left untouched.
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/restauranthub/inventory-system/internal/core/domain"
	"github.com/restauranthub/inventory-system/internal/infrastructure/config"
	mongodb "github.com/restauranthub/inventory-system/internal/infrastructure/db/mongo"
	"github.com/restauranthub/inventory-system/pkg/logger"
)

// seedConfig is the subset of config.Config the seeder needs, so it runs
// without JWT or image settings.
type seedConfig struct {
	LogLevel string `env:"LOG_LEVEL, default=info"`
	Mongo    config.MongoConfig
}

func sampleItems(now time.Time) []*domain.InventoryItem {
	item := func(name string, cat domain.Category, qty float64, unit domain.Unit, reorder float64) *domain.InventoryItem {
		return &domain.InventoryItem{
			Name:         name,
			Category:     cat,
			Quantity:     qty,
			Unit:         unit,
			ReorderLevel: reorder,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}
	return []*domain.InventoryItem{
		item("Fresh Tomatoes", domain.CategoryVegetables, 15, domain.UnitKg, 10),
		item("Chicken Breast", domain.CategoryMeat, 8, domain.UnitKg, 15),
		item("Whole Milk", domain.CategoryDairy, 24, domain.UnitLiters, 20),
		item("Basmati Rice", domain.CategoryGrains, 50, domain.UnitKg, 25),
		item("Red Chili Powder", domain.CategorySpices, 2, domain.UnitKg, 5),
		item("Premium Coffee Beans", domain.CategoryBeverages, 12, domain.UnitKg, 5),
		item("Atlantic Salmon", domain.CategorySeafood, 5, domain.UnitKg, 10),
		item("Brioche Buns", domain.CategoryBakery, 120, domain.UnitUnits, 50),
	}
}

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	var cfg seedConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		panic("load config: " + err.Error())
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "inventory-seed"})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo := mongodb.NewInventoryRepository(db)
	removed, err := repo.DeleteAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("clear inventory")
	}
	log.Info().Int64("removed", removed).Msg("inventory cleared")

	items := sampleItems(time.Now().UTC())
	for _, it := range items {
		created, err := repo.Create(ctx, it)
		if err != nil {
			log.Fatal().Err(err).Str("item", it.Name).Msg("insert sample item")
		}
		log.Debug().Str("id", created.ID).Str("item", created.Name).Msg("inserted")
	}
	log.Info().Int("count", len(items)).Str("database", cfg.Mongo.Database).Msg("inventory seeded")
}
