package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/restauranthub/inventory-system/internal/core/domain"
	"github.com/restauranthub/inventory-system/internal/core/ports"
)

const (
	// quantityPlaces is the precision quantities are kept at (grams of a kg, ml of a liter).
	quantityPlaces = 3

	defaultMovementLimit = 50
	maxMovementLimit     = 200
)

// ReplayCache remembers the outcome of an idempotent stock adjustment (Redis).
type ReplayCache interface {
	Lookup(ctx context.Context, key string) (*domain.InventoryItem, bool, error)
	Remember(ctx context.Context, key string, item *domain.InventoryItem) error
}

type inventoryService struct {
	items     ports.InventoryRepository
	movements ports.MovementRepository
	images    ports.ImageStore
	publisher ports.MovementPublisher
	replay    ReplayCache
	log       zerolog.Logger
	now       func() time.Time
}

// NewInventoryService returns an InventoryService implementation.
// publisher and replay may be nil.
func NewInventoryService(
	items ports.InventoryRepository,
	movements ports.MovementRepository,
	images ports.ImageStore,
	publisher ports.MovementPublisher,
	replay ReplayCache,
	log zerolog.Logger,
) ports.InventoryService {
	return &inventoryService{
		items:     items,
		movements: movements,
		images:    images,
		publisher: publisher,
		replay:    replay,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *inventoryService) List(ctx context.Context, in ports.ListItemsInput) ([]*domain.InventoryItem, error) {
	filter := ports.ListItemsFilter{Search: strings.TrimSpace(in.Search)}

	if c := strings.TrimSpace(in.Category); c != "" && !strings.EqualFold(c, "all") {
		category := domain.Category(c)
		if !category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, c)
		}
		filter.Category = category
	}

	status := domain.StockStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be one of all, low, in_stock", domain.ErrValidation)
	}
	if status != domain.StockStatusAll {
		filter.Status = status
	}

	return s.items.List(ctx, filter)
}

func (s *inventoryService) Get(ctx context.Context, id string) (*domain.InventoryItem, error) {
	return s.items.FindByID(ctx, id)
}

func (s *inventoryService) Stats(ctx context.Context) (*ports.ItemStats, error) {
	items, err := s.items.List(ctx, ports.ListItemsFilter{})
	if err != nil {
		return nil, err
	}

	totals := make(map[domain.Unit]decimal.Decimal)
	stats := &ports.ItemStats{TotalItems: len(items), QuantityByUnit: make(map[domain.Unit]float64)}
	for _, item := range items {
		if item.LowStock() {
			stats.LowStock++
		}
		if item.OutOfStock() {
			stats.OutOfStock++
		}
		totals[item.Unit] = totals[item.Unit].Add(decimal.NewFromFloat(item.Quantity))
	}
	for unit, total := range totals {
		stats.QuantityByUnit[unit] = total.Round(quantityPlaces).InexactFloat64()
	}
	return stats, nil
}

func (s *inventoryService) Create(ctx context.Context, actor domain.Identity, in ports.CreateItemInput) (*domain.InventoryItem, error) {
	if !actor.Role.CanCreateItems() {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	category, err := parseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	unit, err := parseUnit(in.Unit)
	if err != nil {
		return nil, err
	}
	if in.Quantity == nil {
		return nil, fmt.Errorf("%w: quantity is required", domain.ErrValidation)
	}
	quantity, err := nonNegative("quantity", *in.Quantity)
	if err != nil {
		return nil, err
	}
	reorder := float64(domain.DefaultReorderLevel)
	if in.ReorderLevel != nil {
		if reorder, err = nonNegative("reorderLevel", *in.ReorderLevel); err != nil {
			return nil, err
		}
	}

	var imageRef string
	if in.Image != nil {
		if imageRef, err = s.saveImage(ctx, *in.Image); err != nil {
			return nil, err
		}
	}

	now := s.now()
	item := &domain.InventoryItem{
		Name:          name,
		Category:      category,
		Quantity:      quantity,
		Unit:          unit,
		ReorderLevel:  reorder,
		ImageRef:      imageRef,
		LastUpdatedBy: actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.items.Create(ctx, item)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create item")
		return nil, err
	}

	s.publish(created, domain.MovementCreate, created.Quantity, actor.UserID, now)
	s.log.Info().Str("item_id", created.ID).Str("user_id", actor.UserID).Msg("item created")
	return created, nil
}

func (s *inventoryService) Update(ctx context.Context, actor domain.Identity, id string, in ports.UpdateItemInput) (*domain.InventoryItem, error) {
	if !actor.Role.CanEditItems() {
		return nil, domain.ErrForbidden
	}

	var changes ports.ItemChanges
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
		}
		changes.Name = &name
	}
	if in.Category != nil {
		category, err := parseCategory(*in.Category)
		if err != nil {
			return nil, err
		}
		changes.Category = &category
	}
	if in.Unit != nil {
		unit, err := parseUnit(*in.Unit)
		if err != nil {
			return nil, err
		}
		changes.Unit = &unit
	}
	if in.Quantity != nil {
		q, err := nonNegative("quantity", *in.Quantity)
		if err != nil {
			return nil, err
		}
		changes.Quantity = &q
	}
	if in.ReorderLevel != nil {
		r, err := nonNegative("reorderLevel", *in.ReorderLevel)
		if err != nil {
			return nil, err
		}
		changes.ReorderLevel = &r
	}
	if in.ImageRef != nil {
		ref := strings.TrimSpace(*in.ImageRef)
		changes.ImageRef = &ref
	}

	before, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Image != nil {
		ref, err := s.saveImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		changes.ImageRef = &ref
	}

	now := s.now()
	updated, err := s.items.Update(ctx, id, changes, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	s.publish(updated, domain.MovementUpdate, quantityDiff(before.Quantity, updated.Quantity), actor.UserID, now)
	s.log.Info().Str("item_id", id).Str("user_id", actor.UserID).Msg("item updated")
	return updated, nil
}

func (s *inventoryService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	if !actor.Role.CanDeleteItems() {
		return domain.ErrForbidden
	}

	removed, err := s.items.Delete(ctx, id)
	if err != nil {
		return err
	}

	now := s.now()
	gone := *removed
	gone.Quantity = 0
	s.publish(&gone, domain.MovementDelete, -removed.Quantity, actor.UserID, now)
	s.log.Info().Str("item_id", id).Str("user_id", actor.UserID).Msg("item deleted")
	return nil
}

// AdjustStock applies a signed delta as one conditional write in the store.
// The quantity is never read and written back here.
func (s *inventoryService) AdjustStock(ctx context.Context, actor domain.Identity, adj ports.StockAdjustment) (*domain.InventoryItem, error) {
	if !actor.Role.CanAdjustStock() {
		return nil, domain.ErrForbidden
	}
	if math.IsNaN(adj.Amount) || math.IsInf(adj.Amount, 0) {
		return nil, fmt.Errorf("%w: amount must be a finite number", domain.ErrValidation)
	}
	if err := checkPlaces("amount", adj.Amount); err != nil {
		return nil, err
	}
	delta := roundQuantity(adj.Amount)

	var replayKey string
	if adj.IdempotencyKey != "" && s.replay != nil {
		replayKey = actor.UserID + ":" + adj.ItemID + ":" + adj.IdempotencyKey
		cached, ok, err := s.replay.Lookup(ctx, replayKey)
		if err != nil {
			s.log.Warn().Err(err).Str("item_id", adj.ItemID).Msg("replay lookup failed, applying anyway")
		} else if ok {
			s.log.Debug().Str("item_id", adj.ItemID).Str("idempotency_key", adj.IdempotencyKey).Msg("stock adjustment replayed")
			return cached, nil
		}
	}

	now := s.now()
	updated, err := s.items.ApplyDelta(ctx, adj.ItemID, delta, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	if replayKey != "" {
		if err := s.replay.Remember(ctx, replayKey, updated); err != nil {
			s.log.Warn().Err(err).Str("item_id", adj.ItemID).Msg("failed to store replay result")
		}
	}

	s.publish(updated, domain.MovementKindForDelta(delta), delta, actor.UserID, now)
	s.log.Info().
		Str("item_id", updated.ID).
		Str("user_id", actor.UserID).
		Float64("delta", delta).
		Float64("quantity", updated.Quantity).
		Msg("stock adjusted")
	return updated, nil
}

func (s *inventoryService) Movements(ctx context.Context, actor domain.Identity, itemID string, limit int) ([]*domain.StockMovement, error) {
	if !actor.Role.CanViewMovements() {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 {
		limit = defaultMovementLimit
	}
	if limit > maxMovementLimit {
		limit = maxMovementLimit
	}
	return s.movements.ListByItem(ctx, itemID, limit)
}

func (s *inventoryService) saveImage(ctx context.Context, upload ports.ImageUpload) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("%w: image uploads are not enabled", domain.ErrValidation)
	}
	ref, err := s.images.Save(ctx, upload)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return ref, nil
}

func (s *inventoryService) publish(item *domain.InventoryItem, kind domain.MovementKind, delta float64, actorID string, at time.Time) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(domain.StockMovement{
		ItemID:        item.ID,
		ItemName:      item.Name,
		Kind:          kind,
		Delta:         delta,
		QuantityAfter: item.Quantity,
		ActorID:       actorID,
		At:            at,
	})
}

func parseCategory(raw string) (domain.Category, error) {
	c := domain.Category(strings.TrimSpace(raw))
	if !c.Valid() {
		return "", fmt.Errorf("%w: category %q is not one of the supported categories", domain.ErrValidation, raw)
	}
	return c, nil
}

func parseUnit(raw string) (domain.Unit, error) {
	u := domain.Unit(strings.TrimSpace(raw))
	if !u.Valid() {
		return "", fmt.Errorf("%w: unit %q is not one of the supported units", domain.ErrValidation, raw)
	}
	return u, nil
}

func nonNegative(field string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a finite number", domain.ErrValidation, field)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s cannot be negative", domain.ErrValidation, field)
	}
	if err := checkPlaces(field, v); err != nil {
		return 0, err
	}
	return roundQuantity(v), nil
}

// checkPlaces rejects values finer than quantityPlaces. Rounding them would
// let the store accept a delta the caller could not cover.
func checkPlaces(field string, v float64) error {
	if decimal.NewFromFloat(v).Exponent() < -quantityPlaces {
		return fmt.Errorf("%w: %s allows at most %d decimal places", domain.ErrValidation, field, quantityPlaces)
	}
	return nil
}

func roundQuantity(v float64) float64 {
	return decimal.NewFromFloat(v).Round(quantityPlaces).InexactFloat64()
}

func quantityDiff(before, after float64) float64 {
	return decimal.NewFromFloat(after).Sub(decimal.NewFromFloat(before)).Round(quantityPlaces).InexactFloat64()
}
