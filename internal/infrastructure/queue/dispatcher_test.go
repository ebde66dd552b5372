package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/restauranthub/inventory-system/internal/core/domain"
)

type recordingRepo struct {
	mu   sync.Mutex
	seen []domain.StockMovement
}

func (r *recordingRepo) Insert(_ context.Context, m *domain.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, *m)
	return nil
}

func (r *recordingRepo) ListByItem(context.Context, string, int) ([]*domain.StockMovement, error) {
	return nil, nil
}

func TestDispatcher_WritesInOrderPerItem(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())

	// Queue before starting so cancellation exercises the drain path too.
	for i := 0; i < 50; i++ {
		d.Publish(domain.StockMovement{ItemID: fmt.Sprintf("item-%d", i%5), Delta: float64(i)})
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()
	d.Wait()

	if len(repo.seen) != 50 {
		t.Fatalf("expected 50 movements written, got %d", len(repo.seen))
	}

	last := map[string]float64{}
	for _, m := range repo.seen {
		if prev, ok := last[m.ItemID]; ok && m.Delta < prev {
			t.Fatalf("movements for %s out of order: %v after %v", m.ItemID, m.Delta, prev)
		}
		last[m.ItemID] = m.Delta
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())

	for i := 0; i < channelBuffer+10; i++ {
		d.Publish(domain.StockMovement{ItemID: "item-1"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected buffer to hold %d, got %d", channelBuffer, got)
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(0, &recordingRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	if d.shardIndex("abc") != d.shardIndex("abc") {
		t.Fatalf("shard index must be deterministic")
	}
}
