package imagestore

import (
	"context"
	"time"

	"github.com/restauranthub/inventory-system/internal/api/metrics"
	"github.com/restauranthub/inventory-system/internal/core/ports"
)

// Instrumented records ImageUploadDuration around another store.
type Instrumented struct {
	name  string
	inner ports.ImageStore
}

func NewInstrumented(name string, inner ports.ImageStore) *Instrumented {
	return &Instrumented{name: name, inner: inner}
}

func (s *Instrumented) Save(ctx context.Context, upload ports.ImageUpload) (string, error) {
	start := time.Now()
	ref, err := s.inner.Save(ctx, upload)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ImageUploadDuration.WithLabelValues(s.name, result).Observe(time.Since(start).Seconds())
	return ref, err
}
