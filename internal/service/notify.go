package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/metrics"
)

const sideEffectTimeout = 5 * time.Second

// ProductIndex is the optional full-text index kept next to the store.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []uint, error)
}

// publish hands an event to the broker after the store write has committed.
// Failures are logged and never reach the caller.
func publish(ctx context.Context, p events.Publisher, topic string, key uint, ev events.Event) {
	if p == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	err := p.Publish(ctx, topic, strconv.FormatUint(uint64(key), 10), ev)
	metrics.RecordEventPublished(topic, err == nil)
	if err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}

func syncIndex(ctx context.Context, idx ProductIndex, p *models.Product) {
	if idx == nil || p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := idx.IndexProduct(ctx, *p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}

func dropFromIndex(ctx context.Context, idx ProductIndex, id uint) {
	if idx == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := idx.DeleteProduct(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("search_delete_failed", "product_id", id, "error", err)
	}
}
