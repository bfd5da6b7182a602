package service

import (
	"context"
	"time"

	"github.com/motorepuestos/shop/internal/logging"
	"github.com/motorepuestos/shop/internal/mykafka"
)

// publish sends a domain event best-effort: a broker failure is logged
// and never fails the operation that produced it.
func publish(ctx context.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", topic, "error", err)
	}
}
