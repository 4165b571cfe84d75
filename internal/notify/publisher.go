// Package notify pushes order and quotation events over redis pub/sub.
// Subscribers (dashboards) get fire-and-forget delivery: no ack, no retry,
// no ordering contract beyond what redis provides.
package notify

import (
	"context"
	"encoding/json"
	"time"

	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	EventOrderCreated      = "order.created"
	EventOrderStatus       = "order.status_changed"
	EventQuotationDecision = "quotation.decided"
)

// OrdersChannel carries order lifecycle events.
func OrdersChannel() string { return "nexbuild:events:orders" }

// QuotationsChannel carries quotation submissions and decisions.
func QuotationsChannel() string { return "nexbuild:events:quotations" }

// Event is the JSON envelope published on both channels.
type Event struct {
	Type         string    `json:"type"`
	OrderID      uint64    `json:"order_id,omitempty"`
	TrackingCode string    `json:"tracking_code,omitempty"`
	VendorUID    string    `json:"vendor_uid,omitempty"`
	Status       string    `json:"status,omitempty"`
	At           time.Time `json:"at"`
}

type Publisher interface {
	PublishOrder(ctx context.Context, ev Event)
	PublishQuotation(ctx context.Context, ev Event)
}

type redisPublisher struct {
	rdb *rd.Client
	log *zap.Logger
}

func NewRedisPublisher(addr, password string, log *zap.Logger) Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &redisPublisher{
		rdb: rd.NewClient(&rd.Options{Addr: addr, Password: password}),
		log: log,
	}
}

func (p *redisPublisher) PublishOrder(ctx context.Context, ev Event) {
	p.publish(ctx, OrdersChannel(), ev)
}

func (p *redisPublisher) PublishQuotation(ctx context.Context, ev Event) {
	p.publish(ctx, QuotationsChannel(), ev)
}

func (p *redisPublisher) publish(ctx context.Context, channel string, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("event marshal failed", zap.String("type", ev.Type), zap.Error(err))
		return
	}
	if err := p.rdb.Publish(ctx, channel, b).Err(); err != nil {
		p.log.Warn("event publish failed", zap.String("channel", channel), zap.String("type", ev.Type), zap.Error(err))
	}
}
