package domain

import (
	"time"

	"github.com/govalues/decimal"
)

// Типы событий заказа, публикуемых через outbox.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

// OrderAggregate - значение AggregateType для событий заказа.
const OrderAggregate = "order"

// OrderEvent - полезная нагрузка событий заказа.
type OrderEvent struct {
	OrderID        string          `json:"order_id"`
	UserID         string          `json:"user_id"`
	ActorID        string          `json:"actor_id"`
	Status         OrderStatus     `json:"status"`
	PreviousStatus OrderStatus     `json:"previous_status,omitempty"`
	ItemIDs        []string        `json:"item_ids,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Occurred       time.Time       `json:"occurred_at"`
}
