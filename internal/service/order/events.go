package order

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

// emit пишет событие в timeline и outbox. Ошибки только логируются: запись
// заказа уже состоялась.
func (s *Service) emit(order domain.Order, actorID, timelineType, eventType string, previous domain.OrderStatus, reason string) {
	occurred := s.now()
	entry := s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"event":    eventType,
	})

	if s.timeline != nil {
		err := s.timeline.Append(domain.TimelineEvent{
			OrderID:  order.ID,
			Type:     timelineType,
			Reason:   reason,
			ActorID:  actorID,
			Occurred: occurred,
		})
		if err != nil {
			entry.WithError(err).Warn("append timeline event failed")
		} else if s.metrics != nil {
			s.metrics.RecordTimelineEvent()
		}
	}

	if s.outbox == nil {
		return
	}
	payload, err := json.Marshal(domain.OrderEvent{
		OrderID:        order.ID,
		UserID:         order.UserID,
		ActorID:        actorID,
		Status:         order.Status,
		PreviousStatus: previous,
		ItemIDs:        order.ItemIDs,
		Amount:         order.Amount,
		Occurred:       occurred,
	})
	if err != nil {
		entry.WithError(err).Error("marshal order event failed")
		return
	}
	_, err = s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: domain.OrderAggregate,
		AggregateID:   order.ID,
		EventType:     eventType,
		Payload:       payload,
	})
	if err != nil {
		entry.WithError(err).Error("enqueue order event failed")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}
