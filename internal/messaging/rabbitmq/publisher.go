// Package rabbitmq публикует события заказов в topic exchange RabbitMQ.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

// DefaultExchange - topic exchange событий заказов; routing key равен типу события.
const DefaultExchange = "foodorder.orders"

const publishTimeout = 10 * time.Second

// channel - подмножество *amqp.Channel, нужное паблишеру.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Config описывает подключение к RabbitMQ.
type Config struct {
	URL      string
	Exchange string
	Logger   *log.Entry
}

// Publisher реализует domain.OutboxPublisher поверх RabbitMQ.
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   *log.Entry
}

// Dial подключается к брокеру и объявляет exchange.
func Dial(cfg Config) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq url is not configured")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	publisher, err := newPublisher(ch, cfg.Exchange, cfg.Logger)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	publisher.conn = conn
	return publisher, nil
}

func newPublisher(ch channel, exchange string, logger *log.Entry) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = log.WithField("component", "rabbitmq-publisher")
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{ch: ch, exchange: exchange, logger: logger}, nil
}

// Publish отправляет persistent-сообщение с routing key = тип события.
func (p *Publisher) Publish(ctx context.Context, event domain.OutboxMessage) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         event.EventType,
		Timestamp:    time.Now().UTC(),
		Headers: amqp.Table{
			"aggregate_type": event.AggregateType,
			"aggregate_id":   event.AggregateID,
		},
		Body: event.Payload,
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, event.EventType, false, false, publishing); err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"exchange":    p.exchange,
			"routing_key": event.EventType,
			"outbox_id":   event.ID,
		}).Error("failed to publish message to rabbitmq")
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"exchange":    p.exchange,
		"routing_key": event.EventType,
		"size":        len(event.Payload),
	}).Debug("message published to rabbitmq")
	return nil
}

// Close закрывает канал и соединение.
func (p *Publisher) Close() error {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

var _ domain.OutboxPublisher = (*Publisher)(nil)
