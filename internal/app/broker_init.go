package app

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
	"github.com/vladislavdragonenkov/foodorder/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/foodorder/internal/messaging/rabbitmq"
	"github.com/vladislavdragonenkov/foodorder/internal/service/outbox"
)

// eventBroker - паблишер outbox, выбранный конфигурацией.
type eventBroker struct {
	name       string
	publisher  domain.OutboxPublisher
	deadLetter domain.OutboxPublisher
	closeFn    func() error
}

// initEventBroker подключает Kafka или RabbitMQ. Возвращает nil, nil, если
// брокер не настроен: события тогда копятся в outbox со статусом pending.
func initEventBroker(cfg Config, logger *log.Entry) (*eventBroker, error) {
	switch {
	case len(cfg.KafkaBrokers) > 0:
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers: cfg.KafkaBrokers,
			Logger:  logger.WithField("layer", "kafka"),
		})
		if err != nil {
			return nil, err
		}
		logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
		return &eventBroker{
			name:       "kafka",
			publisher:  kafka.NewOutboxPublisher(producer, cfg.KafkaTopic),
			deadLetter: kafka.NewOutboxPublisher(producer, cfg.KafkaDeadLetterTopic),
			closeFn:    producer.Close,
		}, nil
	case cfg.RabbitMQURL != "":
		publisher, err := rabbitmq.Dial(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: cfg.RabbitMQExchange,
			Logger:   logger.WithField("layer", "rabbitmq"),
		})
		if err != nil {
			return nil, err
		}
		logger.WithField("exchange", cfg.RabbitMQExchange).Info("rabbitmq publisher initialized")
		return &eventBroker{name: "rabbitmq", publisher: publisher, closeFn: publisher.Close}, nil
	default:
		return nil, nil
	}
}

// closeEventBroker закрывает соединение с брокером, если оно есть.
func closeEventBroker(broker *eventBroker, logger *log.Entry) {
	if broker == nil || broker.closeFn == nil {
		return
	}
	if err := broker.closeFn(); err != nil {
		logger.WithError(err).WithField("broker", broker.name).Warn("failed to close event broker")
		return
	}
	logger.WithField("broker", broker.name).Info("event broker closed")
}

// startOutboxWorker запускает worker в отдельной горутине. Возвращает функцию
// остановки и канал, закрывающийся после выхода worker.
func startOutboxWorker(ctx context.Context, cfg Config, repo domain.OutboxRepository, broker *eventBroker, logger *log.Entry) (context.CancelFunc, <-chan struct{}) {
	if broker == nil || repo == nil {
		return nil, nil
	}

	options := []outbox.Option{
		outbox.WithLogger(logger.WithField("layer", "outbox")),
		outbox.WithPollInterval(cfg.OutboxPollInterval),
		outbox.WithBatchSize(cfg.OutboxBatchSize),
		outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
		outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
	}
	if broker.deadLetter != nil {
		options = append(options, outbox.WithDeadLetter(broker.deadLetter))
	}
	worker := outbox.NewWorker(repo, broker.publisher, options...)

	workerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(workerCtx)
	}()
	return cancel, done
}

// shutdownOutboxWorker останавливает worker и ждёт его выхода.
func shutdownOutboxWorker(cancel context.CancelFunc, done <-chan struct{}, logger *log.Entry) {
	if cancel == nil {
		return
	}
	cancel()
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		logger.Warn("outbox worker did not stop in time")
	}
}
