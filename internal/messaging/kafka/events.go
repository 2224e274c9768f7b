package kafka

// Topics для Kafka.
const (
	TopicOrderEvents     = "foodorder.order.events"
	TopicDeadLetterQueue = "foodorder.order.events.dlq"
)

// Заголовки, которые producer добавляет к каждому сообщению outbox.
const (
	HeaderEventType     = "x-event-type"
	HeaderAggregateType = "x-aggregate-type"
	HeaderOutboxID      = "x-outbox-id"
)
