package domain

import (
	"context"
	"time"
)

// MenuCatalog - модель чтения меню.
type MenuCatalog interface {
	// FindByIDs возвращает найденные позиции по уникальным ID; отсутствующие и
	// некорректные ID просто не попадают в результат.
	FindByIDs(ctx context.Context, ids []string) (map[string]MenuItem, error)
	// Get возвращает позицию или ErrMenuItemNotFound.
	Get(ctx context.Context, id string) (MenuItem, error)
	// List возвращает страницу меню, отсортированную по названию.
	List(ctx context.Context, query MenuQuery) ([]MenuItem, error)
	// Create добавляет позицию меню.
	Create(ctx context.Context, item MenuItem) error
}

// OrderStore описывает требования к хранилищу заказов.
type OrderStore interface {
	// Insert сохраняет новый заказ вместе с позициями.
	Insert(ctx context.Context, order Order) (Order, error)
	// Get возвращает заказ или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	// ListAll возвращает все заказы с именем владельца.
	ListAll(ctx context.Context) ([]OrderView, error)
	// ListByUser возвращает заказы владельца, новые первыми.
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	// UpdateStatus записывает новый статус; если expected не пуст, запись проходит
	// только при совпадении текущего статуса, иначе ErrStatusConflict.
	UpdateStatus(ctx context.Context, id string, expected, next OrderStatus) (Order, error)
	// Delete удаляет заказ и возвращает его последнее состояние.
	Delete(ctx context.Context, id string) (Order, error)
}

// UserDirectory хранит профили пользователей.
type UserDirectory interface {
	Get(ctx context.Context, id string) (User, error)
	Upsert(ctx context.Context, user User) (User, error)
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(ctx context.Context, event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(orderID string) ([]TimelineEvent, error)
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
