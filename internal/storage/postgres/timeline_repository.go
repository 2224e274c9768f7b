package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

type timelineRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

// NewTimelineRepository создаёт PostgreSQL-реализацию TimelineRepository.
// История хранится без внешнего ключа на orders и переживает удаление заказа.
func NewTimelineRepository(store *Store) domain.TimelineRepository {
	return &timelineRepository{db: store.DB(), builder: store.builder}
}

func (r *timelineRepository) Append(event domain.TimelineEvent) error {
	orderID, ok := parseID(event.OrderID)
	if !ok {
		return fmt.Errorf("append timeline event: malformed order id %q", event.OrderID)
	}
	occurred := event.Occurred
	if occurred.IsZero() {
		occurred = time.Now()
	}

	query, args, err := r.builder.Insert("timeline_events").
		Columns("order_id", "type", "reason", "actor_id", "occurred").
		Values(orderID, event.Type, event.Reason, event.ActorID, occurred.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build append timeline event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append timeline event for order %s: %w", event.OrderID, err)
	}
	return nil
}

// List возвращает историю заказа; при равном времени порядок задаёт serial id.
// Для некорректного id история пуста.
func (r *timelineRepository) List(orderID string) ([]domain.TimelineEvent, error) {
	id, ok := parseID(orderID)
	if !ok {
		return []domain.TimelineEvent{}, nil
	}

	query, args, err := r.builder.
		Select("order_id::text", "type", "reason", "actor_id", "occurred").
		From("timeline_events").
		Where(sq.Eq{"order_id": id}).
		OrderBy("occurred", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list timeline: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list timeline of order %s: %w", orderID, err)
	}
	defer rows.Close()

	var events []domain.TimelineEvent
	for rows.Next() {
		var (
			event    domain.TimelineEvent
			occurred time.Time
		)
		if err := rows.Scan(&event.OrderID, &event.Type, &event.Reason, &event.ActorID, &occurred); err != nil {
			return nil, fmt.Errorf("scan timeline event: %w", err)
		}
		event.Occurred = occurred.UTC()
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline events: %w", err)
	}
	if events == nil {
		events = []domain.TimelineEvent{}
	}
	return events, nil
}

var _ domain.TimelineRepository = (*timelineRepository)(nil)
