package postgres

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

func TestOutboxRepository_PostgresLifecycleEvents(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOutboxRepository(store)
	orderID := uuid.NewString()

	eventTypes := []string{domain.EventOrderCreated, domain.EventOrderStatusChanged, domain.EventOrderDeleted}
	ids := make([]string, 0, len(eventTypes))
	for _, eventType := range eventTypes {
		msg, err := repo.Enqueue(domain.OutboxMessage{
			AggregateType: domain.OrderAggregate,
			AggregateID:   orderID,
			EventType:     eventType,
			Payload:       []byte(fmt.Sprintf(`{"orderId":%q}`, orderID)),
		})
		require.NoError(t, err)
		require.NotEmpty(t, msg.ID, "id must be generated")
		ids = append(ids, msg.ID)
		// created_at различается, чтобы порядок выборки был однозначным.
		time.Sleep(2 * time.Millisecond)
	}

	firstTwo, err := repo.PullPending(2)
	require.NoError(t, err)
	require.Len(t, firstTwo, 2)
	require.Equal(t, ids[0], firstTwo[0].ID)
	require.Equal(t, domain.EventOrderStatusChanged, firstTwo[1].EventType)
	require.JSONEq(t, fmt.Sprintf(`{"orderId":%q}`, orderID), string(firstTwo[0].Payload))

	stats, err := repo.Stats()
	require.NoError(t, err)
	require.Equal(t, 3, stats.PendingCount)
	require.False(t, stats.OldestPendingAt.IsZero())

	require.NoError(t, repo.MarkSent(ids[0]))
	require.NoError(t, repo.MarkFailed(ids[1]))

	rest, err := repo.PullPending(0)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, domain.EventOrderDeleted, rest[0].EventType)

	require.NoError(t, repo.MarkSent(ids[2]))
	stats, err = repo.Stats()
	require.NoError(t, err)
	require.Zero(t, stats.PendingCount)
	require.True(t, stats.OldestPendingAt.IsZero())
}

func TestOutboxRepository_PostgresKeepsCallerID(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOutboxRepository(store)

	msg, err := repo.Enqueue(domain.OutboxMessage{
		ID:            "outbox-fixed-id",
		AggregateType: domain.OrderAggregate,
		AggregateID:   uuid.NewString(),
		EventType:     domain.EventOrderCreated,
		Payload:       []byte(`{}`),
	})
	require.NoError(t, err)
	require.Equal(t, "outbox-fixed-id", msg.ID)
}

func TestOutboxRepository_PostgresMarkMissing(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOutboxRepository(store)

	require.ErrorIs(t, repo.MarkSent("missing-outbox"), domain.ErrOutboxPublish)
	require.ErrorIs(t, repo.MarkFailed("missing-outbox"), domain.ErrOutboxPublish)
}
