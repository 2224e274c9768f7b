package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

func TestTimelineRepository_PostgresAppendAndList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderStore(store)
	timeline := NewTimelineRepository(store)

	items := seedMenu(t, store, "500")
	createdOn := time.Now().UTC().Add(-time.Minute).Round(time.Microsecond)
	order := sampleOrder("user-a", createdOn, items[0])
	if _, err := orders.Insert(context.Background(), order); err != nil {
		t.Fatalf("insert order for timeline: %v", err)
	}

	if err := timeline.Append(domain.TimelineEvent{
		OrderID:  order.ID,
		Type:     domain.TimelineOrderCreated,
		Reason:   "created",
		ActorID:  "user-a",
		Occurred: createdOn,
	}); err != nil {
		t.Fatalf("append created event: %v", err)
	}
	// Нулевое время заполняется текущим.
	if err := timeline.Append(domain.TimelineEvent{
		OrderID: order.ID,
		Type:    domain.TimelineOrderStatusChanged,
		Reason:  "new -> processing",
		ActorID: "admin",
	}); err != nil {
		t.Fatalf("append status event: %v", err)
	}

	if _, err := orders.Delete(context.Background(), order.ID); err != nil {
		t.Fatalf("delete order: %v", err)
	}

	events, err := timeline.List(order.ID)
	if err != nil {
		t.Fatalf("list timeline events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected history to survive order deletion, got %d events", len(events))
	}
	if events[0].Type != domain.TimelineOrderCreated || events[1].ActorID != "admin" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].Occurred.After(events[1].Occurred) {
		t.Fatalf("events should be sorted by occurred asc: %+v", events)
	}
}

func TestTimelineRepository_PostgresMalformedOrderID(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	timeline := NewTimelineRepository(store)

	if err := timeline.Append(domain.TimelineEvent{OrderID: "missing-order", Type: domain.TimelineOrderCreated}); err == nil {
		t.Fatal("expected append error for malformed order id")
	}

	events, err := timeline.List("missing-order")
	if err != nil {
		t.Fatalf("list for malformed id should not fail: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}
