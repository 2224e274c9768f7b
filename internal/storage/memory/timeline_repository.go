package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

// timelineRepositoryInMemory держит историю каждого заказа отсортированной по времени.
// Удаление заказа историю не трогает.
type timelineRepositoryInMemory struct {
	mu      sync.RWMutex
	byOrder map[string][]domain.TimelineEvent
	now     func() time.Time
}

// NewTimelineRepository создаёт in-memory реализацию TimelineRepository.
func NewTimelineRepository() domain.TimelineRepository {
	return &timelineRepositoryInMemory{
		byOrder: make(map[string][]domain.TimelineEvent),
		now:     time.Now,
	}
}

// Append вставляет событие после всех событий с тем же или более ранним временем,
// так что одновременные события остаются в порядке записи.
func (r *timelineRepositoryInMemory) Append(event domain.TimelineEvent) error {
	if event.Occurred.IsZero() {
		event.Occurred = r.now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.byOrder[event.OrderID]
	at := sort.Search(len(history), func(i int) bool {
		return history[i].Occurred.After(event.Occurred)
	})
	history = append(history, domain.TimelineEvent{})
	copy(history[at+1:], history[at:])
	history[at] = event
	r.byOrder[event.OrderID] = history
	return nil
}

func (r *timelineRepositoryInMemory) List(orderID string) ([]domain.TimelineEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.byOrder[orderID]
	out := make([]domain.TimelineEvent, len(history))
	copy(out, history)
	return out, nil
}

var _ domain.TimelineRepository = (*timelineRepositoryInMemory)(nil)
