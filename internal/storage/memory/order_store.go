package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

// orderStoreInMemory - простая in-memory реализация OrderStore.
type orderStoreInMemory struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	users  domain.UserDirectory
}

// NewOrderStore возвращает in-memory хранилище заказов. users используется только
// для имени владельца в ListAll и может быть nil.
func NewOrderStore(users domain.UserDirectory) domain.OrderStore {
	return &orderStoreInMemory{
		orders: make(map[string]domain.Order),
		users:  users,
	}
}

// Insert сохраняет новый заказ, если ID ещё не занят.
func (s *orderStoreInMemory) Insert(_ context.Context, order domain.Order) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return domain.Order{}, domain.ErrOrderAlreadyExists
	}
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	stored := cloneOrder(order)
	s.orders[order.ID] = stored
	return cloneOrder(stored), nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (s *orderStoreInMemory) Get(_ context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// ListAll возвращает все заказы с именем владельца, новые первыми.
func (s *orderStoreInMemory) ListAll(ctx context.Context) ([]domain.OrderView, error) {
	s.mu.RLock()
	orders := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, cloneOrder(order))
	}
	s.mu.RUnlock()

	sortNewestFirst(orders)

	result := make([]domain.OrderView, 0, len(orders))
	for _, order := range orders {
		view := domain.OrderView{Order: order}
		if s.users != nil {
			user, err := s.users.Get(ctx, order.UserID)
			switch {
			case err == nil:
				view.OwnerFirstName = user.FirstName
				view.OwnerLastName = user.LastName
			case !errors.Is(err, domain.ErrUserNotFound):
				return nil, err
			}
		}
		result = append(result, view)
	}
	return result, nil
}

// ListByUser возвращает заказы владельца, новые первыми.
func (s *orderStoreInMemory) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, order := range s.orders {
		if order.UserID != userID {
			continue
		}
		result = append(result, cloneOrder(order))
	}

	sortNewestFirst(result)
	return result, nil
}

// UpdateStatus меняет статус; при непустом expected работает как compare-and-set.
func (s *orderStoreInMemory) UpdateStatus(_ context.Context, id string, expected, next domain.OrderStatus) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if expected != "" && order.Status != expected {
		return domain.Order{}, domain.ErrStatusConflict
	}
	order.Status = next
	s.orders[id] = order
	return cloneOrder(order), nil
}

// Delete удаляет заказ и возвращает его снимок.
func (s *orderStoreInMemory) Delete(_ context.Context, id string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	delete(s.orders, id)
	return order, nil
}

func cloneOrder(order domain.Order) domain.Order {
	order.ItemIDs = append([]string(nil), order.ItemIDs...)
	return order
}

func sortNewestFirst(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedOn.Equal(orders[j].CreatedOn) {
			return orders[i].CreatedOn.After(orders[j].CreatedOn)
		}
		return orders[i].ID > orders[j].ID
	})
}

var _ domain.OrderStore = (*orderStoreInMemory)(nil)
