package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

// menuCatalogInMemory хранит меню в памяти (для разработки/тестов).
type menuCatalogInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.MenuItem
}

// NewMenuCatalog создаёт in-memory каталог меню, опционально заполненный позициями.
func NewMenuCatalog(items ...domain.MenuItem) domain.MenuCatalog {
	catalog := &menuCatalogInMemory{items: make(map[string]domain.MenuItem, len(items))}
	for _, item := range items {
		catalog.items[item.ID] = item
	}
	return catalog
}

// FindByIDs возвращает найденные позиции; неизвестные ID пропускаются.
func (c *menuCatalogInMemory) FindByIDs(_ context.Context, ids []string) (map[string]domain.MenuItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]domain.MenuItem, len(ids))
	for _, id := range ids {
		if item, ok := c.items[id]; ok {
			result[id] = item
		}
	}
	return result, nil
}

// Get возвращает позицию или ErrMenuItemNotFound.
func (c *menuCatalogInMemory) Get(_ context.Context, id string) (domain.MenuItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		return domain.MenuItem{}, domain.ErrMenuItemNotFound
	}
	return item, nil
}

// List фильтрует по подстроке названия и отдаёт страницу, отсортированную по названию.
func (c *menuCatalogInMemory) List(_ context.Context, query domain.MenuQuery) ([]domain.MenuItem, error) {
	query = query.Normalize()
	search := strings.ToLower(strings.TrimSpace(query.Search))

	c.mu.RLock()
	matched := make([]domain.MenuItem, 0, len(c.items))
	for _, item := range c.items {
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		matched = append(matched, item)
	}
	c.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})

	if query.Offset >= len(matched) {
		return []domain.MenuItem{}, nil
	}
	end := query.Offset + query.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[query.Offset:end], nil
}

// Create добавляет позицию; пустой ID заменяется сгенерированным.
func (c *menuCatalogInMemory) Create(_ context.Context, item domain.MenuItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	c.items[item.ID] = item
	return nil
}

var _ domain.MenuCatalog = (*menuCatalogInMemory)(nil)
