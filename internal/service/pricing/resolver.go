package pricing

import (
	"context"
	"fmt"

	"github.com/govalues/decimal"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

// Quote - результат расчёта стоимости набора позиций.
type Quote struct {
	Amount decimal.Decimal
	// Items - позиции в порядке отправки, повторы сохраняются.
	Items []domain.MenuItem
}

// Resolver проверяет позиции по меню и считает сумму заказа.
type Resolver struct {
	catalog domain.MenuCatalog
}

// NewResolver создаёт Resolver поверх каталога меню.
func NewResolver(catalog domain.MenuCatalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve возвращает сумму стоимости всех позиций. Повторяющийся ID учитывается
// столько раз, сколько он встречается. Если хотя бы одна позиция не найдена,
// сумма не считается вовсе: Resolve возвращает ErrUnknownItem.
func (r *Resolver) Resolve(ctx context.Context, itemIDs []string) (Quote, error) {
	if len(itemIDs) == 0 {
		return Quote{}, domain.NewFailure(domain.ErrEmptyOrder, "No itemIds were received")
	}

	found, err := r.catalog.FindByIDs(ctx, dedupe(itemIDs))
	if err != nil {
		return Quote{}, fmt.Errorf("lookup menu items: %w", err)
	}

	items := make([]domain.MenuItem, 0, len(itemIDs))
	var missing []string
	for _, id := range itemIDs {
		item, ok := found[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		items = append(items, item)
	}

	if len(items) != len(itemIDs) {
		return Quote{}, domain.NewFailure(domain.ErrUnknownItem, "Requested meal does not exist", dedupe(missing)...)
	}

	amount := decimal.Zero
	for _, item := range items {
		amount, err = amount.Add(item.Cost)
		if err != nil {
			return Quote{}, fmt.Errorf("sum item costs: %w", err)
		}
	}

	return Quote{Amount: amount, Items: items}, nil
}

func dedupe(ids []string) []string {
	result := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
