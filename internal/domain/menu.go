package domain

import "github.com/govalues/decimal"

// MenuItem - позиция меню, доступная для заказа.
type MenuItem struct {
	ID       string
	Name     string
	Cost     decimal.Decimal
	ImageURL string
}

// MenuQuery задаёт пагинацию и поиск по меню.
type MenuQuery struct {
	Offset int
	Limit  int
	// Search - подстрока названия без учёта регистра; пустая строка отключает фильтр.
	Search string
}

const (
	DefaultMenuLimit = 20
	MaxMenuLimit     = 100
)

// Normalize приводит пагинацию к допустимому диапазону.
func (q MenuQuery) Normalize() MenuQuery {
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit <= 0 {
		q.Limit = DefaultMenuLimit
	}
	if q.Limit > MaxMenuLimit {
		q.Limit = MaxMenuLimit
	}
	return q
}

// Validate проверяет поля новой позиции меню.
func (m *MenuItem) Validate() []error {
	var errs []error
	if m.Name == "" {
		errs = append(errs, ErrMenuNameRequired)
	}
	if !m.Cost.IsPos() {
		errs = append(errs, ErrMenuCostNotPositive)
	}
	return errs
}
