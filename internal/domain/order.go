package domain

import (
	"strings"
	"time"

	"github.com/govalues/decimal"
)

// OrderStatus описывает стадию жизненного цикла заказа.
type OrderStatus string

const (
	// OrderStatusNew - заказ принят и ещё не взят в работу.
	OrderStatusNew OrderStatus = "new"
	// OrderStatusProcessing - кухня готовит заказ.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusCancelled - заказ отменён, терминальное состояние.
	OrderStatusCancelled OrderStatus = "cancelled"
	// OrderStatusComplete - заказ выполнен, терминальное состояние.
	OrderStatusComplete OrderStatus = "complete"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusProcessing, OrderStatusCancelled, OrderStatusComplete:
		return true
	default:
		return false
	}
}

// Terminal сообщает, что из статуса больше нет переходов.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusComplete
}

// ParseOrderStatus нормализует ввод (регистр, пробелы) и проверяет значение.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Order агрегирует состояние заказа.
type Order struct {
	ID string
	// UserID - владелец заказа, задаётся при создании и больше не меняется.
	UserID string
	// ItemIDs - позиции меню в порядке отправки; повторы допустимы.
	ItemIDs []string
	// Amount - сумма стоимости позиций, зафиксированная при создании.
	Amount    decimal.Decimal
	Address   string
	Status    OrderStatus
	CreatedOn time.Time
}

// OrderView - заказ с отображаемыми полями владельца для административного списка.
type OrderView struct {
	Order
	OwnerFirstName string
	OwnerLastName  string
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrUserRequired)
	}
	if len(o.ItemIDs) == 0 {
		errs = append(errs, ErrEmptyOrder)
	}
	if !o.Amount.IsPos() {
		errs = append(errs, ErrAmountNotPositive)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrInvalidStatus)
	}

	return errs
}
