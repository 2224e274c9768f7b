package domain

import "errors"

var (
	// ErrBadRequest - тело запроса не удалось разобрать.
	ErrBadRequest = errors.New("request body is malformed")
	// ErrUnauthorized - запрос без действительного токена.
	ErrUnauthorized = errors.New("authentication is required")
	// ErrForbidden - участник не имеет права на операцию.
	ErrForbidden = errors.New("operation is forbidden for principal")
	// ErrInvalidField - значение поля не прошло проверку.
	ErrInvalidField = errors.New("invalid field value")

	// ErrEmptyOrder - заказ без единой позиции.
	ErrEmptyOrder = errors.New("order must contain at least one item")
	// ErrUnknownItem - одна или несколько позиций не найдены в меню.
	ErrUnknownItem = errors.New("requested meal does not exist")
	// ErrUserRequired - у заказа нет владельца.
	ErrUserRequired = errors.New("user_id is required")
	// ErrAmountNotPositive - сумма заказа должна быть больше нуля.
	ErrAmountNotPositive = errors.New("amount must be positive")
	// ErrStatusRequired - в запросе на смену статуса нет значения.
	ErrStatusRequired = errors.New("orderStatus is required")
	// ErrInvalidStatus - статус вне множества new/processing/cancelled/complete.
	ErrInvalidStatus = errors.New("invalid orderStatus")
	// ErrInvalidTransition - переход запрещён строгой политикой.
	ErrInvalidTransition = errors.New("order status transition is not allowed")
	// ErrStatusConflict - статус заказа изменился параллельно.
	ErrStatusConflict = errors.New("order status was changed concurrently")
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists - повторная вставка заказа с тем же ID.
	ErrOrderAlreadyExists = errors.New("order already exists")

	// ErrMenuItemNotFound - позиции меню с таким ID нет (или ID некорректен).
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrMenuNameRequired - у позиции меню нет названия.
	ErrMenuNameRequired = errors.New("menu item name is required")
	// ErrMenuCostNotPositive - стоимость позиции меню должна быть больше нуля.
	ErrMenuCostNotPositive = errors.New("menu item cost must be positive")

	// ErrUserNotFound - профиль пользователя не найден.
	ErrUserNotFound = errors.New("user not found")

	// ErrOutboxPublish - ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// Failure дополняет sentinel-ошибку сообщением для клиента и списком причин.
type Failure struct {
	Err     error
	Message string
	Details []string
}

// NewFailure создаёт Failure поверх sentinel-ошибки.
func NewFailure(err error, message string, details ...string) *Failure {
	return &Failure{Err: err, Message: message, Details: details}
}

func (f *Failure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return "unknown failure"
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// IsNotFound проверяет ошибки отсутствия заказа, позиции меню или пользователя.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrMenuItemNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
