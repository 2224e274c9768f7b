package httpapi

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
	"github.com/vladislavdragonenkov/foodorder/internal/service/menu"
	"github.com/vladislavdragonenkov/foodorder/internal/service/order"
	"github.com/vladislavdragonenkov/foodorder/internal/service/validation"
)

// OrderService - операции жизненного цикла заказа.
type OrderService interface {
	Create(ctx context.Context, principal domain.Principal, input order.CreateInput) (domain.Order, error)
	Get(ctx context.Context, principal domain.Principal, orderID string) (domain.Order, error)
	ListAll(ctx context.Context, principal domain.Principal) ([]domain.OrderView, error)
	ListForUser(ctx context.Context, principal domain.Principal, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, principal domain.Principal, orderID, status string) (domain.Order, error)
	Delete(ctx context.Context, principal domain.Principal, orderID string) (domain.Order, error)
	Timeline(ctx context.Context, principal domain.Principal, orderID string) ([]domain.TimelineEvent, error)
}

// MenuService - чтение и пополнение меню.
type MenuService interface {
	List(ctx context.Context, query domain.MenuQuery) ([]domain.MenuItem, error)
	Create(ctx context.Context, principal domain.Principal, input menu.CreateInput) (domain.MenuItem, error)
}

// ProfileService - профили пользователей.
type ProfileService interface {
	Save(ctx context.Context, principal domain.Principal, input validation.Profile) (domain.User, error)
	Get(ctx context.Context, principal domain.Principal, userID string) (domain.User, error)
}

// Handler объединяет обработчики всех маршрутов API.
type Handler struct {
	orders   OrderService
	menu     MenuService
	profiles ProfileService
	logger   *log.Entry
}

// bindJSON разбирает тело запроса. Пустое тело не ошибка: проверку
// обязательных полей выполняют сервисы со своими сообщениями.
func (h *Handler) bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, h.logger, domain.NewFailure(domain.ErrBadRequest, msgBadRequest))
		return false
	}
	return true
}

// principal возвращает участника запроса; без него отвечает 401.
func (h *Handler) principal(c *gin.Context) (domain.Principal, bool) {
	principal, ok := principalFrom(c)
	if !ok {
		respondError(c, h.logger, domain.NewFailure(domain.ErrUnauthorized, msgUnauthorized))
	}
	return principal, ok
}
