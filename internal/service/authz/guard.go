// Package authz принимает решения о доступе участника к операциям над заказами,
// меню и профилями.
package authz

import (
	"fmt"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

// Kind - тип операции, для которой запрашивается решение.
type Kind int

const (
	KindListAllOrders Kind = iota + 1
	KindListOrdersForUser
	KindGetOrder
	KindCreateOrder
	KindUpdateOrderStatus
	KindDeleteOrder
	KindManageMenu
	KindViewProfile
)

func (k Kind) String() string {
	switch k {
	case KindListAllOrders:
		return "list_all_orders"
	case KindListOrdersForUser:
		return "list_orders_for_user"
	case KindGetOrder:
		return "get_order"
	case KindCreateOrder:
		return "create_order"
	case KindUpdateOrderStatus:
		return "update_order_status"
	case KindDeleteOrder:
		return "delete_order"
	case KindManageMenu:
		return "manage_menu"
	case KindViewProfile:
		return "view_profile"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Operation - операция вместе с её целью. Создаётся конструкторами ниже.
type Operation struct {
	Kind Kind
	// TargetUserID - владелец ресурса: чей список заказов, чей профиль, чей заказ.
	TargetUserID string
}

// ListAllOrders - просмотр всех заказов.
func ListAllOrders() Operation { return Operation{Kind: KindListAllOrders} }

// ListOrdersForUser - просмотр заказов конкретного пользователя.
func ListOrdersForUser(userID string) Operation {
	return Operation{Kind: KindListOrdersForUser, TargetUserID: userID}
}

// GetOrder - чтение существующего заказа.
func GetOrder(order domain.Order) Operation {
	return Operation{Kind: KindGetOrder, TargetUserID: order.UserID}
}

// CreateOrder - оформление заказа.
func CreateOrder() Operation { return Operation{Kind: KindCreateOrder} }

// UpdateOrderStatus - смена статуса заказа.
func UpdateOrderStatus() Operation { return Operation{Kind: KindUpdateOrderStatus} }

// DeleteOrder - удаление существующего заказа.
func DeleteOrder(order domain.Order) Operation {
	return Operation{Kind: KindDeleteOrder, TargetUserID: order.UserID}
}

// ManageMenu - изменение меню.
func ManageMenu() Operation { return Operation{Kind: KindManageMenu} }

// ViewProfile - просмотр профиля пользователя.
func ViewProfile(userID string) Operation {
	return Operation{Kind: KindViewProfile, TargetUserID: userID}
}

// Decision - результат проверки доступа.
type Decision struct {
	Allowed bool
	Reason  string
}

// Err возвращает nil для разрешения и Failure поверх ErrForbidden для отказа.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return domain.NewFailure(domain.ErrForbidden, d.Reason)
}

// Тексты отказов возвращаются клиенту как есть.
const (
	ReasonAdminOnlyList    = "Only admins can view all orders"
	ReasonForeignOrderList = "You are not authorized to view other users' orders"
	ReasonForeignOrder     = "Only admins can view an order of another user"
	ReasonAdminCannotOrder = "Admins cannot place orders"
	ReasonAdminOnlyStatus  = "Only admins can change the status of an order"
	ReasonForeignOrderDel  = "You are not authorized to delete this order"
	ReasonAdminOnlyMenu    = "Only admins can manage the menu"
	ReasonForeignProfile   = "You are not authorized to view other users' profiles"
	reasonUnknownOperation = "Operation is not permitted"
)

// Guard - единая точка принятия решений о доступе. Не хранит состояния.
type Guard struct{}

// NewGuard создаёт Guard.
func NewGuard() *Guard {
	return &Guard{}
}

// Authorize решает, может ли участник выполнить операцию.
func (g *Guard) Authorize(principal domain.Principal, op Operation) Decision {
	switch op.Kind {
	case KindListAllOrders:
		return adminOnly(principal, ReasonAdminOnlyList)
	case KindListOrdersForUser:
		return selfOrAdmin(principal, op.TargetUserID, ReasonForeignOrderList)
	case KindGetOrder:
		return selfOrAdmin(principal, op.TargetUserID, ReasonForeignOrder)
	case KindCreateOrder:
		if principal.IsAdmin {
			return deny(ReasonAdminCannotOrder)
		}
		return allow()
	case KindUpdateOrderStatus:
		return adminOnly(principal, ReasonAdminOnlyStatus)
	case KindDeleteOrder:
		return selfOrAdmin(principal, op.TargetUserID, ReasonForeignOrderDel)
	case KindManageMenu:
		return adminOnly(principal, ReasonAdminOnlyMenu)
	case KindViewProfile:
		return selfOrAdmin(principal, op.TargetUserID, ReasonForeignProfile)
	default:
		return deny(reasonUnknownOperation)
	}
}

func adminOnly(principal domain.Principal, reason string) Decision {
	if principal.IsAdmin {
		return allow()
	}
	return deny(reason)
}

func selfOrAdmin(principal domain.Principal, ownerID, reason string) Decision {
	if principal.IsAdmin {
		return allow()
	}
	if principal.ID != "" && principal.ID == ownerID {
		return allow()
	}
	return deny(reason)
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }
