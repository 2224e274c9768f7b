package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
	"github.com/vladislavdragonenkov/foodorder/internal/service/authz"
)

var (
	owner    = domain.Principal{ID: "user-1"}
	stranger = domain.Principal{ID: "user-2"}
	admin    = domain.Principal{ID: "admin-1", IsAdmin: true}
	order    = domain.Order{ID: "order-1", UserID: "user-1"}
)

func TestGuard_Authorize(t *testing.T) {
	guard := authz.NewGuard()

	tests := []struct {
		name      string
		principal domain.Principal
		op        authz.Operation
		allowed   bool
		reason    string
	}{
		{"list all as admin", admin, authz.ListAllOrders(), true, ""},
		{"list all as user", owner, authz.ListAllOrders(), false, authz.ReasonAdminOnlyList},
		{"list own orders", owner, authz.ListOrdersForUser("user-1"), true, ""},
		{"list foreign orders", stranger, authz.ListOrdersForUser("user-1"), false, authz.ReasonForeignOrderList},
		{"list foreign orders as admin", admin, authz.ListOrdersForUser("user-1"), true, ""},
		{"get own order", owner, authz.GetOrder(order), true, ""},
		{"get foreign order", stranger, authz.GetOrder(order), false, authz.ReasonForeignOrder},
		{"get order as admin", admin, authz.GetOrder(order), true, ""},
		{"create as user", owner, authz.CreateOrder(), true, ""},
		{"create as admin", admin, authz.CreateOrder(), false, authz.ReasonAdminCannotOrder},
		{"update status as admin", admin, authz.UpdateOrderStatus(), true, ""},
		{"update status as owner", owner, authz.UpdateOrderStatus(), false, authz.ReasonAdminOnlyStatus},
		{"delete own order", owner, authz.DeleteOrder(order), true, ""},
		{"delete foreign order", stranger, authz.DeleteOrder(order), false, authz.ReasonForeignOrderDel},
		{"delete as admin", admin, authz.DeleteOrder(order), true, ""},
		{"manage menu as admin", admin, authz.ManageMenu(), true, ""},
		{"manage menu as user", owner, authz.ManageMenu(), false, authz.ReasonAdminOnlyMenu},
		{"view own profile", owner, authz.ViewProfile("user-1"), true, ""},
		{"view foreign profile", stranger, authz.ViewProfile("user-1"), false, authz.ReasonForeignProfile},
		{"anonymous never owns", domain.Principal{}, authz.ListOrdersForUser(""), false, authz.ReasonForeignOrderList},
		{"unknown operation", admin, authz.Operation{}, false, "Operation is not permitted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := guard.Authorize(tt.principal, tt.op)
			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

func TestDecision_Err(t *testing.T) {
	guard := authz.NewGuard()

	require.NoError(t, guard.Authorize(admin, authz.ListAllOrders()).Err())

	err := guard.Authorize(owner, authz.ListAllOrders()).Err()
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, authz.ReasonAdminOnlyList, err.Error())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "delete_order", authz.KindDeleteOrder.String())
	assert.Equal(t, "kind(99)", authz.Kind(99).String())
}
