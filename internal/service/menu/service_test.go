package menu_test

import (
	"context"
	"errors"
	"testing"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
	"github.com/vladislavdragonenkov/foodorder/internal/service/menu"
	"github.com/vladislavdragonenkov/foodorder/internal/storage/memory"
)

var admin = domain.Principal{ID: "admin-1", IsAdmin: true}

func TestService_CreateAndList(t *testing.T) {
	svc := menu.NewService(memory.NewMenuCatalog(), nil, nil)
	ctx := context.Background()

	item, err := svc.Create(ctx, admin, menu.CreateInput{Name: " Suya ", Cost: "1250.50", ImageURL: "https://img/suya.png"})
	require.NoError(t, err)
	assert.Equal(t, "Suya", item.Name)
	assert.True(t, item.Cost.Equal(decimal.MustNew(125050, 2)))
	assert.NotEmpty(t, item.ID)

	items, err := svc.List(ctx, domain.MenuQuery{Search: "suy"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestService_CreateRequiresAdmin(t *testing.T) {
	svc := menu.NewService(memory.NewMenuCatalog(), nil, nil)

	_, err := svc.Create(context.Background(), domain.Principal{ID: "user-1"}, menu.CreateInput{Name: "Suya", Cost: "10"})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_CreateValidation(t *testing.T) {
	svc := menu.NewService(memory.NewMenuCatalog(), nil, nil)

	tests := []struct {
		name    string
		input   menu.CreateInput
		reasons []string
	}{
		{"missing name", menu.CreateInput{Cost: "10"}, []string{domain.ErrMenuNameRequired.Error()}},
		{"zero cost", menu.CreateInput{Name: "Suya", Cost: "0"}, []string{domain.ErrMenuCostNotPositive.Error()}},
		{"garbage cost", menu.CreateInput{Name: "Suya", Cost: "ten"}, []string{"Cost must be a decimal number"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), admin, tt.input)
			require.ErrorIs(t, err, domain.ErrInvalidField)

			var failure *domain.Failure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, tt.reasons, failure.Details)
		})
	}
}

func TestService_ListNeverNil(t *testing.T) {
	svc := menu.NewService(memory.NewMenuCatalog(), nil, nil)

	items, err := svc.List(context.Background(), domain.MenuQuery{Offset: 50})
	require.NoError(t, err)
	assert.NotNil(t, items)
}
