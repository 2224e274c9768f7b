package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

func TestUserDirectory_PostgresUpsertAndGet(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	users := NewUserDirectory(store)
	ctx := context.Background()

	_, err := users.Get(ctx, "user-a")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	profile := domain.User{ID: "user-a", FirstName: "Ada", LastName: "Lovelace", Address: "12 Baker Street", Phone: "12345678901"}
	_, err = users.Upsert(ctx, profile)
	require.NoError(t, err)

	profile.Address = "221B Baker Street"
	_, err = users.Upsert(ctx, profile)
	require.NoError(t, err)

	got, err := users.Get(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, profile, got)
}
