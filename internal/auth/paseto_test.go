package auth

import (
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService("", time.Hour)
	require.NoError(t, err)

	principal := domain.Principal{ID: "user-1", IsAdmin: true, Address: "12 Broad Street"}
	token, err := svc.Issue(principal)
	require.NoError(t, err)
	assert.Contains(t, token, "v4.local.")

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, principal, got)
}

func TestTokenService_SharedKey(t *testing.T) {
	key := paseto.NewV4SymmetricKey().ExportHex()

	issuer, err := NewTokenService(key, time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService(key, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, key, verifier.KeyHex())

	token, err := issuer.Issue(domain.Principal{ID: "user-2"})
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-2", got.ID)
	assert.False(t, got.IsAdmin)
}

func TestTokenService_RejectsForeignKey(t *testing.T) {
	issuer, err := NewTokenService("", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService("", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(domain.Principal{ID: "user-1"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc, err := NewTokenService("", time.Minute)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Issue(domain.Principal{ID: "user-1"})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc, err := NewTokenService("", time.Hour)
	require.NoError(t, err)

	for _, raw := range []string{"", "not-a-token", "v4.local.AAAA"} {
		_, err := svc.Verify(raw)
		require.ErrorIs(t, err, domain.ErrUnauthorized, raw)
	}
}

func TestNewTokenService_InvalidKey(t *testing.T) {
	_, err := NewTokenService("zz", time.Hour)
	require.Error(t, err)
}

func TestTokenService_IssueRequiresUser(t *testing.T) {
	svc, err := NewTokenService("", time.Hour)
	require.NoError(t, err)

	_, err = svc.Issue(domain.Principal{})
	require.Error(t, err)
}
