package account

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aire-labs/aire/internal/store"
)

func newTestService(t *testing.T, freeAnalyses int, adminCode string) *Service {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return NewService(st, freeAnalyses, adminCode)
}

func TestCharge_FreeTier(t *testing.T) {
	svc := newTestService(t, 2, "")
	ctx := context.Background()

	require.NoError(t, svc.Charge(ctx, "buyer@example.com"))
	require.NoError(t, svc.Charge(ctx, "buyer@example.com"))

	err := svc.Charge(ctx, "buyer@example.com")
	assert.ErrorIs(t, err, ErrQuotaExhausted)

	// The failed charge must not have consumed anything.
	u, err := svc.Lookup(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, u.AnalysesUsed)
}

func TestCharge_PaidUserUnmetered(t *testing.T) {
	svc := newTestService(t, 1, "letmein")
	ctx := context.Background()

	require.NoError(t, svc.Charge(ctx, "payer@example.com"))
	require.NoError(t, svc.Unlock(ctx, "payer@example.com", "letmein"))

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Charge(ctx, "payer@example.com"))
	}
	u, err := svc.Lookup(ctx, "payer@example.com")
	require.NoError(t, err)
	assert.True(t, u.Paid)
	assert.Equal(t, 1, u.AnalysesUsed, "paid charges are not metered")
}

func TestUnlock_BadCode(t *testing.T) {
	svc := newTestService(t, 2, "letmein")
	ctx := context.Background()

	err := svc.Unlock(ctx, "buyer@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid unlock code")
}

func TestUnlock_NoCodeConfigured(t *testing.T) {
	svc := newTestService(t, 2, "")

	err := svc.Unlock(context.Background(), "buyer@example.com", "")
	require.Error(t, err, "unlock must be refused when no code is configured")
}

func TestCharge_NewUserStartsAtZero(t *testing.T) {
	svc := newTestService(t, 2, "")

	u, err := svc.Lookup(context.Background(), "fresh@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, u.AnalysesUsed)
	assert.False(t, u.Paid)
}
