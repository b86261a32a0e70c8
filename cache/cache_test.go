package cache_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"compsuite/cache"
	"compsuite/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore simulates an unavailable cache backend.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("backend down")
}

func (failingStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("backend down")
}

func (failingStore) Delete(context.Context, ...string) error {
	return errors.New("backend down")
}

func newMemory(t *testing.T) *cache.Memory {
	t.Helper()

	store := cache.NewMemory()
	t.Cleanup(store.Close)
	return store
}

func TestMemory_TTLExpiry(t *testing.T) {
	store := newMemory(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", 20*time.Millisecond))

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", got)

	time.Sleep(30 * time.Millisecond)

	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entry must expire after its TTL")
}

func TestMemory_CloseStopsJanitorKeepsReadsLazy(t *testing.T) {
	store := cache.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", 10*time.Millisecond))

	store.Close()
	store.Close() // idempotent

	time.Sleep(20 * time.Millisecond)

	// With the janitor stopped, expiry still holds on the read path.
	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k2", "v2", time.Minute))
	got, ok, err := store.Get(ctx, "k2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", got)
}

func TestMemory_Delete(t *testing.T) {
	store := newMemory(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, store.Set(ctx, "b", "2", time.Minute))
	require.NoError(t, store.Delete(ctx, "a", "b"))

	_, ok, _ := store.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "b")
	assert.False(t, ok)
}

func TestBalanceCache_ComputesOnceWhileFresh(t *testing.T) {
	bc := cache.NewBalanceCache(newMemory(t), time.Minute)
	ctx := context.Background()

	computes := 0
	compute := func() (decimal.Decimal, error) {
		computes++
		return decimal.NewFromInt(850), nil
	}

	for i := 0; i < 3; i++ {
		got, err := bc.GetBalance(ctx, 1, compute)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(850)))
	}
	assert.Equal(t, 1, computes, "fresh entries must not recompute")
}

func TestBalanceCache_InvalidationForcesRecompute(t *testing.T) {
	bc := cache.NewBalanceCache(newMemory(t), time.Minute)
	ctx := context.Background()

	balance := decimal.NewFromInt(100)
	compute := func() (decimal.Decimal, error) { return balance, nil }

	got, err := bc.GetBalance(ctx, 1, compute)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(100)))

	// A source row was written; until invalidation the stale value is
	// served, afterwards the new one must be.
	balance = decimal.NewFromInt(250)

	got, err = bc.GetBalance(ctx, 1, compute)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(100)), "pre-invalidation read may be stale")

	require.NoError(t, bc.Invalidate(ctx, 1))

	got, err = bc.GetBalance(ctx, 1, compute)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(250)), "no stale read survives an explicit invalidation")
}

func TestBalanceCache_TotalsRoundTrip(t *testing.T) {
	bc := cache.NewBalanceCache(newMemory(t), time.Minute)
	ctx := context.Background()

	want := wallet.Totals{
		Deposits: decimal.NewFromInt(1000),
		Credits:  decimal.NewFromInt(1000),
		Debits:   decimal.NewFromInt(150),
		Balance:  decimal.NewFromInt(850),
	}

	computes := 0
	compute := func() (wallet.Totals, error) {
		computes++
		return want, nil
	}

	got, err := bc.GetTotals(ctx, 7, compute)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(want.Balance))

	got, err = bc.GetTotals(ctx, 7, compute)
	require.NoError(t, err)
	assert.True(t, got.Deposits.Equal(want.Deposits))
	assert.True(t, got.Balance.Equal(want.Balance))
	assert.Equal(t, 1, computes)
}

func TestBalanceCache_DegradedStoreFallsBackToCompute(t *testing.T) {
	bc := cache.NewBalanceCache(failingStore{}, time.Minute)
	ctx := context.Background()

	got, err := bc.GetBalance(ctx, 1, func() (decimal.Decimal, error) {
		return decimal.NewFromInt(42), nil
	})
	require.NoError(t, err, "a degraded cache must never fail the read")
	assert.True(t, got.Equal(decimal.NewFromInt(42)))

	totals, err := bc.GetTotals(ctx, 1, func() (wallet.Totals, error) {
		return wallet.Totals{Balance: decimal.NewFromInt(42)}, nil
	})
	require.NoError(t, err)
	assert.True(t, totals.Balance.Equal(decimal.NewFromInt(42)))
}

func TestBalanceCache_ConcurrentGetAndInvalidate(t *testing.T) {
	bc := cache.NewBalanceCache(newMemory(t), time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		memberID := uint(i % 4)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := bc.GetBalance(ctx, memberID, func() (decimal.Decimal, error) {
					return decimal.NewFromInt(int64(j)), nil
				})
				assert.NoError(t, err)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.NoError(t, bc.Invalidate(ctx, memberID))
			}
		}()
	}
	wg.Wait()
}

func TestMemory_ConcurrentMixedKeys(t *testing.T) {
	store := newMemory(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n%3)
			for j := 0; j < 100; j++ {
				_ = store.Set(ctx, key, "v", time.Millisecond*time.Duration(j%5+1))
				_, _, _ = store.Get(ctx, key)
				_ = store.Delete(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}
