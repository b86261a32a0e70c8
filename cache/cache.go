package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"compsuite/wallet"

	"github.com/shopspring/decimal"
)

// DefaultTTL is how long a computed balance stays fresh.
const DefaultTTL = 120 * time.Second

// Store is a TTL key-value backend. Memory for single-process
// deployments, Redis when workers share a cache.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// BalanceCache fronts the wallet aggregator. A degraded store never
// fails a read: the compute function runs directly instead.
type BalanceCache struct {
	store Store
	ttl   time.Duration
}

func NewBalanceCache(store Store, ttl time.Duration) *BalanceCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &BalanceCache{store: store, ttl: ttl}
}

func balanceKey(memberID uint) string { return fmt.Sprintf("wallet:balance:%d", memberID) }
func totalsKey(memberID uint) string  { return fmt.Sprintf("wallet:totals:%d", memberID) }

// GetBalance returns the cached balance or computes and stores a fresh
// one. Two concurrent first-reads may both compute; the computation is a
// pure aggregation, so that is cheaper than locking.
func (b *BalanceCache) GetBalance(ctx context.Context, memberID uint, compute func() (decimal.Decimal, error)) (decimal.Decimal, error) {
	key := balanceKey(memberID)

	raw, ok, err := b.store.Get(ctx, key)
	if err != nil {
		log.Printf("⚠️  balance cache read failed, computing directly: %v", err)
	} else if ok {
		if v, perr := decimal.NewFromString(raw); perr == nil {
			return v, nil
		}
	}

	v, err := compute()
	if err != nil {
		return decimal.Zero, err
	}
	if err := b.store.Set(ctx, key, v.String(), b.ttl); err != nil {
		log.Printf("⚠️  balance cache write failed: %v", err)
	}
	return v, nil
}

// GetTotals is GetBalance for the full wallet breakdown.
func (b *BalanceCache) GetTotals(ctx context.Context, memberID uint, compute func() (wallet.Totals, error)) (wallet.Totals, error) {
	key := totalsKey(memberID)

	raw, ok, err := b.store.Get(ctx, key)
	if err != nil {
		log.Printf("⚠️  totals cache read failed, computing directly: %v", err)
	} else if ok {
		var t wallet.Totals
		if perr := json.Unmarshal([]byte(raw), &t); perr == nil {
			return t, nil
		}
	}

	t, err := compute()
	if err != nil {
		return wallet.Totals{}, err
	}
	if buf, merr := json.Marshal(t); merr == nil {
		if err := b.store.Set(ctx, key, string(buf), b.ttl); err != nil {
			log.Printf("⚠️  totals cache write failed: %v", err)
		}
	}
	return t, nil
}

// Invalidate drops both cached entries for a member. Every component
// that writes a transaction-source row calls this for each affected
// member in the same logical operation.
func (b *BalanceCache) Invalidate(ctx context.Context, memberID uint) error {
	return b.store.Delete(ctx, balanceKey(memberID), totalsKey(memberID))
}
