package commission

import (
	"context"
	"errors"
	"fmt"
	"log"

	"compsuite/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invalidator drops cached balance state for a member after a write to
// any of their transaction sources.
type Invalidator interface {
	Invalidate(ctx context.Context, memberID uint) error
}

// UplineResolver is the read-only view of the referral network the
// engine needs.
type UplineResolver interface {
	UplineAt(memberID uint, depth int) (*models.Member, error)
	Downline(memberID uint, maxDepth int) ([]uint, error)
}

// Trigger is a verified payment event eligible for commission processing.
type Trigger struct {
	EventRef string
	MemberID uint
	Kind     string
	Amount   decimal.Decimal
}

// Engine walks the referral chain for each trigger and posts one
// commission per (event, recipient, level, type). Posting is
// conflict-tolerant, so the whole operation is safely retryable.
type Engine struct {
	db     *gorm.DB
	net    UplineResolver
	ledger *Ledger
	rules  *Rules
	cache  Invalidator

	// MinTriggerAmount is the smallest payment that earns commissions
	// (K500 by default).
	MinTriggerAmount decimal.Decimal
}

func NewEngine(db *gorm.DB, net UplineResolver, ledger *Ledger, rules *Rules, cache Invalidator) *Engine {
	return &Engine{
		db:               db,
		net:              net,
		ledger:           ledger,
		rules:            rules,
		cache:            cache,
		MinTriggerAmount: decimal.NewFromInt(500),
	}
}

// Eligible reports whether a trigger qualifies for referral commissions.
// Ineligible triggers are skipped, not rejected.
func (e *Engine) Eligible(t Trigger) bool {
	if t.Kind != models.KindRegistration && t.Kind != models.KindSubscription {
		return false
	}
	return t.Amount.GreaterThanOrEqual(e.MinTriggerAmount)
}

// ProcessTrigger posts referral commissions up to MaxLevel ancestors of
// the triggering member. A conflict at any level means that level was
// already posted (earlier run or concurrent worker) and processing
// continues; any other posting error aborts the remaining levels without
// rolling back the posted ones — a retry resumes where it stopped.
func (e *Engine) ProcessTrigger(ctx context.Context, t Trigger) error {
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if t.EventRef == "" {
		return errors.New("trigger event reference is required")
	}
	if !e.Eligible(t) {
		return nil
	}

	var affected []uint
	for level := 1; level <= MaxLevel; level++ {
		recipient, err := e.net.UplineAt(t.MemberID, level)
		if err != nil {
			e.invalidateAll(ctx, affected)
			return fmt.Errorf("resolve upline at level %d: %w", level, err)
		}
		if recipient == nil {
			// Chain exhausted; fewer than MaxLevel ancestors is normal.
			break
		}

		amount, err := e.rules.ReferralCommission(level, t.Amount)
		if err != nil {
			e.invalidateAll(ctx, affected)
			return err
		}
		if amount.IsZero() {
			continue
		}

		_, err = e.ledger.Post(&models.CommissionRecord{
			RecipientID: recipient.ID,
			EventRef:    t.EventRef,
			Level:       level,
			Type:        models.CommissionReferral,
			Amount:      amount,
		})
		if err != nil && !errors.Is(err, ErrConflict) {
			e.invalidateAll(ctx, affected)
			return fmt.Errorf("post level %d commission: %w", level, err)
		}
		affected = append(affected, recipient.ID)
	}

	e.invalidateAll(ctx, affected)
	return nil
}

func (e *Engine) invalidateAll(ctx context.Context, memberIDs []uint) {
	for _, id := range memberIDs {
		if err := e.cache.Invalidate(ctx, id); err != nil {
			log.Printf("⚠️  failed to invalidate balance cache for member %d: %v", id, err)
		}
	}
}
