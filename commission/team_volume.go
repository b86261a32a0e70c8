package commission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"compsuite/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// Team-volume bonuses run as a daily batch over the current calendar
// month. Re-running a period is harmless: the snapshot row is upserted
// and bonus posting is absorbed by the ledger's conflict rule.

// Period returns the period key for a point in time.
func Period(ts time.Time) string {
	return ts.UTC().Format("2006-01")
}

func periodWindow(period string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad period %q: %w", period, err)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// TeamVolume sums the deposit and purchase volume of every downline
// member within maxDepth levels over the period window.
func (e *Engine) TeamVolume(memberID uint, period string, maxDepth int) (decimal.Decimal, error) {
	downline, err := e.net.Downline(memberID, maxDepth)
	if err != nil {
		return decimal.Zero, err
	}
	if len(downline) == 0 {
		return decimal.Zero, nil
	}

	from, to, err := periodWindow(period)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, model := range []any{&models.Deposit{}, &models.Purchase{}} {
		row := e.db.Model(model).
			Where("member_id IN ? AND created_at >= ? AND created_at < ?", downline, from, to).
			Select("COALESCE(SUM(amount), 0)").
			Row()
		var sum decimal.Decimal
		if err := row.Scan(&sum); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(sum)
	}
	return total, nil
}

// PostTeamVolumeBonus snapshots the member's team volume for the period
// and posts the TEAM_VOLUME bonus (direct downline volume) and the
// PERFORMANCE bonus (full five-level volume). Both postings are keyed by
// a period-scoped event reference, so replays hit the conflict rule.
func (e *Engine) PostTeamVolumeBonus(ctx context.Context, memberID uint, period string) error {
	directVolume, err := e.TeamVolume(memberID, period, 1)
	if err != nil {
		return err
	}
	fullVolume, err := e.TeamVolume(memberID, period, MaxLevel)
	if err != nil {
		return err
	}

	snapshot := models.TeamVolumePeriod{
		MemberID: memberID,
		Period:   period,
		Volume:   fullVolume,
	}
	if err := e.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "period"}},
		DoUpdates: clause.AssignmentColumns([]string{"volume", "updated_at"}),
	}).Create(&snapshot).Error; err != nil {
		return fmt.Errorf("snapshot team volume: %w", err)
	}

	eventRef := fmt.Sprintf("team-volume:%s:%d", period, memberID)
	posted := false

	teamBonus, err := e.rules.PerformanceBonus(directVolume)
	if err != nil {
		return err
	}
	if !teamBonus.IsZero() {
		_, err := e.ledger.Post(&models.CommissionRecord{
			RecipientID: memberID,
			EventRef:    eventRef,
			Type:        models.CommissionTeamVolume,
			Amount:      teamBonus,
		})
		if err != nil && !errors.Is(err, ErrConflict) {
			return fmt.Errorf("post team volume bonus: %w", err)
		}
		posted = posted || err == nil
	}

	perfBonus, err := e.rules.PerformanceBonus(fullVolume)
	if err != nil {
		return err
	}
	if !perfBonus.IsZero() {
		_, err := e.ledger.Post(&models.CommissionRecord{
			RecipientID: memberID,
			EventRef:    eventRef,
			Type:        models.CommissionPerformance,
			Amount:      perfBonus,
		})
		if err != nil && !errors.Is(err, ErrConflict) {
			return fmt.Errorf("post performance bonus: %w", err)
		}
		posted = posted || err == nil
	}

	if posted {
		if err := e.cache.Invalidate(ctx, memberID); err != nil {
			log.Printf("⚠️  failed to invalidate balance cache for member %d: %v", memberID, err)
		}
	}
	return nil
}

// PostAllTeamVolumeBonuses runs the period batch for every member that
// has at least one referral. One bad member is logged and skipped; it
// never halts the batch.
func (e *Engine) PostAllTeamVolumeBonuses(ctx context.Context, period string) error {
	var referrerIDs []uint
	if err := e.db.Model(&models.Member{}).
		Distinct("referrer_id").
		Where("referrer_id IS NOT NULL").
		Pluck("referrer_id", &referrerIDs).Error; err != nil {
		return err
	}

	var failed int
	for _, id := range referrerIDs {
		if err := e.PostTeamVolumeBonus(ctx, id, period); err != nil {
			failed++
			log.Printf("❌ team volume bonus for member %d (%s): %v", id, period, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("team volume batch for %s: %d of %d members failed", period, failed, len(referrerIDs))
	}
	return nil
}
