package commission

import (
	"errors"

	"compsuite/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrConflict means a record already exists for the same
	// (event, recipient, level, type) tuple. Expected under retries.
	ErrConflict          = errors.New("commission already posted for this event, recipient, level and type")
	ErrInvalidTransition = errors.New("commission status is terminal")
	ErrInvalidType       = errors.New("unknown commission type")
)

// Ledger is the durable commission record store. Append-only from the
// engine's perspective; status moves one way out of pending.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Post inserts the record with status pending. The composite unique
// index on (event_ref, recipient_id, level, type) is the idempotency
// boundary: the database turns a duplicate insert into ErrConflict, a
// second row is impossible even across processes.
func (l *Ledger) Post(rec *models.CommissionRecord) (uint, error) {
	if rec.Amount.IsNegative() {
		return 0, ErrInvalidAmount
	}
	switch rec.Type {
	case models.CommissionReferral:
		if rec.Level < 1 || rec.Level > MaxLevel {
			return 0, ErrInvalidLevel
		}
	case models.CommissionTeamVolume, models.CommissionPerformance:
		if rec.Level != 0 {
			return 0, ErrInvalidLevel
		}
	default:
		return 0, ErrInvalidType
	}
	if rec.Status == "" {
		rec.Status = models.StatusPending
	}

	if err := l.db.Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrConflict
		}
		return 0, err
	}
	return rec.ID, nil
}

// MarkPaid moves a pending record to paid.
func (l *Ledger) MarkPaid(id uint) error {
	return l.transition(id, models.StatusPaid, "")
}

// Cancel moves a pending record to cancelled with a reason.
func (l *Ledger) Cancel(id uint, reason string) error {
	return l.transition(id, models.StatusCancelled, reason)
}

// transition is a compare-and-set: the UPDATE only matches a pending
// row, so two workers settling the same record cannot both win — the
// database arbitrates instead of a prior read. The loser sees zero rows
// affected and gets ErrInvalidTransition.
func (l *Ledger) transition(id uint, to, reason string) error {
	updates := map[string]any{"status": to}
	if reason != "" {
		updates["reason"] = reason
	}

	res := l.db.Model(&models.CommissionRecord{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var rec models.CommissionRecord
		if err := l.db.First(&rec, id).Error; err != nil {
			return err
		}
		return ErrInvalidTransition
	}
	return nil
}

// SumPaidFor totals the paid commissions of a recipient. Used by the
// wallet aggregator.
func (l *Ledger) SumPaidFor(recipientID uint) (decimal.Decimal, error) {
	row := l.db.Model(&models.CommissionRecord{}).
		Where("recipient_id = ? AND status = ?", recipientID, models.StatusPaid).
		Select("COALESCE(SUM(amount), 0)").
		Row()

	var total decimal.Decimal
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// ListFor returns a recipient's commission records, newest first.
func (l *Ledger) ListFor(recipientID uint) ([]models.CommissionRecord, error) {
	var recs []models.CommissionRecord
	err := l.db.Where("recipient_id = ?", recipientID).
		Order("created_at desc").
		Find(&recs).Error
	return recs, err
}
