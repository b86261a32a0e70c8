package wallet

import (
	"compsuite/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Source is the uniform read interface every transaction source exposes
// to the aggregator. The aggregator never sees a source's schema.
type Source interface {
	Category() string
	AppliesTo(m *models.Member) bool
	SumFor(memberID uint) (decimal.Decimal, error)
}

// PaidCommissions is the slice of the commission ledger the wallet
// depends on.
type PaidCommissions interface {
	SumPaidFor(recipientID uint) (decimal.Decimal, error)
}

const (
	CategoryDeposits         = "deposits"
	CategoryCommissions      = "commissions"
	CategoryProfitShares     = "profit_shares"
	CategoryVentureDividends = "venture_dividends"
	CategoryBusinessRevenue  = "business_revenue"
	CategoryWithdrawals      = "withdrawals"
	CategoryExpenses         = "expenses"
)

func anyMember(*models.Member) bool      { return true }
func memberOnly(m *models.Member) bool   { return m.IsMember }
func businessOnly(m *models.Member) bool { return m.IsBusiness }

// tableSource sums the amount column of one gorm model. Optional sources
// (feature-flagged tables) contribute zero when their table is absent.
type tableSource struct {
	db       *gorm.DB
	model    any
	category string
	applies  func(*models.Member) bool
	optional bool
}

func (s *tableSource) Category() string { return s.category }

func (s *tableSource) AppliesTo(m *models.Member) bool { return s.applies(m) }

func (s *tableSource) SumFor(memberID uint) (decimal.Decimal, error) {
	if s.optional && !s.db.Migrator().HasTable(s.model) {
		return decimal.Zero, nil
	}

	row := s.db.Model(s.model).
		Where("member_id = ?", memberID).
		Select("COALESCE(SUM(amount), 0)").
		Row()

	var total decimal.Decimal
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// commissionSource adapts the commission ledger to the Source interface.
type commissionSource struct {
	ledger PaidCommissions
}

func (s *commissionSource) Category() string { return CategoryCommissions }

func (s *commissionSource) AppliesTo(m *models.Member) bool { return memberOnly(m) }

func (s *commissionSource) SumFor(memberID uint) (decimal.Decimal, error) {
	return s.ledger.SumPaidFor(memberID)
}
