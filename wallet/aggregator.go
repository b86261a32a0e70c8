package wallet

import (
	"compsuite/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Totals is the derived wallet snapshot for one member. Never stored;
// computed on demand and cached with a TTL in front of this package.
type Totals struct {
	Deposits         decimal.Decimal `json:"deposits"`
	Commissions      decimal.Decimal `json:"commissions"`
	ProfitShares     decimal.Decimal `json:"profit_shares"`
	VentureDividends decimal.Decimal `json:"venture_dividends"`
	BusinessRevenue  decimal.Decimal `json:"business_revenue"`
	Withdrawals      decimal.Decimal `json:"withdrawals"`
	Expenses         decimal.Decimal `json:"expenses"`
	Credits          decimal.Decimal `json:"credits"`
	Debits           decimal.Decimal `json:"debits"`
	Balance          decimal.Decimal `json:"balance"`
}

// Aggregator derives wallet totals by summing every applicable
// transaction source. Strictly read-only.
type Aggregator struct {
	credits []Source
	debits  []Source
}

func NewAggregator(db *gorm.DB, ledger PaidCommissions) *Aggregator {
	return &Aggregator{
		credits: []Source{
			&tableSource{db: db, model: &models.Deposit{}, category: CategoryDeposits, applies: anyMember},
			&commissionSource{ledger: ledger},
			&tableSource{db: db, model: &models.ProfitShare{}, category: CategoryProfitShares, applies: memberOnly, optional: true},
			&tableSource{db: db, model: &models.VentureDividend{}, category: CategoryVentureDividends, applies: memberOnly, optional: true},
			&tableSource{db: db, model: &models.BusinessRevenue{}, category: CategoryBusinessRevenue, applies: businessOnly, optional: true},
		},
		debits: []Source{
			&tableSource{db: db, model: &models.Withdrawal{}, category: CategoryWithdrawals, applies: anyMember},
			&tableSource{db: db, model: &models.Purchase{}, category: CategoryExpenses, applies: anyMember},
		},
	}
}

// Totals sums every source that applies to the member's account type.
// Sources the member is not gated for contribute zero regardless of any
// stray rows in their tables.
func (a *Aggregator) Totals(m *models.Member) (Totals, error) {
	var t Totals

	byCategory := map[string]decimal.Decimal{}
	for _, group := range [][]Source{a.credits, a.debits} {
		for _, src := range group {
			if !src.AppliesTo(m) {
				byCategory[src.Category()] = decimal.Zero
				continue
			}
			sum, err := src.SumFor(m.ID)
			if err != nil {
				return Totals{}, err
			}
			byCategory[src.Category()] = sum
		}
	}

	t.Deposits = byCategory[CategoryDeposits]
	t.Commissions = byCategory[CategoryCommissions]
	t.ProfitShares = byCategory[CategoryProfitShares]
	t.VentureDividends = byCategory[CategoryVentureDividends]
	t.BusinessRevenue = byCategory[CategoryBusinessRevenue]
	t.Withdrawals = byCategory[CategoryWithdrawals]
	t.Expenses = byCategory[CategoryExpenses]

	t.Credits = t.Deposits.
		Add(t.Commissions).
		Add(t.ProfitShares).
		Add(t.VentureDividends).
		Add(t.BusinessRevenue)
	t.Debits = t.Withdrawals.Add(t.Expenses)

	t.Balance = t.Credits.Sub(t.Debits)
	if t.Balance.IsNegative() {
		t.Balance = decimal.Zero
	}
	return t, nil
}

// Balance is max(0, credits − debits).
func (a *Aggregator) Balance(m *models.Member) (decimal.Decimal, error) {
	t, err := a.Totals(m)
	if err != nil {
		return decimal.Zero, err
	}
	return t.Balance, nil
}
