package wallet_test

import (
	"testing"

	"compsuite/commission"
	"compsuite/models"
	"compsuite/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Member{},
		&models.CommissionRecord{},
		&models.Deposit{},
		&models.Withdrawal{},
		&models.ProfitShare{},
		&models.VentureDividend{},
		&models.BusinessRevenue{},
		&models.Purchase{},
	))
	return db
}

func newAggregator(t *testing.T) (*wallet.Aggregator, *commission.Ledger, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	ledger := commission.NewLedger(db)
	return wallet.NewAggregator(db, ledger), ledger, db
}

func seedMember(t *testing.T, db *gorm.DB, code string, isMember, isBusiness bool) *models.Member {
	t.Helper()

	m := &models.Member{
		MemberCode: code,
		IsMember:   isMember,
		IsBusiness: isBusiness,
		IsActive:   true,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func payCommission(t *testing.T, ledger *commission.Ledger, recipientID uint, eventRef string, amount int64) {
	t.Helper()

	id, err := ledger.Post(&models.CommissionRecord{
		RecipientID: recipientID,
		EventRef:    eventRef,
		Level:       1,
		Type:        models.CommissionReferral,
		Amount:      decimal.NewFromInt(amount),
	})
	require.NoError(t, err)
	require.NoError(t, ledger.MarkPaid(id))
}

func TestTotals_Breakdown(t *testing.T) {
	agg, ledger, db := newAggregator(t)
	m := seedMember(t, db, "m1", true, false)

	require.NoError(t, db.Create(&models.Deposit{MemberID: m.ID, Amount: decimal.NewFromInt(1000)}).Error)
	payCommission(t, ledger, m.ID, "evt-1", 200)
	require.NoError(t, db.Create(&models.ProfitShare{MemberID: m.ID, Amount: decimal.NewFromInt(50)}).Error)
	require.NoError(t, db.Create(&models.Withdrawal{MemberID: m.ID, Amount: decimal.NewFromInt(300)}).Error)
	require.NoError(t, db.Create(&models.Purchase{MemberID: m.ID, Amount: decimal.NewFromInt(100)}).Error)

	totals, err := agg.Totals(m)
	require.NoError(t, err)

	assert.True(t, totals.Deposits.Equal(decimal.NewFromInt(1000)))
	assert.True(t, totals.Commissions.Equal(decimal.NewFromInt(200)))
	assert.True(t, totals.ProfitShares.Equal(decimal.NewFromInt(50)))
	assert.True(t, totals.Credits.Equal(decimal.NewFromInt(1250)))
	assert.True(t, totals.Debits.Equal(decimal.NewFromInt(400)))
	assert.True(t, totals.Balance.Equal(decimal.NewFromInt(850)), "got %s", totals.Balance)
}

func TestBalance_NeverNegative(t *testing.T) {
	agg, _, db := newAggregator(t)
	m := seedMember(t, db, "m1", true, false)

	require.NoError(t, db.Create(&models.Deposit{MemberID: m.ID, Amount: decimal.NewFromInt(100)}).Error)
	require.NoError(t, db.Create(&models.Withdrawal{MemberID: m.ID, Amount: decimal.NewFromInt(900)}).Error)

	balance, err := agg.Balance(m)
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "debits above credits clamp to zero, got %s", balance)

	totals, err := agg.Totals(m)
	require.NoError(t, err)
	assert.True(t, totals.Debits.Equal(decimal.NewFromInt(900)), "raw debits stay visible in the breakdown")
}

func TestTotals_AccountTypeGating(t *testing.T) {
	agg, _, db := newAggregator(t)

	// A client without member capability: stray commission and profit
	// share rows must not count.
	client := seedMember(t, db, "client", false, false)
	require.NoError(t, db.Create(&models.CommissionRecord{
		RecipientID: client.ID,
		EventRef:    "stray",
		Level:       1,
		Type:        models.CommissionReferral,
		Amount:      decimal.NewFromInt(777),
		Status:      models.StatusPaid,
	}).Error)
	require.NoError(t, db.Create(&models.ProfitShare{MemberID: client.ID, Amount: decimal.NewFromInt(888)}).Error)
	require.NoError(t, db.Create(&models.BusinessRevenue{MemberID: client.ID, Amount: decimal.NewFromInt(999)}).Error)

	totals, err := agg.Totals(client)
	require.NoError(t, err)
	assert.True(t, totals.Commissions.IsZero())
	assert.True(t, totals.ProfitShares.IsZero())
	assert.True(t, totals.BusinessRevenue.IsZero())
	assert.True(t, totals.Balance.IsZero())

	// A business account counts revenue.
	biz := seedMember(t, db, "biz", false, true)
	require.NoError(t, db.Create(&models.BusinessRevenue{MemberID: biz.ID, Amount: decimal.NewFromInt(5000)}).Error)

	totals, err = agg.Totals(biz)
	require.NoError(t, err)
	assert.True(t, totals.BusinessRevenue.Equal(decimal.NewFromInt(5000)))
	assert.True(t, totals.Balance.Equal(decimal.NewFromInt(5000)))
}

func TestTotals_MissingOptionalTableContributesZero(t *testing.T) {
	agg, _, db := newAggregator(t)
	m := seedMember(t, db, "m1", true, true)

	require.NoError(t, db.Create(&models.Deposit{MemberID: m.ID, Amount: decimal.NewFromInt(1000)}).Error)

	require.NoError(t, db.Migrator().DropTable(&models.ProfitShare{}))
	require.NoError(t, db.Migrator().DropTable(&models.VentureDividend{}))
	require.NoError(t, db.Migrator().DropTable(&models.BusinessRevenue{}))

	totals, err := agg.Totals(m)
	require.NoError(t, err, "absent optional sources are not an error")
	assert.True(t, totals.ProfitShares.IsZero())
	assert.True(t, totals.VentureDividends.IsZero())
	assert.True(t, totals.BusinessRevenue.IsZero())
	assert.True(t, totals.Balance.Equal(decimal.NewFromInt(1000)))
}
