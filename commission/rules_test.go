package commission_test

import (
	"testing"

	"compsuite/commission"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamVolumeBonusRate_Thresholds(t *testing.T) {
	rules := commission.DefaultRules()

	cases := []struct {
		volume string
		rate   string
	}{
		{"0", "0"},
		{"9999.99", "0"},
		{"10000.00", "0.02"},
		{"24999.99", "0.02"},
		{"25000.00", "0.05"},
		{"49999.99", "0.05"},
		{"50000.00", "0.07"},
		{"99999.99", "0.07"},
		{"100000.00", "0.1"},
		{"100000.01", "0.1"},
		{"5000000", "0.1"},
	}

	for _, tc := range cases {
		got := rules.TeamVolumeBonusRate(decimal.RequireFromString(tc.volume))
		want := decimal.RequireFromString(tc.rate)
		assert.True(t, got.Equal(want), "volume %s: got rate %s, want %s", tc.volume, got, want)
	}
}

func TestReferralCommission_LevelRates(t *testing.T) {
	rules := commission.DefaultRules()
	base := decimal.NewFromInt(500)

	wantByLevel := map[int]string{
		1: "50",
		2: "25",
		3: "15",
		4: "5",
		5: "5",
	}

	for level, want := range wantByLevel {
		got, err := rules.ReferralCommission(level, base)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString(want)),
			"level %d: got %s, want %s", level, got, want)
	}
}

func TestReferralCommission_InvalidLevel(t *testing.T) {
	rules := commission.DefaultRules()

	for _, level := range []int{-1, 0, 6, 100} {
		_, err := rules.ReferralCommission(level, decimal.NewFromInt(500))
		assert.ErrorIs(t, err, commission.ErrInvalidLevel, "level %d", level)
	}
}

func TestReferralCommission_NegativeBase(t *testing.T) {
	rules := commission.DefaultRules()

	_, err := rules.ReferralCommission(1, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, commission.ErrInvalidAmount)
}

func TestPerformanceBonus(t *testing.T) {
	rules := commission.DefaultRules()

	got, err := rules.PerformanceBonus(decimal.NewFromInt(30000))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(1500)), "got %s", got)

	got, err = rules.PerformanceBonus(decimal.NewFromInt(9999))
	require.NoError(t, err)
	assert.True(t, got.IsZero(), "below the lowest tier there is no bonus, got %s", got)

	_, err = rules.PerformanceBonus(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, commission.ErrInvalidAmount)
}
