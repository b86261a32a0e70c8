package commission

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MaxLevel is the deepest commissionable referral level.
const MaxLevel = 5

var (
	ErrInvalidLevel  = errors.New("commission level out of range")
	ErrInvalidAmount = errors.New("commission amount must not be negative")
)

// VolumeTier maps a minimum team volume to a bonus rate. Tiers are
// evaluated highest minimum first with a >= comparison; no interpolation.
type VolumeTier struct {
	Min  decimal.Decimal
	Rate decimal.Decimal
}

// Rules is the pure rate table of the compensation plan. It performs no
// I/O and holds no mutable state after construction.
type Rules struct {
	levelRates  []decimal.Decimal
	volumeTiers []VolumeTier
}

func DefaultRules() *Rules {
	return &Rules{
		levelRates: []decimal.Decimal{
			decimal.NewFromFloat(0.10),
			decimal.NewFromFloat(0.05),
			decimal.NewFromFloat(0.03),
			decimal.NewFromFloat(0.01),
			decimal.NewFromFloat(0.01),
		},
		volumeTiers: []VolumeTier{
			{Min: decimal.NewFromInt(100000), Rate: decimal.NewFromFloat(0.10)},
			{Min: decimal.NewFromInt(50000), Rate: decimal.NewFromFloat(0.07)},
			{Min: decimal.NewFromInt(25000), Rate: decimal.NewFromFloat(0.05)},
			{Min: decimal.NewFromInt(10000), Rate: decimal.NewFromFloat(0.02)},
		},
	}
}

// ReferralCommission returns the commission owed to the ancestor at the
// given level for a trigger of the given base amount.
func (r *Rules) ReferralCommission(level int, base decimal.Decimal) (decimal.Decimal, error) {
	if level < 1 || level > MaxLevel {
		return decimal.Zero, ErrInvalidLevel
	}
	if base.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	if level > len(r.levelRates) {
		return decimal.Zero, nil
	}
	return base.Mul(r.levelRates[level-1]).Round(2), nil
}

// TeamVolumeBonusRate returns the bonus rate for the given downline
// volume, zero when no tier is reached.
func (r *Rules) TeamVolumeBonusRate(volume decimal.Decimal) decimal.Decimal {
	for _, t := range r.volumeTiers {
		if volume.GreaterThanOrEqual(t.Min) {
			return t.Rate
		}
	}
	return decimal.Zero
}

// PerformanceBonus is volume × its tier rate.
func (r *Rules) PerformanceBonus(volume decimal.Decimal) (decimal.Decimal, error) {
	if volume.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return volume.Mul(r.TeamVolumeBonusRate(volume)).Round(2), nil
}
