package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TeamVolumePeriod snapshots a member's downline volume for one period
// key (calendar month). Unique per (member, period) so the batch can be
// re-run without stacking rows.
type TeamVolumePeriod struct {
	gorm.Model

	MemberID uint            `gorm:"index;index:idx_team_volume_unique,unique" json:"member_id"`
	Period   string          `gorm:"size:16;index:idx_team_volume_unique,unique" json:"period"`
	Volume   decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"volume"`
}
