package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CommissionReferral    = "REFERRAL"
	CommissionTeamVolume  = "TEAM_VOLUME"
	CommissionPerformance = "PERFORMANCE"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

type CommissionRecord struct {
	gorm.Model

	RecipientID uint   `gorm:"index;index:idx_commission_unique,unique" json:"recipient_id"`
	EventRef    string `gorm:"size:64;index;index:idx_commission_unique,unique" json:"event_ref"`
	Level       int    `gorm:"index:idx_commission_unique,unique" json:"level"`
	Type        string `gorm:"size:16;index:idx_commission_unique,unique" json:"type"`

	Amount decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"amount"`
	Status string          `gorm:"size:16;index;default:pending" json:"status"`
	Reason string          `gorm:"size:255" json:"reason"`
}
