package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	KindRegistration = "registration"
	KindSubscription = "subscription"
	KindSale         = "sale"
)

// PaymentEvent is the durable anchor for a verified payment trigger.
// EventRef is unique so a replayed webhook never creates a second event.
type PaymentEvent struct {
	gorm.Model

	EventRef string          `gorm:"size:64;uniqueIndex" json:"event_ref"`
	MemberID uint            `gorm:"index" json:"member_id"`
	Kind     string          `gorm:"size:16;index" json:"kind"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"amount"`
	Metadata datatypes.JSON  `gorm:"type:jsonb" json:"metadata"`

	ProcessedAt *time.Time `gorm:"index" json:"processed_at"`
}
