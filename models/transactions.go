package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction-source tables read by the wallet aggregator. One model per
// source; rows are written by their owning module and never mutated by
// the aggregator.

type Deposit struct {
	gorm.Model

	MemberID uint            `gorm:"index" json:"member_id"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"amount"`
	Method   string          `gorm:"size:32" json:"method"`
	Note     string          `gorm:"size:255" json:"note"`
	RefID    string          `gorm:"size:64;index" json:"ref_id"`
}

type Withdrawal struct {
	gorm.Model

	MemberID uint            `gorm:"index" json:"member_id"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"amount"`
	Method   string          `gorm:"size:32" json:"method"`
	Note     string          `gorm:"size:255" json:"note"`
	RefID    string          `gorm:"size:64;index" json:"ref_id"`
}

type ProfitShare struct {
	gorm.Model

	MemberID uint            `gorm:"index" json:"member_id"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"amount"`
	Note     string          `gorm:"size:255" json:"note"`
	RefID    string          `gorm:"size:64;index" json:"ref_id"`
}

type VentureDividend struct {
	gorm.Model

	MemberID uint            `gorm:"index" json:"member_id"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"amount"`
	Note     string          `gorm:"size:255" json:"note"`
	RefID    string          `gorm:"size:64;index" json:"ref_id"`
}

type BusinessRevenue struct {
	gorm.Model

	MemberID uint            `gorm:"index" json:"member_id"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"amount"`
	Note     string          `gorm:"size:255" json:"note"`
	RefID    string          `gorm:"size:64;index" json:"ref_id"`
}

type Purchase struct {
	gorm.Model

	MemberID uint            `gorm:"index" json:"member_id"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"amount"`
	Item     string          `gorm:"size:128" json:"item"`
	Note     string          `gorm:"size:255" json:"note"`
	RefID    string          `gorm:"size:64;index" json:"ref_id"`
}
