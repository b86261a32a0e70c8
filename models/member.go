package models

import "gorm.io/gorm"

type Member struct {
	gorm.Model

	MemberCode string `gorm:"uniqueIndex;size:32" json:"member_code"`
	FullName   string `gorm:"size:128" json:"full_name"`

	// ReferrerID is the nominal upline used for commission attribution.
	// PlacementID is the structural parent in the capacity-bounded matrix;
	// the two differ when the nominal referrer's slots were full at signup.
	// The unique index on (placement_id, placement_slot) makes slot
	// occupancy database-enforced: two concurrent signups under the same
	// parent cannot land in the same slot. Root members carry a NULL
	// placement_id and never collide.
	ReferrerID    *uint `gorm:"index" json:"referrer_id"`
	PlacementID   *uint `gorm:"index;uniqueIndex:idx_placement_slot" json:"placement_id"`
	PlacementSlot int   `gorm:"uniqueIndex:idx_placement_slot" json:"placement_slot"`

	IsMember   bool `gorm:"default:true" json:"is_member"`
	IsClient   bool `gorm:"default:false" json:"is_client"`
	IsBusiness bool `gorm:"default:false" json:"is_business"`
	IsActive   bool `gorm:"default:true" json:"is_active"`
}
