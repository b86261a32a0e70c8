package member

import (
	"errors"
	"strings"

	"compsuite/database"
	"compsuite/helpers"
	"compsuite/models"
	"compsuite/network"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// placementRetries bounds how often a signup re-resolves its matrix slot
// after losing a slot race to a concurrent signup.
const placementRetries = 3

type RegisterMemberRequest struct {
	MemberCode   string `json:"member_code"`
	FullName     string `json:"full_name"`
	ReferrerCode string `json:"referrer_code"`
	IsClient     bool   `json:"is_client"`
	IsBusiness   bool   `json:"is_business"`
}

// RegisterMember creates a participant. When a referrer is named, the
// actual structural parent is resolved through bounded matrix placement,
// which may land the member under a descendant or the default sponsor.
func RegisterMember(net *network.Network) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RegisterMemberRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}

		memberCode := strings.ToLower(strings.TrimSpace(req.MemberCode))
		if memberCode == "" {
			return helpers.JSONError(c, "MEMBER_CODE_REQUIRED")
		}

		var existing models.Member
		if err := database.DB.Where("member_code = ?", memberCode).First(&existing).Error; err == nil {
			return helpers.JSONError(c, "MEMBER_ALREADY_EXISTS")
		}

		member := models.Member{
			MemberCode: memberCode,
			FullName:   req.FullName,
			IsMember:   true,
			IsClient:   req.IsClient,
			IsBusiness: req.IsBusiness,
			IsActive:   true,
		}

		if req.ReferrerCode != "" {
			var referrer models.Member
			if err := database.DB.
				Where("member_code = ? AND is_active = true", strings.ToLower(req.ReferrerCode)).
				First(&referrer).Error; err != nil {
				return helpers.JSONError(c, "REFERRER_NOT_FOUND")
			}
			member.ReferrerID = &referrer.ID
		}

		// The unique index on (placement_id, placement_slot) rejects a
		// concurrent signup that grabbed the same slot; re-resolve the
		// placement and retry.
		var err error
		for attempt := 0; attempt < placementRetries; attempt++ {
			if member.ReferrerID != nil {
				placement, perr := net.PlacementFor(*member.ReferrerID)
				if perr != nil {
					return helpers.JSONError(c, "PLACEMENT_FAILED")
				}
				slot, serr := net.NextSlot(placement.ID)
				if serr != nil {
					return helpers.JSONError(c, "PLACEMENT_FAILED")
				}
				member.PlacementID = &placement.ID
				member.PlacementSlot = slot
			}

			err = database.DB.Create(&member).Error
			if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) || member.PlacementID == nil {
				break
			}
		}
		if err != nil {
			return helpers.JSONError(c, "FAILED_TO_REGISTER_MEMBER")
		}

		return helpers.JSONSuccess(c, "Member registered successfully", fiber.Map{
			"member_code":  member.MemberCode,
			"referrer_id":  member.ReferrerID,
			"placement_id": member.PlacementID,
		})
	}
}
