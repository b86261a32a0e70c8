package wallet

import (
	"compsuite/commission"
	"compsuite/database"
	"compsuite/helpers"
	"compsuite/models"

	"github.com/gofiber/fiber/v2"
)

// ListCommissions returns a member's commission records, newest first.
func ListCommissions(ledger *commission.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")
		if code == "" {
			return helpers.JSONError(c, "MEMBER_CODE_REQUIRED")
		}

		var member models.Member
		if err := database.DB.
			Where("member_code = ?", code).
			First(&member).Error; err != nil {
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "MEMBER_NOT_FOUND")
		}

		records, err := ledger.ListFor(member.ID)
		if err != nil {
			return helpers.JSONError(c, "FAILED_TO_LIST_COMMISSIONS")
		}

		return helpers.JSONSuccess(c, "Commissions retrieved successfully", fiber.Map{
			"member_code": member.MemberCode,
			"commissions": records,
		})
	}
}
