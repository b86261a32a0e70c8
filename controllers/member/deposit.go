package member

import (
	"compsuite/cache"
	"compsuite/database"
	"compsuite/helpers"
	"compsuite/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DepositRequest struct {
	MemberCode string          `json:"member_code"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Note       string          `json:"note"`
}

// Deposit writes a deposit row and invalidates the member's cached
// balance in the same logical operation.
func Deposit(bc *cache.BalanceCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req DepositRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}

		if req.MemberCode == "" || !req.Amount.IsPositive() {
			return helpers.JSONError(c, "MEMBER_CODE_AND_POSITIVE_AMOUNT_REQUIRED")
		}

		var member models.Member
		if err := database.DB.
			Where("member_code = ? AND is_active = true", req.MemberCode).
			First(&member).Error; err != nil {
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "MEMBER_NOT_FOUND")
		}

		note := req.Note
		if note == "" {
			note = "Deposit via API"
		}

		deposit := models.Deposit{
			MemberID: member.ID,
			Amount:   req.Amount,
			Method:   req.Method,
			Note:     note,
			RefID:    uuid.New().String(),
		}
		if err := database.DB.Create(&deposit).Error; err != nil {
			return helpers.JSONError(c, "FAILED_TO_RECORD_DEPOSIT")
		}

		_ = bc.Invalidate(c.UserContext(), member.ID)

		return helpers.JSONSuccess(c, "Deposit recorded successfully", fiber.Map{
			"member_code": member.MemberCode,
			"amount":      deposit.Amount,
			"ref_id":      deposit.RefID,
		})
	}
}
