package member

import (
	"compsuite/cache"
	"compsuite/database"
	"compsuite/helpers"
	"compsuite/models"
	"compsuite/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

type WithdrawRequest struct {
	MemberCode string          `json:"member_code"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Note       string          `json:"note"`
}

// Withdraw checks the derived balance (uncached, inside a transaction
// holding the member row) before writing the withdrawal row, then
// invalidates the cache.
func Withdraw(agg *wallet.Aggregator, bc *cache.BalanceCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req WithdrawRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}

		if req.MemberCode == "" || !req.Amount.IsPositive() {
			return helpers.JSONError(c, "MEMBER_CODE_AND_POSITIVE_AMOUNT_REQUIRED")
		}

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		var member models.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("member_code = ? AND is_active = true", req.MemberCode).
			First(&member).Error; err != nil {
			tx.Rollback()
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "MEMBER_NOT_FOUND")
		}

		balance, err := agg.Balance(&member)
		if err != nil {
			tx.Rollback()
			return helpers.JSONError(c, "FAILED_TO_COMPUTE_BALANCE")
		}
		if balance.LessThan(req.Amount) {
			tx.Rollback()
			return helpers.JSONError(c, "INSUFFICIENT_BALANCE")
		}

		note := req.Note
		if note == "" {
			note = "Withdrawal via API"
		}

		withdrawal := models.Withdrawal{
			MemberID: member.ID,
			Amount:   req.Amount,
			Method:   req.Method,
			Note:     note,
			RefID:    uuid.New().String(),
		}
		if err := tx.Create(&withdrawal).Error; err != nil {
			tx.Rollback()
			return helpers.JSONError(c, "FAILED_TO_RECORD_WITHDRAWAL")
		}

		if err := tx.Commit().Error; err != nil {
			return helpers.JSONError(c, "COMMIT_FAILED")
		}

		_ = bc.Invalidate(c.UserContext(), member.ID)

		return helpers.JSONSuccess(c, "Withdrawal recorded successfully", fiber.Map{
			"member_code": member.MemberCode,
			"amount":      withdrawal.Amount,
			"ref_id":      withdrawal.RefID,
		})
	}
}
