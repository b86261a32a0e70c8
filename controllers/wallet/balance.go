package wallet

import (
	"compsuite/cache"
	"compsuite/database"
	"compsuite/helpers"
	"compsuite/models"
	walletagg "compsuite/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CheckBalance serves the derived balance through the TTL cache. Pass
// breakdown=true for the full per-category totals.
func CheckBalance(agg *walletagg.Aggregator, bc *cache.BalanceCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")
		if code == "" {
			return helpers.JSONError(c, "MEMBER_CODE_REQUIRED")
		}

		var member models.Member
		if err := database.DB.
			Where("member_code = ? AND is_active = true", code).
			First(&member).Error; err != nil {
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "MEMBER_NOT_FOUND")
		}

		if c.QueryBool("breakdown") {
			totals, err := bc.GetTotals(c.UserContext(), member.ID, func() (walletagg.Totals, error) {
				return agg.Totals(&member)
			})
			if err != nil {
				return helpers.JSONError(c, "FAILED_TO_COMPUTE_BALANCE")
			}
			return helpers.JSONSuccess(c, "Balance retrieved successfully", fiber.Map{
				"member_code": member.MemberCode,
				"balance":     totals.Balance,
				"breakdown":   totals,
			})
		}

		balance, err := bc.GetBalance(c.UserContext(), member.ID, func() (decimal.Decimal, error) {
			return agg.Balance(&member)
		})
		if err != nil {
			return helpers.JSONError(c, "FAILED_TO_COMPUTE_BALANCE")
		}

		return helpers.JSONSuccess(c, "Balance retrieved successfully", fiber.Map{
			"member_code": member.MemberCode,
			"balance":     balance,
		})
	}
}
