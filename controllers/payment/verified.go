package payment

import (
	"errors"
	"time"

	"compsuite/commission"
	"compsuite/database"
	"compsuite/helpers"
	"compsuite/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VerifiedRequest struct {
	EventRef   string          `json:"event_ref"`
	MemberCode string          `json:"member_code"`
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Metadata   datatypes.JSON  `json:"metadata"`
}

// Verified ingests a "payment verified" event from the payment
// subsystem. The event row is unique per EventRef and commission posting
// is conflict-tolerant, so a replayed webhook resumes instead of
// double-paying.
func Verified(engine *commission.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req VerifiedRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}

		switch req.Kind {
		case models.KindRegistration, models.KindSubscription, models.KindSale:
		default:
			return helpers.JSONError(c, "UNSUPPORTED_KIND")
		}
		if req.MemberCode == "" {
			return helpers.JSONError(c, "MEMBER_CODE_REQUIRED")
		}
		if req.Amount.IsNegative() {
			return helpers.JSONError(c, "INVALID_AMOUNT")
		}

		var member models.Member
		if err := database.DB.
			Where("member_code = ? AND is_active = true", req.MemberCode).
			First(&member).Error; err != nil {
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "MEMBER_NOT_FOUND")
		}

		eventRef := req.EventRef
		if eventRef == "" {
			eventRef = uuid.New().String()
		}

		event := models.PaymentEvent{
			EventRef: eventRef,
			MemberID: member.ID,
			Kind:     req.Kind,
			Amount:   req.Amount,
			Metadata: req.Metadata,
		}
		if err := database.DB.Create(&event).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return helpers.JSONError(c, "FAILED_TO_RECORD_EVENT")
			}
			// Replay: keep the original row, reprocess idempotently.
			if err := database.DB.Where("event_ref = ?", eventRef).First(&event).Error; err != nil {
				return helpers.JSONError(c, "FAILED_TO_LOAD_EVENT")
			}
		}

		trigger := commission.Trigger{
			EventRef: event.EventRef,
			MemberID: event.MemberID,
			Kind:     event.Kind,
			Amount:   event.Amount,
		}
		if err := engine.ProcessTrigger(c.UserContext(), trigger); err != nil {
			return helpers.JSONError(c, "COMMISSION_PROCESSING_FAILED")
		}

		now := time.Now()
		_ = database.DB.Model(&event).Update("processed_at", &now).Error

		return helpers.JSONSuccess(c, "Payment event processed", fiber.Map{
			"event_ref": event.EventRef,
			"kind":      event.Kind,
			"eligible":  engine.Eligible(trigger),
		})
	}
}
