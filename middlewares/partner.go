package middlewares

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/gofiber/fiber/v2"
)

// PartnerAuth guards ingestion endpoints. The collaborating subsystem
// sends X-Partner-Key and X-Partner-Signature where the signature is
// HMAC-SHA256(partner key, shared secret).
func PartnerAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		partnerKey := c.Get("X-Partner-Key")
		signature := c.Get("X-Partner-Signature")

		if partnerKey == "" || signature == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "MISSING_PARTNER_CREDENTIALS",
			})
		}

		secret := os.Getenv("PARTNER_SHARED_SECRET")

		h := hmac.New(sha256.New, []byte(secret))
		h.Write([]byte(partnerKey))
		expected := hex.EncodeToString(h.Sum(nil))

		if !hmac.Equal([]byte(signature), []byte(expected)) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "INVALID_SIGNATURE",
			})
		}

		return c.Next()
	}
}
