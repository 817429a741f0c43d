package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/crewlink-dev/crewlink/internal/alerts"
	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

// Event is the processor's out-of-band callback payload.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"` // charge.succeeded | charge.failed
	Data struct {
		ChargeID string            `json:"charge_id"`
		Metadata map[string]string `json:"metadata"`
	} `json:"data"`
}

// VerifySignature checks the hex HMAC-SHA256 of the raw body against the
// processor's signature header. Comparison is constant-time.
func VerifySignature(secret, body []byte, signature string) bool {
	if len(secret) == 0 || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// =========================
// Webhook - processor event callback, signature-verified, no session auth
// =========================
// Events only flip PaymentRecord.status by externalId+bookingId filter; they
// never re-derive amounts or touch earnings. Replayed event ids are dropped
// before any state change.
func Webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "unreadable body")
	}

	secret := []byte(os.Getenv("PAYVAULT_WEBHOOK_SECRET"))
	signature := c.Request().Header.Get("PayVault-Signature")
	if !VerifySignature(secret, body, signature) {
		return httpx.Fail(c, http.StatusUnauthorized, "invalid signature")
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil || event.ID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "malformed event")
	}

	bookingID := event.Data.Metadata["booking_id"]
	if bookingID == "" || event.Data.ChargeID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "event missing booking reference")
	}

	ctx := context.Background()

	fresh, err := claimEvent(ctx, event.ID)
	if err != nil {
		log.Errorf("webhook replay guard unavailable: %v", err)
		return httpx.Fail(c, http.StatusInternalServerError, "replay guard unavailable")
	}
	if !fresh {
		// Replayed delivery; already handled.
		return httpx.OK(c, http.StatusOK, echo.Map{"received": true, "duplicate": true})
	}

	switch event.Type {
	case "charge.succeeded":
		_, err = db.Conn.Exec(ctx,
			`UPDATE payment_records SET status = 'completed', updated_at = NOW()
             WHERE external_id = $1 AND booking_id = $2 AND status = 'pending'`,
			event.Data.ChargeID, bookingID,
		)
		if err != nil {
			log.Errorf("webhook succeeded update failed for charge %s: %v", event.Data.ChargeID, err)
			return httpx.Fail(c, http.StatusInternalServerError, "failed to apply event")
		}

	case "charge.failed":
		_, err = db.Conn.Exec(ctx,
			`UPDATE payment_records SET status = 'failed', updated_at = NOW()
             WHERE external_id = $1 AND booking_id = $2 AND status = 'pending'`,
			event.Data.ChargeID, bookingID,
		)
		if err != nil {
			log.Errorf("webhook failed update failed for charge %s: %v", event.Data.ChargeID, err)
			return httpx.Fail(c, http.StatusInternalServerError, "failed to apply event")
		}

		// Tell the hirer their payment fell through (best-effort)
		var hirerID, hirerEmail string
		_ = db.Conn.QueryRow(ctx, `SELECT hirer_id FROM bookings WHERE id = $1`, bookingID).Scan(&hirerID)
		if hirerID != "" {
			ref := bookingID
			_ = alerts.CreateNotification(hirerID, "payment:failed", "Payment failed",
				"Your payment could not be processed. Please retry.", &ref, nil, nil)
			_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, hirerID).Scan(&hirerEmail)
			if hirerEmail != "" {
				_ = alerts.EnqueuePaymentFailed(bookingID, hirerID, hirerEmail, event.Data.ChargeID)
			}
		}

	default:
		// Unknown event types are acknowledged and ignored.
	}

	return httpx.OK(c, http.StatusOK, echo.Map{"received": true})
}
