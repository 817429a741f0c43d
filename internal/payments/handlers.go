package payments

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/crewlink-dev/crewlink/internal/alerts"
	"github.com/crewlink-dev/crewlink/internal/bookings"
	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

type bookingPaymentRow struct {
	HirerID       string
	WorkerID      string
	Status        string
	PaymentStatus string
	AgreedAmount  float64
	FinalAmount   *float64
}

func loadBookingForPayment(ctx context.Context, bookingID string) (*bookingPaymentRow, error) {
	var row bookingPaymentRow
	err := db.Conn.QueryRow(ctx,
		`SELECT hirer_id, worker_id, status, payment_status, agreed_amount, final_amount
         FROM bookings WHERE id = $1`, bookingID,
	).Scan(&row.HirerID, &row.WorkerID, &row.Status, &row.PaymentStatus, &row.AgreedAmount, &row.FinalAmount)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

type CreateIntentRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
}

// =========================
// CreateIntent - Hirer opens the escrow hold
// =========================
func CreateIntent(c echo.Context) error {
	actorID, ok := c.Get("user_id").(string)
	if !ok || actorID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	req := new(CreateIntentRequest)
	if err := c.Bind(req); err != nil || req.BookingID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "booking_id required")
	}

	ctx := context.Background()
	b, err := loadBookingForPayment(ctx, req.BookingID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return httpx.Fail(c, http.StatusNotFound, "booking not found")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch booking")
	}
	if actorID != b.HirerID {
		return httpx.Fail(c, http.StatusForbidden, "only the hirer can start a payment")
	}
	if b.PaymentStatus != bookings.PaymentPending {
		return httpx.Fail(c, http.StatusBadRequest, "payment already initiated for this booking")
	}

	var existing int
	_ = db.Conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM payment_records WHERE booking_id = $1 AND type = 'escrow_hold' AND status <> 'failed'`,
		req.BookingID,
	).Scan(&existing)
	if existing > 0 {
		return httpx.Fail(c, http.StatusBadRequest, "payment already initiated for this booking")
	}

	amountMinor := MinorUnits(b.AgreedAmount)
	charge, err := CreateCharge(ctx, amountMinor, "usd", req.BookingID)
	if err != nil {
		log.Errorf("payvault create charge failed for booking %s: %v", req.BookingID, err)
		return httpx.Fail(c, http.StatusInternalServerError, "payment processor error")
	}

	rec := holdRecord(req.BookingID, actorID, b.AgreedAmount, charge.ID)
	_, err = db.Conn.Exec(ctx,
		`INSERT INTO payment_records (id, booking_id, user_id, amount, type, status, external_id, provider, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.BookingID, rec.UserID, rec.Amount, rec.Type, rec.Status, rec.ExternalID, rec.Provider, rec.CreatedAt,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to record escrow hold")
	}

	return httpx.OK(c, http.StatusOK, echo.Map{"client_secret": charge.ClientSecret})
}

type ConfirmRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
}

// =========================
// Confirm - Hirer captures the hold after completing the booking
// =========================
func Confirm(c echo.Context) error {
	actorID, ok := c.Get("user_id").(string)
	if !ok || actorID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	req := new(ConfirmRequest)
	if err := c.Bind(req); err != nil || req.BookingID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "booking_id required")
	}

	ctx := context.Background()
	b, err := loadBookingForPayment(ctx, req.BookingID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return httpx.Fail(c, http.StatusNotFound, "booking not found")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch booking")
	}
	if actorID != b.HirerID {
		return httpx.Fail(c, http.StatusForbidden, "only the hirer can capture a payment")
	}
	if b.Status != bookings.StatusCompleted {
		return httpx.Fail(c, http.StatusBadRequest, "booking must be completed before capture")
	}

	var recordID string
	var externalID *string
	err = db.Conn.QueryRow(ctx,
		`SELECT id, external_id FROM payment_records
         WHERE booking_id = $1 AND type = 'escrow_hold' AND status = 'pending'
         ORDER BY created_at DESC LIMIT 1`, req.BookingID,
	).Scan(&recordID, &externalID)
	if err != nil || externalID == nil || *externalID == "" {
		return httpx.Fail(c, http.StatusNotFound, "no pending escrow hold for this booking")
	}

	if _, err := CaptureCharge(ctx, *externalID); err != nil {
		log.Errorf("payvault capture failed for booking %s charge %s: %v", req.BookingID, *externalID, err)
		return httpx.Fail(c, http.StatusInternalServerError, "payment processor error")
	}

	amount := b.AgreedAmount
	if b.FinalAmount != nil {
		amount = *b.FinalAmount
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "transaction start failed")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE payment_records SET status = 'completed', updated_at = NOW() WHERE id = $1`, recordID); err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to update payment record")
	}

	res, err := tx.Exec(ctx,
		`UPDATE bookings SET payment_status = 'paid', updated_at = NOW()
         WHERE id = $1 AND payment_status = 'pending'`, req.BookingID)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to update booking")
	}
	if res.RowsAffected() == 0 {
		return httpx.Fail(c, http.StatusBadRequest, "payment is no longer pending")
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET total_earned = total_earned + $1, updated_at = NOW() WHERE id = $2`,
		amount, b.WorkerID); err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to credit worker")
	}

	// Capture is its own money movement, so it gets its own ledger row at the
	// settlement amount. Refunds reverse this row, not the hold.
	capRec := captureRecord(req.BookingID, actorID, amount, *externalID)
	if _, err := tx.Exec(ctx,
		`INSERT INTO payment_records (id, booking_id, user_id, amount, type, status, external_id, provider, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		capRec.ID, capRec.BookingID, capRec.UserID, capRec.Amount, capRec.Type, capRec.Status, capRec.ExternalID, capRec.Provider, capRec.CreatedAt,
	); err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to record capture")
	}

	if err = tx.Commit(ctx); err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "commit failed")
	}

	return httpx.OK(c, http.StatusOK, echo.Map{
		"message": "payment captured",
		"amount":  amount,
	})
}

type RefundRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	Reason    string `json:"reason"`
}

// =========================
// Refund - Hirer reverses a captured payment
// =========================
// The original ledger row stays untouched; the reversal is appended as a new
// negative-amount record.
func Refund(c echo.Context) error {
	actorID, ok := c.Get("user_id").(string)
	if !ok || actorID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	req := new(RefundRequest)
	if err := c.Bind(req); err != nil || req.BookingID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "booking_id required")
	}

	ctx := context.Background()
	b, err := loadBookingForPayment(ctx, req.BookingID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return httpx.Fail(c, http.StatusNotFound, "booking not found")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch booking")
	}
	if actorID != b.HirerID {
		return httpx.Fail(c, http.StatusForbidden, "only the hirer can request a refund")
	}

	// Refundability is decided before any processor call. The conditional
	// update below re-checks it, but that one only catches races; an
	// uncaptured payment must be rejected here or the processor refund would
	// land with no ledger row to show for it.
	if !canRefund(b.PaymentStatus) {
		return httpx.Fail(c, http.StatusBadRequest, "payment is not in a refundable state")
	}

	var (
		originalID string
		externalID *string
		amount     float64
	)
	err = db.Conn.QueryRow(ctx,
		`SELECT id, external_id, amount FROM payment_records
         WHERE booking_id = $1 AND type = 'completed' AND status = 'completed'
         ORDER BY created_at DESC LIMIT 1`, req.BookingID,
	).Scan(&originalID, &externalID, &amount)
	if err != nil || externalID == nil || *externalID == "" {
		return httpx.Fail(c, http.StatusNotFound, "no captured payment to refund")
	}

	refund, err := RefundCharge(ctx, *externalID, req.Reason)
	if err != nil {
		log.Errorf("payvault refund failed for booking %s charge %s: %v", req.BookingID, *externalID, err)
		return httpx.Fail(c, http.StatusInternalServerError, "payment processor error")
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "transaction start failed")
	}
	defer tx.Rollback(ctx)

	refRec := refundRecord(req.BookingID, actorID, amount, refund.ID)
	_, err = tx.Exec(ctx,
		`INSERT INTO payment_records (id, booking_id, user_id, amount, type, status, external_id, provider, metadata, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		refRec.ID, refRec.BookingID, refRec.UserID, refRec.Amount, refRec.Type, refRec.Status, refRec.ExternalID, refRec.Provider,
		fmt.Sprintf(`{"reason": %q, "original_record": %q}`, req.Reason, originalID), refRec.CreatedAt,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to record refund")
	}

	res, err := tx.Exec(ctx,
		`UPDATE bookings SET payment_status = 'refunded', updated_at = NOW()
         WHERE id = $1 AND payment_status = 'paid'`, req.BookingID)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to update booking")
	}
	if res.RowsAffected() == 0 {
		return httpx.Fail(c, http.StatusBadRequest, "booking payment is not in a refundable state")
	}

	if err = tx.Commit(ctx); err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "commit failed")
	}

	// Notify worker (best-effort)
	ref := req.BookingID
	_ = alerts.CreateNotification(b.WorkerID, "payment:refunded", "Payment refunded",
		"The hirer's payment for your booking was refunded.", &ref, nil, nil)

	var workerEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, b.WorkerID).Scan(&workerEmail)
	if workerEmail != "" {
		_ = alerts.EnqueueRefundIssued(req.BookingID, b.WorkerID, workerEmail, req.Reason, amount)
	}

	return httpx.OK(c, http.StatusOK, echo.Map{
		"refund_id": refund.ID,
		"amount":    amount,
		"message":   "refund issued",
	})
}

// =========================
// GetBookingPayments - participant lists the ledger for a booking
// =========================
func GetBookingPayments(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing booking id in URL")
	}

	var hirerID, workerID string
	if err := db.Conn.QueryRow(context.Background(),
		`SELECT hirer_id, worker_id FROM bookings WHERE id = $1`, bookingID).Scan(&hirerID, &workerID); err != nil {
		return httpx.Fail(c, http.StatusNotFound, "booking not found")
	}
	if uid != hirerID && uid != workerID {
		return httpx.Fail(c, http.StatusForbidden, "not a participant in this booking")
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, booking_id, user_id, amount, type, status, external_id, provider, created_at
         FROM payment_records WHERE booking_id = $1 ORDER BY created_at ASC`, bookingID)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch payment records")
	}
	defer rows.Close()

	var items []PaymentRecord
	for rows.Next() {
		var p PaymentRecord
		if err := rows.Scan(&p.ID, &p.BookingID, &p.UserID, &p.Amount, &p.Type, &p.Status, &p.ExternalID, &p.Provider, &p.CreatedAt); err != nil {
			return httpx.Fail(c, http.StatusInternalServerError, "failed to parse record")
		}
		items = append(items, p)
	}

	return httpx.OK(c, http.StatusOK, echo.Map{"payments": items})
}
