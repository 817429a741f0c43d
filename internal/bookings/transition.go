package bookings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/crewlink-dev/crewlink/internal/alerts"
	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

// ErrStateChanged means the booking moved to another status between the
// precondition read and the conditional update.
var ErrStateChanged = errors.New("booking state changed concurrently")

type TransitionRequest struct {
	BookingID    string   `json:"booking_id" validate:"required"`
	Status       string   `json:"status" validate:"required"`
	CancelReason *string  `json:"cancel_reason"`
	FinalAmount  *float64 `json:"final_amount"`
	Reason       *string  `json:"reason"`
}

// =========================
// Transition - PATCH /bookings applies one lifecycle transition
// =========================
func Transition(c echo.Context) error {
	actorID, ok := c.Get("user_id").(string)
	if !ok || actorID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	req := new(TransitionRequest)
	if err := c.Bind(req); err != nil || req.BookingID == "" || req.Status == "" {
		return httpx.Fail(c, http.StatusBadRequest, "booking_id and status required")
	}

	ctx := context.Background()

	var (
		jobID, hirerID, workerID, status string
		agreedAmount                     float64
	)
	err := db.Conn.QueryRow(ctx,
		`SELECT job_id, hirer_id, worker_id, status, agreed_amount FROM bookings WHERE id = $1`,
		req.BookingID,
	).Scan(&jobID, &hirerID, &workerID, &status, &agreedAmount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return httpx.Fail(c, http.StatusNotFound, "booking not found")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch booking")
	}

	if err := authorizeTransition(req.Status, actorID, hirerID, workerID); err != nil {
		return httpx.Fail(c, http.StatusForbidden, err.Error())
	}

	if !CanTransition(status, req.Status) {
		allowed := AllowedNext(status)
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success":   false,
			"error":     fmt.Sprintf("cannot move booking from %s to %s", status, req.Status),
			"current":   status,
			"requested": req.Status,
			"allowed":   allowed,
		})
	}

	reason := req.Reason
	if req.Status == StatusCancelled && req.CancelReason != nil {
		reason = req.CancelReason
	}

	if err := apply(ctx, req.BookingID, jobID, actorID, hirerID, workerID, status, req.Status, reason, req.FinalAmount, agreedAmount); err != nil {
		if errors.Is(err, ErrStateChanged) {
			return httpx.Fail(c, http.StatusBadRequest, "booking state changed, retry with current state")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to apply transition")
	}

	// Notify the counterparty, never the actor (best-effort)
	counterparty := hirerID
	if actorID == hirerID {
		counterparty = workerID
	}
	ref := req.BookingID
	actionURL := "/bookings/" + req.BookingID
	title := "Booking " + strings.ReplaceAll(req.Status, "_", " ")
	_ = alerts.CreateNotification(counterparty, "booking:"+req.Status, title,
		"The booking status changed to "+req.Status+".", &ref, &actionURL, nil)

	var email string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, counterparty).Scan(&email)
	if email != "" {
		_ = alerts.EnqueueBookingUpdate(req.BookingID, actorID, counterparty, email, req.Status)
	}

	// Disputes need a human in the loop
	if req.Status == StatusDisputed {
		_ = alerts.EnqueueAdminAlert(actorID, "high", "dispute filed on booking "+req.BookingID)
	}

	return getAndRespond(c, req.BookingID)
}

// Resolve closes out a disputed booking on behalf of an admin, taking one of
// the two edges out of disputed. The transition table still applies.
func Resolve(ctx context.Context, bookingID, adminID, target string, notes *string) error {
	var (
		jobID, hirerID, workerID, status string
		agreedAmount                     float64
	)
	err := db.Conn.QueryRow(ctx,
		`SELECT job_id, hirer_id, worker_id, status, agreed_amount FROM bookings WHERE id = $1`,
		bookingID,
	).Scan(&jobID, &hirerID, &workerID, &status, &agreedAmount)
	if err != nil {
		return err
	}
	if status != StatusDisputed {
		return fmt.Errorf("booking is %s, not disputed", status)
	}
	if !CanTransition(status, target) {
		return fmt.Errorf("cannot resolve dispute to %s", target)
	}

	if err := apply(ctx, bookingID, jobID, adminID, hirerID, workerID, status, target, notes, nil, agreedAmount); err != nil {
		return err
	}

	// Both parties hear about an admin resolution.
	ref := bookingID
	for _, uid := range []string{hirerID, workerID} {
		_ = alerts.CreateNotification(uid, "booking:"+target, "Dispute resolved",
			"An administrator resolved the dispute; the booking is now "+target+".", &ref, nil, nil)
	}
	return nil
}

// apply performs the conditional status flip and every same-transaction side
// effect of the target state. The WHERE clause pins the expected current
// status so two racing transitions cannot both land.
func apply(ctx context.Context, bookingID, jobID, actorID, hirerID, workerID, from, to string, reason *string, finalOverride *float64, agreedAmount float64) error {
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	switch to {
	case StatusInProgress:
		ct, err := tx.Exec(ctx,
			`UPDATE bookings SET status = 'in_progress', actual_start = NOW(), updated_at = NOW()
             WHERE id = $1 AND status = $2`, bookingID, from)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return ErrStateChanged
		}
		if _, err := tx.Exec(ctx,
			`UPDATE jobs SET status = 'in_progress', updated_at = NOW() WHERE id = $1`, jobID); err != nil {
			return err
		}

	case StatusCompleted:
		final := settlementAmount(finalOverride, agreedAmount)
		ct, err := tx.Exec(ctx,
			`UPDATE bookings SET status = 'completed', completed_at = NOW(), final_amount = $1, updated_at = NOW()
             WHERE id = $2 AND status = $3`, final, bookingID, from)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return ErrStateChanged
		}
		if _, err := tx.Exec(ctx,
			`UPDATE jobs SET status = 'completed', updated_at = NOW() WHERE id = $1`, jobID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE users SET completed_jobs = completed_jobs + 1, updated_at = NOW() WHERE id = $1`, workerID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE users SET total_spent = total_spent + $1, updated_at = NOW() WHERE id = $2`, final, hirerID); err != nil {
			return err
		}

	case StatusCancelled:
		ct, err := tx.Exec(ctx,
			`UPDATE bookings SET status = 'cancelled', cancelled_at = NOW(), cancel_reason = $1, updated_at = NOW()
             WHERE id = $2 AND status = $3`, reason, bookingID, from)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return ErrStateChanged
		}
		if _, err := tx.Exec(ctx,
			`UPDATE jobs SET status = 'cancelled', updated_at = NOW() WHERE id = $1`, jobID); err != nil {
			return err
		}

	case StatusDisputed:
		ct, err := tx.Exec(ctx,
			`UPDATE bookings SET status = 'disputed', updated_at = NOW()
             WHERE id = $1 AND status = $2`, bookingID, from)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return ErrStateChanged
		}
		disputeReason := "dispute opened"
		if reason != nil && *reason != "" {
			disputeReason = *reason
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO disputes (booking_id, filer_id, reason) VALUES ($1, $2, $3)`,
			bookingID, actorID, disputeReason); err != nil {
			return err
		}

	default:
		return fmt.Errorf("no side effects defined for status %s", to)
	}

	return tx.Commit(ctx)
}
