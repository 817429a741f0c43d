package bookings

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

const bookingColumns = `id, job_id, bid_id, hirer_id, worker_id, agreed_amount, final_amount,
    status, payment_status, scheduled_start, actual_start, completed_at, cancelled_at, cancel_reason, created_at`

func getAndRespond(c echo.Context, bookingID string) error {
	var b Booking
	err := db.Conn.QueryRow(context.Background(),
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, bookingID,
	).Scan(&b.ID, &b.JobID, &b.BidID, &b.HirerID, &b.WorkerID, &b.AgreedAmount, &b.FinalAmount,
		&b.Status, &b.PaymentStatus, &b.ScheduledStart, &b.ActualStart, &b.CompletedAt, &b.CancelledAt, &b.CancelReason, &b.CreatedAt)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to load booking")
	}
	return httpx.OK(c, http.StatusOK, b)
}

// =========================
// GetBooking - participant fetches one booking
// =========================
func GetBooking(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing booking id in URL")
	}

	var b Booking
	err := db.Conn.QueryRow(context.Background(),
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 AND (hirer_id = $2 OR worker_id = $2)`,
		bookingID, uid,
	).Scan(&b.ID, &b.JobID, &b.BidID, &b.HirerID, &b.WorkerID, &b.AgreedAmount, &b.FinalAmount,
		&b.Status, &b.PaymentStatus, &b.ScheduledStart, &b.ActualStart, &b.CompletedAt, &b.CancelledAt, &b.CancelReason, &b.CreatedAt)
	if err != nil {
		return httpx.Fail(c, http.StatusNotFound, "booking not found")
	}
	return httpx.OK(c, http.StatusOK, b)
}

// =========================
// GetUserBookings - all bookings where user is hirer or worker
// =========================
func GetUserBookings(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT `+bookingColumns+` FROM bookings WHERE hirer_id = $1 OR worker_id = $1 ORDER BY created_at DESC`, uid)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch bookings")
	}
	defer rows.Close()

	var items []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.JobID, &b.BidID, &b.HirerID, &b.WorkerID, &b.AgreedAmount, &b.FinalAmount,
			&b.Status, &b.PaymentStatus, &b.ScheduledStart, &b.ActualStart, &b.CompletedAt, &b.CancelledAt, &b.CancelReason, &b.CreatedAt); err != nil {
			return httpx.Fail(c, http.StatusInternalServerError, "failed to parse record")
		}
		items = append(items, b)
	}

	return httpx.OK(c, http.StatusOK, echo.Map{"bookings": items})
}
