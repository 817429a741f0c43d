package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

type AdminBooking struct {
	ID            string    `json:"id"`
	JobID         string    `json:"job_id"`
	HirerID       string    `json:"hirer_id"`
	WorkerID      string    `json:"worker_id"`
	AgreedAmount  float64   `json:"agreed_amount"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GET /admin/bookings
func ListBookings(c echo.Context) error {
	query := `SELECT id, job_id, hirer_id, worker_id, agreed_amount, status, payment_status, created_at, updated_at
	          FROM bookings ORDER BY created_at DESC`
	args := []interface{}{}
	if status := c.QueryParam("status"); status != "" {
		query = `SELECT id, job_id, hirer_id, worker_id, agreed_amount, status, payment_status, created_at, updated_at
		         FROM bookings WHERE status = $1 ORDER BY created_at DESC`
		args = append(args, status)
	}

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "could not fetch bookings")
	}
	defer rows.Close()

	var items []AdminBooking
	for rows.Next() {
		var b AdminBooking
		if err := rows.Scan(&b.ID, &b.JobID, &b.HirerID, &b.WorkerID, &b.AgreedAmount, &b.Status, &b.PaymentStatus, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return httpx.Fail(c, http.StatusInternalServerError, "failed to read booking record")
		}
		items = append(items, b)
	}
	return httpx.OK(c, http.StatusOK, echo.Map{"bookings": items})
}
