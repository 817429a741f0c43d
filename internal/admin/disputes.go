package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crewlink-dev/crewlink/internal/bookings"
	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

type AdminDispute struct {
	ID         string  `json:"id"`
	BookingID  string  `json:"booking_id"`
	FilerID    string  `json:"filer_id"`
	Reason     string  `json:"reason"`
	Status     string  `json:"status"`
	Resolution string  `json:"resolution"`
	Notes      string  `json:"notes"`
	CreatedAt  string  `json:"created_at"`
	ResolvedAt *string `json:"resolved_at"`
}

// GET /admin/disputes
func ListDisputes(c echo.Context) error {
	query := `SELECT id::text, booking_id::text, filer_id::text, reason, status,
	              COALESCE(resolution, '') AS resolution, COALESCE(notes, '') AS notes, created_at, resolved_at
	          FROM disputes ORDER BY created_at DESC`
	args := []interface{}{}
	if status := c.QueryParam("status"); status == "open" || status == "resolved" {
		query = `SELECT id::text, booking_id::text, filer_id::text, reason, status,
		             COALESCE(resolution, '') AS resolution, COALESCE(notes, '') AS notes, created_at, resolved_at
		         FROM disputes WHERE status = $1 ORDER BY created_at DESC`
		args = append(args, status)
	}

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "could not fetch disputes")
	}
	defer rows.Close()

	var items []AdminDispute
	for rows.Next() {
		var d AdminDispute
		var created time.Time
		var resolved *time.Time
		if err := rows.Scan(&d.ID, &d.BookingID, &d.FilerID, &d.Reason, &d.Status, &d.Resolution, &d.Notes, &created, &resolved); err != nil {
			return httpx.Fail(c, http.StatusInternalServerError, "failed to read dispute record")
		}
		d.CreatedAt = created.UTC().Format(time.RFC3339)
		if resolved != nil {
			s := resolved.UTC().Format(time.RFC3339)
			d.ResolvedAt = &s
		}
		items = append(items, d)
	}
	return httpx.OK(c, http.StatusOK, echo.Map{"disputes": items})
}

// POST /admin/disputes/:id/resolve
//
// Resolution moves the disputed booking to completed or cancelled through
// the same machinery the participants use, then closes the dispute row.
func ResolveDispute(c echo.Context) error {
	adminID, ok := c.Get("user_id").(string)
	if !ok || adminID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id := c.Param("id")
	if id == "" {
		return httpx.Fail(c, http.StatusBadRequest, "dispute id required")
	}

	var req struct {
		Resolution string `json:"resolution"` // completed|cancelled
		Notes      string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil || req.Resolution == "" {
		return httpx.Fail(c, http.StatusBadRequest, "invalid payload: resolution required")
	}
	if req.Resolution != bookings.StatusCompleted && req.Resolution != bookings.StatusCancelled {
		return httpx.Fail(c, http.StatusBadRequest, "resolution must be completed or cancelled")
	}

	ctx := context.Background()

	var bookingID, disputeStatus string
	err := db.Conn.QueryRow(ctx,
		`SELECT booking_id::text, status FROM disputes WHERE id = $1`, id,
	).Scan(&bookingID, &disputeStatus)
	if err != nil {
		return httpx.Fail(c, http.StatusNotFound, "dispute not found")
	}
	if disputeStatus != "open" {
		return httpx.Fail(c, http.StatusBadRequest, "dispute already resolved")
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}
	if err := bookings.Resolve(ctx, bookingID, adminID, req.Resolution, notes); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, err.Error())
	}

	_, err = db.Conn.Exec(ctx,
		`UPDATE disputes SET status = 'resolved', resolution = $1, notes = NULLIF($2, ''), resolved_by = $3, resolved_at = NOW()
         WHERE id = $4 AND status = 'open'`,
		req.Resolution, req.Notes, adminID, id,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to close dispute")
	}

	return httpx.OK(c, http.StatusOK, echo.Map{
		"message":    "resolved",
		"dispute_id": id,
		"booking_id": bookingID,
		"resolution": req.Resolution,
	})
}
