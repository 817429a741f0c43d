package admin

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

// GET /admin/stats
func Stats(c echo.Context) error {
	ctx := context.Background()

	var users, jobs, bids, bookings, payments, openDisputes int

	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&users)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&jobs)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM bids`).Scan(&bids)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&bookings)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM payment_records`).Scan(&payments)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM disputes WHERE status = 'open'`).Scan(&openDisputes)

	return httpx.OK(c, http.StatusOK, echo.Map{
		"users":         users,
		"jobs":          jobs,
		"bids":          bids,
		"bookings":      bookings,
		"payments":      payments,
		"open_disputes": openDisputes,
	})
}
