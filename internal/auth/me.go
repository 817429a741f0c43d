package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

// Me returns the currently authenticated user's profile
func Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var (
		id, name, email, role string
		completedJobs         int
		totalEarned           float64
		totalSpent            float64
	)
	err := db.Conn.QueryRow(context.Background(),
		`SELECT id, name, email, role, completed_jobs, total_earned, total_spent
         FROM users WHERE id = $1`, userID).
		Scan(&id, &name, &email, &role, &completedJobs, &totalEarned, &totalSpent)
	if err != nil {
		return httpx.Fail(c, http.StatusNotFound, "user not found")
	}

	return httpx.OK(c, http.StatusOK, echo.Map{
		"id":             id,
		"name":           name,
		"email":          email,
		"role":           role,
		"completed_jobs": completedJobs,
		"total_earned":   totalEarned,
		"total_spent":    totalSpent,
	})
}
