package user

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

// GET /users/:id/profile
//
// Public view of a user. Workers additionally expose their track record
// so hirers can vet bids.
func GetPublicProfile(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing user id")
	}

	ctx := context.Background()

	var (
		id, name, role string
		bio, avatarURL *string
		isActive       bool
		completedJobs  int
		createdAt      time.Time
	)
	err := db.Conn.QueryRow(ctx, `
		SELECT id, name, bio, avatar_url, role, is_active, completed_jobs, created_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&id, &name, &bio, &avatarURL, &role, &isActive, &completedJobs, &createdAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return httpx.Fail(c, http.StatusNotFound, "user not found")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch user")
	}

	profile := echo.Map{
		"id":         id,
		"name":       name,
		"bio":        bio,
		"avatar_url": avatarURL,
		"role":       role,
		"is_active":  isActive,
		"created_at": createdAt.Format(time.RFC3339),
	}

	if role == "worker" {
		var totalReviews int
		var avgRating float64
		err = db.Conn.QueryRow(ctx,
			`SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews WHERE worker_id = $1`, userID,
		).Scan(&totalReviews, &avgRating)
		if err != nil {
			return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch rating")
		}
		profile["completed_jobs"] = completedJobs
		profile["total_reviews"] = totalReviews
		profile["average_rating"] = avgRating
	}

	return httpx.OK(c, http.StatusOK, profile)
}
