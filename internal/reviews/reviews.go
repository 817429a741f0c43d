package reviews

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/crewlink-dev/crewlink/internal/alerts"
	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

// =========================
// CreateReview - Hirer rates the worker on a completed booking
// =========================
func CreateReview(c echo.Context) error {
	hirerID, ok := c.Get("user_id").(string)
	if !ok || hirerID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing booking id")
	}
	if _, err := uuid.Parse(bookingID); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "invalid booking id format")
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "invalid request")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return httpx.Fail(c, http.StatusBadRequest, "rating must be between 1 and 5")
	}
	if len(req.Comment) > 1000 {
		return httpx.Fail(c, http.StatusBadRequest, "comment too long (max 1000 characters)")
	}

	ctx := context.Background()

	var workerID, status string
	err := db.Conn.QueryRow(ctx,
		`SELECT worker_id, status FROM bookings WHERE id = $1 AND hirer_id = $2`,
		bookingID, hirerID,
	).Scan(&workerID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return httpx.Fail(c, http.StatusNotFound, "booking not found or not yours")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch booking")
	}
	if status != "completed" {
		return httpx.Fail(c, http.StatusBadRequest, "can only review completed bookings")
	}

	reviewID := uuid.New().String()
	now := time.Now()
	_, err = db.Conn.Exec(ctx,
		`INSERT INTO reviews (id, booking_id, hirer_id, worker_id, rating, comment, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		reviewID, bookingID, hirerID, workerID, req.Rating, req.Comment, now, now,
	)
	if err != nil {
		// unique booking_id means one review per booking
		return httpx.Fail(c, http.StatusConflict, "review already exists for this booking")
	}

	ref := reviewID
	meta := "{}"
	_ = alerts.CreateNotification(workerID, "review:new", "You received a new review",
		strconv.Itoa(req.Rating)+" stars", &ref, nil, &meta)

	return httpx.OK(c, http.StatusCreated, echo.Map{"review_id": reviewID})
}

// =========================
// GetWorkerReviews - public reviews for a worker with rating summary
// =========================
func GetWorkerReviews(c echo.Context) error {
	workerID := c.Param("id")
	if workerID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing worker id")
	}

	page := 1
	limit := 10
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
			page = p
		}
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 50 {
			limit = l
		}
	}
	offset := (page - 1) * limit

	ctx := context.Background()

	var workerName string
	err := db.Conn.QueryRow(ctx, `SELECT name FROM users WHERE id = $1`, workerID).Scan(&workerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return httpx.Fail(c, http.StatusNotFound, "worker not found")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch worker")
	}

	var summary WorkerRatingSummary
	summary.WorkerID = workerID
	summary.WorkerName = workerName

	err = db.Conn.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews WHERE worker_id = $1`,
		workerID,
	).Scan(&summary.TotalReviews, &summary.AverageRating)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch rating summary")
	}

	rows, err := db.Conn.Query(ctx,
		`SELECT rating, COUNT(*) FROM reviews WHERE worker_id = $1 GROUP BY rating ORDER BY rating DESC`,
		workerID,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch rating breakdown")
	}
	defer rows.Close()

	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			continue
		}
		switch rating {
		case 5:
			summary.RatingCounts.FiveStar = count
		case 4:
			summary.RatingCounts.FourStar = count
		case 3:
			summary.RatingCounts.ThreeStar = count
		case 2:
			summary.RatingCounts.TwoStar = count
		case 1:
			summary.RatingCounts.OneStar = count
		}
	}

	reviewRows, err := db.Conn.Query(ctx,
		`SELECT r.id, r.booking_id, r.hirer_id, u.name, r.worker_id, r.rating, COALESCE(r.comment, ''), r.created_at, r.updated_at
         FROM reviews r
         JOIN users u ON r.hirer_id = u.id
         WHERE r.worker_id = $1
         ORDER BY r.created_at DESC
         LIMIT $2 OFFSET $3`,
		workerID, limit, offset,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch reviews")
	}
	defer reviewRows.Close()

	var items []ReviewWithDetails
	for reviewRows.Next() {
		var r ReviewWithDetails
		if err := reviewRows.Scan(
			&r.ID, &r.BookingID, &r.HirerID, &r.HirerName,
			&r.WorkerID, &r.Rating, &r.Comment,
			&r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			continue
		}
		items = append(items, r)
	}

	return httpx.OK(c, http.StatusOK, echo.Map{
		"worker_summary": summary,
		"reviews":        items,
		"pagination": echo.Map{
			"page":  page,
			"limit": limit,
			"total": summary.TotalReviews,
		},
	})
}

// =========================
// GetBookingReview - the review on a booking, visible to its participants
// =========================
func GetBookingReview(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing booking id")
	}

	ctx := context.Background()

	var hirerID, workerID string
	err := db.Conn.QueryRow(ctx,
		`SELECT hirer_id, worker_id FROM bookings WHERE id = $1`, bookingID,
	).Scan(&hirerID, &workerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return httpx.Fail(c, http.StatusNotFound, "booking not found")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch booking")
	}
	if userID != hirerID && userID != workerID {
		return httpx.Fail(c, http.StatusForbidden, "not a participant in this booking")
	}

	var r ReviewWithDetails
	err = db.Conn.QueryRow(ctx,
		`SELECT r.id, r.booking_id, r.hirer_id, u.name, r.worker_id, r.rating, COALESCE(r.comment, ''), r.created_at, r.updated_at
         FROM reviews r
         JOIN users u ON r.hirer_id = u.id
         WHERE r.booking_id = $1`,
		bookingID,
	).Scan(
		&r.ID, &r.BookingID, &r.HirerID, &r.HirerName,
		&r.WorkerID, &r.Rating, &r.Comment,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return httpx.Fail(c, http.StatusNotFound, "no review found for this booking")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch review")
	}

	return httpx.OK(c, http.StatusOK, echo.Map{"review": r})
}
