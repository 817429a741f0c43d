package bids

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

type CreateBidRequest struct {
	JobID          string  `json:"job_id" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Message        string  `json:"message"`
	EstimatedHours *int    `json:"estimated_hours"`
}

// =========================
// CreateBid - Worker bids on a posted job
// =========================
func CreateBid(c echo.Context) error {
	workerID, ok := c.Get("user_id").(string)
	if !ok || workerID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	req := new(CreateBidRequest)
	if err := c.Bind(req); err != nil || req.JobID == "" || req.Amount <= 0 {
		return httpx.Fail(c, http.StatusBadRequest, "job_id and positive amount required")
	}

	ctx := context.Background()

	var hirerID, jobStatus string
	err := db.Conn.QueryRow(ctx,
		`SELECT hirer_id, status FROM jobs WHERE id = $1`, req.JobID,
	).Scan(&hirerID, &jobStatus)
	if err != nil {
		if err == pgx.ErrNoRows {
			return httpx.Fail(c, http.StatusNotFound, "job not found")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch job")
	}
	if hirerID == workerID {
		return httpx.Fail(c, http.StatusBadRequest, "you cannot bid on your own job")
	}
	if jobStatus != "posted" {
		return httpx.Fail(c, http.StatusBadRequest, "job is not open for bids")
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "transaction start failed")
	}
	defer tx.Rollback(ctx)

	bidID := uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO bids (id, job_id, worker_id, amount, message, estimated_hours, status, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7)`,
		bidID, req.JobID, workerID, req.Amount, req.Message, req.EstimatedHours, time.Now(),
	)
	if err != nil {
		// unique (job_id, worker_id) means one bid per worker per job
		return httpx.Fail(c, http.StatusBadRequest, "you have already bid on this job")
	}

	_, err = tx.Exec(ctx,
		`UPDATE jobs SET bid_count = bid_count + 1, updated_at = NOW() WHERE id = $1`, req.JobID,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to update bid count")
	}

	if err = tx.Commit(ctx); err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "commit failed")
	}

	return httpx.OK(c, http.StatusCreated, echo.Map{"bid_id": bidID, "status": StatusPending})
}

// =========================
// GetJobBids - Hirer lists bids on their job, worker sees their own
// =========================
func GetJobBids(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	jobID := c.Param("id")
	if jobID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing job id in URL")
	}

	var hirerID string
	if err := db.Conn.QueryRow(context.Background(), `SELECT hirer_id FROM jobs WHERE id = $1`, jobID).Scan(&hirerID); err != nil {
		return httpx.Fail(c, http.StatusNotFound, "job not found")
	}

	q := `SELECT id, job_id, worker_id, amount, COALESCE(message, ''), estimated_hours, status, created_at
          FROM bids WHERE job_id = $1 ORDER BY created_at DESC`
	args := []interface{}{jobID}
	if uid != hirerID {
		// non-owners only see their own bid
		q = `SELECT id, job_id, worker_id, amount, COALESCE(message, ''), estimated_hours, status, created_at
             FROM bids WHERE job_id = $1 AND worker_id = $2 ORDER BY created_at DESC`
		args = append(args, uid)
	}

	rows, err := db.Conn.Query(context.Background(), q, args...)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch bids")
	}
	defer rows.Close()

	var items []Bid
	for rows.Next() {
		var b Bid
		if err := rows.Scan(&b.ID, &b.JobID, &b.WorkerID, &b.Amount, &b.Message, &b.EstimatedHours, &b.Status, &b.CreatedAt); err != nil {
			return httpx.Fail(c, http.StatusInternalServerError, "failed to parse record")
		}
		items = append(items, b)
	}

	return httpx.OK(c, http.StatusOK, echo.Map{"bids": items})
}
