package jobs

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

type CreateJobRequest struct {
	Title          string     `json:"title" validate:"required"`
	Description    string     `json:"description" validate:"required"`
	Category       string     `json:"category"`
	Budget         float64    `json:"budget" validate:"required,gt=0"`
	ScheduledStart *time.Time `json:"scheduled_start"`
	Publish        bool       `json:"publish"`
}

// =========================
// CreateJob - Hirer posts a job (draft or published)
// =========================
func CreateJob(c echo.Context) error {
	hirerID, ok := c.Get("user_id").(string)
	if !ok || hirerID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	req := new(CreateJobRequest)
	if err := c.Bind(req); err != nil || req.Title == "" || req.Description == "" || req.Budget <= 0 {
		return httpx.Fail(c, http.StatusBadRequest, "title, description and positive budget required")
	}

	status := StatusDraft
	if req.Publish {
		status = StatusPosted
	}

	jobID := uuid.New().String()
	_, err := db.Conn.Exec(context.Background(),
		`INSERT INTO jobs (id, hirer_id, title, description, category, budget, status, scheduled_start, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		jobID, hirerID, req.Title, req.Description, req.Category, req.Budget, status, req.ScheduledStart, time.Now(),
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to create job")
	}

	return httpx.OK(c, http.StatusCreated, echo.Map{"job_id": jobID, "status": status})
}

// =========================
// PublishJob - Hirer moves a draft job to posted
// =========================
func PublishJob(c echo.Context) error {
	hirerID, ok := c.Get("user_id").(string)
	if !ok || hirerID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	jobID := c.Param("id")
	if jobID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing job id in URL")
	}

	res, err := db.Conn.Exec(context.Background(),
		`UPDATE jobs SET status = 'posted', updated_at = NOW()
         WHERE id = $1 AND hirer_id = $2 AND status = 'draft'`,
		jobID, hirerID,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to publish job")
	}
	if res.RowsAffected() == 0 {
		return httpx.Fail(c, http.StatusBadRequest, "job not found, not yours, or not a draft")
	}

	return httpx.OK(c, http.StatusOK, echo.Map{"message": "job published"})
}

// =========================
// GetOpenJobs - Public discovery of posted jobs
// =========================
func GetOpenJobs(c echo.Context) error {
	q := `SELECT id, hirer_id, title, description, COALESCE(category, ''), budget, status, assigned_worker_id, bid_count, scheduled_start, created_at
          FROM jobs WHERE status = 'posted'`
	args := []interface{}{}
	if cat := c.QueryParam("category"); cat != "" {
		q += ` AND category = $1`
		args = append(args, cat)
	}
	q += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := db.Conn.Query(context.Background(), q, args...)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch jobs")
	}
	defer rows.Close()

	jobs, err := scanJobs(rows)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to parse record")
	}
	return httpx.OK(c, http.StatusOK, echo.Map{"jobs": jobs})
}

// =========================
// GetJob - Fetch a single job by id
// =========================
func GetJob(c echo.Context) error {
	jobID := c.Param("id")
	if jobID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing job id in URL")
	}

	var j Job
	err := db.Conn.QueryRow(context.Background(),
		`SELECT id, hirer_id, title, description, COALESCE(category, ''), budget, status, assigned_worker_id, bid_count, scheduled_start, created_at
         FROM jobs WHERE id = $1`, jobID,
	).Scan(&j.ID, &j.HirerID, &j.Title, &j.Description, &j.Category, &j.Budget, &j.Status, &j.AssignedWorkerID, &j.BidCount, &j.ScheduledStart, &j.CreatedAt)
	if err != nil {
		return httpx.Fail(c, http.StatusNotFound, "job not found")
	}

	return httpx.OK(c, http.StatusOK, j)
}

// =========================
// GetMyJobs - Fetch jobs posted by the current hirer
// =========================
func GetMyJobs(c echo.Context) error {
	hirerID, ok := c.Get("user_id").(string)
	if !ok || hirerID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, hirer_id, title, description, COALESCE(category, ''), budget, status, assigned_worker_id, bid_count, scheduled_start, created_at
         FROM jobs WHERE hirer_id = $1 ORDER BY created_at DESC`, hirerID)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch jobs")
	}
	defer rows.Close()

	jobs, err := scanJobs(rows)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to parse record")
	}
	return httpx.OK(c, http.StatusOK, echo.Map{"jobs": jobs})
}

func scanJobs(rows pgx.Rows) ([]Job, error) {
	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.HirerID, &j.Title, &j.Description, &j.Category, &j.Budget, &j.Status, &j.AssignedWorkerID, &j.BidCount, &j.ScheduledStart, &j.CreatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
