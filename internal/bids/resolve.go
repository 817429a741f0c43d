package bids

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/crewlink-dev/crewlink/internal/alerts"
	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

var (
	errForbidden     = errors.New("actor may not perform this action on the bid")
	errUnknownAction = errors.New("unknown action")
)

// authorizeResolve decides whether actorID may apply action to a bid owned by
// workerID on a job posted by hirerID. Accept and reject belong to the hirer,
// withdraw to the bidding worker.
func authorizeResolve(action, actorID, hirerID, workerID string) error {
	switch action {
	case ActionAccept, ActionReject:
		if actorID != hirerID {
			return errForbidden
		}
	case ActionWithdraw:
		if actorID != workerID {
			return errForbidden
		}
	default:
		return errUnknownAction
	}
	return nil
}

type ResolveBidRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject withdraw"`
}

// =========================
// ResolveBid - accept / reject / withdraw a pending bid
// =========================
// Accept runs inside a single transaction: the winning bid flips only if it
// is still pending (affected-row check excludes a concurrent double accept),
// sibling bids are bulk rejected, the job is assigned, and the booking plus
// its conversation thread are created. Notifications go out after commit.
func ResolveBid(c echo.Context) error {
	actorID, ok := c.Get("user_id").(string)
	if !ok || actorID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	bidID := c.Param("id")
	if bidID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing bid id in URL")
	}

	req := new(ResolveBidRequest)
	if err := c.Bind(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "invalid request")
	}

	ctx := context.Background()

	var (
		jobID, workerID, bidStatus string
		amount                     float64
	)
	err := db.Conn.QueryRow(ctx,
		`SELECT job_id, worker_id, amount, status FROM bids WHERE id = $1`, bidID,
	).Scan(&jobID, &workerID, &amount, &bidStatus)
	if err != nil {
		if err == pgx.ErrNoRows {
			return httpx.Fail(c, http.StatusNotFound, "bid not found")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch bid")
	}

	var hirerID string
	var scheduledStart *time.Time
	err = db.Conn.QueryRow(ctx,
		`SELECT hirer_id, scheduled_start FROM jobs WHERE id = $1`, jobID,
	).Scan(&hirerID, &scheduledStart)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch job")
	}

	if err := authorizeResolve(req.Action, actorID, hirerID, workerID); err != nil {
		if err == errUnknownAction {
			return httpx.Fail(c, http.StatusBadRequest, "action must be accept, reject or withdraw")
		}
		return httpx.Fail(c, http.StatusForbidden, "you may not "+req.Action+" this bid")
	}

	if bidStatus != StatusPending {
		return httpx.Fail(c, http.StatusBadRequest, "bid is "+bidStatus+", only pending bids can be resolved")
	}

	switch req.Action {
	case ActionAccept:
		return acceptBid(c, ctx, bidID, jobID, hirerID, workerID, amount, scheduledStart)
	case ActionReject:
		return rejectBid(c, ctx, bidID, jobID, workerID, amount)
	default:
		return withdrawBid(c, ctx, bidID, jobID)
	}
}

func acceptBid(c echo.Context, ctx context.Context, bidID, jobID, hirerID, workerID string, amount float64, scheduledStart *time.Time) error {
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "transaction start failed")
	}
	defer tx.Rollback(ctx)

	// Conditional flip; a concurrent accept that got there first leaves zero
	// affected rows here.
	res, err := tx.Exec(ctx,
		`UPDATE bids SET status = 'accepted', updated_at = NOW() WHERE id = $1 AND status = 'pending'`,
		bidID,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to accept bid")
	}
	if res.RowsAffected() == 0 {
		return httpx.Fail(c, http.StatusBadRequest, "bid is no longer pending")
	}

	_, err = tx.Exec(ctx,
		`UPDATE bids SET status = 'rejected', updated_at = NOW()
         WHERE job_id = $1 AND id <> $2 AND status = 'pending'`,
		jobID, bidID,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to reject competing bids")
	}

	res, err = tx.Exec(ctx,
		`UPDATE jobs SET status = 'assigned', assigned_worker_id = $1, updated_at = NOW()
         WHERE id = $2 AND status IN ('posted', 'in_review')`,
		workerID, jobID,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to assign job")
	}
	if res.RowsAffected() == 0 {
		return httpx.Fail(c, http.StatusBadRequest, "job is no longer open")
	}

	bookingID := uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, job_id, bid_id, hirer_id, worker_id, agreed_amount, status, payment_status, scheduled_start, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, 'confirmed', 'pending', $7, $8)`,
		bookingID, jobID, bidID, hirerID, workerID, amount, scheduledStart, time.Now(),
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to create booking")
	}

	conversationID := uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO conversations (id, booking_id, hirer_id, worker_id)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (booking_id) DO NOTHING`,
		conversationID, bookingID, hirerID, workerID,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to create conversation")
	}

	if err = tx.Commit(ctx); err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "commit failed")
	}

	// Notify the winning worker (best-effort)
	ref := bookingID
	actionURL := "/bookings/" + bookingID
	_ = alerts.CreateNotification(workerID, "bid:accepted", "Your bid was accepted",
		"A booking has been opened for your bid.", &ref, &actionURL, nil)

	var workerEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, workerID).Scan(&workerEmail)
	if workerEmail != "" {
		_ = alerts.EnqueueBidResolved(bidID, jobID, workerID, workerEmail, "accepted", amount)
	}

	return httpx.OK(c, http.StatusOK, echo.Map{
		"bid_status":      StatusAccepted,
		"booking_id":      bookingID,
		"conversation_id": conversationID,
	})
}

func rejectBid(c echo.Context, ctx context.Context, bidID, jobID, workerID string, amount float64) error {
	res, err := db.Conn.Exec(ctx,
		`UPDATE bids SET status = 'rejected', updated_at = NOW() WHERE id = $1 AND status = 'pending'`,
		bidID,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to reject bid")
	}
	if res.RowsAffected() == 0 {
		return httpx.Fail(c, http.StatusBadRequest, "bid is no longer pending")
	}

	ref := bidID
	_ = alerts.CreateNotification(workerID, "bid:rejected", "Your bid was not selected",
		"The hirer chose not to proceed with your bid.", &ref, nil, nil)

	var workerEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, workerID).Scan(&workerEmail)
	if workerEmail != "" {
		_ = alerts.EnqueueBidResolved(bidID, jobID, workerID, workerEmail, "rejected", amount)
	}

	return httpx.OK(c, http.StatusOK, echo.Map{"bid_status": StatusRejected})
}

func withdrawBid(c echo.Context, ctx context.Context, bidID, jobID string) error {
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "transaction start failed")
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx,
		`UPDATE bids SET status = 'withdrawn', updated_at = NOW() WHERE id = $1 AND status = 'pending'`,
		bidID,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to withdraw bid")
	}
	if res.RowsAffected() == 0 {
		return httpx.Fail(c, http.StatusBadRequest, "bid is no longer pending")
	}

	_, err = tx.Exec(ctx,
		`UPDATE jobs SET bid_count = GREATEST(bid_count - 1, 0), updated_at = NOW() WHERE id = $1`,
		jobID,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to update bid count")
	}

	if err = tx.Commit(ctx); err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "commit failed")
	}

	return httpx.OK(c, http.StatusOK, echo.Map{"bid_status": StatusWithdrawn})
}
