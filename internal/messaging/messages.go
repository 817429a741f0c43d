package messaging

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/crewlink-dev/crewlink/internal/alerts"
	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

// A conversation is created when a bid is accepted and lives for the
// booking. Only the hirer and worker on the booking can use it.

// loadConversation resolves the booking's thread and both participants.
func loadConversation(ctx context.Context, bookingID string) (convID, hirerID, workerID string, err error) {
	err = db.Conn.QueryRow(ctx,
		`SELECT id, hirer_id, worker_id FROM conversations WHERE booking_id = $1`, bookingID,
	).Scan(&convID, &hirerID, &workerID)
	return
}

// =========================
// SendMessage - hirer or worker posts into the booking thread
// =========================
func SendMessage(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing booking id")
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil || body.Content == "" {
		return httpx.Fail(c, http.StatusBadRequest, "content is required")
	}

	ctx := context.Background()
	convID, hirerID, workerID, err := loadConversation(ctx, bookingID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return httpx.Fail(c, http.StatusNotFound, "conversation not found")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch conversation")
	}

	var recipientID string
	switch userID {
	case hirerID:
		recipientID = workerID
	case workerID:
		recipientID = hirerID
	default:
		return httpx.Fail(c, http.StatusForbidden, "not a participant in this booking")
	}

	msgID := uuid.New().String()
	var createdAt time.Time
	err = db.Conn.QueryRow(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, recipient_id, content)
         VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		msgID, convID, userID, recipientID, body.Content,
	).Scan(&createdAt)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to send message")
	}

	// In-app notification for the other side
	ref := msgID
	meta := "{}"
	_ = alerts.CreateNotification(recipientID, "message:new", "New message on your booking", body.Content, &ref, nil, &meta)

	// Email notification (best-effort)
	var recipientEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, recipientID).Scan(&recipientEmail)
	if recipientEmail != "" {
		_ = alerts.EnqueueMessageNew(bookingID, userID, recipientEmail, recipientID, body.Content)
	}

	return httpx.OK(c, http.StatusCreated, echo.Map{
		"message_id": msgID,
		"created_at": createdAt.UTC().Format(time.RFC3339),
	})
}

// =========================
// ListMessages - full or incremental thread fetch
// =========================
func ListMessages(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing booking id")
	}

	ctx := context.Background()
	convID, hirerID, workerID, err := loadConversation(ctx, bookingID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return httpx.Fail(c, http.StatusNotFound, "conversation not found")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch conversation")
	}
	if userID != hirerID && userID != workerID {
		return httpx.Fail(c, http.StatusForbidden, "not a participant in this booking")
	}

	// Optional since filter for incremental fetches
	q := `SELECT id, sender_id, recipient_id, content, created_at, read_at
          FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`
	args := []interface{}{convID}
	if sinceStr := c.QueryParam("since"); sinceStr != "" {
		sinceTime, perr := time.Parse(time.RFC3339, sinceStr)
		if perr != nil {
			return httpx.Fail(c, http.StatusBadRequest, "invalid since timestamp, use RFC3339")
		}
		q = `SELECT id, sender_id, recipient_id, content, created_at, read_at
             FROM messages WHERE conversation_id = $1 AND created_at > $2 ORDER BY created_at ASC`
		args = append(args, sinceTime)
	}

	rows, err := db.Conn.Query(ctx, q, args...)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to list messages")
	}
	defer rows.Close()

	type message struct {
		ID          string      `json:"id"`
		SenderID    string      `json:"sender_id"`
		RecipientID string      `json:"recipient_id"`
		Content     string      `json:"content"`
		CreatedAt   string      `json:"created_at"`
		ReadAt      interface{} `json:"read_at"`
	}

	var msgs []message
	for rows.Next() {
		var m message
		var createdAt, readAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &createdAt, &readAt); err != nil {
			return httpx.Fail(c, http.StatusInternalServerError, "failed to parse record")
		}
		if createdAt.Valid {
			m.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
		}
		if readAt.Valid {
			m.ReadAt = readAt.Time.UTC().Format(time.RFC3339)
		}
		msgs = append(msgs, m)
	}

	return httpx.OK(c, http.StatusOK, echo.Map{"messages": msgs})
}

// =========================
// UnreadCount - unread messages addressed to the caller in this thread
// =========================
func UnreadCount(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing booking id")
	}

	ctx := context.Background()
	convID, hirerID, workerID, err := loadConversation(ctx, bookingID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return httpx.Fail(c, http.StatusNotFound, "conversation not found")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch conversation")
	}
	if userID != hirerID && userID != workerID {
		return httpx.Fail(c, http.StatusForbidden, "not a participant in this booking")
	}

	var count int64
	err = db.Conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE conversation_id = $1 AND recipient_id = $2 AND read_at IS NULL`,
		convID, userID,
	).Scan(&count)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to compute unread count")
	}

	return httpx.OK(c, http.StatusOK, echo.Map{"unread": count})
}

// =========================
// MarkMessageRead - recipient acknowledges a message
// =========================
func MarkMessageRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	bookingID := c.Param("id")
	msgID := c.Param("message_id")
	if bookingID == "" || msgID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing booking or message id")
	}

	ctx := context.Background()
	var recipientID string
	err := db.Conn.QueryRow(ctx,
		`SELECT m.recipient_id FROM messages m
         JOIN conversations cv ON cv.id = m.conversation_id
         WHERE m.id = $1 AND cv.booking_id = $2`, msgID, bookingID,
	).Scan(&recipientID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return httpx.Fail(c, http.StatusNotFound, "message not found")
		}
		return httpx.Fail(c, http.StatusInternalServerError, "failed to fetch message")
	}
	if recipientID != userID {
		return httpx.Fail(c, http.StatusForbidden, "not the recipient")
	}

	var readTS time.Time
	err = db.Conn.QueryRow(ctx,
		`UPDATE messages SET read_at = COALESCE(read_at, NOW()) WHERE id = $1 AND recipient_id = $2 RETURNING read_at`,
		msgID, userID,
	).Scan(&readTS)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to mark read")
	}

	return httpx.OK(c, http.StatusOK, echo.Map{
		"message_id": msgID,
		"read_at":    readTS.UTC().Format(time.RFC3339),
	})
}
