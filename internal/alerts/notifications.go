package alerts

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

// CreateNotification inserts an in-app notification item. Callers treat this
// as best-effort: a failure here never rolls back the operation that
// triggered it.
func CreateNotification(userID, ntype, title, body string, reference, actionURL, metadataJSON *string) error {
	_, err := db.Conn.Exec(context.Background(),
		`INSERT INTO notifications (id, user_id, type, title, body, reference, action_url, metadata)
         VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)`,
		userID, ntype, title, body, reference, actionURL, metadataJSON,
	)
	return err
}

// ListNotifications returns current user's notifications, newest first
func ListNotifications(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id::text, type, title, body, reference::text, action_url, metadata::text, created_at, read_at
         FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to load notifications")
	}
	defer rows.Close()

	var items []map[string]interface{}
	for rows.Next() {
		var id, ntype, title string
		var body, reference, actionURL, metadata *string
		var createdAt time.Time
		var readAt *time.Time
		if err := rows.Scan(&id, &ntype, &title, &body, &reference, &actionURL, &metadata, &createdAt, &readAt); err != nil {
			return httpx.Fail(c, http.StatusInternalServerError, "failed to parse notification")
		}
		item := map[string]interface{}{
			"id":         id,
			"type":       ntype,
			"title":      title,
			"body":       body,
			"reference":  reference,
			"action_url": actionURL,
			"metadata":   metadata,
			"created_at": createdAt.UTC().Format(time.RFC3339),
		}
		if readAt != nil {
			item["read_at"] = readAt.UTC().Format(time.RFC3339)
		} else {
			item["read_at"] = nil
		}
		items = append(items, item)
	}
	return httpx.OK(c, http.StatusOK, echo.Map{"notifications": items})
}

// MarkNotificationRead marks specific notification as read
func MarkNotificationRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	nid := c.Param("id")
	if nid == "" {
		return httpx.Fail(c, http.StatusBadRequest, "missing notification id")
	}

	res, err := db.Conn.Exec(context.Background(),
		`UPDATE notifications SET read_at = NOW() WHERE id = $1 AND user_id = $2 AND read_at IS NULL`, nid, userID,
	)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to update")
	}
	if res.RowsAffected() == 0 {
		return httpx.Fail(c, http.StatusNotFound, "not found or already read")
	}
	return httpx.OK(c, http.StatusOK, echo.Map{"message": "ok"})
}
