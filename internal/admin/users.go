package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

type AdminUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /admin/users
func ListUsers(c echo.Context) error {
	ctx := context.Background()

	query := `SELECT id, name, email, role, is_active, created_at FROM users ORDER BY created_at DESC`
	args := []interface{}{}
	if role := c.QueryParam("role"); role != "" {
		query = `SELECT id, name, email, role, is_active, created_at FROM users WHERE role = $1 ORDER BY created_at DESC`
		args = append(args, role)
	}

	rows, err := db.Conn.Query(ctx, query, args...)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "could not fetch users")
	}
	defer rows.Close()

	var users []AdminUser
	for rows.Next() {
		var u AdminUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return httpx.Fail(c, http.StatusInternalServerError, "failed to read user record")
		}
		users = append(users, u)
	}
	return httpx.OK(c, http.StatusOK, echo.Map{"users": users})
}

// POST /admin/users/:id/suspend
//
// Suspended users keep their rows but fail login until reactivated.
func SuspendUser(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "user id required")
	}

	tag, err := db.Conn.Exec(context.Background(),
		`UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND role <> 'admin'`, userID)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to suspend user")
	}
	if tag.RowsAffected() == 0 {
		return httpx.Fail(c, http.StatusNotFound, "user not found or is an admin")
	}
	return httpx.OK(c, http.StatusOK, echo.Map{"message": "user suspended", "user_id": userID})
}

// POST /admin/users/:id/activate
func ActivateUser(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "user id required")
	}

	tag, err := db.Conn.Exec(context.Background(),
		`UPDATE users SET is_active = TRUE, updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to activate user")
	}
	if tag.RowsAffected() == 0 {
		return httpx.Fail(c, http.StatusNotFound, "user not found")
	}
	return httpx.OK(c, http.StatusOK, echo.Map{"message": "user activated", "user_id": userID})
}
