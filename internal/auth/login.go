package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// ===== Login =====
func Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "invalid request")
	}

	ctx := context.Background()

	var (
		userID   string
		password string
		role     string
		isActive bool
	)
	err := db.Conn.QueryRow(ctx, `
        SELECT id, password, role, is_active FROM users WHERE email = $1
    `, req.Email).Scan(&userID, &password, &role, &isActive)
	if err != nil {
		return httpx.Fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	if !isActive {
		return httpx.Fail(c, http.StatusForbidden, "account suspended")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)); err != nil {
		return httpx.Fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	signed, err := issueToken(userID, role)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "token generation failed")
	}

	return httpx.OK(c, http.StatusOK, LoginResponse{Token: signed})
}
