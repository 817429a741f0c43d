package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/crewlink-dev/crewlink/internal/alerts"
	"github.com/crewlink-dev/crewlink/internal/config"
	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /auth/password-reset/request
// Always responds with the same message to avoid user enumeration.
func RequestPasswordReset(c echo.Context) error {
	const generic = "If the email exists, a reset link has been sent."

	req := new(RequestPasswordResetRequest)
	if err := c.Bind(req); err != nil || req.Email == "" {
		return httpx.OK(c, http.StatusOK, echo.Map{"message": generic})
	}

	var userID, name string
	err := db.Conn.QueryRow(context.Background(), `SELECT id, name FROM users WHERE email = $1`, req.Email).Scan(&userID, &name)
	if err != nil || userID == "" {
		return httpx.OK(c, http.StatusOK, echo.Map{"message": generic})
	}

	expiryMinutes := 30
	if v := os.Getenv("PASSWORD_RESET_EXP_MINUTES"); v != "" {
		if dur, parseErr := time.ParseDuration(v + "m"); parseErr == nil {
			expiryMinutes = int(dur.Minutes())
		}
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"purpose": "password_reset",
		"exp":     time.Now().Add(time.Duration(expiryMinutes) * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, signErr := token.SignedString(config.JWTSecret())
	if signErr != nil {
		return httpx.OK(c, http.StatusOK, echo.Map{"message": generic})
	}

	base := config.Get("APP_URL", "http://localhost:3000")
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(base, "/"), url.QueryEscape(signed))

	_ = alerts.EnqueuePasswordReset(userID, req.Email, resetURL, name)

	return httpx.OK(c, http.StatusOK, echo.Map{"message": generic})
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// POST /auth/password-reset/confirm
func ResetPassword(c echo.Context) error {
	req := new(ResetPasswordRequest)
	if err := c.Bind(req); err != nil || req.Token == "" || len(req.NewPassword) < 6 {
		return httpx.Fail(c, http.StatusBadRequest, "invalid request")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(req.Token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return config.JWTSecret(), nil
	})
	if err != nil || !parsed.Valid {
		return httpx.Fail(c, http.StatusUnauthorized, "invalid or expired token")
	}

	purpose, _ := claims["purpose"].(string)
	if purpose != "password_reset" {
		return httpx.Fail(c, http.StatusUnauthorized, "invalid token purpose")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "invalid token subject")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "server error")
	}

	ct, err := db.Conn.Exec(context.Background(), `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`, string(hashed), userID)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "failed to update password")
	}
	if ct.RowsAffected() == 0 {
		return httpx.Fail(c, http.StatusNotFound, "user not found")
	}

	return httpx.OK(c, http.StatusOK, echo.Map{"message": "password updated successfully"})
}
