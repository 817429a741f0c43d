package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/crewlink-dev/crewlink/internal/alerts"
	"github.com/crewlink-dev/crewlink/internal/config"
	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/httpx"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=hirer worker"`
}

type SignupResponse struct {
	Token string `json:"token"`
}

// ===== Signup =====
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "invalid request")
	}
	if req.Role != "hirer" && req.Role != "worker" {
		return httpx.Fail(c, http.StatusBadRequest, "role must be hirer or worker")
	}
	if req.Email == "" || len(req.Password) < 6 {
		return httpx.Fail(c, http.StatusBadRequest, "email and password (min 6 chars) required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "server error")
	}

	ctx := context.Background()
	userID := uuid.New().String()
	_, err = db.Conn.Exec(ctx, `
		INSERT INTO users (id, name, email, password, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, req.Name, req.Email, string(hashed), req.Role, time.Now())
	if err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "email already exists")
	}

	_ = alerts.EnqueueWelcomeEmail(userID, req.Email, req.Name)

	signed, err := issueToken(userID, req.Role)
	if err != nil {
		return httpx.Fail(c, http.StatusInternalServerError, "token generation failed")
	}

	return httpx.OK(c, http.StatusCreated, SignupResponse{Token: signed})
}

// issueToken signs a 72h session token carrying the principal and role.
func issueToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret())
}
