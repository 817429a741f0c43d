package main

import (
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRegisterRoutes(t *testing.T) {
	e := echo.New()
	registerRoutes(e)

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	want := []string{
		"GET /health",
		"GET /ready",
		"POST /auth/signup",
		"POST /auth/login",
		"GET /jobs",
		"GET /jobs/:id",
		"POST /jobs",
		"POST /jobs/:id/publish",
		"POST /bids",
		"GET /jobs/:id/bids",
		"POST /bids/:id",
		"GET /bookings",
		"PATCH /bookings",
		"POST /payments/create-intent",
		"POST /payments/confirm",
		"POST /payments/refund",
		"POST /payments/webhook",
		"POST /bookings/:id/messages",
		"POST /bookings/:id/review",
		"GET /notifications",
		"GET /admin/stats",
		"POST /admin/disputes/:id/resolve",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("route %s not registered", route)
		}
	}

	// Bid resolution is an action on the bid resource itself.
	if registered["POST /bids/:id/resolve"] {
		t.Error("stale route POST /bids/:id/resolve still registered")
	}
}
