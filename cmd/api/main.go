package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/crewlink-dev/crewlink/internal/admin"
	"github.com/crewlink-dev/crewlink/internal/alerts"
	"github.com/crewlink-dev/crewlink/internal/auth"
	"github.com/crewlink-dev/crewlink/internal/bids"
	"github.com/crewlink-dev/crewlink/internal/bookings"
	"github.com/crewlink-dev/crewlink/internal/config"
	"github.com/crewlink-dev/crewlink/internal/db"
	"github.com/crewlink-dev/crewlink/internal/jobs"
	"github.com/crewlink-dev/crewlink/internal/messaging"
	appmw "github.com/crewlink-dev/crewlink/internal/middleware"
	"github.com/crewlink-dev/crewlink/internal/payments"
	"github.com/crewlink-dev/crewlink/internal/reviews"
	"github.com/crewlink-dev/crewlink/internal/user"
)

func registerRoutes(e *echo.Echo) {
	// Health
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/ready", func(c echo.Context) error {
		if err := db.Conn.Ping(c.Request().Context()); err != nil {
			return c.String(http.StatusServiceUnavailable, "db unreachable")
		}
		return c.String(http.StatusOK, "ready")
	})

	// Public auth routes, rate limited against credential stuffing
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(10)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/password-reset/request", auth.RequestPasswordReset)
	authGroup.POST("/password-reset/confirm", auth.ResetPassword)

	// Public discovery
	e.GET("/jobs", jobs.GetOpenJobs)
	e.GET("/jobs/:id", jobs.GetJob)
	e.GET("/users/:id/profile", user.GetPublicProfile)
	e.GET("/workers/:id/reviews", reviews.GetWorkerReviews)

	// Payment processor callback, authenticated by signature not session
	e.POST("/payments/webhook", payments.Webhook)

	// Authenticated group
	g := e.Group("")
	g.Use(appmw.JWTMiddleware)

	g.GET("/me", auth.Me)
	g.PATCH("/users/profile", user.UpdateProfile)

	// Jobs
	g.POST("/jobs", jobs.CreateJob, appmw.RequireRoles("hirer"))
	g.POST("/jobs/:id/publish", jobs.PublishJob, appmw.RequireRoles("hirer"))
	g.GET("/jobs/mine", jobs.GetMyJobs)

	// Bids
	g.POST("/bids", bids.CreateBid, appmw.RequireRoles("worker"))
	g.GET("/jobs/:id/bids", bids.GetJobBids)
	g.POST("/bids/:id", bids.ResolveBid)

	// Bookings
	g.GET("/bookings", bookings.GetUserBookings)
	g.GET("/bookings/:id", bookings.GetBooking)
	g.PATCH("/bookings", bookings.Transition)

	// Payments
	g.POST("/payments/create-intent", payments.CreateIntent, appmw.RequireRoles("hirer"))
	g.POST("/payments/confirm", payments.Confirm, appmw.RequireRoles("hirer"))
	g.POST("/payments/refund", payments.Refund, appmw.RequireRoles("hirer"))
	g.GET("/bookings/:id/payments", payments.GetBookingPayments)

	// Messaging
	g.POST("/bookings/:id/messages", messaging.SendMessage)
	g.GET("/bookings/:id/messages", messaging.ListMessages)
	g.GET("/bookings/:id/messages/unread", messaging.UnreadCount)
	g.POST("/bookings/:id/messages/:message_id/read", messaging.MarkMessageRead)

	// Reviews
	g.POST("/bookings/:id/review", reviews.CreateReview, appmw.RequireRoles("hirer"))
	g.GET("/bookings/:id/review", reviews.GetBookingReview)

	// Notifications
	g.GET("/notifications", alerts.ListNotifications)
	g.POST("/notifications/:id/read", alerts.MarkNotificationRead)

	// Admin routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(appmw.JWTMiddleware)
	adminGroup.Use(appmw.AdminGuard)
	adminGroup.GET("/stats", admin.Stats)
	adminGroup.GET("/users", admin.ListUsers)
	adminGroup.POST("/users/:id/suspend", admin.SuspendUser)
	adminGroup.POST("/users/:id/activate", admin.ActivateUser)
	adminGroup.GET("/bookings", admin.ListBookings)
	adminGroup.GET("/disputes", admin.ListDisputes)
	adminGroup.POST("/disputes/:id/resolve", admin.ResolveDispute)
}

func main() {
	config.Load()
	db.Init()
	defer db.Close()
	alerts.Init()
	defer alerts.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	registerRoutes(e)

	port := config.Get("PORT", "8080")
	log.Infof("API server listening on :%s", port)
	if err := e.Start(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
