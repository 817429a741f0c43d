package alerts

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/crewlink-dev/crewlink/internal/config"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init()
	}
	return client
}

// EnqueueWelcomeEmail schedules a welcome email to the user
func EnqueueWelcomeEmail(userID, email, name string) error {
	base := strings.TrimRight(config.Get("APP_URL", "http://localhost:3000"), "/")

	subject := fmt.Sprintf("Welcome to CrewLink, %s!", name)
	body := fmt.Sprintf("Hi %s, thanks for joining CrewLink.\n\nOpen CrewLink: %s\n\nIf the link doesn't work, copy and paste the URL above.", name, base)

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	payload := WelcomeEmailPayload{UserID: userID, Name: name, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskWelcomeEmail, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueuePasswordReset schedules a password reset notification
func EnqueuePasswordReset(userID, email, resetURL, name string) error {
	expiry := config.Get("PASSWORD_RESET_EXP_MINUTES", "30")
	subject := "Password reset instructions"
	body := fmt.Sprintf("Hello %s,\n\nWe received a request to reset your CrewLink password.\n\nTo proceed, open the link below:\n%s\n\nThis link expires in %s minutes. If you did not request this, no action is required.\n\n— CrewLink Team", name, resetURL, expiry)

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	payload := PasswordResetPayload{UserID: userID, Email: email, ResetURL: resetURL, Envelope: env, Requested: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskPasswordReset, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueBidResolved notifies the worker their bid was accepted or rejected
func EnqueueBidResolved(bidID, jobID, workerID, workerEmail, outcome string, amount float64) error {
	subject := "Your bid was " + outcome
	body := fmt.Sprintf("Your bid of %.2f was %s.", amount, outcome)
	if outcome == "accepted" {
		body += " A booking has been opened; check your dashboard for next steps."
	}

	env := EmailEnvelope{To: workerEmail, Subject: subject, Body: body}
	payload := BidResolvedPayload{BidID: bidID, JobID: jobID, WorkerID: workerID, Outcome: outcome, Email: workerEmail, Amount: amount, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskBidResolved, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueBookingUpdate notifies the counterparty of a booking transition
func EnqueueBookingUpdate(bookingID, actorID, userID, email, status string) error {
	subject := "Booking update: " + status
	body := fmt.Sprintf("Booking %s moved to %s.", bookingID, status)

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	payload := BookingUpdatePayload{BookingID: bookingID, ActorID: actorID, UserID: userID, Status: status, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskBookingUpdate, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueuePaymentFailed notifies the hirer that the processor reported a failure
func EnqueuePaymentFailed(bookingID, hirerID, hirerEmail, externalID string) error {
	env := EmailEnvelope{
		To:      hirerEmail,
		Subject: "Payment failed",
		Body:    fmt.Sprintf("The payment for booking %s failed. Please retry from your dashboard.", bookingID),
	}
	payload := PaymentFailedPayload{BookingID: bookingID, HirerID: hirerID, ExternalID: externalID, Email: hirerEmail, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskPaymentFailed, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueRefundIssued notifies the worker that the hirer's payment was refunded
func EnqueueRefundIssued(bookingID, workerID, workerEmail, reason string, amount float64) error {
	env := EmailEnvelope{
		To:      workerEmail,
		Subject: "Payment refunded",
		Body:    fmt.Sprintf("The payment of %.2f for booking %s was refunded to the hirer. Reason: %s", amount, bookingID, reason),
	}
	payload := RefundIssuedPayload{BookingID: bookingID, WorkerID: workerID, Email: workerEmail, Amount: amount, Reason: reason, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskRefundIssued, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueMessageNew notifies the recipient of a new message in a booking thread
func EnqueueMessageNew(bookingID, senderID, recipientEmail, recipientID, body string) error {
	env := EmailEnvelope{
		To:      recipientEmail,
		Subject: "New message on your booking",
		Body:    body,
	}
	payload := MessageNewPayload{BookingID: bookingID, SenderID: senderID, Recipient: recipientID, Email: recipientEmail, Body: body, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskMessageNew, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueAdminAlert sends an alert to admins
func EnqueueAdminAlert(actorID, severity, message string) error {
	env := EmailEnvelope{To: config.Get("ADMIN_ALERT_EMAIL", "admin@crewlink.local"), Subject: "Admin Alert", Body: message}
	payload := AdminAlertPayload{ActorID: actorID, Severity: severity, Message: message, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskAdminAlert, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("alerts"))
	return err
}
