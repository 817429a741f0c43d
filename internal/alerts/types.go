package alerts

import "time"

// Task type constants
const (
	TaskWelcomeEmail  = "email:welcome"
	TaskPasswordReset = "email:password_reset"
	TaskBidResolved   = "email:bid_resolved"
	TaskBookingUpdate = "email:booking_update"
	TaskPaymentFailed = "email:payment_failed"
	TaskRefundIssued  = "email:refund_issued"
	TaskMessageNew    = "email:message_new"
	TaskAdminAlert    = "email:admin_alert"
)

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Welcome email payload
type WelcomeEmailPayload struct {
	UserID   string        `json:"user_id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Password reset payload
type PasswordResetPayload struct {
	UserID    string        `json:"user_id"`
	Email     string        `json:"email"`
	ResetURL  string        `json:"reset_url"`
	Envelope  EmailEnvelope `json:"envelope"`
	Requested time.Time     `json:"requested"`
}

// Bid resolved payload (sent to the worker on accept/reject)
type BidResolvedPayload struct {
	BidID    string        `json:"bid_id"`
	JobID    string        `json:"job_id"`
	WorkerID string        `json:"worker_id"`
	Outcome  string        `json:"outcome"` // accepted|rejected
	Email    string        `json:"email"`
	Amount   float64       `json:"amount"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Booking update payload (sent to the counterparty of a transition)
type BookingUpdatePayload struct {
	BookingID string        `json:"booking_id"`
	ActorID   string        `json:"actor_id"`
	UserID    string        `json:"user_id"`
	Status    string        `json:"status"`
	Email     string        `json:"email"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// Payment failed payload (sent to the hirer)
type PaymentFailedPayload struct {
	BookingID  string        `json:"booking_id"`
	HirerID    string        `json:"hirer_id"`
	ExternalID string        `json:"external_id"`
	Email      string        `json:"email"`
	Envelope   EmailEnvelope `json:"envelope"`
	SentAt     time.Time     `json:"sent_at"`
}

// Refund issued payload (sent to the worker)
type RefundIssuedPayload struct {
	BookingID string        `json:"booking_id"`
	WorkerID  string        `json:"worker_id"`
	Email     string        `json:"email"`
	Amount    float64       `json:"amount"`
	Reason    string        `json:"reason"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// Message new payload (sent to recipient on new message)
type MessageNewPayload struct {
	BookingID string        `json:"booking_id"`
	SenderID  string        `json:"sender_id"`
	Recipient string        `json:"recipient"`
	Email     string        `json:"email"`
	Body      string        `json:"body"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// Admin alert payload
type AdminAlertPayload struct {
	ActorID  string        `json:"actor_id"`
	Severity string        `json:"severity"` // info|warning|critical
	Message  string        `json:"message"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}
