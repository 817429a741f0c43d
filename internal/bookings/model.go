package bookings

import "time"

// Booking is the contractual record opened when a bid is accepted. It owns
// the escrow payment lifecycle; the job row only mirrors it.
type Booking struct {
	ID             string     `json:"id"`
	JobID          string     `json:"job_id"`
	BidID          string     `json:"bid_id"`
	HirerID        string     `json:"hirer_id"`
	WorkerID       string     `json:"worker_id"`
	AgreedAmount   float64    `json:"agreed_amount"`
	FinalAmount    *float64   `json:"final_amount,omitempty"`
	Status         string     `json:"status"`
	PaymentStatus  string     `json:"payment_status"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ActualStart    *time.Time `json:"actual_start,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CancelReason   *string    `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
