package payments

import "time"

// PaymentRecord types. The ledger is append-only: a refund is a new
// negative-amount row, never a mutation of the original.
const (
	TypeEscrowHold = "escrow_hold"
	TypeCompleted  = "completed"
	TypeRefund     = "refund"
)

// PaymentRecord statuses. pending -> completed|failed is the only allowed
// mutation of a written row.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// PaymentRecord is one money movement against a booking.
type PaymentRecord struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	UserID     string    `json:"user_id"`
	Amount     float64   `json:"amount"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	ExternalID *string   `json:"external_id,omitempty"`
	Provider   string    `json:"provider"`
	CreatedAt  time.Time `json:"created_at"`
}
