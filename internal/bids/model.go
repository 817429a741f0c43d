package bids

import "time"

// Bid statuses. A bid is terminal once accepted, rejected or withdrawn.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusWithdrawn = "withdrawn"
)

// Resolution actions
const (
	ActionAccept   = "accept"
	ActionReject   = "reject"
	ActionWithdraw = "withdraw"
)

// Bid represents a worker's priced offer on a posted job
type Bid struct {
	ID             string    `json:"id"`
	JobID          string    `json:"job_id"`
	WorkerID       string    `json:"worker_id"`
	Amount         float64   `json:"amount"`
	Message        string    `json:"message,omitempty"`
	EstimatedHours *int      `json:"estimated_hours,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
