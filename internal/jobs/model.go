package jobs

import "time"

// Job statuses. The job row mirrors bid/booking state for display; bids and
// bookings are the authority for anything money-related.
const (
	StatusDraft      = "draft"
	StatusPosted     = "posted"
	StatusInReview   = "in_review"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Job represents a unit of work posted by a hirer
type Job struct {
	ID               string     `json:"id"`
	HirerID          string     `json:"hirer_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category,omitempty"`
	Budget           float64    `json:"budget"`
	Status           string     `json:"status"`
	AssignedWorkerID *string    `json:"assigned_worker_id,omitempty"`
	BidCount         int        `json:"bid_count"`
	ScheduledStart   *time.Time `json:"scheduled_start,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
