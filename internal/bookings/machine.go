package bookings

import "errors"

// Booking statuses
const (
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusDisputed   = "disputed"
)

// Payment statuses. Only ever advances pending -> paid -> refunded.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// transitions is the authoritative edge set of the booking lifecycle.
// completed and cancelled are terminal.
var transitions = map[string][]string{
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled, StatusDisputed},
	StatusDisputed:   {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// AllowedNext returns the transitions permitted from the given status. The
// returned slice is a copy; callers may append to it freely.
func AllowedNext(from string) []string {
	next, ok := transitions[from]
	if !ok {
		return nil
	}
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from -> to is an edge of the lifecycle.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

var (
	errNotParticipant = errors.New("actor is not a party to this booking")
	errHirerOnly      = errors.New("only the hirer may complete a booking")
)

// authorizeTransition gates who may request a transition: any participant,
// except completion which belongs to the hirer alone.
func authorizeTransition(target, actorID, hirerID, workerID string) error {
	if actorID != hirerID && actorID != workerID {
		return errNotParticipant
	}
	if target == StatusCompleted && actorID != hirerID {
		return errHirerOnly
	}
	return nil
}

// settlementAmount resolves the amount a completed booking settles at: the
// explicit override when given, otherwise the agreed amount.
func settlementAmount(override *float64, agreed float64) float64 {
	if override != nil {
		return *override
	}
	return agreed
}
