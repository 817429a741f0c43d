package reviews

import "time"

// Review is a hirer's rating of the worker on a completed booking.
type Review struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	HirerID   string    `json:"hirer_id"`
	WorkerID  string    `json:"worker_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewWithDetails carries the hirer's display name alongside the review.
type ReviewWithDetails struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	HirerID   string    `json:"hirer_id"`
	HirerName string    `json:"hirer_name"`
	WorkerID  string    `json:"worker_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkerRatingSummary is the aggregated rating data shown on a worker profile.
type WorkerRatingSummary struct {
	WorkerID      string  `json:"worker_id"`
	WorkerName    string  `json:"worker_name"`
	TotalReviews  int     `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
	RatingCounts  struct {
		FiveStar  int `json:"five_star"`
		FourStar  int `json:"four_star"`
		ThreeStar int `json:"three_star"`
		TwoStar   int `json:"two_star"`
		OneStar   int `json:"one_star"`
	} `json:"rating_counts"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}
