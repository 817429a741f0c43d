package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/crewlink-dev/crewlink/internal/bookings"
)

// Ledger row constructors. Every money movement against a booking appends
// exactly one row; nothing in this file touches the database or the
// processor.

// holdRecord is the authorization row opened at create-intent. It stays
// pending until the processor confirms or fails the charge.
func holdRecord(bookingID, hirerID string, amount float64, chargeID string) PaymentRecord {
	return PaymentRecord{
		ID:         uuid.New().String(),
		BookingID:  bookingID,
		UserID:     hirerID,
		Amount:     amount,
		Type:       TypeEscrowHold,
		Status:     StatusPending,
		ExternalID: &chargeID,
		Provider:   "payvault",
		CreatedAt:  time.Now(),
	}
}

// captureRecord is the settlement row appended when the hold is captured.
// Its amount is the final settlement amount, which can differ from the hold.
func captureRecord(bookingID, hirerID string, amount float64, chargeID string) PaymentRecord {
	return PaymentRecord{
		ID:         uuid.New().String(),
		BookingID:  bookingID,
		UserID:     hirerID,
		Amount:     amount,
		Type:       TypeCompleted,
		Status:     StatusCompleted,
		ExternalID: &chargeID,
		Provider:   "payvault",
		CreatedAt:  time.Now(),
	}
}

// refundRecord is the reversal row: same magnitude as the capture, negative
// sign. The capture row stays untouched.
func refundRecord(bookingID, hirerID string, amount float64, refundID string) PaymentRecord {
	return PaymentRecord{
		ID:         uuid.New().String(),
		BookingID:  bookingID,
		UserID:     hirerID,
		Amount:     -amount,
		Type:       TypeRefund,
		Status:     StatusCompleted,
		ExternalID: &refundID,
		Provider:   "payvault",
		CreatedAt:  time.Now(),
	}
}

// canRefund reports whether a booking's payment can be reversed. Only a
// captured (paid) payment is refundable; a hold the processor confirmed but
// the hirer never captured must not reach the processor's refund endpoint.
func canRefund(paymentStatus string) bool {
	return paymentStatus == bookings.PaymentPaid
}
