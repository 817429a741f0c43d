package payments

import (
	"testing"

	"github.com/crewlink-dev/crewlink/internal/bookings"
)

func TestCanRefund(t *testing.T) {
	cases := []struct {
		paymentStatus string
		want          bool
	}{
		// A hold the processor confirmed is still pending until the hirer
		// captures it; refunding it would move money with no ledger row.
		{bookings.PaymentPending, false},
		{bookings.PaymentPaid, true},
		{bookings.PaymentRefunded, false},
		{"", false},
	}

	for _, tc := range cases {
		if got := canRefund(tc.paymentStatus); got != tc.want {
			t.Errorf("canRefund(%q) = %v, want %v", tc.paymentStatus, got, tc.want)
		}
	}
}

func TestHoldRecord(t *testing.T) {
	rec := holdRecord("booking-1", "hirer-1", 150.00, "ch_123")

	if rec.Type != TypeEscrowHold {
		t.Errorf("type = %q, want %q", rec.Type, TypeEscrowHold)
	}
	if rec.Status != StatusPending {
		t.Errorf("status = %q, want %q", rec.Status, StatusPending)
	}
	if rec.Amount != 150.00 {
		t.Errorf("amount = %v, want 150.00", rec.Amount)
	}
	if rec.ExternalID == nil || *rec.ExternalID != "ch_123" {
		t.Errorf("external id = %v, want ch_123", rec.ExternalID)
	}
}

func TestCaptureRecord_SettlementAmount(t *testing.T) {
	// Capture settles at the final amount, which may differ from the hold.
	rec := captureRecord("booking-1", "hirer-1", 120.00, "ch_123")

	if rec.Type != TypeCompleted {
		t.Errorf("type = %q, want %q", rec.Type, TypeCompleted)
	}
	if rec.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", rec.Status, StatusCompleted)
	}
	if rec.Amount != 120.00 {
		t.Errorf("amount = %v, want 120.00", rec.Amount)
	}
}

func TestRefundRecord_NegatesAmount(t *testing.T) {
	rec := refundRecord("booking-1", "hirer-1", 120.00, "re_456")

	if rec.Type != TypeRefund {
		t.Errorf("type = %q, want %q", rec.Type, TypeRefund)
	}
	if rec.Amount != -120.00 {
		t.Errorf("amount = %v, want -120.00", rec.Amount)
	}
	if rec.ExternalID == nil || *rec.ExternalID != "re_456" {
		t.Errorf("external id = %v, want re_456", rec.ExternalID)
	}
}
