package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateCharge_ManualCapture(t *testing.T) {
	var gotAuth string
	var gotBody createChargeBody

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/charges" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(Charge{ID: "ch_123", ClientSecret: "ch_123_secret", Status: "requires_capture", Amount: gotBody.Amount})
	}))
	defer srv.Close()

	pvCfg = payVaultConfig{APIKey: "sk_test", APIURL: srv.URL}

	charge, err := CreateCharge(context.Background(), 15000, "usd", "booking-1")
	if err != nil {
		t.Fatalf("CreateCharge: %v", err)
	}

	if gotAuth != "Bearer sk_test" {
		t.Errorf("Authorization = %q, want Bearer sk_test", gotAuth)
	}
	if gotBody.Amount != 15000 {
		t.Errorf("amount sent = %d, want 15000", gotBody.Amount)
	}
	if gotBody.CaptureMethod != "manual" {
		t.Errorf("capture_method = %q, want manual", gotBody.CaptureMethod)
	}
	if gotBody.Metadata["booking_id"] != "booking-1" {
		t.Errorf("metadata booking_id = %q, want booking-1", gotBody.Metadata["booking_id"])
	}
	if charge.ID != "ch_123" || charge.ClientSecret != "ch_123_secret" {
		t.Errorf("unexpected charge: %+v", charge)
	}
}

func TestCaptureCharge_Path(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/charges/ch_123/capture" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Charge{ID: "ch_123", Status: "succeeded"})
	}))
	defer srv.Close()

	pvCfg = payVaultConfig{APIKey: "sk_test", APIURL: srv.URL}

	charge, err := CaptureCharge(context.Background(), "ch_123")
	if err != nil {
		t.Fatalf("CaptureCharge: %v", err)
	}
	if charge.Status != "succeeded" {
		t.Errorf("status = %q, want succeeded", charge.Status)
	}
}

func TestRefundCharge_SendsReference(t *testing.T) {
	var gotBody refundBody

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/refunds" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(RefundReceipt{ID: "re_456", Status: "succeeded"})
	}))
	defer srv.Close()

	pvCfg = payVaultConfig{APIKey: "sk_test", APIURL: srv.URL}

	refund, err := RefundCharge(context.Background(), "ch_123", "hirer requested")
	if err != nil {
		t.Fatalf("RefundCharge: %v", err)
	}
	if gotBody.ChargeID != "ch_123" || gotBody.Reason != "hirer requested" {
		t.Errorf("unexpected refund body: %+v", gotBody)
	}
	if refund.ID != "re_456" {
		t.Errorf("refund id = %q, want re_456", refund.ID)
	}
}

func TestPvDo_SurfacesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":"card_declined"}`))
	}))
	defer srv.Close()

	pvCfg = payVaultConfig{APIKey: "sk_test", APIURL: srv.URL}

	_, err := CaptureCharge(context.Background(), "ch_123")
	if err == nil {
		t.Fatal("expected error on non-2xx response")
	}
	if want := "card_declined"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err.Error(), want)
	}
}
