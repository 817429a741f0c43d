package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// PayVault is the card processor. Charges open with manual capture so funds
// stay authorized (escrowed) until the hirer confirms completion.

type payVaultConfig struct {
	APIKey string
	APIURL string
}

var pvCfg payVaultConfig

// ConfigurePayVaultFromEnv loads processor config from environment
// Required: PAYVAULT_API_KEY; Optional: PAYVAULT_API_URL
func ConfigurePayVaultFromEnv() error {
	pvCfg = payVaultConfig{
		APIKey: os.Getenv("PAYVAULT_API_KEY"),
		APIURL: os.Getenv("PAYVAULT_API_URL"),
	}
	if pvCfg.APIURL == "" {
		pvCfg.APIURL = "https://api.payvault.io/v1"
	}
	if pvCfg.APIKey == "" {
		return fmt.Errorf("payvault not configured: set PAYVAULT_API_KEY")
	}
	return nil
}

// Charge is the processor's view of an authorization.
type Charge struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
}

// RefundReceipt is the processor's receipt for a reversal.
type RefundReceipt struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type createChargeBody struct {
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	CaptureMethod string            `json:"capture_method"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type refundBody struct {
	ChargeID string `json:"charge_id"`
	Reason   string `json:"reason,omitempty"`
}

// CreateCharge opens a manual-capture authorization for the given minor-unit
// amount, tagged with the booking id so webhook events can be routed back.
func CreateCharge(ctx context.Context, amountMinor int64, currency, bookingID string) (*Charge, error) {
	body := createChargeBody{
		Amount:        amountMinor,
		Currency:      currency,
		CaptureMethod: "manual",
		Metadata:      map[string]string{"booking_id": bookingID},
	}
	var out Charge
	if err := pvDo(ctx, "POST", "/charges", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CaptureCharge captures a previously authorized charge.
func CaptureCharge(ctx context.Context, chargeID string) (*Charge, error) {
	var out Charge
	if err := pvDo(ctx, "POST", "/charges/"+chargeID+"/capture", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefundCharge reverses a charge by reference.
func RefundCharge(ctx context.Context, chargeID, reason string) (*RefundReceipt, error) {
	var out RefundReceipt
	if err := pvDo(ctx, "POST", "/refunds", refundBody{ChargeID: chargeID, Reason: reason}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// pvDo performs one authenticated request against the processor API.
func pvDo(ctx context.Context, method, path string, body, out interface{}) error {
	if pvCfg.APIKey == "" {
		if err := ConfigurePayVaultFromEnv(); err != nil {
			return err
		}
	}

	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, pvCfg.APIURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+pvCfg.APIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errMsg string
		if b, readErr := io.ReadAll(resp.Body); readErr == nil && len(b) > 0 {
			errMsg = string(b)
		}
		if errMsg != "" {
			return fmt.Errorf("payvault %s %s failed: status=%d body=%s", method, path, resp.StatusCode, errMsg)
		}
		return fmt.Errorf("payvault %s %s failed: status=%d", method, path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
