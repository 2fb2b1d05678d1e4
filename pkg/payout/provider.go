// Package payout wraps the payment processor's transfer API.
package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// TransferRequest asks the processor to move money to a connected account.
type TransferRequest struct {
	AccountID   string // connected payout account at the processor
	AmountCents int64
	Currency    string
	OrderID     string // our unique reference, po_<uuid>
	Description string
}

// TransferResponse is the processor's reply.
type TransferResponse struct {
	TransferID  string `json:"transfer_id"`
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	CreatedAt   string `json:"created_at"`
}

// Provider is the HTTP client for the transfer API.
type Provider struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

func NewProvider(baseURL, apiKey string) *Provider {
	return &Provider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Transfer sends money to a connected account. The call is not retried; the
// caller is responsible for compensating its own state when this fails.
func (p *Provider) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	body := map[string]interface{}{
		"account_id":   req.AccountID,
		"amount_cents": req.AmountCents,
		"currency":     req.Currency,
		"order_id":     req.OrderID,
		"description":  req.Description,
	}
	if req.Description == "" {
		body["description"] = "FinleyBook cashback payout"
	}
	bodyBytes, _ := json.Marshal(body)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v1/transfers", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	apiReq.Header.Set("Idempotency-Key", req.OrderID)
	log.Printf("[payout] POST %s/v1/transfers order_id=%s amount=%d account=%s", p.BaseURL, req.OrderID, req.AmountCents, req.AccountID)
	resp, err := p.client.Do(apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("[payout] transfer failed status=%d body=%s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("transfer api: %d", resp.StatusCode)
	}
	var out TransferResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
