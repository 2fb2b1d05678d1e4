package payout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransfer_Success(t *testing.T) {
	var gotAuth, gotIdem string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transfers", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("Idempotency-Key")
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "acct_1", body["account_id"])
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(TransferResponse{
			TransferID:  "tr_42",
			OrderID:     body["order_id"].(string),
			Status:      "paid",
			AmountCents: 2500,
			Currency:    "USD",
		})
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "sk_test")
	resp, err := p.Transfer(context.Background(), TransferRequest{
		AccountID:   "acct_1",
		AmountCents: 2500,
		Currency:    "USD",
		OrderID:     "po_abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "tr_42", resp.TransferID)
	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, "po_abc", gotIdem)
}

func TestTransfer_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":"insufficient platform balance"}`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "sk_test")
	_, err := p.Transfer(context.Background(), TransferRequest{AccountID: "acct_1", AmountCents: 100, OrderID: "po_x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}
