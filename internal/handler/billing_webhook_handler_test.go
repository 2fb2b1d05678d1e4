package handler

import (
	"net/http"
	"testing"

	"finleybook/config"
	"finleybook/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeTierStore struct {
	userID uint
	tier   string
	calls  int
}

func (f *fakeTierStore) UpdateTier(userID uint, tier string) error {
	f.userID, f.tier = userID, tier
	f.calls++
	return nil
}

func billingRouter(store *fakeTierStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBillingWebhookHandler(store, &config.WebhookConfig{})
	r := gin.New()
	r.POST("/webhooks/billing", h.Handle)
	return r
}

func TestBillingWebhook_ActivatesPro(t *testing.T) {
	store := &fakeTierStore{}
	r := billingRouter(store)
	w := post(r, "/webhooks/billing", `{"user_id":7,"event":"subscription.activated"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), store.userID)
	assert.Equal(t, domain.TierPro, store.tier)
}

func TestBillingWebhook_CustomerRefFallback(t *testing.T) {
	store := &fakeTierStore{}
	r := billingRouter(store)
	w := post(r, "/webhooks/billing", `{"customer_ref":"user_42","event":"subscription.canceled"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(42), store.userID)
	assert.Equal(t, domain.TierFree, store.tier)
}

func TestBillingWebhook_NoUserReference(t *testing.T) {
	store := &fakeTierStore{}
	r := billingRouter(store)
	w := post(r, "/webhooks/billing", `{"customer_ref":"acct_9","event":"subscription.activated"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, store.calls)
}

func TestBillingWebhook_UnknownEventAcked(t *testing.T) {
	store := &fakeTierStore{}
	r := billingRouter(store)
	w := post(r, "/webhooks/billing", `{"user_id":7,"event":"invoice.created"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, store.calls)
}
