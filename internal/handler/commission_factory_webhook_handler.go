package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"finleybook/config"
	"finleybook/internal/domain"
	"finleybook/internal/service"

	"github.com/gin-gonic/gin"
)

// CommissionFactoryWebhookHandler parses Commission Factory's payload shape.
// Field names and status vocabulary follow their API; UniqueId carries our
// user reference and UniqueId2 the click id.
type CommissionFactoryWebhookHandler struct {
	cashback *service.CashbackService
	generic  *AffiliateWebhookHandler
	cfg      *config.WebhookConfig
}

func NewCommissionFactoryWebhookHandler(cashback *service.CashbackService, generic *AffiliateWebhookHandler, cfg *config.WebhookConfig) *CommissionFactoryWebhookHandler {
	return &CommissionFactoryWebhookHandler{cashback: cashback, generic: generic, cfg: cfg}
}

type commissionFactoryPayload struct {
	Id           json.Number `json:"Id"`
	Status       string      `json:"Status"`
	Commission   json.Number `json:"Commission"`
	SaleValue    json.Number `json:"SaleValue"`
	UniqueId     string      `json:"UniqueId"`
	UniqueId2    string      `json:"UniqueId2"`
	MerchantId   json.Number `json:"MerchantId"`
	MerchantName string      `json:"MerchantName"`
	Currency     string      `json:"Currency"`
	DateCreated  string      `json:"DateCreated"`
}

func (h *CommissionFactoryWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if h.cfg.CommissionFactorySecret != "" {
		sig := c.GetHeader("X-Webhook-Signature")
		if !verifySignature(body, sig, h.cfg.CommissionFactorySecret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	}
	var payload commissionFactoryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if payload.Id.String() == "" || payload.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Id and Status required"})
		return
	}
	// Commission Factory retries on any non-2xx, so vocabulary we don't know
	// yet is acked and logged rather than bounced into endless redelivery.
	if _, ok := service.MapNetworkStatus(domain.NetworkCommissionFactory, payload.Status); !ok {
		log.Printf("[webhook] commission-factory unknown status %q for Id=%s, acking", payload.Status, payload.Id.String())
		c.JSON(http.StatusOK, gin.H{"received": true, "outcome": "ignored"})
		return
	}

	merchantRef := payload.MerchantName
	if merchantRef == "" {
		merchantRef = payload.MerchantId.String()
	}
	occurred := parseCFDate(payload.DateCreated)
	ev := service.CommissionEvent{
		Network:         domain.NetworkCommissionFactory,
		ExternalTxID:    payload.Id.String(),
		ClickRef:        payload.UniqueId2,
		UserRef:         payload.UniqueId,
		MerchantRef:     merchantRef,
		RawStatus:       payload.Status,
		OrderCents:      amountCents(payload.SaleValue),
		CommissionCents: amountCents(payload.Commission),
		Currency:        payload.Currency,
		OccurredAt:      occurred,
	}
	h.generic.reconcileAndRespond(c, ev)
}

// Commission Factory sends dates without a zone; they document UTC.
func parseCFDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	// Epoch millis show up in some of their older webhook configs.
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 1e12 {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}
