package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"finleybook/config"
	"finleybook/internal/domain"

	"github.com/gin-gonic/gin"
)

// tierUpdater is the one write the billing webhook needs.
type tierUpdater interface {
	UpdateTier(userID uint, tier string) error
}

// BillingWebhookHandler flips a user's tier when the subscription provider
// reports a change. Share percentages for commissions already recorded are
// not retroactively adjusted; the tier applies from the next commission on.
type BillingWebhookHandler struct {
	users tierUpdater
	cfg   *config.WebhookConfig
}

func NewBillingWebhookHandler(users tierUpdater, cfg *config.WebhookConfig) *BillingWebhookHandler {
	return &BillingWebhookHandler{users: users, cfg: cfg}
}

type billingWebhookPayload struct {
	UserID      uint   `json:"user_id"`
	CustomerRef string `json:"customer_ref"` // our reference at the provider, user_<id>
	Event       string `json:"event"`        // subscription.activated | subscription.canceled
}

func (h *BillingWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if h.cfg.GenericSecret != "" {
		sig := c.GetHeader("X-Webhook-Signature")
		if !verifySignature(body, sig, h.cfg.GenericSecret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	}
	var payload billingWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	userID := payload.UserID
	if userID == 0 {
		// Providers that don't echo our numeric id send back the customer
		// reference we registered, user_<id>.
		ref := strings.TrimPrefix(payload.CustomerRef, "user_")
		if id, err := strconv.ParseUint(ref, 10, 32); err == nil && id > 0 {
			userID = uint(id)
		}
	}
	if userID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id or customer_ref required"})
		return
	}

	var tier string
	switch payload.Event {
	case "subscription.activated":
		tier = domain.TierPro
	case "subscription.canceled", "subscription.expired":
		tier = domain.TierFree
	default:
		// Unrecognized billing events are acked, not errored, so the provider
		// doesn't retry events we will never handle.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if err := h.users.UpdateTier(userID, tier); err != nil {
		log.Printf("[billing] tier update failed user=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	log.Printf("[billing] user=%d tier=%s (%s)", userID, tier, payload.Event)
	c.JSON(http.StatusOK, gin.H{"received": true})
}
