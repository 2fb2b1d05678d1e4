package handler

import (
	"errors"
	"net/http"

	"finleybook/internal/middleware"
	"finleybook/internal/service"

	"github.com/gin-gonic/gin"
)

type PayoutHandler struct {
	payoutSvc *service.PayoutService
}

func NewPayoutHandler(payoutSvc *service.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutSvc: payoutSvc}
}

// Create handles POST /api/v1/payouts: withdraw the full available balance.
func (h *PayoutHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	p, err := h.payoutSvc.RequestPayout(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoPayoutAccount):
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": "connect a payout account first"})
		case errors.Is(err, service.ErrBelowMinimum):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "balance below payout minimum"})
		case errors.Is(err, service.ErrExceedsCap):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "monthly payout limit reached"})
		case errors.Is(err, service.ErrAccountRestricted):
			c.JSON(http.StatusForbidden, gin.H{"error": "payout account is restricted"})
		case errors.Is(err, service.ErrTransferFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "transfer failed, balance unchanged"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payout failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"order_id":    p.OrderID,
		"transfer_id": p.TransferID,
		"amount":      p.AmountCents,
		"currency":    p.Currency,
		"status":      p.Status,
	})
}
