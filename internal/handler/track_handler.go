package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"finleybook/internal/domain"
	"finleybook/internal/middleware"
	"finleybook/internal/models"
	"finleybook/internal/repository"
	"finleybook/pkg/affiliate"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TrackHandler issues the outbound affiliate redirect. The click row is
// written before the redirect fires: a commission webhook can arrive for a
// click we have no record of only if this write failed, in which case the
// user gets an error instead of an untracked redirect.
type TrackHandler struct {
	merchantRepo *repository.MerchantRepository
	clickRepo    *repository.ClickRepository
}

func NewTrackHandler(merchantRepo *repository.MerchantRepository, clickRepo *repository.ClickRepository) *TrackHandler {
	return &TrackHandler{merchantRepo: merchantRepo, clickRepo: clickRepo}
}

// Redirect handles GET /api/v1/track?mid=<slug>&url=<product>&type=<kind>.
// Identity comes from the bearer token when present; the uid query param is a
// fallback for app webviews that strip headers, and is logged as such.
func (h *TrackHandler) Redirect(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		if uid, err := strconv.ParseUint(c.Query("uid"), 10, 32); err == nil && uid > 0 {
			userID = uint(uid)
			log.Printf("[track] unauthenticated redirect using uid param, user=%d ip=%s", userID, c.ClientIP())
		}
	}
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to earn cashback"})
		return
	}

	slug := c.Query("mid")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mid required"})
		return
	}
	merchant, err := h.merchantRepo.GetBySlug(slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "merchant not found"})
		return
	}
	if !merchant.Active {
		c.JSON(http.StatusGone, gin.H{"error": "merchant is not currently available"})
		return
	}

	clickType := c.DefaultQuery("type", domain.ClickTypeCashback)
	switch clickType {
	case domain.ClickTypeCashback, domain.ClickTypeBounty, domain.ClickTypeGlitch:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown click type"})
		return
	}

	productURL := c.Query("url")
	click := &models.ClickEvent{
		ClickID:     fmt.Sprintf("clk_%s", uuid.New().String()),
		UserID:      userID,
		MerchantID:  merchant.ID,
		Type:        clickType,
		OriginalURL: productURL,
		Status:      domain.ClickStatusCreated,
		IP:          c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		ClickedAt:   time.Now(),
	}

	outbound := affiliate.BuildLink(merchant.LinkTemplate, merchant.ProductIDPattern, affiliate.LinkParams{
		UserID:     fmt.Sprintf("user_%d", userID),
		ClickID:    click.ClickID,
		ProductURL: productURL,
	})
	click.OutboundURL = outbound

	if err := h.clickRepo.Create(click); err != nil {
		log.Printf("[track] click write failed for user=%d merchant=%s: %v", userID, slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record click"})
		return
	}
	// Synchronous on purpose: a click we can't mark REDIRECTED is a click we
	// can't trust for attribution, so the user sees an error, not a redirect.
	if err := h.clickRepo.UpdateStatus(click.ID, domain.ClickStatusRedirected); err != nil {
		log.Printf("[track] status update failed for click=%s: %v", click.ClickID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record click"})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, outbound)
}
