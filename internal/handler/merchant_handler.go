package handler

import (
	"net/http"

	"finleybook/internal/models"
	"finleybook/internal/repository"

	"github.com/gin-gonic/gin"
)

// MerchantHandler serves the public merchant directory.
type MerchantHandler struct {
	merchantRepo *repository.MerchantRepository
}

func NewMerchantHandler(merchantRepo *repository.MerchantRepository) *MerchantHandler {
	return &MerchantHandler{merchantRepo: merchantRepo}
}

func (h *MerchantHandler) List(c *gin.Context) {
	merchants, err := h.merchantRepo.ListActive(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load merchants"})
		return
	}
	if merchants == nil {
		merchants = []models.Merchant{}
	}
	c.JSON(http.StatusOK, gin.H{"merchants": merchants})
}

func (h *MerchantHandler) Get(c *gin.Context) {
	m, err := h.merchantRepo.GetBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "merchant not found"})
		return
	}
	if !m.Active {
		c.JSON(http.StatusNotFound, gin.H{"error": "merchant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"merchant": m})
}
