package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/services"
)

// SpinHandler handles spin-related HTTP requests
type SpinHandler struct {
	spinService services.SpinService
}

// NewSpinHandler creates a new SpinHandler
func NewSpinHandler(spinService services.SpinService) *SpinHandler {
	return &SpinHandler{
		spinService: spinService,
	}
}

// SpinRequest is the body for POST /spins
type SpinRequest struct {
	MerchantID string `json:"merchantId" binding:"required"`
}

// Spin handles POST /spins: one play of the wheel for the identified user
func (h *SpinHandler) Spin(c *gin.Context) {
	var request SpinRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := c.GetString("UserID")

	result, err := h.spinService.Spin(c.Request.Context(), userID, request.MerchantID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrQuotaExceeded):
			// Routine outcome, not a fault: the user is out of spins until
			// the next local day.
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "No spins left for this merchant today"})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Merchant not found"})
		case errors.Is(err, models.ErrInvalidWheel):
			c.JSON(http.StatusConflict, gin.H{"error": "This merchant's wheel is not configured"})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Spin could not be completed: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetQuota handles GET /spins/quota?merchantId=
func (h *SpinHandler) GetQuota(c *gin.Context) {
	merchantID := c.Query("merchantId")
	if merchantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "merchantId query parameter is required"})
		return
	}
	userID := c.GetString("UserID")

	remaining, err := h.spinService.QuotaRemaining(c.Request.Context(), userID, merchantID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to read quota: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"merchantId": merchantID, "remaining": remaining})
}
