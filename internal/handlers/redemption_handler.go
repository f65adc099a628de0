package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/services"
)

// RedemptionHandler handles code redemption HTTP requests
type RedemptionHandler struct {
	spinService services.SpinService
}

// NewRedemptionHandler creates a new RedemptionHandler
func NewRedemptionHandler(spinService services.SpinService) *RedemptionHandler {
	return &RedemptionHandler{
		spinService: spinService,
	}
}

// RedeemRequest is the body for POST /redemptions
type RedeemRequest struct {
	Code string `json:"code" binding:"required"`
}

// Redeem handles POST /redemptions. The three failure shapes get distinct
// messages so staff can tell a typo from a reused code from a stale one.
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	var request RedeemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	merchantID := c.GetString("MerchantID")

	result, err := h.spinService.RedeemByCode(c.Request.Context(), merchantID, request.Code)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No reward found for this code"})
		case errors.Is(err, models.ErrAlreadyRedeemed):
			c.JSON(http.StatusConflict, gin.H{"error": "This code has already been redeemed"})
		case errors.Is(err, models.ErrExpired):
			c.JSON(http.StatusGone, gin.H{"error": "This code has expired"})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Redemption could not be completed: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
