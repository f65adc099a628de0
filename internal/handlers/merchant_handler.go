package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MerchantHandler handles merchant directory HTTP requests
type MerchantHandler struct {
	merchantService services.MerchantService
}

// NewMerchantHandler creates a new MerchantHandler
func NewMerchantHandler(merchantService services.MerchantService) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
	}
}

// CreateMerchantRequest is the body for POST /merchants
type CreateMerchantRequest struct {
	Name    string               `json:"name" binding:"required"`
	Address string               `json:"address"`
	Wheel   []models.WheelOption `json:"wheel" binding:"required,dive"`
}

// CreateMerchant handles POST /merchants
func (h *MerchantHandler) CreateMerchant(c *gin.Context) {
	var request CreateMerchantRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	merchant := &models.Merchant{
		Name:    request.Name,
		Address: request.Address,
		Wheel:   request.Wheel,
		Active:  true,
	}
	if err := h.merchantService.CreateMerchant(c.Request.Context(), merchant); err != nil {
		if errors.Is(err, models.ErrInvalidWheel) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Wheel needs at least one option with positive weight"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to create merchant: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, merchant)
}

// GetMerchantByID handles GET /merchants/:id
func (h *MerchantHandler) GetMerchantByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	merchant, err := h.merchantService.GetMerchantByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Merchant not found"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to retrieve merchant: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, merchant)
}

// GetAllMerchants handles GET /merchants
func (h *MerchantHandler) GetAllMerchants(c *gin.Context) {
	merchants, err := h.merchantService.GetAllMerchants(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to retrieve merchants: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, merchants)
}

// UpdateMerchantRequest is the body for PUT /merchants/:id
type UpdateMerchantRequest struct {
	Name    string               `json:"name" binding:"required"`
	Address string               `json:"address"`
	Wheel   []models.WheelOption `json:"wheel" binding:"required,dive"`
	Active  *bool                `json:"active"`
}

// UpdateMerchant handles PUT /merchants/:id
func (h *MerchantHandler) UpdateMerchant(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request UpdateMerchantRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.merchantService.GetMerchantByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Merchant not found"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to retrieve merchant: " + err.Error()})
		}
		return
	}

	existing.Name = request.Name
	existing.Address = request.Address
	existing.Wheel = request.Wheel
	if request.Active != nil {
		existing.Active = *request.Active
	}

	if err := h.merchantService.UpdateMerchant(c.Request.Context(), existing); err != nil {
		if errors.Is(err, models.ErrInvalidWheel) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Wheel needs at least one option with positive weight"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to update merchant: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, existing)
}
