package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wheeldeal/wheeldeal-backend/internal/services"
	"github.com/wheeldeal/wheeldeal-backend/internal/utils"
)

// DashboardHandler handles merchant dashboard HTTP requests
type DashboardHandler struct {
	reportService services.ReportService
	loc           *time.Location
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(reportService services.ReportService, loc *time.Location) *DashboardHandler {
	return &DashboardHandler{
		reportService: reportService,
		loc:           loc,
	}
}

// GetSummary handles GET /dashboard/summary?days=2026-08-29,2026-08-30 or
// ?lastDays=7 for a trailing window. Without either parameter it reports today.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	merchantID := c.GetString("MerchantID")

	var dayKeys []string
	if days := c.Query("days"); days != "" {
		for _, day := range strings.Split(days, ",") {
			day = strings.TrimSpace(day)
			if day != "" {
				dayKeys = append(dayKeys, day)
			}
		}
	} else if lastDays := c.Query("lastDays"); lastDays != "" {
		n, err := strconv.Atoi(lastDays)
		if err != nil || n < 1 || n > 90 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lastDays must be between 1 and 90"})
			return
		}
		dayKeys = utils.LastNDayKeys(n, time.Now(), h.loc)
	}

	summary, err := h.reportService.Summary(c.Request.Context(), merchantID, dayKeys)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to load summary: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetTodaySpins handles GET /dashboard/spins: today's issued spins for the
// authenticated staff's merchant
func (h *DashboardHandler) GetTodaySpins(c *gin.Context) {
	merchantID := c.GetString("MerchantID")

	spins, err := h.reportService.TodaySpins(c.Request.Context(), merchantID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to load spins: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, spins)
}
