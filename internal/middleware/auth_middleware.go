package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wheeldeal/wheeldeal-backend/internal/config"
	"github.com/wheeldeal/wheeldeal-backend/internal/utils"
)

// StaffAuthMiddleware authenticates merchant staff via a Bearer JWT and puts
// the staff's merchant id into the context for redemption and dashboard reads.
func StaffAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1], cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
			c.Abort()
			return
		}

		merchantID, ok := claims["merchantId"].(string)
		if !ok || merchantID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token carries no merchant"})
			c.Abort()
			return
		}

		c.Set("MerchantID", merchantID)
		c.Set("StaffID", claims["sub"])
		c.Next()
	}
}
