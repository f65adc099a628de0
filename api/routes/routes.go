package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/wheeldeal/wheeldeal-backend/internal/config"
	"github.com/wheeldeal/wheeldeal-backend/internal/handlers"
	"github.com/wheeldeal/wheeldeal-backend/internal/middleware"
)

// HandlerDependencies carries the initialized handlers into the router
type HandlerDependencies struct {
	AuthHandler       *handlers.AuthHandler
	MerchantHandler   *handlers.MerchantHandler
	SpinHandler       *handlers.SpinHandler
	RedemptionHandler *handlers.RedemptionHandler
	DashboardHandler  *handlers.DashboardHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		// Auth routes
		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}

		// Merchant directory reads feed the wheel UI
		public.GET("/merchants", deps.MerchantHandler.GetAllMerchants)
		public.GET("/merchants/:id", deps.MerchantHandler.GetMerchantByID)
	}

	// Spin routes: identified end users, not staff
	spins := router.Group("/api/v1")
	spins.Use(middleware.UserIdentityMiddleware())
	{
		spins.POST("/spins", deps.SpinHandler.Spin)
		spins.GET("/spins/quota", deps.SpinHandler.GetQuota)
	}

	// Staff routes: redemption, dashboard and wheel management
	staff := router.Group("/api/v1")
	staff.Use(middleware.StaffAuthMiddleware(cfg))
	{
		staff.POST("/redemptions", deps.RedemptionHandler.Redeem)

		dashboard := staff.Group("/dashboard")
		{
			dashboard.GET("/summary", deps.DashboardHandler.GetSummary)
			dashboard.GET("/spins", deps.DashboardHandler.GetTodaySpins)
		}

		staff.POST("/merchants", deps.MerchantHandler.CreateMerchant)
		staff.PUT("/merchants/:id", deps.MerchantHandler.UpdateMerchant)
	}

	return router
}
