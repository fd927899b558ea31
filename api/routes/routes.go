package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jehub/points-backend/internal/config"
	"github.com/jehub/points-backend/internal/handlers"
	"github.com/jehub/points-backend/internal/middleware"
)

// HandlerDependencies gathers the constructed handlers for registration
type HandlerDependencies struct {
	AuthHandler     *handlers.AuthHandler
	UserHandler     *handlers.UserHandler
	PointsHandler   *handlers.PointsHandler
	ReferralHandler *handlers.ReferralHandler
	TelegramHandler *handlers.TelegramHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}

		// Signup and code validation happen before the caller has any
		// credentials; the leaderboard is rendered on the public site.
		public.POST("/users/signup", deps.UserHandler.Signup)
		public.GET("/referrals/validate", deps.ReferralHandler.Validate)
		public.GET("/referrals/leaderboard", deps.ReferralHandler.Leaderboard)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		auth := protected.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
		}

		users := protected.Group("/users")
		{
			users.GET("", deps.UserHandler.GetAllUsers)
			users.GET("/count", deps.UserHandler.GetUserCount)
			users.GET("/:id", deps.UserHandler.GetUserByID)
			users.GET("/email/:email", deps.UserHandler.GetUserByEmail)
			users.DELETE("/:id", deps.UserHandler.DeleteUser)
		}

		points := protected.Group("/points")
		{
			points.GET("/:userId", deps.PointsHandler.GetUserPoints)
			points.GET("/:userId/ledger", deps.PointsHandler.GetUserLedger)
			points.POST("/:userId/upload-reward", deps.PointsHandler.UploadReward)
			points.POST("/:userId/download", deps.PointsHandler.Download)
			points.POST("/:userId/adjust", deps.PointsHandler.Adjust)
		}

		referrals := protected.Group("/referrals")
		{
			referrals.GET("/stats/:userId", deps.ReferralHandler.Stats)
			referrals.POST("/reconcile", deps.ReferralHandler.Reconcile)
		}

		telegram := protected.Group("/telegram")
		{
			telegram.GET("/members/:username", deps.TelegramHandler.GetMember)
			telegram.POST("/verify/:userId", deps.TelegramHandler.VerifyUser)
		}
	}

	return router
}
