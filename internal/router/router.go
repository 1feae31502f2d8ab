// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/config"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/handlers"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/middleware"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/services"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	rateCardService := services.NewRateCardService(db)
	approvalService := services.NewApprovalService(db, notificationService)
	tokenService := services.NewTokenService(db, notificationService)

	// Initialize handlers
	rateCardHandler := handlers.NewRateCardHandler(rateCardService, approvalService, tokenService)
	publicHandler := handlers.NewPublicApprovalHandler(tokenService, approvalService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Admin surface
	rateCards := r.Group("/rate-cards")
	rateCards.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		rateCards.GET("", rateCardHandler.GetRateCards)
		rateCards.POST("", rateCardHandler.CreateRateCard)
		rateCards.GET("/pending/count", rateCardHandler.GetPendingCount)
		rateCards.GET("/:id", rateCardHandler.GetRateCard)
		rateCards.PUT("/:id", rateCardHandler.UpdateRateCard)
		rateCards.DELETE("/:id", rateCardHandler.DeleteRateCard)
		rateCards.PATCH("/:id/approve", rateCardHandler.ApproveRateCard)
		rateCards.PATCH("/:id/reject", rateCardHandler.RejectRateCard)
		rateCards.POST("/:id/send-approval-link", rateCardHandler.SendApprovalLink)
	}

	// Public token surface (no auth header; the token is the credential)
	public := r.Group("/public/rate-cards")
	public.Use(middleware.PublicRateLimit())
	{
		public.GET("/:token", publicHandler.GetRateCard)
		public.POST("/:token/approve", publicHandler.ApproveRateCard)
		public.POST("/:token/reject", publicHandler.RejectRateCard)
	}

	return r
}
