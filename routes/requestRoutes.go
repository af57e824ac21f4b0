package routes

import (
	"github.com/gin-gonic/gin"

	"marketplace-backend/config"
	"marketplace-backend/controllers"
	"marketplace-backend/middlewares"
	"marketplace-backend/models"
)

func RequestRoutes(server *gin.Engine, cfg *config.Config) {
	requests := server.Group("/api/requests")
	{
		requests.POST("", middlewares.Protect(cfg.JWTSecret, models.RoleCustomer), controllers.CreateRequest)
		requests.GET("/my-requests", middlewares.Protect(cfg.JWTSecret, models.RoleCustomer), controllers.MyRequests)
		requests.GET("", middlewares.Protect(cfg.JWTSecret, models.RoleVendor, models.RoleAdmin), controllers.ListRequests)
		requests.POST("/:id/quote", middlewares.Protect(cfg.JWTSecret, models.RoleVendor), controllers.QuoteRequest)
		requests.PUT("/:id/accept", middlewares.Protect(cfg.JWTSecret, models.RoleCustomer), controllers.AcceptQuote)
		requests.PUT("/:id/status", middlewares.Protect(cfg.JWTSecret, models.RoleAdmin), controllers.SetRequestStatus)
	}
}
