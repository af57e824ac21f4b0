package routes

import (
	"github.com/gin-gonic/gin"

	"marketplace-backend/config"
	"marketplace-backend/controllers"
	"marketplace-backend/middlewares"
	"marketplace-backend/models"
)

func AdminRoutes(server *gin.Engine, cfg *config.Config) {
	admin := server.Group("/api/admin", middlewares.Protect(cfg.JWTSecret, models.RoleAdmin))
	{
		admin.GET("/stats", controllers.AdminStats)
		admin.GET("/users", controllers.ListCustomers)
		admin.PUT("/users/:id", controllers.AdminUpdateUser)
		admin.PUT("/users/:id/status", controllers.AdminSetUserStatus)
		admin.DELETE("/users/:id", controllers.AdminDeleteUser)
		admin.GET("/vendors", controllers.AdminVendors)
		admin.PUT("/vendors/:id/status", controllers.AdminSetVendorStatus)
		admin.PUT("/vendors/:id/approve", controllers.AdminApproveVendor)
		admin.PUT("/vendors/:id/reject", controllers.AdminRejectVendor)
		admin.GET("/vendor-stats", controllers.AdminVendorOverview)
		admin.GET("/products/pending", controllers.AdminPendingProducts)
		admin.PUT("/products/:id/status", controllers.AdminSetProductStatus)
		admin.GET("/orders", controllers.AdminOrders)
		admin.GET("/reports/revenue", controllers.AdminRevenueReport)
	}
}
