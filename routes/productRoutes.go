package routes

import (
	"github.com/gin-gonic/gin"

	"marketplace-backend/controllers"
)

// Product routes are the public catalog; no token required.
func ProductRoutes(server *gin.Engine) {
	products := server.Group("/api/products")
	{
		products.GET("", controllers.ListProducts)
		products.GET("/featured/limited", controllers.FeaturedProducts)
		products.GET("/category/:category", controllers.ListProductsByCategory)
		products.GET("/:id", controllers.GetProduct)
	}
}
