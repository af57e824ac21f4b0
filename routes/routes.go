package routes

import (
	"github.com/gin-gonic/gin"

	"marketplace-backend/config"
)

// Register mounts every route group on the engine. Controllers must have
// been initialized with the same config.
func Register(server *gin.Engine, cfg *config.Config) {
	AuthRoutes(server, cfg)
	UserRoutes(server, cfg)
	ProductRoutes(server)
	CartRoutes(server, cfg)
	OrderRoutes(server, cfg)
	VendorRoutes(server, cfg)
	AdminRoutes(server, cfg)
	RequestRoutes(server, cfg)
}
