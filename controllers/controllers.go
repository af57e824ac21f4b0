package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-backend/config"
	"marketplace-backend/services"
	"marketplace-backend/storage"
)

// Package-level wiring, set once at startup (and per test).
var (
	store      storage.Store
	cfg        *config.Config
	cartSvc    *services.CartService
	orderSvc   *services.OrderService
	requestSvc *services.RequestService
)

// Init wires the controllers to a store and config. Must run before any
// route is served.
func Init(s storage.Store, c *config.Config) {
	store = s
	cfg = c
	cartSvc = services.NewCartService(s, c.StrictCartStock)
	orderSvc = services.NewOrderService(s, c.AtomicStock, c.RestrictVendorStatus)
	requestSvc = services.NewRequestService(s)
}

// sendError maps a service or storage error onto the HTTP taxonomy:
// 404 absent entity, 403 ownership/role mismatch, 400 business-rule or
// input failures, 500 anything the store threw unexpectedly.
func sendError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, services.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized"})
	case errors.Is(err, storage.ErrInsufficientStock),
		errors.Is(err, storage.ErrDuplicate),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrNoQuote):
		ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, gin.H{"message": message})
}
