package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/middlewares"
	"marketplace-backend/models"
	"marketplace-backend/services"
)

func CreateOrder(ctx *gin.Context) {
	var in services.CreateOrderInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	order, err := orderSvc.Create(ctx, middlewares.UserID(ctx), in)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, order)
}

func MyOrders(ctx *gin.Context) {
	orders, err := orderSvc.ListForCustomer(ctx, middlewares.UserID(ctx))
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

func GetOrder(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid order id")
		return
	}
	order, err := orderSvc.Get(ctx, middlewares.UserID(ctx), middlewares.UserRole(ctx), id)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

func CancelOrder(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid order id")
		return
	}
	order, err := orderSvc.Cancel(ctx, middlewares.UserID(ctx), id)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

type statusInput struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus serves both PUT /api/orders/:id/status and the vendor
// alias PUT /api/vendors/orders/:id.
func UpdateOrderStatus(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid order id")
		return
	}
	var in statusInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	order, err := orderSvc.SetStatus(ctx, middlewares.UserID(ctx), middlewares.UserRole(ctx), id, in.Status)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}
