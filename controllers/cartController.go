package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/middlewares"
)

func GetCart(ctx *gin.Context) {
	cart, err := cartSvc.Get(ctx, middlewares.UserID(ctx))
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

type cartAddInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func AddToCart(ctx *gin.Context) {
	var in cartAddInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	productID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		badRequest(ctx, "Invalid product id")
		return
	}
	cart, err := cartSvc.Add(ctx, middlewares.UserID(ctx), productID, in.Quantity)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

type cartUpdateInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func UpdateCartItem(ctx *gin.Context) {
	var in cartUpdateInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	productID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		badRequest(ctx, "Invalid product id")
		return
	}
	cart, err := cartSvc.UpdateQuantity(ctx, middlewares.UserID(ctx), productID, in.Quantity)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

func RemoveCartItem(ctx *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(ctx.Param("productId"))
	if err != nil {
		badRequest(ctx, "Invalid product id")
		return
	}
	cart, err := cartSvc.Remove(ctx, middlewares.UserID(ctx), productID)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

func ClearCart(ctx *gin.Context) {
	if err := cartSvc.Clear(ctx, middlewares.UserID(ctx)); err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}
