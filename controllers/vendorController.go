package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/middlewares"
	"marketplace-backend/models"
)

func VendorStats(ctx *gin.Context) {
	stats, err := store.VendorStats(ctx, middlewares.UserID(ctx))
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

func VendorProducts(ctx *gin.Context) {
	vendorID := middlewares.UserID(ctx)
	products, err := store.ListProducts(ctx, models.ProductFilter{VendorID: &vendorID})
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, products)
}

type productInput struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Price         float64 `json:"price" binding:"gte=0"`
	StockQuantity int     `json:"stockQuantity" binding:"gte=0"`
	ImageURL      string  `json:"imageUrl"`
}

// CreateProduct lists a new product. It always enters the catalog pending;
// only an admin approval makes it publicly visible.
func CreateProduct(ctx *gin.Context) {
	var in productInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	product := &models.Product{
		VendorID:      middlewares.UserID(ctx),
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		ImageURL:      in.ImageURL,
		Status:        models.StatusPending,
	}
	if err := store.CreateProduct(ctx, product); err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, product)
}

func UpdateProduct(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid product id")
		return
	}
	var upd models.ProductUpdate
	if err := ctx.ShouldBindJSON(&upd); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	product, err := store.UpdateProductOwned(ctx, id, middlewares.UserID(ctx), upd)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func DeleteProduct(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid product id")
		return
	}
	if err := store.DeleteProductOwned(ctx, id, middlewares.UserID(ctx)); err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// VendorOrders lists every order containing at least one of the vendor's
// line items.
func VendorOrders(ctx *gin.Context) {
	orders, err := orderSvc.ListForVendor(ctx, middlewares.UserID(ctx))
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}
