package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/models"
)

// ListProducts is the public catalog: approved products only, filterable by
// category, search term and price range.
func ListProducts(ctx *gin.Context) {
	filter := models.ProductFilter{
		Status:   models.StatusApproved,
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
	}
	if v := ctx.Query("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := ctx.Query("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}

	products, err := store.ListProducts(ctx, filter)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, products)
}

func GetProduct(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid product id")
		return
	}
	product, err := store.GetProduct(ctx, id)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func ListProductsByCategory(ctx *gin.Context) {
	products, err := store.ListProducts(ctx, models.ProductFilter{
		Status:   models.StatusApproved,
		Category: ctx.Param("category"),
	})
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, products)
}

// FeaturedProducts returns the eight newest approved products.
func FeaturedProducts(ctx *gin.Context) {
	products, err := store.ListProducts(ctx, models.ProductFilter{
		Status: models.StatusApproved,
		Limit:  8,
	})
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, products)
}
