package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/models"
)

func AdminStats(ctx *gin.Context) {
	stats, err := store.AdminStats(ctx)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

func AdminVendors(ctx *gin.Context) {
	vendors, err := store.ListUsersByRole(ctx, models.RoleVendor)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, vendors)
}

// AdminSetVendorStatus toggles a vendor's isActive flag.
func AdminSetVendorStatus(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid vendor id")
		return
	}
	var in activeInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	vendor, err := store.SetUserActive(ctx, id, *in.IsActive)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, vendor.Sanitize())
}

func AdminApproveVendor(ctx *gin.Context) {
	setVendorApproval(ctx, models.StatusApproved)
}

func AdminRejectVendor(ctx *gin.Context) {
	setVendorApproval(ctx, models.StatusRejected)
}

func setVendorApproval(ctx *gin.Context, status string) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid vendor id")
		return
	}
	vendor, err := store.SetVendorApproval(ctx, id, status)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, vendor.Sanitize())
}

func AdminPendingProducts(ctx *gin.Context) {
	products, err := store.ListProducts(ctx, models.ProductFilter{Status: models.StatusPending})
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, products)
}

type productStatusInput struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

func AdminSetProductStatus(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid product id")
		return
	}
	var in productStatusInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	product, err := store.SetProductStatus(ctx, id, in.Status)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func AdminOrders(ctx *gin.Context) {
	orders, err := orderSvc.ListAll(ctx)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

// AdminRevenueReport buckets delivered-order revenue per day, optionally
// bounded by startDate/endDate (YYYY-MM-DD).
func AdminRevenueReport(ctx *gin.Context) {
	var start, end time.Time
	if s, e := ctx.Query("startDate"), ctx.Query("endDate"); s != "" && e != "" {
		var err error
		if start, err = time.Parse("2006-01-02", s); err != nil {
			badRequest(ctx, "Invalid startDate")
			return
		}
		if end, err = time.Parse("2006-01-02", e); err != nil {
			badRequest(ctx, "Invalid endDate")
			return
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	report, err := store.RevenueReport(ctx, start, end)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

func AdminVendorOverview(ctx *gin.Context) {
	overview, err := store.VendorOverview(ctx)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, overview)
}
