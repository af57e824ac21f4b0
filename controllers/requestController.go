package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/middlewares"
	"marketplace-backend/services"
)

func CreateRequest(ctx *gin.Context) {
	var in services.CreateRequestInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	req, err := requestSvc.Create(ctx, middlewares.UserID(ctx), in)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, req)
}

func MyRequests(ctx *gin.Context) {
	requests, err := requestSvc.ListForUser(ctx, middlewares.UserID(ctx))
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, requests)
}

// ListRequests is the vendor/admin view over all open customer asks.
func ListRequests(ctx *gin.Context) {
	requests, err := requestSvc.ListAll(ctx)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, requests)
}

type quoteInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

func QuoteRequest(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid request id")
		return
	}
	var in quoteInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	vendor, err := store.GetUserByID(ctx, middlewares.UserID(ctx))
	if err != nil {
		sendError(ctx, err)
		return
	}
	req, err := requestSvc.Quote(ctx, vendor, id, in.Amount)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, req)
}

type acceptInput struct {
	VendorName string `json:"vendorName" binding:"required"`
}

func AcceptQuote(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid request id")
		return
	}
	var in acceptInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	req, err := requestSvc.Accept(ctx, middlewares.UserID(ctx), id, in.VendorName)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, req)
}

type requestStatusInput struct {
	Status string `json:"status" binding:"required"`
}

func SetRequestStatus(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid request id")
		return
	}
	var in requestStatusInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	req, err := requestSvc.SetStatus(ctx, id, in.Status)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, req)
}
