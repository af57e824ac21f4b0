package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/middlewares"
	"marketplace-backend/models"
)

func GetProfile(ctx *gin.Context) {
	user, err := store.GetUserByID(ctx, middlewares.UserID(ctx))
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user.Sanitize())
}

type profileInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func UpdateProfile(ctx *gin.Context) {
	var in profileInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	user, err := store.UpdateProfile(ctx, middlewares.UserID(ctx), in.Name, in.Phone, in.Address)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user.Sanitize())
}

// ListVendors feeds the request form's preferred-vendor picker: active,
// approved vendors only.
func ListVendors(ctx *gin.Context) {
	vendors, err := store.ListUsersByRole(ctx, models.RoleVendor)
	if err != nil {
		sendError(ctx, err)
		return
	}
	visible := []models.User{}
	for _, v := range vendors {
		if v.IsActive && v.ApprovalStatus == models.StatusApproved {
			visible = append(visible, v)
		}
	}
	ctx.JSON(http.StatusOK, visible)
}

// ----- Admin user maintenance -----

func ListCustomers(ctx *gin.Context) {
	users, err := store.ListUsersByRole(ctx, models.RoleCustomer)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, users)
}

func AdminUpdateUser(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid user id")
		return
	}
	var upd models.UserUpdate
	if err := ctx.ShouldBindJSON(&upd); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	if upd.Role != nil && !upd.Role.Valid() {
		badRequest(ctx, "Invalid role specified")
		return
	}
	user, err := store.UpdateUser(ctx, id, upd)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user.Sanitize())
}

type activeInput struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

func AdminSetUserStatus(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid user id")
		return
	}
	var in activeInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	user, err := store.SetUserActive(ctx, id, *in.IsActive)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user.Sanitize())
}

func AdminDeleteUser(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid user id")
		return
	}
	if err := store.DeleteUser(ctx, id); err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
