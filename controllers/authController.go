package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"marketplace-backend/models"
	"marketplace-backend/storage"
	"marketplace-backend/utils"
)

type signupInput struct {
	Name         string      `json:"name" binding:"required"`
	Email        string      `json:"email" binding:"required,email"`
	Password     string      `json:"password" binding:"required,min=6"`
	Role         models.Role `json:"role"`
	Phone        string      `json:"phone"`
	BusinessName string      `json:"businessName"`
	GSTNumber    string      `json:"gstNumber"`
}

func Signup(ctx *gin.Context) {
	var in signupInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	if !in.Role.Valid() {
		badRequest(ctx, "Invalid role specified")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		sendError(ctx, err)
		return
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Password:     string(hashed),
		Phone:        in.Phone,
		Role:         in.Role,
		IsActive:     true,
		BusinessName: in.BusinessName,
		GSTNumber:    in.GSTNumber,
	}
	if in.Role == models.RoleVendor {
		user.ApprovalStatus = models.StatusPending
	}

	if err := store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			badRequest(ctx, "User already exists")
			return
		}
		sendError(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user, cfg.JWTSecret)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"token": token, "user": user.Sanitize()})
}

type loginInput struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role"`
}

func Login(ctx *gin.Context) {
	var in loginInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	user, err := store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	// The login pages are role-specific; a role in the body pins the portal.
	if in.Role != "" && user.Role != in.Role {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	token, err := utils.GenerateToken(user, cfg.JWTSecret)
	if err != nil {
		sendError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"token": token, "user": user.Sanitize()})
}
