package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/models"
)

// Context keys set by Protect for downstream handlers.
const (
	CtxUserID = "userId"
	CtxRole   = "role"
)

// Protect verifies the bearer token and, when roles are given, enforces
// role membership. Stateless per request: identity travels only through the
// gin context, never package state.
func Protect(secret string, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}
		idHex, _ := claims["id"].(string)
		userID, err := primitive.ObjectIDFromHex(idHex)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}
		roleStr, _ := claims["role"].(string)
		role := models.Role(roleStr)
		if !role.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxRole, role)

		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				if role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied"})
				return
			}
		}

		c.Next()
	}
}

// UserID returns the authenticated user's id stored by Protect.
func UserID(c *gin.Context) primitive.ObjectID {
	id, _ := c.MustGet(CtxUserID).(primitive.ObjectID)
	return id
}

// UserRole returns the authenticated user's role stored by Protect.
func UserRole(c *gin.Context) models.Role {
	role, _ := c.MustGet(CtxRole).(models.Role)
	return role
}
