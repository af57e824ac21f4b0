package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/models"
	"marketplace-backend/utils"
)

const testSecret = "test-secret"

func protectedRouter(roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", Protect(testSecret, roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": UserID(c).Hex(),
			"role":   UserRole(c),
		})
	})
	return r
}

func tokenFor(t *testing.T, role models.Role) (string, primitive.ObjectID) {
	t.Helper()
	user := &models.User{ID: primitive.NewObjectID(), Role: role}
	token, err := utils.GenerateToken(user, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	return token, user.ID
}

func doReq(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtectMissingToken(t *testing.T) {
	r := protectedRouter()
	if w := doReq(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}
}

func TestProtectMalformedToken(t *testing.T) {
	r := protectedRouter()
	if w := doReq(r, "not-a-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}
}

func TestProtectWrongSecret(t *testing.T) {
	r := protectedRouter()
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleCustomer}
	token, err := utils.GenerateToken(user, "other-secret")
	if err != nil {
		t.Fatal(err)
	}
	if w := doReq(r, token); w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}
}

func TestProtectExpiredToken(t *testing.T) {
	r := protectedRouter()
	claims := jwt.MapClaims{
		"id":   primitive.NewObjectID().Hex(),
		"role": string(models.RoleCustomer),
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	if w := doReq(r, token); w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}
}

func TestProtectPassesIdentityThrough(t *testing.T) {
	r := protectedRouter()
	token, id := tokenFor(t, models.RoleVendor)

	w := doReq(r, token)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, id.Hex()) || !strings.Contains(body, string(models.RoleVendor)) {
		t.Fatalf("identity missing from context: %s", body)
	}
}

func TestProtectRoleGuard(t *testing.T) {
	r := protectedRouter(models.RoleAdmin)

	token, _ := tokenFor(t, models.RoleCustomer)
	if w := doReq(r, token); w.Code != http.StatusForbidden {
		t.Fatalf("customer against admin route: code = %d, want 403", w.Code)
	}

	token, _ = tokenFor(t, models.RoleAdmin)
	if w := doReq(r, token); w.Code != http.StatusOK {
		t.Fatalf("admin against admin route: code = %d, want 200", w.Code)
	}
}

func TestProtectMultiRoleGuard(t *testing.T) {
	r := protectedRouter(models.RoleVendor, models.RoleAdmin)

	token, _ := tokenFor(t, models.RoleVendor)
	if w := doReq(r, token); w.Code != http.StatusOK {
		t.Fatalf("vendor: code = %d, want 200", w.Code)
	}
	token, _ = tokenFor(t, models.RoleCustomer)
	if w := doReq(r, token); w.Code != http.StatusForbidden {
		t.Fatalf("customer: code = %d, want 403", w.Code)
	}
}
