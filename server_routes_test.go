package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/gin-gonic/gin"
)

// routerAs builds the API router with every request carrying the given
// role, standing in for a verified token.
func routerAs(role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := utils.SetUserIdInContext(c.Request.Context(), 1)
		ctx = utils.SetRoleInContext(ctx, role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	registerRoutes(r)
	return r
}

func TestRecordSaleRequiresManageRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/1/sale", strings.NewReader(`{"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	routerAs("staff").ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("staff posting a sale: expected 403, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestRecordSaleAdmitsManager(t *testing.T) {
	// Invalid path id fails before any storage access, proving the
	// request cleared the role gate.
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/0/sale", strings.NewReader(`{"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	routerAs("manager").ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("manager posting a sale: expected 400 for bad id, got %d (%s)", w.Code, w.Body.String())
	}
}
