package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/gin-gonic/gin"
)

func runRespondError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	respondError(c, "handlers", "test", err)
	return w
}

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", utils.ErrorRecordNotFound, http.StatusNotFound},
		{"invalid transition", utils.ErrorInvalidTransition, http.StatusBadRequest},
		{"conflict", utils.ErrorConflict, http.StatusConflict},
		{"validation", utils.NewValidationError("bad input"), http.StatusBadRequest},
		{"field validation", utils.NewFieldValidationError(map[string]string{"sku": "required"}), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := runRespondError(t, tc.err)
		if w.Code != tc.expected {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.expected, w.Code)
		}
	}
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	w := runRespondError(t, errors.New("dsn user:pass@tcp leaked"))
	body := w.Body.String()
	if body != `{"message":"Server error"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestRespondError_ValidationFields(t *testing.T) {
	w := runRespondError(t, utils.NewFieldValidationError(map[string]string{"email": "must be a valid email"}))
	body := w.Body.String()
	if !strings.Contains(body, "errors") || !strings.Contains(body, "email") {
		t.Fatalf("expected field errors in body, got %s", body)
	}
}
