package risk

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sandboxRequest(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	NewHandler(NewEngine()).RegisterRoutes(router.Group("/api"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/risk/score", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSandbox_Scores(t *testing.T) {
	w := sandboxRequest(t, `{"amount": 600, "currency": "cad"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if result.Score != 30 {
		t.Errorf("score = %d, want 30", result.Score)
	}
	if len(result.Reasons) != 1 || result.Reasons[0] != "large_amount" {
		t.Errorf("reasons = %v", result.Reasons)
	}
}

func TestSandbox_InvalidBody(t *testing.T) {
	if w := sandboxRequest(t, `{`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSandbox_InvalidCurrency(t *testing.T) {
	if w := sandboxRequest(t, `{"amount": 10, "currency": "dollars"}`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
