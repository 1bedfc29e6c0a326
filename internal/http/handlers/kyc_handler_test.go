package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/kyc-backend/internal/dto"
)

func TestKYCHandler_Register_MissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &KYCHandler{}
	r.POST("/api/register", handler.Register)

	req, _ := http.NewRequest("POST", "/api/register", strings.NewReader(`{"gov_id":"AB-12345"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKYCHandler_GenerateToken_InvalidUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &KYCHandler{}
	r.POST("/api/tokens", handler.GenerateToken)

	req, _ := http.NewRequest("POST", "/api/tokens", strings.NewReader(`{"user_id":"not-a-uuid"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKYCHandler_Verify_EmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &KYCHandler{}
	r.POST("/api/verify", handler.Verify)

	// Отказ в верификации - штатный ответ 200, а не ошибка
	req, _ := http.NewRequest("POST", "/api/verify", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.VerifyResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "no", resp.Status)
	assert.Equal(t, "MISSING_PARAMETERS", resp.Reason)
}

func TestKYCHandler_Verify_MalformedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &KYCHandler{}
	r.POST("/api/verify", handler.Verify)

	body := `{"token":"not-a-uuid","embedding":[0.1,0.2],"wallet":"0x01"}`
	req, _ := http.NewRequest("POST", "/api/verify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.VerifyResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "no", resp.Status)
	assert.Equal(t, "INVALID_TOKEN", resp.Reason)
}

func TestKYCHandler_GetUser_InvalidUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &KYCHandler{}
	r.GET("/api/users/:id", handler.GetUser)

	req, _ := http.NewRequest("GET", "/api/users/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
