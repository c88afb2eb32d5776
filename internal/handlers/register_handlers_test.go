package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/handlers"
	"github.com/SscSPs/backoffice_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppRouter(production bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &config.Config{JWTSecret: testJWTSecret, JWTIssuer: testIssuer, IsProduction: production}
	handlers.RegisterRoutes(r, cfg, &portssvc.ServiceContainer{})
	return r
}

func TestRegisterRoutes_ServesSwaggerOutsideProduction(t *testing.T) {
	r := newAppRouter(false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"basePath": "/api/v1"`)
	assert.Contains(t, body, `"/salary-payments/{id}/pay"`)
	assert.Contains(t, body, `"/documents/{id}/confirm"`)
	assert.Contains(t, body, `"BearerAuth"`)
}

func TestRegisterRoutes_HidesSwaggerInProduction(t *testing.T) {
	r := newAppRouter(true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
