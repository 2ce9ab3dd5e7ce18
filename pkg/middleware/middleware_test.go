package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spolyanaa/MyBarKeeperBot/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := zap.NewNop()
	router.Use(RequestIDMiddleware(logger), RecoveryHandler(logger), ErrorHandler(logger))
	return router
}

func TestRequestIDMiddleware_GenerateID(t *testing.T) {
	router := newRouter()
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c)})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	responseID := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(responseID)
	assert.NoError(t, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, responseID, body["request_id"])
}

func TestRequestIDMiddleware_UseProvidedID(t *testing.T) {
	router := newRouter()
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	providedID := uuid.New().String()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, providedID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, providedID, w.Header().Get(RequestIDHeader))
}

func TestRequestIDMiddleware_ReplacesMalformedID(t *testing.T) {
	router := newRouter()
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	responseID := w.Header().Get(RequestIDHeader)
	assert.NotEqual(t, "not-a-uuid", responseID)
	_, err := uuid.Parse(responseID)
	assert.NoError(t, err)
}

func TestErrorHandler_StandardError(t *testing.T) {
	router := newRouter()
	router.GET("/drift", func(c *gin.Context) {
		_ = c.Error(errors.NewLedgerDriftError(2))
	})

	req := httptest.NewRequest("GET", "/drift", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	var body errors.StandardError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "LedgerDrift", body.Code)
	assert.Equal(t, "2 product(s) drifted", body.Details)
}

func TestErrorHandler_UnknownError(t *testing.T) {
	router := newRouter()
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("disk on fire"))
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "disk on fire")
}

func TestRecoveryHandler(t *testing.T) {
	router := newRouter()
	router.GET("/panic", func(c *gin.Context) {
		panic("unexpected")
	})

	req := httptest.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "InternalError")
}
