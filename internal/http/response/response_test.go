package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innies-app/innies-backend/internal/pkg/apperror"
)

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", handler)

	req, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestError_AppError(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		Error(c, apperror.ErrSchedulingConflict)
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "CONFLICT", body.Error.Code)
	assert.Equal(t, apperror.ErrSchedulingConflict.Message, body.Error.Message)
}

func TestError_MasksUnknownErrors(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		Error(c, errors.New("pq: connection refused"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "pq")
}

func TestSuccess_WrapsData(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		Success(c, gin.H{"id": "x"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
	assert.Equal(t, map[string]interface{}{"id": "x"}, body.Data)
}
