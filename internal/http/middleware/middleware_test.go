package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString(ContextRoleKey)})
	})
	r.GET("/things/:id", handlers...)
	return r
}

func do(r http.Handler, header, value string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/things/"+uuid.NewString(), nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := newTestRouter(AuthMiddleware(NewAuthenticator(new(mockVerifier), new(mockLookup))))

	w := do(r, "", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ResolvesUser(t *testing.T) {
	verifier, lookup := new(mockVerifier), new(mockLookup)
	user := &models.User{ID: uuid.New(), Role: models.RoleProvider}
	verifier.On("Verify", "good").Return("user_1", nil)
	lookup.On("GetByExternalID", mock.Anything, "user_1").Return(user, nil)

	var gotID interface{}
	r := newTestRouter(AuthMiddleware(NewAuthenticator(verifier, lookup)), func(c *gin.Context) {
		gotID, _ = c.Get(ContextUserIDKey)
	})

	w := do(r, "Authorization", "Bearer good")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID, gotID)
	assert.Contains(t, w.Body.String(), models.RoleProvider)
}

func TestAuthMiddleware_UnknownUser(t *testing.T) {
	verifier, lookup := new(mockVerifier), new(mockLookup)
	verifier.On("Verify", "good").Return("user_2", nil)
	lookup.On("GetByExternalID", mock.Anything, "user_2").Return(nil, apperror.ErrUserNotFound)

	w := do(newTestRouter(AuthMiddleware(NewAuthenticator(verifier, lookup))), "Authorization", "Bearer good")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	verifier := new(mockVerifier)
	verifier.On("Verify", "bad").Return("", apperror.ErrInvalidToken)

	w := do(newTestRouter(AuthMiddleware(NewAuthenticator(verifier, new(mockLookup)))), "Authorization", "Bearer bad")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminKeyMiddleware(t *testing.T) {
	r := newTestRouter(AdminKeyMiddleware("s3cret"))

	assert.Equal(t, http.StatusForbidden, do(r, "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, AdminKeyHeader, "wrong").Code)
	assert.Equal(t, http.StatusOK, do(r, AdminKeyHeader, "s3cret").Code)

	closed := newTestRouter(AdminKeyMiddleware(""))
	assert.Equal(t, http.StatusForbidden, do(closed, AdminKeyHeader, "").Code)
}

func TestRateLimitMiddleware_BlocksAfterLimit(t *testing.T) {
	r := newTestRouter(RateLimitMiddleware(memory.NewStore(), "test", 2, time.Minute))

	assert.Equal(t, http.StatusOK, do(r, "", "").Code)
	second := do(r, "", "")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, do(r, "", "").Code)
}

func TestUUIDValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/things/:id", UUIDValidator("id"), func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest("GET", "/things/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, do(r, "", "").Code)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
