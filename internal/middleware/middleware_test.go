package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/pkg/auth"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestAuthMiddleware(t *testing.T) {
	mr, rdb := newRedis(t)
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	blacklist := auth.NewBlacklist(rdb)
	userID := uuid.New()
	token, err := jwtManager.GenerateToken(userID, "a@example.com", "Ann")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtManager, blacklist), func(c *gin.Context) {
		c.String(http.StatusOK, c.MustGet(ContextUserID).(uuid.UUID).String())
	})

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do("Bearer " + token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, http.StatusUnauthorized, do("Token "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, do("Bearer garbage").Code)

	require.NoError(t, blacklist.Revoke(context.Background(), token, time.Hour))
	assert.Equal(t, http.StatusUnauthorized, do("Bearer "+token).Code)

	mr.Close()
	assert.Equal(t, http.StatusInternalServerError, do("Bearer "+token).Code, "fails closed without redis")
}

func TestRateLimit(t *testing.T) {
	mr, rdb := newRedis(t)

	r := gin.New()
	r.POST("/login", RateLimit(rdb, "auth", 2, time.Minute, true), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	hit := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, hit())
	assert.Equal(t, http.StatusNoContent, hit())
	assert.Equal(t, http.StatusTooManyRequests, hit())

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusNoContent, hit(), "window resets")

	mr.Close()
	assert.Equal(t, http.StatusNoContent, hit(), "fails open without redis")
}

func TestRateLimit_Disabled(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, "auth", 1, time.Minute, false), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
