package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSharerUserMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", SharerUserMiddleware(), func(c *gin.Context) {
		id, ok := GetUserID(c)
		assert.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "42", http.StatusOK},
		{"missing", "", http.StatusBadRequest},
		{"not a number", "abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(SharerUserIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

type fixedLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fixedLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

func TestRateLimitMiddleware(t *testing.T) {
	newRouter := func(l *fixedLimiter) *gin.Engine {
		r := gin.New()
		r.Use(RateLimitMiddleware(l, zap.NewNop()))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("allowed", func(t *testing.T) {
		l := &fixedLimiter{allowed: true}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(SharerUserIDHeader, "7")
		w := httptest.NewRecorder()
		newRouter(l).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"user:7"}, l.keys)
	})

	t.Run("rejected", func(t *testing.T) {
		l := &fixedLimiter{allowed: false}
		w := httptest.NewRecorder()
		newRouter(l).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, l.keys[0], "ip:")
	})

	t.Run("limiter error lets request through", func(t *testing.T) {
		l := &fixedLimiter{err: errors.New("down")}
		w := httptest.NewRecorder()
		newRouter(l).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
