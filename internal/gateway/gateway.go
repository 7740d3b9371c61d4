// Package gateway validates marketplace requests at the edge and forwards the valid ones to the server.
package gateway

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/ShareIt-Rental/service-shareit/internal/platform/middleware"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/response"
)

// Gateway relays validated requests to the server unchanged and relays the server's responses back.
type Gateway struct {
	proxy  *httputil.ReverseProxy
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Gateway forwarding to serverURL.
func New(serverURL string, logger *zap.Logger) (*Gateway, error) {
	target, err := url.Parse(serverURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", serverURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("failed to forward request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"server unavailable"}`))
	}

	return &Gateway{
		proxy:  proxy,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// RegisterRoutes registers the public surface. Every route validates, then forwards.
func (g *Gateway) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", validateBody[userCreateBody](g), g.forward)
		users.GET("", g.forward)
		users.GET("/:id", validateID, g.forward)
		users.PATCH("/:id", validateID, validateBody[userUpdateBody](g), g.forward)
		users.DELETE("/:id", validateID, g.forward)
	}

	sharer := middleware.SharerUserMiddleware()

	items := r.Group("/items", sharer)
	{
		items.POST("", validateBody[itemCreateBody](g), g.forward)
		items.GET("", g.forward)
		items.GET("/search", validatePaging, g.forward)
		items.GET("/:id", validateID, g.forward)
		items.PATCH("/:id", validateID, validateBody[itemUpdateBody](g), g.forward)
		items.POST("/:id/comment", validateID, validateBody[commentBody](g), g.forward)
	}

	bookings := r.Group("/bookings", sharer)
	{
		bookings.POST("", validateBody[bookingBody](g), g.forward)
		bookings.GET("", validateState, validatePaging, g.forward)
		bookings.GET("/owner", validateState, validatePaging, g.forward)
		bookings.GET("/:id", validateID, g.forward)
		bookings.PATCH("/:id", validateID, validateApproved, g.forward)
	}

	requests := r.Group("/requests", sharer)
	{
		requests.POST("", validateBody[requestBody](g), g.forward)
		requests.GET("", g.forward)
		requests.GET("/all", validatePaging, g.forward)
		requests.GET("/:id", validateID, g.forward)
	}
}

func (g *Gateway) forward(c *gin.Context) {
	g.proxy.ServeHTTP(c.Writer, c.Request)
}

// validator is implemented by request bodies with checks beyond binding tags.
type validator interface {
	validate(now time.Time) error
}

// validateBody binds the JSON body into T, runs its checks, and restores the body for forwarding.
func validateBody[T any, PT interface {
	*T
	validator
}](g *Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "failed to read request body")
			return
		}
		body := PT(new(T))
		if err := binding.JSON.BindBody(raw, body); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if err := body.validate(g.now()); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		c.Request.ContentLength = int64(len(raw))
		c.Next()
	}
}
