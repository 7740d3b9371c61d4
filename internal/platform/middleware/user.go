package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SharerUserIDHeader identifies the acting user on every marketplace call.
const SharerUserIDHeader = "X-Sharer-User-Id"

const userIDKey = "user_id"

// SharerUserMiddleware requires a numeric X-Sharer-User-Id header and stores it on the context.
func SharerUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(SharerUserIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing header " + SharerUserIDHeader})
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid header " + SharerUserIDHeader})
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// GetUserID returns the acting user id stored by SharerUserMiddleware.
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
