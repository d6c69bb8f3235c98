// Package requestid tags every request with a correlation ID so log
// lines and error reports can be tied back to a single call.
package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the correlation ID on requests and responses.
const Header = "X-Request-ID"

const contextKey = "request_id"

// Middleware reuses an incoming X-Request-ID when the caller supplies
// one, otherwise mints a fresh UUID, and echoes it on the response.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)
		c.Next()
	}
}

// Value returns the ID assigned to this request, or "" when the
// middleware did not run.
func Value(c *gin.Context) string {
	id, _ := c.Value(contextKey).(string)
	return id
}
