package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const metaContextKey = "response_meta"

// WithResponseMeta attaches a metadata map to the request context and
// stamps it with the processing time once the handler chain finishes.
// Handlers add entries through SetCacheHit and read the map back with
// ExtractMeta when building the response envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(metaContextKey, map[string]interface{}{})
		c.Next()
		meta := metaMap(c)
		if _, ok := meta["processing_time_ms"]; !ok {
			meta["processing_time_ms"] = time.Since(start).Milliseconds()
		}
	}
}

// SetCacheHit notes whether the response was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	metaMap(c)["cache_hit"] = hit
}

// ExtractMeta returns the metadata collected for this request, or nil
// when WithResponseMeta is not installed.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if v, ok := c.Get(metaContextKey); ok {
		if m, ok := v.(map[string]interface{}); ok {
			return m
		}
	}
	return nil
}

func metaMap(c *gin.Context) map[string]interface{} {
	if m := ExtractMeta(c); m != nil {
		return m
	}
	m := map[string]interface{}{}
	if c != nil {
		c.Set(metaContextKey, m)
	}
	return m
}
