package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodySize bounds request bodies accepted by the API
const DefaultMaxBodySize int64 = 64 << 10

// BodyReader implements io.ReadCloser to allow re-reading request body
type BodyReader struct {
	*bytes.Reader
}

// NewBodyReader creates a new BodyReader from bytes
func NewBodyReader(body []byte) io.ReadCloser {
	return &BodyReader{Reader: bytes.NewReader(body)}
}

// Close implements io.ReadCloser
func (r *BodyReader) Close() error {
	return nil
}

// BodySizeLimitMiddleware rejects bodies declared larger than maxBytes and caps
// reads of the rest
func BodySizeLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "Request body too large",
			})
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
