package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/cyphera/cyphera-tax/libs/go/logger"
	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bodyLogWriter is a wrapper around gin.ResponseWriter that captures the response body
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// maxLoggedBody caps request and response bodies written to development logs
const maxLoggedBody = 4 << 10

// EnhancedLoggingMiddleware logs request and response bodies in development mode
func EnhancedLoggingMiddleware(isDevelopment bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isDevelopment {
			c.Next()
			return
		}

		startTime := time.Now()
		log := LogWithCorrelationID(c.Request.Context())

		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = NewBodyReader(requestBody)
		}

		log.Debug("Detailed request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("body", clip(requestBody)),
		)

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(startTime)),
			zap.Int("body_size", blw.body.Len()),
		}
		if strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "application/json") {
			fields = append(fields, zap.String("body", clip(blw.body.Bytes())))
		}
		log.Debug("Detailed response", fields...)
	}
}

// RequestLoggingMiddleware logs one line per completed request, including the
// failure kind of any error a handler attached with c.Error
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(startTime)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		log := logger.ForComponent(LogWithCorrelationID(c.Request.Context()), logger.ComponentAPI)

		if err := c.Errors.Last(); err != nil {
			fields = append(fields,
				zap.String("kind", taxerrors.KindOf(err.Err).String()),
				zap.Error(err.Err))
			if c.Writer.Status() >= 500 {
				log.Error("Request failed", fields...)
				return
			}
			log.Warn("Request rejected", fields...)
			return
		}
		log.Info("Request completed", fields...)
	}
}

func clip(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "..."
	}
	return string(b)
}
