package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenthands/confirm/internal/authapi"
)

const maxRequestIDLen = 128

// requestID reuses the inbound X-Request-ID when present and sane,
// otherwise generates one. The ID is echoed on the response and stored in
// the request context for the authentication API call.
func requestID(gen func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(authapi.RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = gen()
		}
		c.Header(authapi.RequestIDHeader, id)
		c.Request = c.Request.WithContext(authapi.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func requestLogger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", authapi.RequestID(c.Request.Context()),
		)
	}
}
