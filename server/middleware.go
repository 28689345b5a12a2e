package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"contact-intake/logger"
	"contact-intake/metrics"
	"contact-intake/models"
	"contact-intake/service"
	"contact-intake/utils"
)

// requestLogger tags every request with an id, stores a scoped logger in the
// request context and writes one access line when the handler returns.
func requestLogger(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		log := logger.L().With(
			logger.RequestID(requestID),
			logger.Method(c.Request.Method),
			logger.Path(c.Request.URL.Path),
			logger.ClientIP(utils.GetClientIP(c.Request)),
		)
		c.Request = c.Request.WithContext(logger.ToContext(c.Request.Context(), log))

		c.Next()

		status := c.Writer.Status()
		device := utils.ParseUserAgent(c.Request.UserAgent())
		log.Info("request completed",
			logger.Status(status),
			logger.Duration(time.Since(start)),
			zap.String("device", device.DeviceType),
			zap.String("browser", device.Browser),
			zap.String("os", device.OS),
		)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Request(c.Request.Method, route, status)
	}
}

// recovery turns a panic into the generic 500 body.
func recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.From(c.Request.Context()).Error("panic while handling request",
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: service.MsgInternal})
	})
}

func noStoreHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		c.Next()
	}
}
