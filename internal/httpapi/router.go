package httpapi

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/RakanBA/AYAN/internal/logger"
	"github.com/RakanBA/AYAN/internal/metrics"
)

const headerRequestID = "X-Request-Id"

type RouterConfig struct {
	Handler     *Handler
	Logger      *logger.Logger
	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(withRequestID())
	r.Use(withRequestLogging(cfg.Logger))
	r.Use(withMetrics())
	r.Use(withCORS(cfg.CORSOrigins))

	h := cfg.Handler
	r.GET("/healthz", h.healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/docs", h.swaggerUI)
	r.GET("/docs/openapi.json", h.swaggerSpec)

	api := r.Group("/api/v1")
	{
		api.GET("/state", h.state)
		api.POST("/navigate", h.navigate)
		api.POST("/back", h.back)

		api.POST("/scan/start", h.startScan)
		api.POST("/capture", h.capture)
		api.POST("/identify", h.identify)
		api.POST("/retry", h.retry)
		api.POST("/cancel", h.cancel)
		api.POST("/scan/again", h.scanAgain)

		api.GET("/landmarks", h.landmarks)
		api.POST("/landmarks/:id/open", h.openLandmark)

		api.POST("/language", h.setLanguage)
		api.POST("/badge/dismiss", h.dismissBadge)
		api.GET("/history", h.history)
		api.GET("/i18n/:lang", h.messages)
	}
	return r
}

func withRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}

func withCORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", headerRequestID},
		ExposeHeaders: []string{headerRequestID},
		MaxAge:        10 * time.Minute,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func withMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.RecordHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

func withRequestLogging(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", c.ClientIP(),
		}
		if reqID := c.GetString("request_id"); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
