package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-advice/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorEnvelope(handler.logger),
	)
	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, &HTTPError{Status: http.StatusNotFound, Code: codeNotFound, Message: "no route for " + c.Request.Method + " " + c.Request.URL.Path})
	})

	router.GET("/healthz", handler.Health)

	limiter := newClientLimiter(cfg.HTTP.RateLimit)
	api := router.Group("/api/v1")

	adviceRoutes := api.Group("/advice", limiter.scope("advice", handler.logger))
	{
		adviceRoutes.POST("", handler.DailyAdvice)
		adviceRoutes.POST("/weekly", handler.WeeklyAdvice)
	}

	locationRoutes := api.Group("/locations", limiter.scope("locations", handler.logger))
	{
		locationRoutes.GET("/search", handler.SearchLocations)
		locationRoutes.GET("/recent", handler.RecentLocations)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        newReplayPolicy(cfg.HTTP.Retry, handler.logger).wrap(router),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
		)
	}
}
