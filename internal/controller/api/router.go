package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultBodyLimit максимальный размер тела запроса
const DefaultBodyLimit = 1 << 20

type RouterConfig struct {
	RateLimitRPS float64
	BodyLimit    int64
	Release      bool
}

// NewRouter собирает gin-движок со всеми маршрутами
func NewRouter(h *Handler, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyLimit
	}

	r := gin.New()

	r.Use(RequestID())
	r.Use(Recovery(logger))
	r.Use(Logger(logger))
	r.Use(BodyLimit(bodyLimit))

	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	v1.Use(RateLimit(cfg.RateLimitRPS, logger))
	{
		v1.POST("/slots", h.EvaluateBatch)
		v1.GET("/slots", h.EvaluateWindow)
		v1.POST("/events/refresh", h.RefreshEvents)
	}

	return r
}
