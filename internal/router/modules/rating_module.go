package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chambanica/chambanica-api/internal/container"
	handlers "github.com/chambanica/chambanica-api/internal/interface/http"
	"github.com/chambanica/chambanica-api/internal/interface/middleware"
	"github.com/chambanica/chambanica-api/pkg/helpers"
)

// RatingModule wires worker reputation into routes. Reading a worker's
// ratings is public; submitting one requires auth.

type RatingModule struct {
	Handler *handlers.RatingHandler
	JWT     *helpers.JWTManager
}

func NewRatingModule(h *handlers.RatingHandler, jwt *helpers.JWTManager) *RatingModule {
	return &RatingModule{Handler: h, JWT: jwt}
}

func (m *RatingModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/workers/:id/ratings", readLimiter, m.Handler.ListForWorker)
	rg.GET("/workers/:id/stats", readLimiter, m.Handler.WorkerStats)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/jobs/:id/rate", m.Handler.Rate)
	}
}
