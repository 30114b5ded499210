package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chambanica/chambanica-api/internal/container"
	handlers "github.com/chambanica/chambanica-api/internal/interface/http"
	"github.com/chambanica/chambanica-api/internal/interface/middleware"
	"github.com/chambanica/chambanica-api/pkg/helpers"
)

// JobModule wires the posting lifecycle into routes. The feed and catalog are
// public; everything that mutates or personalizes requires auth.

type JobModule struct {
	Handler *handlers.JobHandler
	JWT     *helpers.JWTManager
}

func NewJobModule(h *handlers.JobHandler, jwt *helpers.JWTManager) *JobModule {
	return &JobModule{Handler: h, JWT: jwt}
}

func (m *JobModule) Register(rg *gin.RouterGroup) {
	feedLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/jobs", feedLimiter, m.Handler.Feed)
	rg.GET("/jobs/search", searchLimiter, m.Handler.Search)
	rg.GET("/jobs/:id", feedLimiter, m.Handler.Get)
	rg.GET("/catalog", feedLimiter, m.Handler.Catalog)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/jobs", m.Handler.Publish)
		auth.GET("/jobs/watch", m.Handler.WatchFeed)
		auth.GET("/my-posts", m.Handler.MyPosts)
		auth.POST("/jobs/:id/hire", m.Handler.Hire)
		auth.POST("/jobs/:id/reject", m.Handler.Reject)
		auth.POST("/jobs/:id/complete", m.Handler.Complete)
		auth.POST("/jobs/:id/images", m.Handler.AttachImage)
		auth.DELETE("/jobs/:id", m.Handler.Delete)
	}
}
