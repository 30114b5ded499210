package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chambanica/chambanica-api/internal/container"
	handlers "github.com/chambanica/chambanica-api/internal/interface/http"
	"github.com/chambanica/chambanica-api/internal/interface/middleware"
	"github.com/chambanica/chambanica-api/pkg/helpers"
)

// ChatModule wires conversations and messages into routes. Everything here
// requires auth; access within a conversation is enforced by the service.

type ChatModule struct {
	Handler *handlers.ChatHandler
	JWT     *helpers.JWTManager
}

func NewChatModule(h *handlers.ChatHandler, jwt *helpers.JWTManager) *ChatModule {
	return &ChatModule{Handler: h, JWT: jwt}
}

func (m *ChatModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/conversations", m.Handler.Open)
		auth.GET("/conversations", m.Handler.List)
		auth.GET("/conversations/watch", m.Handler.WatchList)
		auth.GET("/conversations/:id/messages", m.Handler.Messages)
		auth.GET("/conversations/:id/messages/watch", m.Handler.WatchMessages)
		auth.POST("/conversations/:id/messages", m.Handler.Send)
	}
}
