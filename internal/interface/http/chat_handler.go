package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chambanica/chambanica-api/internal/application"
	"github.com/chambanica/chambanica-api/internal/interface/middleware"
	"github.com/chambanica/chambanica-api/pkg/response"
	"github.com/chambanica/chambanica-api/pkg/validation"
)

type ChatHandler struct {
	Svc    *application.ChatService
	Logger *logrus.Logger
}

func NewChatHandler(svc *application.ChatService, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{Svc: svc, Logger: logger}
}

type openConversationRequest struct {
	JobID  string `json:"job_id" binding:"required,uuid"`
	UserID string `json:"user_id" binding:"required,uuid"`
}

type sendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *ChatHandler) Open(c *gin.Context) {
	var req openConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	conv, err := h.Svc.OpenConversation(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), req.JobID, req.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toConversationView(conv), "conversation", nil)
}

func (h *ChatHandler) List(c *gin.Context) {
	convs, err := h.Svc.ListConversations(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toConversationViews(convs), "conversations", map[string]any{"count": len(convs)})
}

// WatchList streams conversation list snapshots over SSE.
func (h *ChatHandler) WatchList(c *gin.Context) {
	ch, err := h.Svc.WatchConversations(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		fail(c, err)
		return
	}
	streamSSE(c, ch, toConversationViews)
}

func (h *ChatHandler) Messages(c *gin.Context) {
	msgs, err := h.Svc.ListMessages(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toMessageViews(msgs), "messages", map[string]any{"count": len(msgs)})
}

// WatchMessages streams message snapshots for one conversation over SSE.
func (h *ChatHandler) WatchMessages(c *gin.Context) {
	ch, err := h.Svc.WatchMessages(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	streamSSE(c, ch, toMessageViews)
}

func (h *ChatHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	msg, err := h.Svc.SendMessage(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"), req.Body)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toMessageView(msg), "message sent", nil)
}
