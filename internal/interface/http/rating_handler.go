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

type RatingHandler struct {
	Svc    *application.RatingService
	Logger *logrus.Logger
}

func NewRatingHandler(svc *application.RatingService, logger *logrus.Logger) *RatingHandler {
	return &RatingHandler{Svc: svc, Logger: logger}
}

type rateWorkerRequest struct {
	Score   int    `json:"score" binding:"required,score"`
	Comment string `json:"comment"`
}

func (h *RatingHandler) Rate(c *gin.Context) {
	var req rateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	rating, err := h.Svc.RateWorker(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"), req.Score, req.Comment)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toRatingView(rating), "worker rated", nil)
}

func (h *RatingHandler) ListForWorker(c *gin.Context) {
	ratings, err := h.Svc.ListForWorker(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toRatingViews(ratings), "ratings", map[string]any{"count": len(ratings)})
}

func (h *RatingHandler) WorkerStats(c *gin.Context) {
	stats, err := h.Svc.WorkerStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{
		"worker_id":      stats.WorkerID,
		"rating":         stats.Rating,
		"completed_jobs": stats.CompletedJobs,
		"histogram":      stats.Histogram,
		"recent":         toRatingViews(stats.Recent),
	}, "worker stats", nil)
}
