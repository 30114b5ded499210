package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chambanica/chambanica-api/internal/application"
	"github.com/chambanica/chambanica-api/internal/domain/entity"
	"github.com/chambanica/chambanica-api/internal/interface/middleware"
	"github.com/chambanica/chambanica-api/pkg/response"
	"github.com/chambanica/chambanica-api/pkg/validation"
)

type JobHandler struct {
	Svc    *application.JobService
	Logger *logrus.Logger
}

func NewJobHandler(svc *application.JobService, logger *logrus.Logger) *JobHandler {
	return &JobHandler{Svc: svc, Logger: logger}
}

type publishJobRequest struct {
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description" binding:"required"`
	Category      string `json:"category" binding:"required"`
	Price         int64  `json:"price" binding:"required,gt=0"`
	Location      string `json:"location" binding:"required"`
	Type          string `json:"type" binding:"omitempty,oneof=one-time recurring"`
	PreferredDate string `json:"preferred_date"`
}

type hireRequest struct {
	WorkerID string `json:"worker_id" binding:"required,uuid"`
}

func (h *JobHandler) Publish(c *gin.Context) {
	var req publishJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	job, err := h.Svc.Publish(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.PublishJobInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		Location:      req.Location,
		Type:          entity.JobType(req.Type),
		PreferredDate: req.PreferredDate,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toJobView(job), "job published", nil)
}

func feedQueryFrom(c *gin.Context) application.FeedQuery {
	q := application.FeedQuery{Category: c.Query("category")}
	if p := c.Query("preferred"); p != "" {
		for _, cat := range strings.Split(p, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				q.Preferred = append(q.Preferred, cat)
			}
		}
	}
	return q
}

func (h *JobHandler) Feed(c *gin.Context) {
	jobs, err := h.Svc.Feed(c.Request.Context(), feedQueryFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toJobViews(jobs), "feed", map[string]any{"count": len(jobs)})
}

// WatchFeed streams ranked feed snapshots over SSE until the client
// disconnects.
func (h *JobHandler) WatchFeed(c *gin.Context) {
	ch, err := h.Svc.WatchFeed(c.Request.Context(), feedQueryFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	streamSSE(c, ch, toJobViews)
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toJobView(job), "job", nil)
}

func (h *JobHandler) MyPosts(c *gin.Context) {
	jobs, err := h.Svc.MyPosts(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toJobViews(jobs), "my posts", map[string]any{"count": len(jobs)})
}

func (h *JobHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	jobs, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toJobViews(jobs), "search results", map[string]any{"count": len(jobs)})
}

func (h *JobHandler) Hire(c *gin.Context) {
	var req hireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	job, err := h.Svc.Hire(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"), req.WorkerID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toJobView(job), "worker hired", nil)
}

func (h *JobHandler) Reject(c *gin.Context) {
	var req hireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Reject(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"), req.WorkerID); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"rejected": true}, "proposal rejected", nil)
}

func (h *JobHandler) Complete(c *gin.Context) {
	job, err := h.Svc.Complete(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toJobView(job), "job completed", nil)
}

func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "job deleted", nil)
}

func (h *JobHandler) AttachImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing image file", nil)
		return
	}
	if file.Size > maxUploadBytes {
		response.Error[any](c, http.StatusBadRequest, "file too large", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer src.Close()

	url, err := h.Svc.AttachImage(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"),
		file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"image_url": url}, "image uploaded", nil)
}

// Catalog lists the fixed categories and locations clients should offer.
func (h *JobHandler) Catalog(c *gin.Context) {
	response.Success[any](c, http.StatusOK, map[string]any{
		"categories": entity.Categories,
		"locations":  entity.Locations,
		"currency": map[string]string{
			"code":   entity.CurrencyCode,
			"symbol": entity.CurrencySymbol,
		},
	}, "catalog", nil)
}
