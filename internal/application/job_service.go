package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"cloud.google.com/go/storage"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
	"github.com/chambanica/chambanica-api/internal/domain/repository"
	"github.com/chambanica/chambanica-api/pkg/apperr"
	"github.com/chambanica/chambanica-api/pkg/helpers"
	"github.com/chambanica/chambanica-api/pkg/notify"
)

// PublishJobInput carries the fields a user supplies when posting a job.
type PublishJobInput struct {
	Title         string
	Description   string
	Category      string
	Price         int64
	Location      string
	Type          entity.JobType
	PreferredDate string
}

// FeedQuery narrows and personalizes the public feed. Preferred categories
// only affect ordering, never filtering.
type FeedQuery struct {
	Category  string
	Preferred []string
}

// JobService owns the posting lifecycle: publish, hire, reject, complete,
// delete. Lifecycle transitions are guarded by conditional writes in the
// repository, so concurrent actors race safely and the loser gets an
// invalid-state error back.
type JobService struct {
	Jobs          repository.JobRepository
	Users         repository.UserRepository
	Conversations repository.ConversationRepository
	Chat          *ChatService
	Redis         *redis.Client
	Publisher     *helpers.RabbitPublisher
	ES            *elasticsearch.Client
	ESIndex       string
	Storage       *storage.Client
	Bucket        string
	Logger        *logrus.Logger
}

func NewJobService(jobs repository.JobRepository, users repository.UserRepository, conversations repository.ConversationRepository, chat *ChatService, rdb *redis.Client, pub *helpers.RabbitPublisher, es *elasticsearch.Client, esIndex string, gcs *storage.Client, bucket string, logger *logrus.Logger) *JobService {
	return &JobService{
		Jobs:          jobs,
		Users:         users,
		Conversations: conversations,
		Chat:          chat,
		Redis:         rdb,
		Publisher:     pub,
		ES:            es,
		ESIndex:       esIndex,
		Storage:       gcs,
		Bucket:        bucket,
		Logger:        logger,
	}
}

// Publish creates an active posting owned by the actor, snapshotting the
// owner's profile onto the job and bumping the owner's active-publications
// counter.
func (s *JobService) Publish(ctx context.Context, actorID string, in PublishJobInput) (*entity.Job, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	switch {
	case in.Title == "":
		return nil, apperr.Validation("title is required")
	case in.Description == "":
		return nil, apperr.Validation("description is required")
	case in.Price <= 0:
		return nil, apperr.Validation("price must be positive")
	case !entity.ValidCategory(in.Category):
		return nil, apperr.Validation("unknown category %q", in.Category)
	case !entity.ValidLocation(in.Location):
		return nil, apperr.Validation("unknown location %q", in.Location)
	}
	if in.Type == "" {
		in.Type = entity.JobTypeOneTime
	}
	if in.Type != entity.JobTypeOneTime && in.Type != entity.JobTypeRecurring {
		return nil, apperr.Validation("unknown job type %q", in.Type)
	}

	owner, err := s.Users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	job := &entity.Job{
		OwnerID:            owner.ID,
		OwnerName:          owner.FullName,
		OwnerRating:        owner.Rating,
		OwnerCompletedJobs: owner.CompletedJobs,
		Title:              in.Title,
		Description:        in.Description,
		Category:           in.Category,
		Price:              in.Price,
		Location:           in.Location,
		Type:               in.Type,
		PreferredDate:      in.PreferredDate,
	}
	if err := s.Jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	if err := s.Users.AddActivePublications(ctx, actorID, 1); err != nil {
		s.Logger.WithError(err).WithField("user_id", actorID).Warn("publication counter increment failed")
	}

	s.Logger.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"owner_id": actorID,
		"category": job.Category,
	}).Info("job published")

	s.indexJob(ctx, job)
	publishChange(ctx, s.Redis, s.Logger, helpers.ChannelJobs)
	return job, nil
}

// Get returns a single posting.
func (s *JobService) Get(ctx context.Context, jobID string) (*entity.Job, error) {
	return s.Jobs.GetByID(ctx, jobID)
}

// Feed returns active postings ranked for the viewer: preferred categories
// first, newest first within each partition.
func (s *JobService) Feed(ctx context.Context, q FeedQuery) ([]entity.Job, error) {
	jobs, err := s.Jobs.List(ctx, repository.JobFilter{
		Status:   entity.JobStatusActive,
		Category: q.Category,
	})
	if err != nil {
		return nil, err
	}
	return RankJobs(jobs, q.Preferred), nil
}

// MyPosts returns all of the actor's own postings regardless of status,
// newest first.
func (s *JobService) MyPosts(ctx context.Context, actorID string) ([]entity.Job, error) {
	return s.Jobs.List(ctx, repository.JobFilter{OwnerID: actorID})
}

// WatchFeed streams ranked feed snapshots until ctx is cancelled.
func (s *JobService) WatchFeed(ctx context.Context, q FeedQuery) (<-chan []entity.Job, error) {
	return watchSnapshots(ctx, s.Redis, s.Logger, helpers.ChannelJobs, func(ctx context.Context) ([]entity.Job, error) {
		return s.Feed(ctx, q)
	})
}

// Hire moves an active job to in-progress with the chosen worker. Only the
// owner may hire; the first hire wins. When a conversation with the worker
// exists it is flagged hired and receives a system message.
func (s *JobService) Hire(ctx context.Context, actorID, jobID, workerID string) (*entity.Job, error) {
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.OwnerID != actorID {
		return nil, apperr.PermissionDenied("only the owner can hire for job %s", jobID)
	}
	if workerID == actorID {
		return nil, apperr.Validation("cannot hire yourself")
	}
	worker, err := s.Users.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ok, err := s.Jobs.MarkInProgress(ctx, jobID, workerID, worker.FullName, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.InvalidState("job %s is not active", jobID)
	}

	job.Status = entity.JobStatusInProgress
	job.HiredWorkerID = workerID
	job.HiredWorkerName = worker.FullName
	job.HiredAt = &now

	if err := s.Users.AddActivePublications(ctx, actorID, -1); err != nil {
		s.Logger.WithError(err).WithField("user_id", actorID).Warn("publication counter decrement failed")
	}

	if conv, err := s.Conversations.GetByJobAndPair(ctx, jobID, actorID, workerID); err == nil {
		if err := s.Conversations.SetHired(ctx, conv.ID); err != nil {
			s.Logger.WithError(err).WithField("conversation_id", conv.ID).Warn("hired flag update failed")
		}
		if err := s.Chat.PostSystemMessage(ctx, conv.ID, fmt.Sprintf("✅ %s te ha contratado para este trabajo.", job.OwnerName)); err != nil {
			s.Logger.WithError(err).WithField("conversation_id", conv.ID).Warn("hire system message failed")
		}
	} else if !errors.Is(err, apperr.ErrNotFound) {
		s.Logger.WithError(err).WithField("job_id", jobID).Warn("conversation lookup failed on hire")
	}

	s.Logger.WithFields(logrus.Fields{
		"job_id":    jobID,
		"worker_id": workerID,
	}).Info("worker hired")

	enqueueNotification(ctx, s.Publisher, s.Users, s.Logger, workerID, notify.Job{
		Event: notify.EventWorkerHired,
		Data: map[string]any{
			"employer_name": job.OwnerName,
			"job_title":     job.Title,
		},
	})
	s.indexJob(ctx, job)
	publishChange(ctx, s.Redis, s.Logger, helpers.ChannelJobs)
	return job, nil
}

// Reject turns a worker's proposal down without changing the job. The only
// durable effect is a system message in the conversation with that worker.
func (s *JobService) Reject(ctx context.Context, actorID, jobID, workerID string) error {
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.OwnerID != actorID {
		return apperr.PermissionDenied("only the owner can reject proposals for job %s", jobID)
	}
	if job.Status != entity.JobStatusActive {
		return apperr.InvalidState("job %s is not active", jobID)
	}

	conv, err := s.Conversations.GetByJobAndPair(ctx, jobID, actorID, workerID)
	if err != nil {
		return err
	}
	if err := s.Chat.PostSystemMessage(ctx, conv.ID, fmt.Sprintf("❌ %s ha rechazado tu propuesta para este trabajo.", job.OwnerName)); err != nil {
		return err
	}

	enqueueNotification(ctx, s.Publisher, s.Users, s.Logger, workerID, notify.Job{
		Event: notify.EventOfferRejected,
		Data: map[string]any{
			"employer_name": job.OwnerName,
			"job_title":     job.Title,
		},
	})
	return nil
}

// Complete moves an in-progress job to completed and invites the owner to
// rate the worker via a system message.
func (s *JobService) Complete(ctx context.Context, actorID, jobID string) (*entity.Job, error) {
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.OwnerID != actorID {
		return nil, apperr.PermissionDenied("only the owner can complete job %s", jobID)
	}

	now := time.Now().UTC()
	ok, err := s.Jobs.MarkCompleted(ctx, jobID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.InvalidState("job %s is not in progress", jobID)
	}

	job.Status = entity.JobStatusCompleted
	job.CompletedAt = &now

	if job.HiredWorkerID != "" {
		if conv, err := s.Conversations.GetByJobAndPair(ctx, jobID, actorID, job.HiredWorkerID); err == nil {
			if err := s.Chat.PostSystemMessage(ctx, conv.ID, "✅ Trabajo marcado como completado. Por favor, califica al trabajador."); err != nil {
				s.Logger.WithError(err).WithField("conversation_id", conv.ID).Warn("completion system message failed")
			}
		}
		enqueueNotification(ctx, s.Publisher, s.Users, s.Logger, job.HiredWorkerID, notify.Job{
			Event: notify.EventJobCompleted,
			Data:  map[string]any{"job_title": job.Title},
		})
	}

	s.Logger.WithField("job_id", jobID).Info("job completed")

	s.indexJob(ctx, job)
	publishChange(ctx, s.Redis, s.Logger, helpers.ChannelJobs)
	return job, nil
}

// Delete removes an owner's posting while it is still active. Jobs that have
// advanced past active stay for the historical record.
func (s *JobService) Delete(ctx context.Context, actorID, jobID string) error {
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.OwnerID != actorID {
		return apperr.PermissionDenied("only the owner can delete job %s", jobID)
	}

	ok, err := s.Jobs.DeleteActive(ctx, jobID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.InvalidState("job %s is no longer active", jobID)
	}

	if err := s.Users.AddActivePublications(ctx, actorID, -1); err != nil {
		s.Logger.WithError(err).WithField("user_id", actorID).Warn("publication counter decrement failed")
	}

	s.Logger.WithField("job_id", jobID).Info("job deleted")

	s.removeFromIndex(ctx, jobID)
	publishChange(ctx, s.Redis, s.Logger, helpers.ChannelJobs)
	return nil
}

// AttachImage uploads an image for an active posting and appends its public
// URL to the job's gallery. Only the owner may attach images.
func (s *JobService) AttachImage(ctx context.Context, actorID, jobID, filename, contentType string, r io.Reader) (string, error) {
	if s.Storage == nil || s.Bucket == "" {
		return "", apperr.Transient(errors.New("object storage not configured"))
	}
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return "", err
	}
	if job.OwnerID != actorID {
		return "", apperr.PermissionDenied("only the owner can attach images to job %s", jobID)
	}
	if job.Status != entity.JobStatusActive {
		return "", apperr.InvalidState("job %s is not active", jobID)
	}

	object := fmt.Sprintf("jobs/%s/%s%s", jobID, uuid.NewString(), path.Ext(filename))
	url, err := helpers.UploadObject(ctx, s.Storage, s.Bucket, object, contentType, r)
	if err != nil {
		return "", apperr.Transient(err)
	}
	if err := s.Jobs.AddImage(ctx, jobID, url); err != nil {
		return "", err
	}
	publishChange(ctx, s.Redis, s.Logger, helpers.ChannelJobs)
	return url, nil
}

// jobDoc is the searchable projection kept in Elasticsearch.
type jobDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	Price       int64  `json:"price"`
	CreatedAt   string `json:"created_at"`
}

// Search runs a full-text query over title, description and category and
// resolves the hits back to current active postings.
func (s *JobService) Search(ctx context.Context, query string, size int) ([]entity.Job, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("search query is empty")
	}
	if s.ES == nil {
		return nil, apperr.Transient(errors.New("search backend not configured"))
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	body, _ := json.Marshal(map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  query,
						"fields": []string{"title^3", "description", "category^2"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"status": string(entity.JobStatusActive)},
				},
			},
		},
	})

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, apperr.Transient(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apperr.Transient(fmt.Errorf("search failed: %s", res.String()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperr.Transient(err)
	}

	out := make([]entity.Job, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		job, err := s.Jobs.GetByID(ctx, h.ID)
		if err != nil {
			// Index can lag behind deletes; skip stale hits.
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if job.Status == entity.JobStatusActive {
			out = append(out, *job)
		}
	}
	return out, nil
}

// indexJob mirrors a posting into the search index. Indexing is best effort;
// postgres remains the source of truth.
func (s *JobService) indexJob(ctx context.Context, job *entity.Job) {
	if s.ES == nil {
		return
	}
	doc := jobDoc{
		ID:          job.ID,
		Title:       job.Title,
		Description: job.Description,
		Category:    job.Category,
		Location:    job.Location,
		Status:      string(job.Status),
		Price:       job.Price,
		CreatedAt:   job.CreatedAt.UTC().Format(time.RFC3339),
	}
	b, _ := json.Marshal(doc)
	res, err := s.ES.Index(s.ESIndex, bytes.NewReader(b),
		s.ES.Index.WithDocumentID(job.ID),
		s.ES.Index.WithContext(ctx),
	)
	if err != nil {
		s.Logger.WithError(err).WithField("job_id", job.ID).Warn("search indexing failed")
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		s.Logger.WithField("job_id", job.ID).WithField("status", res.StatusCode).Warn("search indexing rejected")
	}
}

func (s *JobService) removeFromIndex(ctx context.Context, jobID string) {
	if s.ES == nil {
		return
	}
	res, err := s.ES.Delete(s.ESIndex, jobID, s.ES.Delete.WithContext(ctx))
	if err != nil {
		s.Logger.WithError(err).WithField("job_id", jobID).Warn("search index delete failed")
		return
	}
	defer res.Body.Close()
}
