package application

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
	"github.com/chambanica/chambanica-api/internal/domain/repository"
	"github.com/chambanica/chambanica-api/pkg/apperr"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// In-memory repositories mirroring the postgres semantics: conditional status
// updates, one conversation per (job, pair), one rating per job.

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user %s", id)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user %s", email)
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return apperr.NotFound("user %s", u.ID)
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) ApplyRating(_ context.Context, workerID string, rating float64, completedJobs int) error {
	u, ok := f.users[workerID]
	if !ok {
		return apperr.NotFound("user %s", workerID)
	}
	u.Rating = rating
	u.CompletedJobs = completedJobs
	return nil
}

func (f *fakeUserRepo) AddActivePublications(_ context.Context, userID string, delta int) error {
	u, ok := f.users[userID]
	if !ok {
		return apperr.NotFound("user %s", userID)
	}
	u.ActivePublications += delta
	if u.ActivePublications < 0 {
		u.ActivePublications = 0
	}
	return nil
}

type fakeJobRepo struct {
	jobs map[string]*entity.Job
	seq  int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[string]*entity.Job{}}
}

func (f *fakeJobRepo) Create(_ context.Context, j *entity.Job) error {
	j.ID = uuid.NewString()
	f.seq++
	j.Status = entity.JobStatusActive
	j.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	j.UpdatedAt = j.CreatedAt
	cp := *j
	f.jobs[j.ID] = &cp
	return nil
}

func (f *fakeJobRepo) GetByID(_ context.Context, id string) (*entity.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, apperr.NotFound("job %s", id)
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobRepo) List(_ context.Context, filter repository.JobFilter) ([]entity.Job, error) {
	var out []entity.Job
	for _, j := range f.jobs {
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		if filter.Category != "" && j.Category != filter.Category {
			continue
		}
		if filter.OwnerID != "" && j.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (f *fakeJobRepo) MarkInProgress(_ context.Context, jobID, workerID, workerName string, hiredAt time.Time) (bool, error) {
	j, ok := f.jobs[jobID]
	if !ok || j.Status != entity.JobStatusActive {
		return false, nil
	}
	j.Status = entity.JobStatusInProgress
	j.HiredWorkerID = workerID
	j.HiredWorkerName = workerName
	j.HiredAt = &hiredAt
	return true, nil
}

func (f *fakeJobRepo) MarkCompleted(_ context.Context, jobID string, completedAt time.Time) (bool, error) {
	j, ok := f.jobs[jobID]
	if !ok || j.Status != entity.JobStatusInProgress {
		return false, nil
	}
	j.Status = entity.JobStatusCompleted
	j.CompletedAt = &completedAt
	return true, nil
}

func (f *fakeJobRepo) DeleteActive(_ context.Context, jobID string) (bool, error) {
	j, ok := f.jobs[jobID]
	if !ok || j.Status != entity.JobStatusActive {
		return false, nil
	}
	delete(f.jobs, jobID)
	return true, nil
}

func (f *fakeJobRepo) AddImage(_ context.Context, jobID, url string) error {
	j, ok := f.jobs[jobID]
	if !ok {
		return apperr.NotFound("job %s", jobID)
	}
	j.Images = append(j.Images, url)
	return nil
}

type fakeConvRepo struct {
	convs    map[string]*entity.Conversation
	messages map[string][]entity.Message
	seq      int
}

func newFakeConvRepo() *fakeConvRepo {
	return &fakeConvRepo{
		convs:    map[string]*entity.Conversation{},
		messages: map[string][]entity.Message{},
	}
}

func pairKey(jobID, a, b string) string {
	if b < a {
		a, b = b, a
	}
	return jobID + "|" + a + "|" + b
}

func (f *fakeConvRepo) Create(_ context.Context, c *entity.Conversation) error {
	key := pairKey(c.JobID, c.Participants[0], c.Participants[1])
	for _, existing := range f.convs {
		if pairKey(existing.JobID, existing.Participants[0], existing.Participants[1]) == key {
			return apperr.InvalidState("conversation already exists for job %s", c.JobID)
		}
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	cp := *c
	f.convs[c.ID] = &cp
	return nil
}

func (f *fakeConvRepo) GetByID(_ context.Context, id string) (*entity.Conversation, error) {
	c, ok := f.convs[id]
	if !ok {
		return nil, apperr.NotFound("conversation %s", id)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConvRepo) GetByJobAndPair(_ context.Context, jobID, a, b string) (*entity.Conversation, error) {
	key := pairKey(jobID, a, b)
	for _, c := range f.convs {
		if pairKey(c.JobID, c.Participants[0], c.Participants[1]) == key {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("conversation for job %s", jobID)
}

func (f *fakeConvRepo) ListForUser(_ context.Context, userID string) ([]entity.Conversation, error) {
	var out []entity.Conversation
	for _, c := range f.convs {
		if c.HasParticipant(userID) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		it, kt := out[i].LastMessageAt, out[k].LastMessageAt
		switch {
		case it == nil:
			return false
		case kt == nil:
			return true
		default:
			return it.After(*kt)
		}
	})
	return out, nil
}

func (f *fakeConvRepo) SetHired(_ context.Context, conversationID string) error {
	c, ok := f.convs[conversationID]
	if !ok {
		return apperr.NotFound("conversation %s", conversationID)
	}
	c.Hired = true
	return nil
}

func (f *fakeConvRepo) AppendMessage(_ context.Context, m *entity.Message) error {
	c, ok := f.convs[m.ConversationID]
	if !ok {
		return apperr.NotFound("conversation %s", m.ConversationID)
	}
	m.ID = uuid.NewString()
	f.seq++
	m.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	f.messages[m.ConversationID] = append(f.messages[m.ConversationID], *m)

	c.LastMessage = m.Body
	c.LastSenderID = m.SenderID
	at := m.CreatedAt
	c.LastMessageAt = &at
	return nil
}

func (f *fakeConvRepo) ListMessages(_ context.Context, conversationID string) ([]entity.Message, error) {
	out := make([]entity.Message, len(f.messages[conversationID]))
	copy(out, f.messages[conversationID])
	return out, nil
}

type fakeRatingRepo struct {
	ratings []entity.Rating
}

func newFakeRatingRepo() *fakeRatingRepo { return &fakeRatingRepo{} }

func (f *fakeRatingRepo) Create(_ context.Context, r *entity.Rating) error {
	for _, existing := range f.ratings {
		if existing.JobID == r.JobID {
			return apperr.InvalidState("job %s is already rated", r.JobID)
		}
	}
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()
	f.ratings = append(f.ratings, *r)
	return nil
}

func (f *fakeRatingRepo) ExistsForJob(_ context.Context, jobID string) (bool, error) {
	for _, r := range f.ratings {
		if r.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRatingRepo) ListForWorker(_ context.Context, workerID string) ([]entity.Rating, error) {
	var out []entity.Rating
	for _, r := range f.ratings {
		if r.WorkerID == workerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

var (
	_ repository.UserRepository         = (*fakeUserRepo)(nil)
	_ repository.JobRepository          = (*fakeJobRepo)(nil)
	_ repository.ConversationRepository = (*fakeConvRepo)(nil)
	_ repository.RatingRepository       = (*fakeRatingRepo)(nil)
)

type testEnv struct {
	users   *fakeUserRepo
	jobs    *fakeJobRepo
	convs   *fakeConvRepo
	ratings *fakeRatingRepo

	chatSvc   *ChatService
	jobSvc    *JobService
	ratingSvc *RatingService
}

func newTestEnv() *testEnv {
	e := &testEnv{
		users:   newFakeUserRepo(),
		jobs:    newFakeJobRepo(),
		convs:   newFakeConvRepo(),
		ratings: newFakeRatingRepo(),
	}
	logger := testLogger()
	e.chatSvc = NewChatService(e.convs, e.jobs, e.users, nil, nil, logger)
	e.jobSvc = NewJobService(e.jobs, e.users, e.convs, e.chatSvc, nil, nil, nil, "", nil, "", logger)
	e.ratingSvc = NewRatingService(e.ratings, e.jobs, e.users, nil, nil, logger)
	return e
}

func (e *testEnv) addUser(name string) *entity.User {
	u := &entity.User{Email: name + "@example.ni", FullName: name, Password: "x"}
	_ = e.users.Create(context.Background(), u)
	return u
}

func (e *testEnv) addJob(ownerID, title, category string) *entity.Job {
	owner, _ := e.users.GetByID(context.Background(), ownerID)
	j := &entity.Job{
		OwnerID:     owner.ID,
		OwnerName:   owner.FullName,
		Title:       title,
		Description: "d",
		Category:    category,
		Price:       500,
		Location:    "Managua Centro",
		Type:        entity.JobTypeOneTime,
	}
	_ = e.jobs.Create(context.Background(), j)
	return j
}
