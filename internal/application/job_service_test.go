package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
	"github.com/chambanica/chambanica-api/pkg/apperr"
)

func TestPublishValidation(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	ctx := context.Background()

	valid := PublishJobInput{
		Title:       "Reparación de tubería",
		Description: "Fuga bajo el lavandero",
		Category:    "Plomería",
		Price:       800,
		Location:    "Managua Centro",
	}

	cases := []struct {
		name   string
		mutate func(*PublishJobInput)
	}{
		{"empty title", func(in *PublishJobInput) { in.Title = "  " }},
		{"empty description", func(in *PublishJobInput) { in.Description = "" }},
		{"zero price", func(in *PublishJobInput) { in.Price = 0 }},
		{"negative price", func(in *PublishJobInput) { in.Price = -100 }},
		{"unknown category", func(in *PublishJobInput) { in.Category = "Astrología" }},
		{"unknown location", func(in *PublishJobInput) { in.Location = "Narnia" }},
		{"unknown type", func(in *PublishJobInput) { in.Type = "hourly" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := e.jobSvc.Publish(ctx, owner.ID, in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	job, err := e.jobSvc.Publish(ctx, owner.ID, valid)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusActive, job.Status)
	assert.Equal(t, entity.JobTypeOneTime, job.Type)
	assert.Equal(t, owner.FullName, job.OwnerName)

	refreshed, _ := e.users.GetByID(ctx, owner.ID)
	assert.Equal(t, 1, refreshed.ActivePublications)
}

func TestHireLifecycle(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	stranger := e.addUser("Pedro")
	ctx := context.Background()

	job, err := e.jobSvc.Publish(ctx, owner.ID, PublishJobInput{
		Title: "Instalar abanicos", Description: "Tres abanicos", Category: "Electricidad",
		Price: 1200, Location: "Altamira",
	})
	require.NoError(t, err)

	conv, err := e.chatSvc.OpenConversation(ctx, worker.ID, job.ID, owner.ID)
	require.NoError(t, err)

	// Only the owner may hire.
	_, err = e.jobSvc.Hire(ctx, stranger.ID, job.ID, worker.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	// Owners cannot hire themselves.
	_, err = e.jobSvc.Hire(ctx, owner.ID, job.ID, owner.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	hired, err := e.jobSvc.Hire(ctx, owner.ID, job.ID, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusInProgress, hired.Status)
	assert.Equal(t, worker.ID, hired.HiredWorkerID)
	assert.Equal(t, worker.FullName, hired.HiredWorkerName)
	assert.NotNil(t, hired.HiredAt)

	// Second hire loses the race.
	_, err = e.jobSvc.Hire(ctx, owner.ID, job.ID, stranger.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// Conversation is flagged and carries the system message.
	convAfter, err := e.convs.GetByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.True(t, convAfter.Hired)

	msgs, err := e.convs.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].System)
	assert.Equal(t, entity.SystemSenderID, msgs[0].SenderID)
	assert.Contains(t, msgs[0].Body, "te ha contratado")

	// The posting left the active feed, so the counter drops.
	refreshed, _ := e.users.GetByID(ctx, owner.ID)
	assert.Equal(t, 0, refreshed.ActivePublications)
}

func TestCompleteRequiresInProgress(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	ctx := context.Background()

	job := e.addJob(owner.ID, "Pintura de sala", "Pintura")

	// Completing an active job is out of order.
	_, err := e.jobSvc.Complete(ctx, owner.ID, job.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = e.chatSvc.OpenConversation(ctx, worker.ID, job.ID, owner.ID)
	require.NoError(t, err)
	_, err = e.jobSvc.Hire(ctx, owner.ID, job.ID, worker.ID)
	require.NoError(t, err)

	_, err = e.jobSvc.Complete(ctx, worker.ID, job.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	done, err := e.jobSvc.Complete(ctx, owner.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	// Completion is terminal.
	_, err = e.jobSvc.Complete(ctx, owner.ID, job.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestRejectOnlyPostsSystemMessage(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	ctx := context.Background()

	job := e.addJob(owner.ID, "Mueble a medida", "Carpintería")
	conv, err := e.chatSvc.OpenConversation(ctx, worker.ID, job.ID, owner.ID)
	require.NoError(t, err)

	err = e.jobSvc.Reject(ctx, owner.ID, job.ID, worker.ID)
	require.NoError(t, err)

	// Job state is untouched.
	after, _ := e.jobs.GetByID(ctx, job.ID)
	assert.Equal(t, entity.JobStatusActive, after.Status)
	assert.Empty(t, after.HiredWorkerID)

	msgs, _ := e.convs.ListMessages(ctx, conv.ID)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].System)
	assert.Contains(t, msgs[0].Body, "ha rechazado tu propuesta")

	// The rejected worker can still message and even be hired later.
	_, err = e.chatSvc.SendMessage(ctx, worker.ID, conv.ID, "¿Seguro? Puedo mejorar el precio.")
	assert.NoError(t, err)
	_, err = e.jobSvc.Hire(ctx, owner.ID, job.ID, worker.ID)
	assert.NoError(t, err)
}

func TestDeleteOnlyWhileActive(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	other := e.addUser("Ana")
	ctx := context.Background()

	job, err := e.jobSvc.Publish(ctx, owner.ID, PublishJobInput{
		Title: "Limpieza profunda", Description: "Casa de 3 habitaciones", Category: "Limpieza",
		Price: 1500, Location: "Las Colinas",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, e.jobSvc.Delete(ctx, other.ID, job.ID), apperr.ErrPermissionDenied)

	require.NoError(t, e.jobSvc.Delete(ctx, owner.ID, job.ID))
	_, err = e.jobs.GetByID(ctx, job.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	refreshed, _ := e.users.GetByID(ctx, owner.ID)
	assert.Equal(t, 0, refreshed.ActivePublications)

	// In-progress jobs are part of the record and cannot be deleted.
	job2 := e.addJob(owner.ID, "Jardinería mensual", "Jardinería")
	_, err = e.jobSvc.Hire(ctx, owner.ID, job2.ID, worker.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, e.jobSvc.Delete(ctx, owner.ID, job2.ID), apperr.ErrInvalidState)
}

func TestFeedListsOnlyActiveRanked(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	ctx := context.Background()

	plumbing := e.addJob(owner.ID, "Tubería", "Plomería")
	cleaning := e.addJob(owner.ID, "Limpieza", "Limpieza")
	hiredJob := e.addJob(owner.ID, "Electricidad", "Electricidad")
	_, err := e.jobSvc.Hire(ctx, owner.ID, hiredJob.ID, worker.ID)
	require.NoError(t, err)

	feed, err := e.jobSvc.Feed(ctx, FeedQuery{Preferred: []string{"Plomería"}})
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, plumbing.ID, feed[0].ID)
	assert.Equal(t, cleaning.ID, feed[1].ID)

	// Category filter narrows, preferences never filter.
	feed, err = e.jobSvc.Feed(ctx, FeedQuery{Category: "Limpieza", Preferred: []string{"Plomería"}})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, cleaning.ID, feed[0].ID)
}
