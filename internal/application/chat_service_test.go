package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chambanica/chambanica-api/pkg/apperr"
)

func TestOpenConversationIdempotent(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	ctx := context.Background()

	job := e.addJob(owner.ID, "Tubería", "Plomería")

	first, err := e.chatSvc.OpenConversation(ctx, worker.ID, job.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Title, first.JobTitle)
	assert.Equal(t, worker.FullName, first.Names[worker.ID])
	assert.Equal(t, owner.FullName, first.Names[owner.ID])

	// Opening again, from either side, yields the same thread.
	again, err := e.chatSvc.OpenConversation(ctx, worker.ID, job.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	reversed, err := e.chatSvc.OpenConversation(ctx, owner.ID, job.ID, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, reversed.ID)
}

func TestOpenConversationRejectsSelfAndNonOwners(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	other := e.addUser("Ana")
	ctx := context.Background()

	job := e.addJob(owner.ID, "Tubería", "Plomería")

	_, err := e.chatSvc.OpenConversation(ctx, worker.ID, job.ID, worker.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// A thread needs the job owner on one side.
	_, err = e.chatSvc.OpenConversation(ctx, worker.ID, job.ID, other.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = e.chatSvc.OpenConversation(ctx, worker.ID, "missing", owner.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSendMessageRules(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	outsider := e.addUser("Pedro")
	ctx := context.Background()

	job := e.addJob(owner.ID, "Tubería", "Plomería")
	conv, err := e.chatSvc.OpenConversation(ctx, worker.ID, job.ID, owner.ID)
	require.NoError(t, err)

	for _, body := range []string{"", "   ", "\n\t"} {
		_, err := e.chatSvc.SendMessage(ctx, worker.ID, conv.ID, body)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}

	_, err = e.chatSvc.SendMessage(ctx, outsider.ID, conv.ID, "hola")
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	msg, err := e.chatSvc.SendMessage(ctx, worker.ID, conv.ID, "  Buenas, puedo pasar mañana.  ")
	require.NoError(t, err)
	assert.Equal(t, "Buenas, puedo pasar mañana.", msg.Body)
	assert.Equal(t, worker.FullName, msg.SenderName)
	assert.False(t, msg.System)

	// Summary fields follow the newest message.
	convAfter, _ := e.convs.GetByID(ctx, conv.ID)
	assert.Equal(t, msg.Body, convAfter.LastMessage)
	assert.Equal(t, worker.ID, convAfter.LastSenderID)
	require.NotNil(t, convAfter.LastMessageAt)
}

func TestListMessagesOrderedAndGuarded(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	outsider := e.addUser("Pedro")
	ctx := context.Background()

	job := e.addJob(owner.ID, "Tubería", "Plomería")
	conv, err := e.chatSvc.OpenConversation(ctx, worker.ID, job.ID, owner.ID)
	require.NoError(t, err)

	_, err = e.chatSvc.SendMessage(ctx, worker.ID, conv.ID, "primero")
	require.NoError(t, err)
	_, err = e.chatSvc.SendMessage(ctx, owner.ID, conv.ID, "segundo")
	require.NoError(t, err)

	msgs, err := e.chatSvc.ListMessages(ctx, worker.ID, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "primero", msgs[0].Body)
	assert.Equal(t, "segundo", msgs[1].Body)

	_, err = e.chatSvc.ListMessages(ctx, outsider.ID, conv.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestListConversationsMostRecentFirst(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	ctx := context.Background()

	jobA := e.addJob(owner.ID, "Tubería", "Plomería")
	jobB := e.addJob(owner.ID, "Pintura", "Pintura")

	convA, err := e.chatSvc.OpenConversation(ctx, worker.ID, jobA.ID, owner.ID)
	require.NoError(t, err)
	convB, err := e.chatSvc.OpenConversation(ctx, worker.ID, jobB.ID, owner.ID)
	require.NoError(t, err)

	_, err = e.chatSvc.SendMessage(ctx, worker.ID, convA.ID, "sobre la tubería")
	require.NoError(t, err)
	_, err = e.chatSvc.SendMessage(ctx, worker.ID, convB.ID, "sobre la pintura")
	require.NoError(t, err)

	convs, err := e.chatSvc.ListConversations(ctx, worker.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, convB.ID, convs[0].ID)
	assert.Equal(t, convA.ID, convs[1].ID)
}
