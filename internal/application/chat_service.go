package application

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
	"github.com/chambanica/chambanica-api/internal/domain/repository"
	"github.com/chambanica/chambanica-api/pkg/apperr"
	"github.com/chambanica/chambanica-api/pkg/helpers"
	"github.com/chambanica/chambanica-api/pkg/notify"
)

const systemSenderName = "Sistema"

const messagePreviewLen = 80

// ChatService manages per-job conversations and their messages. Every
// successful mutation publishes a change notification so watchers can
// re-query.
type ChatService struct {
	Conversations repository.ConversationRepository
	Jobs          repository.JobRepository
	Users         repository.UserRepository
	Redis         *redis.Client
	Publisher     *helpers.RabbitPublisher
	Logger        *logrus.Logger
}

func NewChatService(conversations repository.ConversationRepository, jobs repository.JobRepository, users repository.UserRepository, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger) *ChatService {
	return &ChatService{
		Conversations: conversations,
		Jobs:          jobs,
		Users:         users,
		Redis:         rdb,
		Publisher:     pub,
		Logger:        logger,
	}
}

// OpenConversation returns the conversation between actor and other for a
// job, creating it on first contact. The call is idempotent: repeated opens
// for the same (job, pair) yield the same conversation.
func (s *ChatService) OpenConversation(ctx context.Context, actorID, jobID, otherID string) (*entity.Conversation, error) {
	if actorID == otherID {
		return nil, apperr.Validation("cannot open a conversation with yourself")
	}
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.OwnerID != actorID && job.OwnerID != otherID {
		return nil, apperr.Validation("neither participant owns job %s", jobID)
	}

	existing, err := s.Conversations.GetByJobAndPair(ctx, jobID, actorID, otherID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	actor, err := s.Users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	other, err := s.Users.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}

	conv := &entity.Conversation{
		JobID:        jobID,
		JobTitle:     job.Title,
		Participants: []string{actorID, otherID},
		Names: map[string]string{
			actorID: actor.FullName,
			otherID: other.FullName,
		},
	}
	if err := s.Conversations.Create(ctx, conv); err != nil {
		// Lost a concurrent first-contact race; the winner's row is the one.
		if errors.Is(err, apperr.ErrInvalidState) {
			return s.Conversations.GetByJobAndPair(ctx, jobID, actorID, otherID)
		}
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{
		"conversation_id": conv.ID,
		"job_id":          jobID,
	}).Info("conversation opened")

	publishChange(ctx, s.Redis, s.Logger,
		helpers.ChannelConversations(actorID),
		helpers.ChannelConversations(otherID),
	)
	return conv, nil
}

// SendMessage appends a user message to a conversation. The sender must be a
// participant and the body must contain non-whitespace text.
func (s *ChatService) SendMessage(ctx context.Context, senderID, conversationID, body string) (*entity.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.Validation("message body is empty")
	}
	conv, err := s.Conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, apperr.PermissionDenied("user %s is not a participant of conversation %s", senderID, conversationID)
	}

	msg := &entity.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderName:     conv.Names[senderID],
		Body:           body,
	}
	if err := s.Conversations.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	enqueueNotification(ctx, s.Publisher, s.Users, s.Logger, conv.Other(senderID), notify.Job{
		Event: notify.EventNewMessage,
		Data: map[string]any{
			"sender_name": msg.SenderName,
			"job_title":   conv.JobTitle,
			"preview":     preview(body),
		},
	})

	publishChange(ctx, s.Redis, s.Logger,
		helpers.ChannelMessages(conversationID),
		helpers.ChannelConversations(conv.Participants[0]),
		helpers.ChannelConversations(conv.Participants[1]),
	)
	return msg, nil
}

// PostSystemMessage appends an automated lifecycle message to a conversation.
func (s *ChatService) PostSystemMessage(ctx context.Context, conversationID, body string) error {
	conv, err := s.Conversations.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	msg := &entity.Message{
		ConversationID: conversationID,
		SenderID:       entity.SystemSenderID,
		SenderName:     systemSenderName,
		Body:           body,
		System:         true,
	}
	if err := s.Conversations.AppendMessage(ctx, msg); err != nil {
		return err
	}
	publishChange(ctx, s.Redis, s.Logger,
		helpers.ChannelMessages(conversationID),
		helpers.ChannelConversations(conv.Participants[0]),
		helpers.ChannelConversations(conv.Participants[1]),
	)
	return nil
}

// ListConversations returns the user's conversations, most recent first.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]entity.Conversation, error) {
	return s.Conversations.ListForUser(ctx, userID)
}

// ListMessages returns a conversation's messages in chronological order. Only
// participants may read a thread.
func (s *ChatService) ListMessages(ctx context.Context, actorID, conversationID string) ([]entity.Message, error) {
	conv, err := s.Conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(actorID) {
		return nil, apperr.PermissionDenied("user %s is not a participant of conversation %s", actorID, conversationID)
	}
	return s.Conversations.ListMessages(ctx, conversationID)
}

// WatchConversations streams snapshots of the user's conversation list until
// ctx is cancelled.
func (s *ChatService) WatchConversations(ctx context.Context, userID string) (<-chan []entity.Conversation, error) {
	return watchSnapshots(ctx, s.Redis, s.Logger, helpers.ChannelConversations(userID), func(ctx context.Context) ([]entity.Conversation, error) {
		return s.Conversations.ListForUser(ctx, userID)
	})
}

// WatchMessages streams snapshots of a conversation's messages until ctx is
// cancelled. Only participants may subscribe.
func (s *ChatService) WatchMessages(ctx context.Context, actorID, conversationID string) (<-chan []entity.Message, error) {
	conv, err := s.Conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(actorID) {
		return nil, apperr.PermissionDenied("user %s is not a participant of conversation %s", actorID, conversationID)
	}
	return watchSnapshots(ctx, s.Redis, s.Logger, helpers.ChannelMessages(conversationID), func(ctx context.Context) ([]entity.Message, error) {
		return s.Conversations.ListMessages(ctx, conversationID)
	})
}

func preview(body string) string {
	if len(body) <= messagePreviewLen {
		return body
	}
	return body[:messagePreviewLen] + "…"
}
