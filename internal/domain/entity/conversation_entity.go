package entity

import (
	"time"
)

// SystemSenderID is the reserved sender for automated lifecycle messages.
const SystemSenderID = "system"

// Conversation is a per-job, per-participant-pair message thread. At most one
// conversation exists per (job, pair); Names maps each participant id to the
// display name shown to the other side.
type Conversation struct {
	ID            string
	JobID         string
	JobTitle      string
	Participants  []string
	Names         map[string]string
	Hired         bool
	LastMessage   string
	LastSenderID  string
	LastMessageAt *time.Time
	CreatedAt     time.Time
}

// Other returns the participant that is not uid, or "" when uid is not a
// participant.
func (c *Conversation) Other(uid string) string {
	for _, p := range c.Participants {
		if p != uid {
			return p
		}
	}
	return ""
}

// HasParticipant reports whether uid takes part in this conversation.
func (c *Conversation) HasParticipant(uid string) bool {
	for _, p := range c.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// Message is an append-only chat entry, ordered by CreatedAt ascending within
// its conversation. System messages carry the SystemSenderID sentinel.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	SenderName     string
	Body           string
	System         bool
	Read           bool
	CreatedAt      time.Time
}
