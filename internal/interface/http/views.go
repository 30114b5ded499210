package handlers

import (
	"time"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
)

// Wire representations of the domain entities. Password hashes and other
// internal fields never leave this layer.

type userView struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	FullName           string    `json:"full_name"`
	Phone              string    `json:"phone,omitempty"`
	Bio                string    `json:"bio,omitempty"`
	AvatarURL          string    `json:"avatar_url,omitempty"`
	Rating             float64   `json:"rating"`
	CompletedJobs      int       `json:"completed_jobs"`
	ActivePublications int       `json:"active_publications"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toUserView(u *entity.User) userView {
	return userView{
		ID:                 u.ID,
		Email:              u.Email,
		FullName:           u.FullName,
		Phone:              u.Phone,
		Bio:                u.Bio,
		AvatarURL:          u.AvatarURL,
		Rating:             u.Rating,
		CompletedJobs:      u.CompletedJobs,
		ActivePublications: u.ActivePublications,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

type jobView struct {
	ID                 string     `json:"id"`
	OwnerID            string     `json:"owner_id"`
	OwnerName          string     `json:"owner_name"`
	OwnerRating        float64    `json:"owner_rating"`
	OwnerCompletedJobs int        `json:"owner_completed_jobs"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Category           string     `json:"category"`
	Price              int64      `json:"price"`
	PriceDisplay       string     `json:"price_display"`
	Location           string     `json:"location"`
	Images             []string   `json:"images,omitempty"`
	Status             string     `json:"status"`
	Type               string     `json:"type"`
	PreferredDate      string     `json:"preferred_date,omitempty"`
	HiredWorkerID      string     `json:"hired_worker_id,omitempty"`
	HiredWorkerName    string     `json:"hired_worker_name,omitempty"`
	HiredAt            *time.Time `json:"hired_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toJobView(j *entity.Job) jobView {
	return jobView{
		ID:                 j.ID,
		OwnerID:            j.OwnerID,
		OwnerName:          j.OwnerName,
		OwnerRating:        j.OwnerRating,
		OwnerCompletedJobs: j.OwnerCompletedJobs,
		Title:              j.Title,
		Description:        j.Description,
		Category:           j.Category,
		Price:              j.Price,
		PriceDisplay:       entity.FormatPrice(j.Price),
		Location:           j.Location,
		Images:             j.Images,
		Status:             string(j.Status),
		Type:               string(j.Type),
		PreferredDate:      j.PreferredDate,
		HiredWorkerID:      j.HiredWorkerID,
		HiredWorkerName:    j.HiredWorkerName,
		HiredAt:            j.HiredAt,
		CompletedAt:        j.CompletedAt,
		CreatedAt:          j.CreatedAt,
		UpdatedAt:          j.UpdatedAt,
	}
}

func toJobViews(jobs []entity.Job) []jobView {
	out := make([]jobView, len(jobs))
	for i := range jobs {
		out[i] = toJobView(&jobs[i])
	}
	return out
}

type conversationView struct {
	ID            string            `json:"id"`
	JobID         string            `json:"job_id"`
	JobTitle      string            `json:"job_title"`
	Participants  []string          `json:"participants"`
	Names         map[string]string `json:"names"`
	Hired         bool              `json:"hired"`
	LastMessage   string            `json:"last_message,omitempty"`
	LastSenderID  string            `json:"last_sender_id,omitempty"`
	LastMessageAt *time.Time        `json:"last_message_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

func toConversationView(c *entity.Conversation) conversationView {
	return conversationView{
		ID:            c.ID,
		JobID:         c.JobID,
		JobTitle:      c.JobTitle,
		Participants:  c.Participants,
		Names:         c.Names,
		Hired:         c.Hired,
		LastMessage:   c.LastMessage,
		LastSenderID:  c.LastSenderID,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}

func toConversationViews(cs []entity.Conversation) []conversationView {
	out := make([]conversationView, len(cs))
	for i := range cs {
		out[i] = toConversationView(&cs[i])
	}
	return out
}

type messageView struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	Body           string    `json:"body"`
	System         bool      `json:"system"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

func toMessageView(m *entity.Message) messageView {
	return messageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		SenderName:     m.SenderName,
		Body:           m.Body,
		System:         m.System,
		Read:           m.Read,
		CreatedAt:      m.CreatedAt,
	}
}

func toMessageViews(ms []entity.Message) []messageView {
	out := make([]messageView, len(ms))
	for i := range ms {
		out[i] = toMessageView(&ms[i])
	}
	return out
}

type ratingView struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	JobTitle  string    `json:"job_title"`
	WorkerID  string    `json:"worker_id"`
	RaterID   string    `json:"rater_id"`
	RaterName string    `json:"rater_name"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toRatingView(r *entity.Rating) ratingView {
	return ratingView{
		ID:        r.ID,
		JobID:     r.JobID,
		JobTitle:  r.JobTitle,
		WorkerID:  r.WorkerID,
		RaterID:   r.RaterID,
		RaterName: r.RaterName,
		Score:     r.Score,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func toRatingViews(rs []entity.Rating) []ratingView {
	out := make([]ratingView, len(rs))
	for i := range rs {
		out[i] = toRatingView(&rs[i])
	}
	return out
}
