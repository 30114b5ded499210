package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
	"github.com/chambanica/chambanica-api/internal/domain/repository"
	"github.com/chambanica/chambanica-api/pkg/apperr"
)

// ConversationRepository stores threads with the participant pair normalized
// (lo < hi), which lets the unique index enforce one conversation per
// (job, pair) regardless of who initiated contact.
type ConversationRepository struct {
	pool *pgxpool.Pool
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{pool: pool}
}

func orderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

const convColumns = `id, job_id, job_title, participant_lo, participant_hi, names,
		hired, last_message, last_sender_id, last_message_at, created_at`

func (r *ConversationRepository) Create(ctx context.Context, c *entity.Conversation) error {
	lo, hi := orderPair(c.Participants[0], c.Participants[1])
	row := r.pool.QueryRow(ctx, `
		INSERT INTO conversations (job_id, job_title, participant_lo, participant_hi, names)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, c.JobID, c.JobTitle, lo, hi, c.Names)

	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.InvalidState("conversation already exists for job %s", c.JobID)
		}
		return apperr.Transient(err)
	}
	return nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+convColumns+` FROM conversations WHERE id = $1`, id)
	c, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("conversation %s", id)
		}
		return nil, apperr.Transient(err)
	}
	return c, nil
}

func (r *ConversationRepository) GetByJobAndPair(ctx context.Context, jobID, a, b string) (*entity.Conversation, error) {
	lo, hi := orderPair(a, b)
	row := r.pool.QueryRow(ctx, `
		SELECT `+convColumns+`
		FROM conversations
		WHERE job_id = $1 AND participant_lo = $2 AND participant_hi = $3
	`, jobID, lo, hi)
	c, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("conversation for job %s", jobID)
		}
		return nil, apperr.Transient(err)
	}
	return c, nil
}

func (r *ConversationRepository) ListForUser(ctx context.Context, userID string) ([]entity.Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+convColumns+`
		FROM conversations
		WHERE participant_lo = $1 OR participant_hi = $1
		ORDER BY last_message_at DESC NULLS LAST
	`, userID)
	if err != nil {
		return nil, apperr.Transient(err)
	}
	defer rows.Close()

	var out []entity.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, apperr.Transient(err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient(err)
	}
	return out, nil
}

func scanConversation(row pgx.Row) (*entity.Conversation, error) {
	c := &entity.Conversation{Names: map[string]string{}}
	var lo, hi string
	if err := row.Scan(&c.ID, &c.JobID, &c.JobTitle, &lo, &hi, &c.Names,
		&c.Hired, &c.LastMessage, &c.LastSenderID, &c.LastMessageAt, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Participants = []string{lo, hi}
	return c, nil
}

func (r *ConversationRepository) SetHired(ctx context.Context, conversationID string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE conversations SET hired = TRUE WHERE id = $1
	`, conversationID)
	if err != nil {
		return apperr.Transient(err)
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("conversation %s", conversationID)
	}
	return nil
}

// AppendMessage writes the message and the thread summary in one transaction
// so the conversation list never shows a last message that was not stored.
func (r *ConversationRepository) AppendMessage(ctx context.Context, m *entity.Message) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Transient(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO messages (conversation_id, sender_id, sender_name, body, is_system)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, m.ConversationID, m.SenderID, m.SenderName, m.Body, m.System)
	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		return apperr.Transient(err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE conversations
		SET last_message = $1, last_sender_id = $2, last_message_at = $3
		WHERE id = $4
	`, m.Body, m.SenderID, m.CreatedAt, m.ConversationID); err != nil {
		return apperr.Transient(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Transient(err)
	}
	return nil
}

func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]entity.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, conversation_id, sender_id, sender_name, body, is_system, read, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`, conversationID)
	if err != nil {
		return nil, apperr.Transient(err)
	}
	defer rows.Close()

	var out []entity.Message
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.SenderName,
			&m.Body, &m.System, &m.Read, &m.CreatedAt); err != nil {
			return nil, apperr.Transient(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient(err)
	}
	return out, nil
}

var _ repository.ConversationRepository = (*ConversationRepository)(nil)
