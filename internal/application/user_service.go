package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
	"github.com/chambanica/chambanica-api/internal/domain/repository"
	"github.com/chambanica/chambanica-api/pkg/apperr"
	"github.com/chambanica/chambanica-api/pkg/helpers"
)

func sessionKey(sid string) string { return "session:" + sid }

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Bio      string
}

// UpdateProfileInput carries the editable profile fields. Empty strings leave
// the stored value unchanged.
type UpdateProfileInput struct {
	FullName string
	Phone    string
	Bio      string
}

// TokenPair is an issued access/refresh token set bound to a redis session.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	SessionID        string
}

// UserService handles accounts, credentials and sessions. A login creates a
// redis session keyed by a random id that both tokens carry; revoking the
// session invalidates every token minted for it.
type UserService struct {
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
	Redis   *redis.Client
	Storage *storage.Client
	Bucket  string
	Logger  *logrus.Logger
}

func NewUserService(users repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, gcs *storage.Client, bucket string, logger *logrus.Logger) *UserService {
	return &UserService{
		Users:   users,
		JWT:     jwt,
		Redis:   rdb,
		Storage: gcs,
		Bucket:  bucket,
		Logger:  logger,
	}
}

// Register creates an account with a hashed password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	switch {
	case in.Email == "":
		return nil, apperr.Validation("email is required")
	case in.FullName == "":
		return nil, apperr.Validation("full name is required")
	case len(in.Password) < 8:
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Validation("email %s is already registered", in.Email)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Email:    in.Email,
		Password: hash,
		FullName: in.FullName,
		Phone:    strings.TrimSpace(in.Phone),
		Bio:      strings.TrimSpace(in.Bio),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.Logger.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// Login verifies credentials and opens a session. The error is deliberately
// identical for unknown email and wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil, apperr.Validation("invalid email or password")
		}
		return nil, nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, nil, apperr.Validation("invalid email or password")
	}

	pair, err := s.openSession(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}

	s.Logger.WithField("user_id", u.ID).Info("user logged in")
	return u, pair, nil
}

// Refresh rotates the token pair for an existing session. The session id is
// preserved so a revocation still covers the new tokens.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.PermissionDenied("invalid refresh token")
	}
	active, err := s.SessionActive(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, apperr.PermissionDenied("session expired")
	}
	return s.issueTokens(ctx, claims.UserID, claims.SessionID)
}

// Logout revokes the session, invalidating all tokens minted for it.
func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	if s.Redis == nil || sessionID == "" {
		return nil
	}
	if err := helpers.RedisDel(ctx, s.Redis, sessionKey(sessionID)); err != nil {
		return apperr.Transient(err)
	}
	return nil
}

// SessionActive reports whether the session is still present in redis.
func (s *UserService) SessionActive(ctx context.Context, sessionID string) (bool, error) {
	if s.Redis == nil {
		// No session store configured: fall back to pure JWT validation.
		return true, nil
	}
	if sessionID == "" {
		return false, nil
	}
	n, err := s.Redis.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, apperr.Transient(err)
	}
	return n > 0, nil
}

// Profile returns a user's public profile.
func (s *UserService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	return s.Users.GetByID(ctx, userID)
}

// UpdateProfile applies the non-empty fields of in to the actor's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.FullName); v != "" {
		u.FullName = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		u.Phone = v
	}
	if v := strings.TrimSpace(in.Bio); v != "" {
		u.Bio = v
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UploadAvatar stores a profile picture and saves its public URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	if s.Storage == nil || s.Bucket == "" {
		return "", apperr.Transient(errors.New("object storage not configured"))
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	object := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), path.Ext(filename))
	url, err := helpers.UploadObject(ctx, s.Storage, s.Bucket, object, contentType, r)
	if err != nil {
		return "", apperr.Transient(err)
	}
	u.AvatarURL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	return url, nil
}

func (s *UserService) openSession(ctx context.Context, userID string) (*TokenPair, error) {
	sid := uuid.NewString()
	if s.Redis != nil {
		if err := s.Redis.Set(ctx, sessionKey(sid), userID, s.JWT.RefreshTTL).Err(); err != nil {
			return nil, apperr.Transient(err)
		}
	}
	return s.issueTokens(ctx, userID, sid)
}

func (s *UserService) issueTokens(ctx context.Context, userID, sessionID string) (*TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	if s.Redis != nil {
		// Keep the session alive as long as the newest refresh token.
		if err := s.Redis.Expire(ctx, sessionKey(sessionID), s.JWT.RefreshTTL).Err(); err != nil {
			s.Logger.WithError(err).Warn("session ttl refresh failed")
		}
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  aexp,
		RefreshToken:     refresh,
		RefreshExpiresAt: rexp,
		SessionID:        sessionID,
	}, nil
}
