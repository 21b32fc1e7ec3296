package service

import (
	"context"

	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
	"github.com/itchan-dev/itboard/internal/logger"
)

type SessionService interface {
	Create(ctx context.Context, user domain.User) (string, error)
	Resolve(ctx context.Context, token string) (*domain.User, error)
	Destroy(ctx context.Context, token string) error
}

type Session struct {
	store SessionStore
	jwt   Jwt
	users UserFinder
}

type SessionStore interface {
	Create(ctx context.Context, userId domain.UserId) (string, error)
	UserId(ctx context.Context, sid string) (domain.UserId, bool, error)
	Delete(ctx context.Context, sid string) error
}

type Jwt interface {
	NewToken(sid string) (string, error)
	DecodeToken(token string) (string, error)
}

type UserFinder interface {
	FindById(ctx context.Context, id domain.UserId) (domain.User, error)
}

func NewSession(store SessionStore, jwt Jwt, users UserFinder) *Session {
	return &Session{store: store, jwt: jwt, users: users}
}

// Create opens a session for user and returns the signed cookie value.
func (s *Session) Create(ctx context.Context, user domain.User) (string, error) {
	sid, err := s.store.Create(ctx, user.Id)
	if err != nil {
		return "", err
	}

	token, err := s.jwt.NewToken(sid)
	if err != nil {
		if delErr := s.store.Delete(ctx, sid); delErr != nil {
			logger.Log.Warn("failed to drop unused session", "error", delErr)
		}
		return "", err
	}
	return token, nil
}

// Resolve returns the logged-in user, or nil for an anonymous request.
// Bad signatures, expired sessions and deleted accounts are all anonymous.
func (s *Session) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	sid, err := s.jwt.DecodeToken(token)
	if err != nil {
		return nil, nil
	}

	userId, ok, err := s.store.UserId(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	user, err := s.users.FindById(ctx, userId)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			if delErr := s.store.Delete(ctx, sid); delErr != nil {
				logger.Log.Warn("failed to drop session of removed user", "user_id", userId, "error", delErr)
			}
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Destroy invalidates the session named by token. Unknown or malformed
// tokens are ignored.
func (s *Session) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sid, err := s.jwt.DecodeToken(token)
	if err != nil {
		return nil
	}
	return s.store.Delete(ctx, sid)
}
