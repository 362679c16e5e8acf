package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/liliang-cn/aichat/internal/domain"
)

// SessionStore persists sessions and their conversations
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, sessionID string, msg domain.Message) error
	Messages(ctx context.Context, sessionID string) ([]domain.Message, error)
	ResetMessages(ctx context.Context, sessionID string, first domain.Message) error
}

// AuthService handles the login and logout transitions
type AuthService struct {
	store  SessionStore
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store SessionStore, logger *zap.Logger) *AuthService {
	return &AuthService{store: store, logger: logger}
}

// Login opens an authenticated session
func (s *AuthService) Login(ctx context.Context, username string) (*domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidRequest)
	}

	session := &domain.Session{Username: username, Authenticated: true}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Session opened", zap.String("session_id", session.ID), zap.String("username", username))
	return session, nil
}

// Logout ends a session. Logging out an unknown session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("Session closed", zap.String("session_id", sessionID))
	return nil
}

// Session resolves an authenticated session
func (s *AuthService) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !session.Authenticated {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}
