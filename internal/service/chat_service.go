package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/liliang-cn/aichat/internal/domain"
	"github.com/liliang-cn/aichat/internal/workflow"
)

// ChatService runs chat turns against the workflow service
type ChatService struct {
	store    SessionStore
	workflow workflow.Starter
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewChatService creates a new chat service
func NewChatService(store SessionStore, starter workflow.Starter, logger *zap.Logger) *ChatService {
	return &ChatService{
		store:    store,
		workflow: starter,
		logger:   logger,
		inFlight: make(map[string]bool),
	}
}

// Messages returns the session's conversation, starting it with the greeting if empty
func (s *ChatService) Messages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	msgs, err := s.store.Messages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(msgs) > 0 {
		return msgs, nil
	}

	greeting := domain.GreetingMessage()
	if err := s.store.AppendMessage(ctx, sessionID, greeting); err != nil {
		return nil, err
	}
	return []domain.Message{greeting}, nil
}

// State returns the conversation and whether a turn is waiting on the workflow
func (s *ChatService) State(ctx context.Context, sessionID string) (*domain.ChatState, error) {
	msgs, err := s.Messages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &domain.ChatState{Messages: msgs, Loading: s.Loading(sessionID)}, nil
}

// Loading reports whether a turn is in flight for the session
func (s *ChatService) Loading(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[sessionID]
}

// Send runs one chat turn: the user message is appended at once, the
// assistant reply after the workflow call resolves. A workflow failure
// becomes the apology message, never an error.
func (s *ChatService) Send(ctx context.Context, sessionID, input string) (*domain.ChatResponse, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	if !s.begin(sessionID) {
		return nil, domain.ErrBusy
	}
	defer s.end(sessionID)

	// The turn outlives a client that goes away mid-request
	ctx = context.WithoutCancel(ctx)

	if _, err := s.Messages(ctx, sessionID); err != nil {
		return nil, err
	}
	if err := s.store.AppendMessage(ctx, sessionID, domain.Message{Role: domain.RoleUser, Content: text}); err != nil {
		return nil, err
	}

	reply := domain.Apology
	result, err := s.workflow.Start(ctx, text)
	if err != nil {
		s.logger.Warn("Workflow call failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	} else {
		reply = workflow.Format(result)
	}

	if err := s.store.AppendMessage(ctx, sessionID, domain.Message{Role: domain.RoleAssistant, Content: reply}); err != nil {
		return nil, err
	}

	msgs, err := s.store.Messages(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &domain.ChatResponse{Reply: reply, Messages: msgs}, nil
}

// NewChat resets the conversation to the greeting alone
func (s *ChatService) NewChat(ctx context.Context, sessionID string) ([]domain.Message, error) {
	greeting := domain.GreetingMessage()
	if err := s.store.ResetMessages(ctx, sessionID, greeting); err != nil {
		return nil, err
	}
	return []domain.Message{greeting}, nil
}

func (s *ChatService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[sessionID] {
		return false
	}
	s.inFlight[sessionID] = true
	return true
}

func (s *ChatService) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}
