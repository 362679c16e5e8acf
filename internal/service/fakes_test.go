package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/liliang-cn/aichat/internal/domain"
	"github.com/liliang-cn/aichat/internal/workflow"
)

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	messages map[string][]domain.Message
	files    map[string][]string
	seeds    []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions: make(map[string]*domain.Session),
		messages: make(map[string][]domain.Message),
		files:    make(map[string][]string),
		seeds:    append([]string(nil), domain.DefaultSeedFiles...),
	}
}

func (m *memoryStore) Create(ctx context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.messages, id)
	delete(m.files, id)
	return nil
}

func (m *memoryStore) AppendMessage(ctx context.Context, sessionID string, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[sessionID] = append(m.messages[sessionID], msg)
	return nil
}

func (m *memoryStore) Messages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Message(nil), m.messages[sessionID]...), nil
}

func (m *memoryStore) ResetMessages(ctx context.Context, sessionID string, first domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[sessionID] = []domain.Message{first}
	return nil
}

func (m *memoryStore) ListFiles(ctx context.Context, sessionID string) ([]domain.PdfFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PdfFile
	for _, name := range append(append([]string(nil), m.seeds...), m.files[sessionID]...) {
		out = append(out, domain.PdfFile{Name: name})
	}
	return out, nil
}

func (m *memoryStore) AddFiles(ctx context.Context, sessionID string, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[sessionID] = append(m.files[sessionID], names...)
	return nil
}

type starterFunc func(ctx context.Context, city string) (workflow.Reply, error)

func (f starterFunc) Start(ctx context.Context, city string) (workflow.Reply, error) {
	return f(ctx, city)
}
