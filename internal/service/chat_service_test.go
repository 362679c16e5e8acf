package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/liliang-cn/aichat/internal/domain"
	"github.com/liliang-cn/aichat/internal/workflow"
)

func TestChatMessagesStartWithGreeting(t *testing.T) {
	svc := NewChatService(newMemoryStore(), nil, zap.NewNop())

	msgs, err := svc.Messages(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Message{domain.GreetingMessage()}, msgs)

	// Reading again does not add a second greeting
	msgs, err = svc.Messages(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestChatSendAppendsUserThenAssistant(t *testing.T) {
	var gotCity string
	starter := starterFunc(func(ctx context.Context, city string) (workflow.Reply, error) {
		gotCity = city
		return workflow.ListActivities{Items: []string{"a", "1"}}, nil
	})
	svc := NewChatService(newMemoryStore(), starter, zap.NewNop())
	ctx := context.Background()

	before, err := svc.Messages(ctx, "s1")
	require.NoError(t, err)

	resp, err := svc.Send(ctx, "s1", "  Tokyo  ")
	require.NoError(t, err)

	assert.Equal(t, "Tokyo", gotCity)
	assert.Equal(t, "a\n1", resp.Reply)
	require.Len(t, resp.Messages, len(before)+2)
	assert.Equal(t, domain.Message{Role: domain.RoleUser, Content: "Tokyo"}, resp.Messages[len(before)])
	assert.Equal(t, domain.Message{Role: domain.RoleAssistant, Content: "a\n1"}, resp.Messages[len(before)+1])
	assert.False(t, svc.Loading("s1"))
}

func TestChatSendWorkflowFailure(t *testing.T) {
	starter := starterFunc(func(ctx context.Context, city string) (workflow.Reply, error) {
		return nil, &workflow.StatusError{StatusCode: 500}
	})
	svc := NewChatService(newMemoryStore(), starter, zap.NewNop())

	resp, err := svc.Send(context.Background(), "s1", "Paris")
	require.NoError(t, err)

	assert.Equal(t, domain.Apology, resp.Reply)
	assert.Equal(t, domain.Apology, resp.Messages[len(resp.Messages)-1].Content)
	assert.False(t, svc.Loading("s1"))
}

func TestChatSendRejectsBlankInput(t *testing.T) {
	called := false
	starter := starterFunc(func(ctx context.Context, city string) (workflow.Reply, error) {
		called = true
		return workflow.NoPayload{}, nil
	})
	store := newMemoryStore()
	svc := NewChatService(store, starter, zap.NewNop())

	_, err := svc.Send(context.Background(), "s1", "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	assert.False(t, called)

	msgs, _ := store.Messages(context.Background(), "s1")
	assert.Empty(t, msgs)
}

func TestChatSendIsExclusivePerSession(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	starter := starterFunc(func(ctx context.Context, city string) (workflow.Reply, error) {
		close(entered)
		<-release
		return workflow.TextActivities{Text: "done"}, nil
	})
	svc := NewChatService(newMemoryStore(), starter, zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Send(ctx, "s1", "first")
		assert.NoError(t, err)
	}()

	<-entered
	assert.True(t, svc.Loading("s1"))

	_, err := svc.Send(ctx, "s1", "second")
	assert.ErrorIs(t, err, domain.ErrBusy)

	// Other sessions are unaffected
	assert.False(t, svc.Loading("s2"))

	close(release)
	wg.Wait()
	assert.False(t, svc.Loading("s1"))

	state, err := svc.State(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, state.Messages, 3)
	assert.False(t, state.Loading)
}

func TestChatSendSurvivesCallerCancel(t *testing.T) {
	starter := starterFunc(func(ctx context.Context, city string) (workflow.Reply, error) {
		if ctx.Err() != nil {
			return nil, errors.New("cancelled")
		}
		return workflow.StartedRun{ID: "run-9"}, nil
	})
	svc := NewChatService(newMemoryStore(), starter, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	resp, err := svc.Send(ctx, "s1", "Quito")
	require.NoError(t, err)
	assert.Equal(t, "Workflow started. Id: run-9", resp.Reply)
}

func TestNewChatResetsToGreeting(t *testing.T) {
	starter := starterFunc(func(ctx context.Context, city string) (workflow.Reply, error) {
		return workflow.TextActivities{Text: "ok"}, nil
	})
	svc := NewChatService(newMemoryStore(), starter, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Send(ctx, "s1", "Lisbon")
	require.NoError(t, err)

	msgs, err := svc.NewChat(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Message{domain.GreetingMessage()}, msgs)

	msgs, err = svc.Messages(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Message{domain.GreetingMessage()}, msgs)
}
