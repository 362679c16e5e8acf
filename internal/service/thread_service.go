package service

import (
	"context"
	"fmt"
	"time"

	"github.com/liliang-cn/aichat/internal/domain"
)

// StockThreads returns the built-in thread summaries dated relative to now
func StockThreads(now time.Time) []domain.ChatThread {
	return []domain.ChatThread{
		{
			ID:           "1",
			Title:        "Project Discussion",
			LastMessage:  "Thanks for the information!",
			Timestamp:    now.Add(-2 * time.Hour),
			MessageCount: 12,
		},
		{
			ID:           "2",
			Title:        "Technical Questions",
			LastMessage:  "That makes sense. Let me try that approach.",
			Timestamp:    now.Add(-24 * time.Hour),
			MessageCount: 8,
		},
		{
			ID:           "3",
			Title:        "Code Review Help",
			LastMessage:  "I'll implement those changes.",
			Timestamp:    now.Add(-3 * 24 * time.Hour),
			MessageCount: 15,
		},
	}
}

// MockThreads fabricates the stock threads each time they are listed
type MockThreads struct {
	Now func() time.Time
}

// ListThreads implements domain.ThreadProvider
func (m MockThreads) ListThreads(ctx context.Context) ([]domain.ChatThread, error) {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return StockThreads(now()), nil
}

// ThreadService backs the past threads view
type ThreadService struct {
	provider domain.ThreadProvider
	now      func() time.Time
}

// NewThreadService creates a new thread service
func NewThreadService(provider domain.ThreadProvider, now func() time.Time) *ThreadService {
	if now == nil {
		now = time.Now
	}
	return &ThreadService{provider: provider, now: now}
}

// List returns the threads with their relative timestamps
func (s *ThreadService) List(ctx context.Context) ([]domain.ThreadSummary, error) {
	threads, err := s.provider.ListThreads(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]domain.ThreadSummary, 0, len(threads))
	for _, t := range threads {
		out = append(out, domain.ThreadSummary{
			ChatThread: t,
			Relative:   FormatRelative(t.Timestamp, now),
		})
	}
	return out, nil
}

// Get finds a thread by id
func (s *ThreadService) Get(ctx context.Context, id string) (*domain.ChatThread, error) {
	threads, err := s.provider.ListThreads(ctx)
	if err != nil {
		return nil, err
	}
	for i := range threads {
		if threads[i].ID == id {
			return &threads[i], nil
		}
	}
	return nil, fmt.Errorf("%w: thread %s", domain.ErrNotFound, id)
}

// FormatRelative renders ts relative to now in whole hours or days.
// A week or older falls back to the calendar date in now's location.
func FormatRelative(ts, now time.Time) string {
	hours := int(now.Sub(ts) / time.Hour)
	days := hours / 24

	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return plural(hours, "hour")
	case days < 7:
		return plural(days, "day")
	default:
		return ts.In(now.Location()).Format("1/2/2006")
	}
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
