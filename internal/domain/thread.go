package domain

import (
	"context"
	"time"
)

// ChatThread is a past conversation summary
type ChatThread struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	LastMessage  string    `json:"last_message"`
	Timestamp    time.Time `json:"timestamp"`
	MessageCount int       `json:"message_count"`
}

// ThreadSummary is a thread decorated for display
type ThreadSummary struct {
	ChatThread
	Relative string `json:"relative"`
}

// ThreadProvider fetches past conversation summaries
type ThreadProvider interface {
	ListThreads(ctx context.Context) ([]ChatThread, error)
}
