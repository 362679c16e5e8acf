package repository

import (
	"context"
	"fmt"

	"github.com/liliang-cn/aichat/internal/domain"
)

// ThreadRepository serves past thread summaries from the database
type ThreadRepository struct {
	db *DB
}

// NewThreadRepository creates a new thread repository
func NewThreadRepository(db *DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

// SeedThreads writes summaries whose ids are not stored yet
func (r *ThreadRepository) SeedThreads(ctx context.Context, threads []domain.ChatThread) error {
	for _, t := range threads {
		if _, err := r.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO threads (id, title, last_message, message_count, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, t.ID, t.Title, t.LastMessage, t.MessageCount, t.Timestamp.UTC()); err != nil {
			return fmt.Errorf("failed to seed thread %s: %w", t.ID, err)
		}
	}
	return nil
}

// ListThreads returns all threads, most recent first
func (r *ThreadRepository) ListThreads(ctx context.Context) ([]domain.ChatThread, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, last_message, message_count, updated_at
		FROM threads ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query threads: %w", err)
	}
	defer rows.Close()

	threads := []domain.ChatThread{}
	for rows.Next() {
		var t domain.ChatThread
		if err := rows.Scan(&t.ID, &t.Title, &t.LastMessage, &t.MessageCount, &t.Timestamp); err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}

	return threads, rows.Err()
}
