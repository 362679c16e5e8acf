package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/liliang-cn/aichat/internal/domain"
)

// FileRepository stores PDF filenames. Seeded names have no session and
// are visible to everyone; uploads belong to the session that made them.
type FileRepository struct {
	db *DB
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *DB) *FileRepository {
	return &FileRepository{db: db}
}

// Seed inserts the stock filenames once
func (r *FileRepository) Seed(ctx context.Context, names []string) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pdf_files WHERE session_id IS NULL`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count seed files: %w", err)
	}
	if count > 0 {
		return nil
	}
	return r.insert(ctx, sql.NullString{}, names)
}

// ListFiles returns the seeded names followed by the session's uploads
func (r *FileRepository) ListFiles(ctx context.Context, sessionID string) ([]domain.PdfFile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name FROM pdf_files
		WHERE session_id IS NULL OR session_id = ?
		ORDER BY (session_id IS NOT NULL), seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	files := []domain.PdfFile{}
	for rows.Next() {
		var f domain.PdfFile
		if err := rows.Scan(&f.Name); err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return files, rows.Err()
}

// AddFiles appends uploaded names for a session
func (r *FileRepository) AddFiles(ctx context.Context, sessionID string, names []string) error {
	return r.insert(ctx, sql.NullString{String: sessionID, Valid: true}, names)
}

func (r *FileRepository) insert(ctx context.Context, sessionID sql.NullString, names []string) error {
	if len(names) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin insert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pdf_files (session_id, name, created_at) VALUES (?, ?, ?)
		`, sessionID, name, now); err != nil {
			return fmt.Errorf("failed to insert file %q: %w", name, err)
		}
	}

	return tx.Commit()
}
