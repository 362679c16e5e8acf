package service

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"

	"github.com/liliang-cn/aichat/internal/domain"
)

// Viewer placeholder texts
const (
	PlaceholderTitle = "PDF Viewer Placeholder"
	PlaceholderHint  = "Document rendering is not available yet. Only the file name was uploaded."
)

// DocumentService backs the PDF browser
type DocumentService struct {
	files  domain.FileProvider
	logger *zap.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(files domain.FileProvider, logger *zap.Logger) *DocumentService {
	return &DocumentService{files: files, logger: logger}
}

// Filter keeps the files whose name contains query, ignoring case
func Filter(files []domain.PdfFile, query string) []domain.PdfFile {
	needle := strings.ToLower(query)
	out := make([]domain.PdfFile, 0, len(files))
	for _, f := range files {
		if strings.Contains(strings.ToLower(f.Name), needle) {
			out = append(out, f)
		}
	}
	return out
}

// IsPDF reports whether an uploaded part declares the PDF media type
func IsPDF(header *multipart.FileHeader) bool {
	mediaType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == domain.MediaTypePDF
}

// List returns the session's files matching query
func (s *DocumentService) List(ctx context.Context, sessionID, query string) ([]domain.PdfFile, error) {
	files, err := s.files.ListFiles(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return Filter(files, query), nil
}

// Upload records the names of the PDF parts and returns them in order.
// Content is never read. The first added name is the new selection.
func (s *DocumentService) Upload(ctx context.Context, sessionID string, headers []*multipart.FileHeader) (*domain.PdfUploadResponse, error) {
	added := []string{}
	for _, h := range headers {
		if !IsPDF(h) {
			s.logger.Debug("Skipping non-PDF upload",
				zap.String("filename", h.Filename),
				zap.String("content_type", h.Header.Get("Content-Type")),
			)
			continue
		}
		added = append(added, h.Filename)
	}

	resp := &domain.PdfUploadResponse{Added: added}
	if len(added) == 0 {
		return resp, nil
	}

	if err := s.files.AddFiles(ctx, sessionID, added); err != nil {
		return nil, err
	}
	resp.Selected = added[0]

	s.logger.Info("PDFs added", zap.String("session_id", sessionID), zap.Strings("files", added))
	return resp, nil
}

// View returns the viewer panel for a file the session can see
func (s *DocumentService) View(ctx context.Context, sessionID, name string) (*domain.PdfView, error) {
	files, err := s.files.ListFiles(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.Name == name {
			return &domain.PdfView{
				Name:        name,
				Placeholder: PlaceholderTitle,
				Hint:        PlaceholderHint,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
}
