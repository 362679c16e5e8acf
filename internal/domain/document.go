package domain

import "context"

// MediaTypePDF is the only media type the PDF browser accepts
const MediaTypePDF = "application/pdf"

// DefaultSeedFiles are the filenames every session starts with
var DefaultSeedFiles = []string{
	"sample-document-1.pdf",
	"sample-document-2.pdf",
	"technical-manual.pdf",
}

// PdfFile is a PDF known to the browser. Only the name is kept.
type PdfFile struct {
	Name string `json:"name"`
}

// PdfListResponse is the response for listing PDFs
type PdfListResponse struct {
	Files    []PdfFile `json:"files"`
	Query    string    `json:"query,omitempty"`
	Selected string    `json:"selected,omitempty"`
}

// PdfUploadResponse is the response for a PDF upload
type PdfUploadResponse struct {
	Added    []string `json:"added"`
	Selected string   `json:"selected,omitempty"`
}

// PdfView is the viewer panel for a selected file
type PdfView struct {
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	Hint        string `json:"hint"`
}

// FileProvider lists and records the PDFs visible to a session
type FileProvider interface {
	ListFiles(ctx context.Context, sessionID string) ([]PdfFile, error)
	AddFiles(ctx context.Context, sessionID string, names []string) error
}
