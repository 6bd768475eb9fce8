package models

import "time"

// CompileResponse is the record returned to callers of a compile.
type CompileResponse struct {
	PreviewHTML string          `json:"previewHtml"`
	PDFURL      string          `json:"pdfUrl"`
	Metadata    CompileMetadata `json:"metadata"`
}

// CompileMetadata describes a rendered document.
type CompileMetadata struct {
	GeneratedAt string `json:"generatedAt"`
	LatexLength int    `json:"latexLength"`
}

// NewCompileResponse projects a rendered document onto the public output record.
func NewCompileResponse(doc *RenderedDocument) CompileResponse {
	return CompileResponse{
		PreviewHTML: doc.PreviewHTML,
		PDFURL:      doc.PDFDataURI,
		Metadata: CompileMetadata{
			GeneratedAt: doc.GeneratedAt.UTC().Format(time.RFC3339Nano),
			LatexLength: doc.LatexLength,
		},
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// FieldProblem names one rejected input field.
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string         `json:"error"`
	Message   string         `json:"message"`
	Fields    []FieldProblem `json:"fields,omitempty"`
	RequestID string         `json:"request_id"`
	Timestamp time.Time      `json:"timestamp"`
}
