// Package exporter writes a rendered document to disk as .tex, .pdf and .html files.
package exporter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"resume-render/internal/logging"
	"resume-render/internal/pdf"
	"resume-render/pkg/models"
)

// Sentinel errors to allow precise mapping by callers
var (
	ErrDecode = errors.New("decode_error")
	ErrWrite  = errors.New("write_failed")
)

// Artifacts lists the files written for one document
type Artifacts struct {
	Latex   string `json:"latex"`
	PDF     string `json:"pdf"`
	Preview string `json:"preview"`
}

// WriteArtifacts writes <basename>.tex, <basename>.pdf and <basename>.html
// into dir, creating it if needed. The PDF is decoded from the data URI.
func WriteArtifacts(dir, basename string, doc *models.RenderedDocument) (*Artifacts, error) {
	logger := logging.GetGlobalLogger()

	raw, err := pdf.DecodeDataURI(doc.PDFDataURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	out := &Artifacts{
		Latex:   filepath.Join(dir, basename+".tex"),
		PDF:     filepath.Join(dir, basename+".pdf"),
		Preview: filepath.Join(dir, basename+".html"),
	}
	files := []struct {
		path string
		data []byte
	}{
		{out.Latex, []byte(doc.LatexSource)},
		{out.PDF, raw},
		{out.Preview, []byte(doc.PreviewHTML)},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			logger.Error("Failed to write artifact", map[string]interface{}{
				"path":  f.path,
				"error": err.Error(),
			})
			return nil, fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}

	logger.Debug("Artifacts written", map[string]interface{}{"dir": dir, "basename": basename})
	return out, nil
}
