// Package compiler turns one resume into a RenderedDocument: LaTeX source,
// a PDF data URI built from that source, and an HTML preview.
package compiler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"resume-render/internal/api/validation"
	"resume-render/internal/latex"
	"resume-render/internal/logging"
	"resume-render/internal/pdf"
	"resume-render/internal/preview"
	"resume-render/internal/store"
	"resume-render/pkg/models"
	"resume-render/pkg/utils"
)

// Option configures a Compiler
type Option func(*Compiler)

// WithClock replaces time.Now as the source of generation timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Compiler) { c.now = now }
}

// WithLogger sets the logger; the global logger is used otherwise
func WithLogger(logger logging.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

type Compiler struct {
	validator *validation.Validator
	latex     *latex.Engine
	preview   *preview.Renderer
	store     store.Store
	now       func() time.Time
	logger    logging.Logger

	// compiles hold the read side; Drain takes the write side and flips closed.
	mu     sync.RWMutex
	closed bool
}

// New creates a compiler that publishes every result into st.
func New(st store.Store, opts ...Option) *Compiler {
	c := &Compiler{
		validator: validation.New(),
		latex:     latex.NewEngine(),
		preview:   preview.NewRenderer(),
		store:     st,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.GetGlobalLogger()
	}
	return c
}

// Compile validates data, renders all three artifacts and replaces the latest
// document. Nothing is published unless every stage succeeds.
func (c *Compiler) Compile(ctx context.Context, data *models.ResumeData) (*models.RenderedDocument, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, fmt.Errorf("%w: compiler is shutting down", ErrUnavailable)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: no resume provided", ErrInvalidInput)
	}

	logger := c.logger.WithField("request_id", utils.RequestIDFromContext(ctx))

	if err := c.validator.ValidateResume(data); err != nil {
		logger.Debug("Resume rejected", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	doc, err := c.render(*data)
	if err != nil {
		logger.Error("Compile failed on valid input", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	if err := c.store.Put(ctx, doc); err != nil {
		logger.Error("Failed to publish latest document", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	logger.Info("Resume compiled", map[string]interface{}{
		"latex_length": doc.LatexLength,
		"pdf_bytes":    len(doc.PDFDataURI),
	})
	return doc, nil
}

func (c *Compiler) render(data models.ResumeData) (*models.RenderedDocument, error) {
	source, err := c.latex.Render(data)
	if err != nil {
		return nil, fmt.Errorf("%w: latex: %v", ErrInvariant, err)
	}
	if source == "" {
		return nil, fmt.Errorf("%w: latex renderer returned no output", ErrInvariant)
	}

	pdfURI := pdf.Encode(source)

	html, err := c.preview.Render(data, source)
	if err != nil {
		return nil, fmt.Errorf("%w: preview: %v", ErrInvariant, err)
	}
	if html == "" {
		return nil, fmt.Errorf("%w: preview renderer returned no output", ErrInvariant)
	}

	return &models.RenderedDocument{
		LatexSource: source,
		PreviewHTML: html,
		PDFDataURI:  pdfURI,
		GeneratedAt: c.now().UTC(),
		LatexLength: len(source),
	}, nil
}

// Latest returns the most recently published document.
func (c *Compiler) Latest(ctx context.Context) (*models.RenderedDocument, bool, error) {
	doc, ok, err := c.store.Latest(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return doc, ok, nil
}

// Drain waits for in-flight compiles and makes later ones fail with ErrUnavailable.
// A compile counts as in flight until its store Put returns, so with a Redis
// mirror Drain can block for up to the mirror's write timeout per compile.
// Callers bound the wait through the context they pass to Compile.
func (c *Compiler) Drain() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
