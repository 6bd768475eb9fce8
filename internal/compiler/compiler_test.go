package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"resume-render/internal/api/validation"
	"resume-render/internal/logging"
	"resume-render/internal/pdf"
	"resume-render/internal/store"
	"resume-render/pkg/models"
)

var fixedTime = time.Date(2024, 3, 9, 10, 30, 0, 123456789, time.FixedZone("CET", 3600))

func newTestCompiler(st store.Store) *Compiler {
	return New(st,
		WithClock(func() time.Time { return fixedTime }),
		WithLogger(logging.NewMultiLogger()),
	)
}

func adaResume() *models.ResumeData {
	return &models.ResumeData{
		Name: "Ada Lovelace",
		Experience: []models.Experience{
			{Company: "Analytical Engines", Role: "Contributor"},
		},
	}
}

func TestCompileScenario(t *testing.T) {
	st := store.NewMemoryStore()
	c := newTestCompiler(st)

	doc, err := c.Compile(context.Background(), adaResume())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if !strings.Contains(doc.PreviewHTML, "<h1>Ada Lovelace</h1>") {
		t.Errorf("preview missing name heading:\n%s", doc.PreviewHTML)
	}
	if !strings.Contains(doc.PreviewHTML, "<h3>Contributor at Analytical Engines</h3>") {
		t.Errorf("preview missing position heading:\n%s", doc.PreviewHTML)
	}
	for _, section := range []string{"Summary", "Skills"} {
		if strings.Contains(doc.LatexSource, `\section*{`+section+`}`) {
			t.Errorf("latex should omit %s", section)
		}
		if strings.Contains(doc.PreviewHTML, "<h2>"+section+"</h2>") {
			t.Errorf("preview should omit %s", section)
		}
	}

	raw, err := pdf.DecodeDataURI(doc.PDFDataURI)
	if err != nil {
		t.Fatalf("decode pdf: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF-1.4")) || !bytes.HasSuffix(raw, []byte("%%EOF")) {
		t.Fatalf("pdf framing wrong")
	}
	if !bytes.Contains(raw, []byte("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>")) {
		t.Fatalf("catalog object missing")
	}
	if !bytes.Equal(raw, pdf.Build(doc.LatexSource)) {
		t.Fatalf("pdf is not built from the latex source")
	}

	if doc.LatexLength != len(doc.LatexSource) {
		t.Errorf("latexLength = %d, want %d", doc.LatexLength, len(doc.LatexSource))
	}
	if !doc.GeneratedAt.Equal(fixedTime) || doc.GeneratedAt.Location() != time.UTC {
		t.Errorf("generatedAt = %v", doc.GeneratedAt)
	}

	latest, ok, _ := st.Latest(context.Background())
	if !ok || latest != doc {
		t.Fatalf("compiled document was not published")
	}

	resp := models.NewCompileResponse(doc)
	if resp.Metadata.GeneratedAt != "2024-03-09T09:30:00.123456789Z" {
		t.Errorf("metadata generatedAt = %s", resp.Metadata.GeneratedAt)
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	c := New(store.NewMemoryStore(), WithLogger(logging.NewMultiLogger()))
	data := &models.ResumeData{
		Name:     "Grace Hopper",
		Email:    models.StringPtr("grace@navy.mil"),
		Headline: models.StringPtr("Rear Admiral"),
		Summary:  models.StringPtr("Compilers & 100% COBOL"),
		Skills:   []string{"COBOL", "FLOW-MATIC"},
	}

	first, err := c.Compile(context.Background(), data)
	if err != nil {
		t.Fatalf("first compile: %v", err)
	}
	second, err := c.Compile(context.Background(), data)
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if first.LatexSource != second.LatexSource || first.PreviewHTML != second.PreviewHTML || first.PDFDataURI != second.PDFDataURI {
		t.Fatalf("identical input produced different artifacts")
	}
}

func TestCompileRejectsInvalidInputWithoutPublishing(t *testing.T) {
	st := store.NewMemoryStore()
	c := newTestCompiler(st)

	_, err := c.Compile(context.Background(), &models.ResumeData{
		Email:      models.StringPtr("nope"),
		Experience: []models.Experience{{Company: "X"}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var verr *validation.Error
	if !errors.As(err, &verr) || len(verr.Fields) != 3 {
		t.Fatalf("expected three field problems, got %v", err)
	}
	if _, ok, _ := st.Latest(context.Background()); ok {
		t.Fatalf("rejected input must not be published")
	}

	if _, err := c.Compile(context.Background(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("nil resume: %v", err)
	}
}

func TestCompileNonASCII(t *testing.T) {
	c := newTestCompiler(store.NewMemoryStore())
	doc, err := c.Compile(context.Background(), &models.ResumeData{
		Name: "Zoë Ñúñez 李",
		Experience: []models.Experience{{
			Company:      "Café Ltd",
			Role:         "Ingénieure",
			Achievements: []string{"Réduit la latence de 40 %"},
		}},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if doc.LatexLength != len(doc.LatexSource) || doc.LatexLength <= len([]rune(doc.LatexSource)) {
		t.Fatalf("latexLength should count bytes: %d", doc.LatexLength)
	}
	raw, _ := pdf.DecodeDataURI(doc.PDFDataURI)
	if !bytes.Contains(raw, []byte("Zoë Ñúñez 李")) {
		t.Fatalf("pdf missing UTF-8 name")
	}
}

func TestDrainRejectsNewCompiles(t *testing.T) {
	c := newTestCompiler(store.NewMemoryStore())
	c.Drain()

	_, err := c.Compile(context.Background(), adaResume())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable after drain, got %v", err)
	}
}

type blockingStore struct {
	*store.MemoryStore
	started chan struct{}
	release chan struct{}
}

func (s *blockingStore) Put(ctx context.Context, doc *models.RenderedDocument) error {
	close(s.started)
	<-s.release
	return s.MemoryStore.Put(ctx, doc)
}

func TestDrainWaitsForInFlightPublish(t *testing.T) {
	st := &blockingStore{
		MemoryStore: store.NewMemoryStore(),
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	c := newTestCompiler(st)

	compiled := make(chan error, 1)
	go func() {
		_, err := c.Compile(context.Background(), adaResume())
		compiled <- err
	}()
	<-st.started

	drained := make(chan struct{})
	go func() {
		c.Drain()
		close(drained)
	}()

	select {
	case <-drained:
		t.Fatalf("drain returned while a publish was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(st.release)
	if err := <-compiled; err != nil {
		t.Fatalf("in-flight compile: %v", err)
	}
	<-drained

	if _, ok, _ := st.Latest(context.Background()); !ok {
		t.Fatalf("in-flight compile was not published")
	}
}

type brokenStore struct{}

func (brokenStore) Put(context.Context, *models.RenderedDocument) error {
	return fmt.Errorf("disk full")
}

func (brokenStore) Latest(context.Context) (*models.RenderedDocument, bool, error) {
	return nil, false, fmt.Errorf("disk gone")
}

func TestStoreFailureIsUnavailable(t *testing.T) {
	c := newTestCompiler(brokenStore{})
	if _, err := c.Compile(context.Background(), adaResume()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("compile: expected ErrUnavailable, got %v", err)
	}
	if _, _, err := c.Latest(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("latest: expected ErrUnavailable, got %v", err)
	}
}

func TestConcurrentCompiles(t *testing.T) {
	st := store.NewMemoryStore()
	c := newTestCompiler(st)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data := &models.ResumeData{Name: fmt.Sprintf("Person %d", i)}
			doc, err := c.Compile(context.Background(), data)
			if err != nil {
				errs <- err
				return
			}
			if !strings.Contains(doc.LatexSource, data.Name) {
				errs <- fmt.Errorf("document %d carries another resume", i)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	latest, ok, _ := st.Latest(context.Background())
	if !ok || !strings.HasPrefix(latest.PreviewHTML, `<article class="resume-preview">`) {
		t.Fatalf("latest document missing after concurrent compiles")
	}
}
