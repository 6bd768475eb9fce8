package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/labstack/echo/v4"

	"resume-render/internal/compiler"
	"resume-render/internal/config"
	"resume-render/internal/grpc/interceptors"
	"resume-render/internal/logging"
	"resume-render/internal/pdf"
	"resume-render/internal/store"
	"resume-render/pkg/models"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *echo.Echo {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	pipeline := compiler.New(store.NewMemoryStore(), compiler.WithLogger(logging.NewMultiLogger()))

	e := echo.New()
	SetupRoutes(e, cfg, pipeline, interceptors.NewMetricsCollector())
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const adaJSON = `{"name":"Ada Lovelace","experience":[{"company":"Analytical Engines","role":"Contributor"}]}`

func TestCompileThenReadLatest(t *testing.T) {
	e := newTestServer(t, nil)

	if rec := do(e, http.MethodGet, "/api/v1/resume/latest", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("latest before compile: %d %s", rec.Code, rec.Body.String())
	}

	rec := do(e, http.MethodPost, "/api/v1/resume/compile", adaJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("compile: %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Errorf("missing X-Request-ID")
	}

	var resp models.CompileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.PreviewHTML))
	if err != nil {
		t.Fatalf("parse preview: %v", err)
	}
	if got := doc.Find("h1").Text(); got != "Ada Lovelace" {
		t.Errorf("h1 = %q", got)
	}
	if got := doc.Find("h3").Text(); got != "Contributor at Analytical Engines" {
		t.Errorf("h3 = %q", got)
	}
	if doc.Find("section.summary").Length() != 0 || doc.Find("section.skills").Length() != 0 {
		t.Errorf("absent sections rendered")
	}
	if resp.Metadata.LatexLength == 0 || resp.Metadata.GeneratedAt == "" {
		t.Errorf("metadata = %+v", resp.Metadata)
	}

	latest := do(e, http.MethodGet, "/api/v1/resume/latest", "")
	if latest.Code != http.StatusOK || !bytes.Equal(bytes.TrimSpace(latest.Body.Bytes()), bytes.TrimSpace(rec.Body.Bytes())) {
		t.Fatalf("latest = %d %s", latest.Code, latest.Body.String())
	}

	pdfRec := do(e, http.MethodGet, "/api/v1/resume/latest/pdf", "")
	raw, _ := pdf.DecodeDataURI(resp.PDFURL)
	if pdfRec.Code != http.StatusOK || pdfRec.Header().Get(echo.HeaderContentType) != pdf.MimeType || !bytes.Equal(pdfRec.Body.Bytes(), raw) {
		t.Fatalf("pdf download mismatch: %d %s", pdfRec.Code, pdfRec.Header().Get(echo.HeaderContentType))
	}

	preview := do(e, http.MethodGet, "/api/v1/resume/latest/preview", "")
	if preview.Code != http.StatusOK || preview.Body.String() != resp.PreviewHTML {
		t.Fatalf("preview = %d", preview.Code)
	}

	latex := do(e, http.MethodGet, "/api/v1/resume/latest/latex", "")
	if latex.Code != http.StatusOK || !strings.HasPrefix(latex.Body.String(), `\documentclass`) {
		t.Fatalf("latex = %d %q", latex.Code, latex.Body.String())
	}
	if len(latex.Body.String()) != resp.Metadata.LatexLength {
		t.Errorf("latex length %d, metadata %d", len(latex.Body.String()), resp.Metadata.LatexLength)
	}
}

func TestCompileValidationFailure(t *testing.T) {
	e := newTestServer(t, nil)

	rec := do(e, http.MethodPost, "/api/v1/resume/compile", `{"email":"nope","experience":[{"company":"X"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "validation_failed" || len(body.Fields) != 3 || body.RequestID == "" {
		t.Fatalf("body = %+v", body)
	}

	if rec := do(e, http.MethodGet, "/api/v1/resume/latest", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("rejected compile must not publish, latest = %d", rec.Code)
	}
}

func TestCompileMalformedJSON(t *testing.T) {
	e := newTestServer(t, nil)
	rec := do(e, http.MethodPost, "/api/v1/resume/compile", `{"name":`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "invalid_request") {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestCompileOversizedBodyIsRejectedTheSameWay(t *testing.T) {
	e := newTestServer(t, func(cfg *config.Config) {
		cfg.Compile.MaxRequestBytes = 64
	})
	body := `{"name":"` + strings.Repeat("A", 500) + `"}`

	tests := []struct {
		name          string
		contentLength int64
	}{
		{"declared length", int64(len(body))},
		{"chunked", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/compile", strings.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			req.ContentLength = tt.contentLength
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != http.StatusRequestEntityTooLarge {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error != "request_too_large" {
				t.Fatalf("body = %s (%v)", rec.Body.String(), err)
			}
		})
	}
}

func TestCompileHostileInputIsEscaped(t *testing.T) {
	e := newTestServer(t, nil)
	rec := do(e, http.MethodPost, "/api/v1/resume/compile", `{"name":"<script>alert(1)</script> & 100% \\_"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("compile: %d %s", rec.Code, rec.Body.String())
	}

	var resp models.CompileResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(resp.PreviewHTML))
	if doc.Find("script").Length() != 0 {
		t.Fatalf("script element in preview")
	}

	latex := do(e, http.MethodGet, "/api/v1/resume/latest/latex", "").Body.String()
	if !strings.Contains(latex, `\& 100\% \textbackslash{}\_`) {
		t.Fatalf("latex not escaped: %s", latex)
	}
}

func TestCompileRateLimited(t *testing.T) {
	e := newTestServer(t, func(cfg *config.Config) {
		cfg.Compile.RateLimit = 0.001
		cfg.Compile.Burst = 1
	})

	if rec := do(e, http.MethodPost, "/api/v1/resume/compile", adaJSON); rec.Code != http.StatusOK {
		t.Fatalf("first compile: %d", rec.Code)
	}
	rec := do(e, http.MethodPost, "/api/v1/resume/compile", adaJSON)
	if rec.Code != http.StatusTooManyRequests || !strings.Contains(rec.Body.String(), "pipeline_unavailable") {
		t.Fatalf("second compile: %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthAndProtoRoutes(t *testing.T) {
	e := newTestServer(t, nil)

	for _, path := range []string{"/", "/health", "/health/ready", "/health/live", "/status", "/api/v1/proto/metadata"} {
		if rec := do(e, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
	}

	rec := do(e, http.MethodGet, "/api/v1/proto/resume.proto", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "service ResumeService") {
		t.Fatalf("proto = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/proto/resume.proto", nil)
	req.Header.Set("If-None-Match", rec.Header().Get("ETag"))
	cached := httptest.NewRecorder()
	e.ServeHTTP(cached, req)
	if cached.Code != http.StatusNotModified {
		t.Fatalf("conditional proto = %d", cached.Code)
	}
}
