package models

import (
	"strings"
	"time"
)

// ResumeData is the structured resume record every renderer consumes.
// Optional scalars are pointers: nil means absent.
type ResumeData struct {
	Name       string       `json:"name" yaml:"name" validate:"required,notblank"`
	Email      *string      `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Headline   *string      `json:"headline,omitempty" yaml:"headline,omitempty"`
	Summary    *string      `json:"summary,omitempty" yaml:"summary,omitempty"`
	Skills     []string     `json:"skills,omitempty" yaml:"skills,omitempty"`
	Experience []Experience `json:"experience,omitempty" yaml:"experience,omitempty" validate:"dive"`
}

// Experience is a single position held.
type Experience struct {
	Company      string   `json:"company" yaml:"company" validate:"required,notblank"`
	Role         string   `json:"role" yaml:"role" validate:"required,notblank"`
	StartDate    *string  `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate      *string  `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Achievements []string `json:"achievements,omitempty" yaml:"achievements,omitempty"`
}

// RenderedDocument holds the three artifacts produced by one compile.
type RenderedDocument struct {
	LatexSource string    `json:"latexSource"`
	PreviewHTML string    `json:"previewHtml"`
	PDFDataURI  string    `json:"pdfDataUri"`
	GeneratedAt time.Time `json:"generatedAtTimestamp"`
	LatexLength int       `json:"latexLength"`
}

// Value reports whether an optional field is present. A whitespace-only
// value counts as absent so it can never render as an empty line.
func Value(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return "", false
	}
	return v, true
}

// NonBlank returns the entries of in that carry text, in order.
func NonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// DateRange returns the present date bounds of an experience entry.
func (e Experience) DateRange() []string {
	var bounds []string
	if v, ok := Value(e.StartDate); ok {
		bounds = append(bounds, v)
	}
	if v, ok := Value(e.EndDate); ok {
		bounds = append(bounds, v)
	}
	return bounds
}

// StringPtr is a convenience for building optional fields.
func StringPtr(s string) *string { return &s }
