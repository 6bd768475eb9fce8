package latex

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"resume-render/pkg/models"
)

// Engine renders resume data into LaTeX source text
type Engine struct {
	tmpl *template.Template
}

// NewEngine parses the document template once; an Engine is safe for concurrent use.
func NewEngine() *Engine {
	funcMap := template.FuncMap{
		"escape":  Escape,
		"escJoin": escJoin,
	}
	return &Engine{
		tmpl: template.Must(template.New("resume").Funcs(funcMap).Parse(documentTemplate)),
	}
}

// Render returns the LaTeX source for a resume
func (e *Engine) Render(resume models.ResumeData) (string, error) {
	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, buildViewModel(resume)); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ===== View model =====

type ExperienceVM struct {
	Role         string
	Company      string
	Dates        []string
	Achievements []string
}

type ViewModel struct {
	Name string
	// Contact holds the header lines below the name, in order.
	Contact    []string
	Summary    string
	Skills     []string
	Experience []ExperienceVM
}

func buildViewModel(resume models.ResumeData) ViewModel {
	vm := ViewModel{
		Name:   strings.TrimSpace(resume.Name),
		Skills: models.NonBlank(resume.Skills),
	}
	if headline, ok := models.Value(resume.Headline); ok {
		vm.Contact = append(vm.Contact, headline)
	}
	if email, ok := models.Value(resume.Email); ok {
		vm.Contact = append(vm.Contact, email)
	}
	if summary, ok := models.Value(resume.Summary); ok {
		vm.Summary = summary
	}
	for _, ex := range resume.Experience {
		vm.Experience = append(vm.Experience, ExperienceVM{
			Role:         strings.TrimSpace(ex.Role),
			Company:      strings.TrimSpace(ex.Company),
			Dates:        ex.DateRange(),
			Achievements: models.NonBlank(ex.Achievements),
		})
	}
	return vm
}

// ===== Escaping =====

// Single pass: the backslashes introduced by a replacement are never rescanned.
var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"{", `\{`,
	"}", `\}`,
	"$", `\$`,
	"&", `\&`,
	"#", `\#`,
	"_", `\_`,
	"%", `\%`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

// Escape makes s safe to embed as LaTeX body text.
func Escape(s string) string { return latexReplacer.Replace(s) }

// escJoin escapes each element then joins with sep, so sep itself stays unescaped
func escJoin(slice []string, sep string) string {
	if len(slice) == 0 {
		return ""
	}
	out := make([]string, len(slice))
	for i, s := range slice {
		out[i] = Escape(s)
	}
	return strings.Join(out, sep)
}

// ===== Document template =====

const documentTemplate = `\documentclass[11pt]{article}
\begin{document}

\textbf{ {{- escape .Name -}} }
{{- range .Contact }}\\
{{ escape . }}
{{- end }}
{{- if .Summary }}

\section*{Summary}
{{ escape .Summary }}
{{- end }}
{{- if .Skills }}

\section*{Skills}
{{ escJoin .Skills ", " }}
{{- end }}
{{- if .Experience }}

\section*{Experience}
{{- range .Experience }}

\textbf{ {{- escape .Role }} at {{ escape .Company -}} }
{{- if .Dates }}\\
{{ escJoin .Dates " -- " }}
{{- end }}
{{- if .Achievements }}
\begin{itemize}
{{- range .Achievements }}
  \item {{ escape . }}
{{- end }}
\end{itemize}
{{- end }}
{{- end }}
{{- end }}

\end{document}
`
