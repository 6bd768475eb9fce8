// Package preview renders the HTML preview fragment for a resume.
//
// Every piece of user text, and the LaTeX source shown in the collapsible
// block, goes through Escape before it reaches the markup. Consumers insert
// the fragment as trusted HTML.
package preview

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"resume-render/pkg/models"
)

// Renderer turns resume data and its LaTeX source into an HTML fragment
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	funcMap := template.FuncMap{
		"escape":  Escape,
		"escJoin": escJoin,
	}
	return &Renderer{
		tmpl: template.Must(template.New("preview").Funcs(funcMap).Parse(fragmentTemplate)),
	}
}

// Render returns the preview fragment. latexSource is embedded verbatim after HTML escaping.
func (r *Renderer) Render(resume models.ResumeData, latexSource string) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, buildView(resume, latexSource)); err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return buf.String(), nil
}

type position struct {
	Role         string
	Company      string
	Dates        []string
	Achievements []string
}

type view struct {
	Name       string
	Headline   string
	Email      string
	Summary    string
	Skills     []string
	Experience []position
	Latex      string
}

func buildView(resume models.ResumeData, latexSource string) view {
	v := view{
		Name:   strings.TrimSpace(resume.Name),
		Skills: models.NonBlank(resume.Skills),
		Latex:  latexSource,
	}
	v.Headline, _ = models.Value(resume.Headline)
	v.Email, _ = models.Value(resume.Email)
	v.Summary, _ = models.Value(resume.Summary)
	for _, ex := range resume.Experience {
		v.Experience = append(v.Experience, position{
			Role:         strings.TrimSpace(ex.Role),
			Company:      strings.TrimSpace(ex.Company),
			Dates:        ex.DateRange(),
			Achievements: models.NonBlank(ex.Achievements),
		})
	}
	return v
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape replaces the five HTML metacharacters with entities.
func Escape(s string) string { return htmlReplacer.Replace(s) }

func escJoin(items []string, sep string) string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = Escape(s)
	}
	return strings.Join(out, sep)
}

const fragmentTemplate = `<article class="resume-preview">
<header>
<h1>{{ escape .Name }}</h1>
{{- if .Headline }}
<p class="headline">{{ escape .Headline }}</p>
{{- end }}
{{- if .Email }}
<p class="email">{{ escape .Email }}</p>
{{- end }}
</header>
{{- if .Summary }}
<section class="summary">
<h2>Summary</h2>
<p>{{ escape .Summary }}</p>
</section>
{{- end }}
{{- if .Skills }}
<section class="skills">
<h2>Skills</h2>
<p>{{ escJoin .Skills ", " }}</p>
</section>
{{- end }}
{{- if .Experience }}
<section class="experience">
<h2>Experience</h2>
{{- range .Experience }}
<div class="position">
<h3>{{ escape .Role }} at {{ escape .Company }}</h3>
{{- if .Dates }}
<p class="dates">{{ escJoin .Dates " – " }}</p>
{{- end }}
{{- if .Achievements }}
<ul>
{{- range .Achievements }}
<li>{{ escape . }}</li>
{{- end }}
</ul>
{{- end }}
</div>
{{- end }}
</section>
{{- end }}
<details class="latex-source">
<summary>LaTeX source</summary>
<pre><code>{{ escape .Latex }}</code></pre>
</details>
</article>
`
