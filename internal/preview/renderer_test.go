package preview

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"resume-render/pkg/models"
)

func parse(t *testing.T, fragment string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	return doc
}

func TestEscape(t *testing.T) {
	got := Escape(`<a href="x">Tom & Jerry's</a>`)
	want := "&lt;a href=&quot;x&quot;&gt;Tom &amp; Jerry&#39;s&lt;/a&gt;"
	if got != want {
		t.Fatalf("Escape = %q, want %q", got, want)
	}
	if got := Escape("&amp;"); got != "&amp;amp;" {
		t.Fatalf("existing entities must be escaped again, got %q", got)
	}
}

func TestRenderScenario(t *testing.T) {
	resume := models.ResumeData{
		Name: "Ada Lovelace",
		Experience: []models.Experience{
			{Company: "Analytical Engines", Role: "Contributor"},
		},
	}
	out, err := NewRenderer().Render(resume, `\textbf{Ada Lovelace}`)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<h1>Ada Lovelace</h1>", "<h3>Contributor at Analytical Engines</h3>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
	for _, absent := range []string{"<h2>Summary</h2>", "<h2>Skills</h2>", `class="dates"`, "<ul>", `class="headline"`, `class="email"`} {
		if strings.Contains(out, absent) {
			t.Errorf("expected %q to be omitted:\n%s", absent, out)
		}
	}
}

func TestRenderFullStructure(t *testing.T) {
	resume := models.ResumeData{
		Name:     "Ada Lovelace",
		Headline: models.StringPtr("Analyst"),
		Email:    models.StringPtr("ada@example.com"),
		Summary:  models.StringPtr("Wrote the first program."),
		Skills:   []string{"Mathematics", "", "Poetry"},
		Experience: []models.Experience{
			{
				Company:      "Analytical Engines",
				Role:         "Contributor",
				StartDate:    models.StringPtr("1842"),
				EndDate:      models.StringPtr("1843"),
				Achievements: []string{"Note G", "Bernoulli numbers"},
			},
			{Company: "Royal Society", Role: "Correspondent"},
		},
	}
	out, err := NewRenderer().Render(resume, "latex")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := parse(t, out)

	if got := doc.Find("p.headline").Text(); got != "Analyst" {
		t.Errorf("headline = %q", got)
	}
	if got := doc.Find("p.email").Text(); got != "ada@example.com" {
		t.Errorf("email = %q", got)
	}
	if got := doc.Find("section.skills p").Text(); got != "Mathematics, Poetry" {
		t.Errorf("skills = %q", got)
	}
	if n := doc.Find("div.position").Length(); n != 2 {
		t.Fatalf("expected 2 positions, got %d", n)
	}
	first := doc.Find("div.position").First()
	if got := first.Find("p.dates").Text(); got != "1842 – 1843" {
		t.Errorf("dates = %q", got)
	}
	if n := first.Find("li").Length(); n != 2 {
		t.Errorf("expected 2 achievements, got %d", n)
	}
	if n := doc.Find("div.position").Last().Find("ul, p.dates").Length(); n != 0 {
		t.Errorf("second position should have no dates or list, got %d nodes", n)
	}
}

func TestRenderEscapesHostileInput(t *testing.T) {
	resume := models.ResumeData{
		Name:    `<script>alert("x")</script>`,
		Summary: models.StringPtr(`<img src=x onerror='boom'>`),
		Skills:  []string{"<b>bold</b>"},
		Experience: []models.Experience{
			{Company: "A&B", Role: `"quoted"`, Achievements: []string{"</li><script>"}},
		},
	}
	out, err := NewRenderer().Render(resume, `\textbf{<script>} & </code></pre>`)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<script>") || strings.Contains(out, "<img") || strings.Contains(out, "<b>") {
		t.Fatalf("unescaped markup leaked:\n%s", out)
	}

	doc := parse(t, out)
	if n := doc.Find("script, img, b").Length(); n != 0 {
		t.Fatalf("hostile elements parsed: %d", n)
	}
	if got := doc.Find("h1").Text(); got != `<script>alert("x")</script>` {
		t.Errorf("name text = %q", got)
	}
	if got := doc.Find("h3").Text(); got != `"quoted" at A&B` {
		t.Errorf("heading text = %q", got)
	}
	if got := doc.Find("details pre code").Text(); got != `\textbf{<script>} & </code></pre>` {
		t.Errorf("embedded latex = %q", got)
	}
}

func TestRenderKeepsLatexEscapesLiteral(t *testing.T) {
	out, err := NewRenderer().Render(models.ResumeData{Name: "R&D"}, `\textbf{R\&D}`)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `<h1>R&amp;D</h1>`) {
		t.Errorf("name should be HTML escaped once:\n%s", out)
	}
	if !strings.Contains(out, `<code>\textbf{R\&amp;D}</code>`) {
		t.Errorf("latex should keep its own escapes and be HTML escaped once:\n%s", out)
	}
}
