package email

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.md
var templateFS embed.FS

const defaultLang = "en"

type templateData struct {
	AppName string
	URL     string
	Year    int
}

// Renderer fills a markdown template and converts it to HTML.
type Renderer struct {
	templates *template.Template
	md        goldmark.Markdown
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.md")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Renderer{
		templates: tmpl,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
		),
	}, nil
}

// Render returns the plain text (filled markdown) and HTML bodies of
// name_lang, falling back to English when lang has no template.
func (r *Renderer) Render(name, lang string, data templateData) (plain, htmlBody string, err error) {
	tmpl := r.templates.Lookup(name + "_" + lang + ".md")
	if tmpl == nil {
		tmpl = r.templates.Lookup(name + "_" + defaultLang + ".md")
	}
	if tmpl == nil {
		return "", "", fmt.Errorf("email template %q not found", name)
	}

	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	var md bytes.Buffer
	if err := tmpl.Execute(&md, data); err != nil {
		return "", "", fmt.Errorf("fill template %s: %w", tmpl.Name(), err)
	}

	var out bytes.Buffer
	if err := r.md.Convert(md.Bytes(), &out); err != nil {
		return "", "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return md.String(), out.String(), nil
}
