package campaign

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// DefaultTemplate is the stock campaign body used when the operator does
// not supply one. The unsubscribe footer only renders when an
// unsubscribe link could be built.
const DefaultTemplate = `<p>Hei {{.company_name}},</p>
<p>Vi leverer fersk lunsj og møtemat til bedrifter i området – fleksibelt og rimelig. Alt lages lokalt samme dag.</p>
<ul>
  <li>Daglig lunsjlevering eller ad hoc til møter</li>
  <li>Vegetar/veganske alternativer og allergitilpasning</li>
  <li>Levering i {{.municipality}}</li>
</ul>
<p>Ønsker dere meny og priser?</p>
<p>Vennlig hilsen<br/>
Din Bedrift Catering</p>
{{if .unsubscribe_url}}<p style="font-size:12px;color:#666">Hvis du ikke ønsker flere e-poster fra oss, klikk her: <a href="{{.unsubscribe_url}}">stopp utsendelser</a></p>{{end}}`

// Renderer renders a campaign body against the per-recipient context.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the template text. The context keys available to
// templates are company_name, municipality, website, email and
// unsubscribe_url.
func NewRenderer(text string) (*Renderer, error) {
	tmpl, err := template.New("campaign").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse campaign template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the template against the context map.
func (r *Renderer) Render(ctx map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("render campaign template: %w", err)
	}
	return buf.String(), nil
}

// emailPlaceholder is substituted with the recipient address when
// building the unsubscribe link.
const emailPlaceholder = "{{email}}"

// unsubscribeLink fills the recipient address into the configured link
// base. An empty base yields an empty link and the template drops the
// footer.
func unsubscribeLink(base, email string) string {
	if base == "" {
		return ""
	}
	if strings.Contains(base, emailPlaceholder) {
		return strings.ReplaceAll(base, emailPlaceholder, url.QueryEscape(email))
	}
	return base
}
