// Package render builds the HTML and plain-text bodies of the notification
// email sent for each contact submission.
package render

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"contact-intake/models"
)

//go:embed templates/contact.html templates/contact.txt
var templateFS embed.FS

// Email holds both rendered bodies.
type Email struct {
	HTML string
	Text string
}

// Renderer is safe for concurrent use; templates are parsed once.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
	loc  *time.Location
	now  func() time.Time
}

type Option func(*Renderer)

// WithClock overrides the time source used for the footer date.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

func New(loc *time.Location, opts ...Option) (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/contact.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html template: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/contact.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}

	r := &Renderer{html: html, text: text, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func MustNew(loc *time.Location, opts ...Option) *Renderer {
	r, err := New(loc, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// view is the data passed to both templates. User values are raw here;
// html/template escapes them once at execution time.
type view struct {
	DisplayName  string
	Colors       models.ColorScheme
	Nombre       string
	Apellido     string
	Email        string
	Telefono     string
	Mensaje      string
	MensajeLines []string
	MailtoURL    string
	TelURL       htmltemplate.URL
	Date         string
}

// Render produces the HTML and text bodies for sub using profile p.
func (r *Renderer) Render(sub *models.Submission, p models.Profile) (*Email, error) {
	v := view{
		DisplayName: p.DisplayName,
		Colors:      p.Colors,
		Nombre:      sub.Nombre,
		Apellido:    sub.Apellido,
		Email:       sub.Email,
		Telefono:    sub.Telefono,
		Mensaje:     sub.Mensaje,
		MailtoURL:   "mailto:" + sub.Email,
		// tel: is not on html/template's scheme allow-list. The prefix is
		// constant, and the URL normalizer still percent-encodes the rest.
		TelURL: htmltemplate.URL("tel:" + sub.Telefono),
		Date:   FormatDate(r.now().In(r.loc)),
	}
	if sub.Mensaje != "" {
		v.MensajeLines = splitLines(sub.Mensaje)
	}

	var html bytes.Buffer
	if err := r.html.Execute(&html, v); err != nil {
		return nil, fmt.Errorf("failed to execute html template: %w", err)
	}
	var text bytes.Buffer
	if err := r.text.Execute(&text, v); err != nil {
		return nil, fmt.Errorf("failed to execute text template: %w", err)
	}

	return &Email{
		HTML: strings.TrimSpace(html.String()),
		Text: strings.TrimSpace(text.String()),
	}, nil
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}

var months = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDate renders t as a long Spanish date with a short time, e.g.
// "18 de octubre de 2026, 14:05".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d, %02d:%02d",
		t.Day(), months[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
