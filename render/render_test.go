package render

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact-intake/models"
)

var fixedNow = time.Date(2026, time.October, 18, 20, 5, 0, 0, time.UTC)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	loc, err := time.LoadLocation("America/Costa_Rica")
	require.NoError(t, err)
	r, err := New(loc, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return r
}

func submission() *models.Submission {
	return &models.Submission{
		Nombre:   "Juan",
		Apellido: "Pérez",
		Email:    "juan@example.com",
		Telefono: "88887777",
		Mensaje:  "Hola <b>mundo</b>",
		Source:   models.SourceMerry,
	}
}

func TestRenderEscapesUserInput(t *testing.T) {
	r := newRenderer(t)
	sub := submission()
	sub.Nombre = `<script>alert("x")</script>`
	sub.Apellido = "O'Brien & Co"

	out, err := r.Render(sub, models.ProfileFor(models.SourceMerry))
	require.NoError(t, err)

	assert.Contains(t, out.HTML, "&lt;b&gt;mundo&lt;/b&gt;")
	assert.Contains(t, out.HTML, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
	assert.Contains(t, out.HTML, "O&#39;Brien &amp; Co")
	assert.NotContains(t, out.HTML, "<script>")
	assert.NotContains(t, out.HTML, "<b>mundo")
}

func TestRenderEscapesExactlyOnce(t *testing.T) {
	r := newRenderer(t)
	sub := submission()
	sub.Mensaje = "ya escapado &lt;b&gt; &amp;"

	out, err := r.Render(sub, models.ProfileFor(models.SourceShowMarketing))
	require.NoError(t, err)

	assert.Contains(t, out.HTML, "ya escapado &amp;lt;b&amp;gt; &amp;amp;")
	assert.NotContains(t, out.HTML, "&amp;amp;lt;")
	assert.Contains(t, out.Text, "ya escapado &lt;b&gt; &amp;")
}

func TestRenderProfileAndLinks(t *testing.T) {
	r := newRenderer(t)
	p := models.ProfileFor(models.SourceMisael)

	out, err := r.Render(submission(), p)
	require.NoError(t, err)

	assert.Contains(t, out.HTML, "<title>Nuevo contacto desde El Semental</title>")
	assert.Contains(t, out.HTML, "linear-gradient(135deg, #854319 0%, #f69d28 100%)")
	assert.Contains(t, out.HTML, `href="mailto:juan@example.com"`)
	assert.Contains(t, out.HTML, `href="tel:88887777"`)
	assert.Contains(t, out.HTML, "Juan Pérez")
	assert.NotContains(t, out.HTML, "ZgotmplZ")

	assert.True(t, strings.HasPrefix(out.Text, "NUEVO CONTACTO - Formulario de El Semental"))
	assert.Contains(t, out.Text, "Juan Pérez")
	assert.Contains(t, out.Text, "mailto:juan@example.com")
	assert.Contains(t, out.Text, "tel:88887777")
}

func TestRenderMessageNewlinesBecomeBreaks(t *testing.T) {
	r := newRenderer(t)
	sub := submission()
	sub.Mensaje = "línea uno\nlínea dos\r\nlínea tres"

	out, err := r.Render(sub, models.ProfileFor(models.SourceMerry))
	require.NoError(t, err)

	assert.Contains(t, out.HTML, "línea uno<br>línea dos<br>línea tres")
	assert.Contains(t, out.Text, "MENSAJE\nlínea uno\nlínea dos")
}

func TestRenderOmitsEmptyMessage(t *testing.T) {
	r := newRenderer(t)
	sub := submission()
	sub.Mensaje = ""

	out, err := r.Render(sub, models.ProfileFor(models.SourceMerry))
	require.NoError(t, err)

	assert.NotContains(t, out.HTML, "Mensaje:")
	assert.NotContains(t, out.Text, "MENSAJE")
}

func TestRenderFooterDateUsesLocation(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Render(submission(), models.ProfileFor(models.SourceShowMarketing))
	require.NoError(t, err)

	// 20:05 UTC is 14:05 in Costa Rica (UTC-6).
	assert.Contains(t, out.HTML, "Fecha: 18 de octubre de 2026, 14:05")
	assert.Contains(t, out.Text, "Fecha: 18 de octubre de 2026, 14:05")
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "1 de enero de 2025, 09:07", FormatDate(time.Date(2025, 1, 1, 9, 7, 0, 0, time.UTC)))
	assert.Equal(t, "31 de diciembre de 2025, 23:59", FormatDate(time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC)))
}
