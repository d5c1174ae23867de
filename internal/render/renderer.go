// Package render turns a lesson output template and resolved field values into HTML
package render

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/coursekit/playground/internal/content"
	"github.com/coursekit/playground/internal/models"
	"github.com/coursekit/playground/internal/sections"
)

// Generator produces text for AI output fields
type Generator interface {
	// Generate returns text produced from "input" under "prompt".
	//
	// "ctx" is the context for the request.
	// "input" is the value of the field the AI output reads from.
	// "prompt" is the prompt template declared by the output field.
	//
	// Returns the generated text and an error if any.
	Generate(ctx context.Context, input, prompt string) (string, error)
}

// Sources holds every value a render may read
type Sources struct {
	CourseID string
	// Values are the current lesson's field values.
	Values models.FieldValues
	// Lessons are other lessons' records keyed by lesson id, for cross-lesson fields.
	Lessons map[string]*models.ProgressRecord
	// LessonTitles is used for completion prompts; the lesson id is shown when absent.
	LessonTitles map[string]string
}

// Renderer renders output templates
type Renderer struct {
	generator Generator
}

// NewRenderer creates a new renderer
func NewRenderer(generator Generator) *Renderer {
	return &Renderer{generator: generator}
}

// Render substitutes every placeholder of tmpl. Missing values degrade to inline
// markers; only a text-generation failure aborts the render.
func (r *Renderer) Render(ctx context.Context, tmpl content.Template, src Sources) (string, error) {
	var b strings.Builder
	for _, seg := range tmpl.Segments {
		if seg.Field == nil {
			b.WriteString(seg.Literal)
			continue
		}

		var (
			out string
			err error
		)
		switch f := seg.Field.(type) {
		case content.TextField:
			out = r.renderText(f, src)
		case content.TableField:
			out = r.renderTable(f, src)
		case content.AIField:
			out, err = r.renderAI(ctx, f, src)
		case content.PageBreak:
			out = pageBreak
		}
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

const pageBreak = `<div class="page-break"></div>`

func (r *Renderer) renderText(f content.TextField, src Sources) string {
	value, prompt, ok := lookup(models.TextKey(f.Name), f.LessonID, src)
	if !ok {
		return prompt
	}
	text, _ := value.Text()
	return `<span class="field-text">` + html.EscapeString(text) + `</span>`
}

func (r *Renderer) renderTable(f content.TableField, src Sources) string {
	value, prompt, ok := lookup(models.TableKey(f.Name), f.LessonID, src)
	if !ok {
		return prompt
	}
	rows, _ := value.Rows()
	return table(f.Columns, rows)
}

func (r *Renderer) renderAI(ctx context.Context, f content.AIField, src Sources) (string, error) {
	value := src.Values.Get(models.TextKey(f.Source))
	input, ok := value.Text()
	if !ok || strings.TrimSpace(input) == "" {
		return missing(f.Source), nil
	}
	if r.generator == nil {
		return "", fmt.Errorf("no text generator configured for field %q: %w", f.Name, models.ErrExternalService)
	}

	generated, err := r.generator.Generate(ctx, input, f.Prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate field %q: %w: %w", f.Name, models.ErrExternalService, err)
	}
	return `<div class="field-ai">` + html.EscapeString(generated) + `</div>`, nil
}

// lookup resolves key either in the current lesson or, when lessonID is set, in that
// lesson's record. When the value is unavailable it returns the markup to show instead.
func lookup(key models.FieldKey, lessonID string, src Sources) (models.FieldValue, string, bool) {
	if lessonID == "" {
		v := src.Values.Get(key)
		if v.IsMissing() || !v.Matches(key.Kind) {
			return v, missing(key.Name), false
		}
		return v, "", true
	}

	record := src.Lessons[lessonID]
	v := record.Values().Get(key)
	if record == nil || v.IsMissing() || !v.Matches(key.Kind) {
		return v, completeLessonPrompt(src, lessonID), false
	}
	return v, "", true
}

func missing(name string) string {
	return `<span class="data-not-found">Data not found: ` + html.EscapeString(name) + `</span>`
}

func completeLessonPrompt(src Sources, lessonID string) string {
	title := src.LessonTitles[lessonID]
	if title == "" {
		title = lessonID
	}
	href := sections.LessonHref(src.CourseID, lessonID)
	return `<a class="complete-lesson" href="` + html.EscapeString(href) + `">Complete the lesson &quot;` +
		html.EscapeString(title) + `&quot; to see this</a>`
}

func table(columns []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<table class="field-table">`)
	if len(columns) > 0 {
		b.WriteString("<thead><tr>")
		for _, c := range columns {
			b.WriteString("<th>" + html.EscapeString(c) + "</th>")
		}
		b.WriteString("</tr></thead>")
	}
	b.WriteString("<tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>" + html.EscapeString(cell) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}
