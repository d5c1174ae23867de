package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coursekit/playground/internal/models"
)

var (
	tagPattern  = regexp.MustCompile(`<([IO]_[A-Z_]+)((?:\s+[A-Za-z]+="[^"]*")*)\s*/>`)
	attrPattern = regexp.MustCompile(`([A-Za-z]+)="([^"]*)"`)
)

const (
	tagInputText  = "I_TEXT"
	tagInputTable = "I_TABLE"
	tagOutText    = "O_TEXT"
	tagOutTable   = "O_TABLE"
	tagOutAI      = "O_AI"
	tagPageBreak  = "O_PAGE_BREAK"
)

// OutputField is the closed set of placeholders an output template may contain:
// TextField, TableField, AIField and PageBreak.
type OutputField interface {
	outputField()
}

// TextField substitutes a stored text value. A non-empty LessonID reads the value
// from another lesson of the same course.
type TextField struct {
	Name     string
	LessonID string
}

// TableField substitutes a stored table value
type TableField struct {
	Name     string
	LessonID string
	Columns  []string
}

// AIField substitutes text generated from the Source text field and the Prompt
type AIField struct {
	Name   string
	Source string
	Prompt string
}

// PageBreak marks a print page break and has no data dependency
type PageBreak struct{}

func (TextField) outputField()  {}
func (TableField) outputField() {}
func (AIField) outputField()    {}
func (PageBreak) outputField()  {}

// Segment is one piece of a parsed output template: either literal markup or a field
type Segment struct {
	Literal string
	Field   OutputField
}

// Template is a parsed output template
type Template struct {
	Segments []Segment
}

// ReferencedLessons returns the distinct lesson ids referenced by cross-lesson fields, in order
func (t Template) ReferencedLessons() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, seg := range t.Segments {
		var lessonID string
		switch f := seg.Field.(type) {
		case TextField:
			lessonID = f.LessonID
		case TableField:
			lessonID = f.LessonID
		}
		if lessonID != "" && !seen[lessonID] {
			seen[lessonID] = true
			ids = append(ids, lessonID)
		}
	}
	return ids
}

// ParseOutputTemplate splits an output template into literal segments and placeholders.
// Input tags found in an output template are kept as literal text.
func ParseOutputTemplate(src string) (Template, error) {
	var tmpl Template
	last := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		if !strings.HasPrefix(name, "O_") {
			continue
		}
		attrs := parseAttrs(src[m[4]:m[5]])

		field, err := outputFieldFromTag(name, attrs)
		if err != nil {
			return Template{}, err
		}

		if m[0] > last {
			tmpl.Segments = append(tmpl.Segments, Segment{Literal: src[last:m[0]]})
		}
		tmpl.Segments = append(tmpl.Segments, Segment{Field: field})
		last = m[1]
	}
	if last < len(src) {
		tmpl.Segments = append(tmpl.Segments, Segment{Literal: src[last:]})
	}
	return tmpl, nil
}

func outputFieldFromTag(name string, attrs map[string]string) (OutputField, error) {
	switch name {
	case tagOutText:
		if attrs["name"] == "" {
			return nil, fmt.Errorf("%s without name", name)
		}
		return TextField{Name: attrs["name"], LessonID: attrs["lessonId"]}, nil
	case tagOutTable:
		if attrs["name"] == "" {
			return nil, fmt.Errorf("%s without name", name)
		}
		return TableField{Name: attrs["name"], LessonID: attrs["lessonId"], Columns: splitList(attrs["columns"])}, nil
	case tagOutAI:
		if attrs["name"] == "" || attrs["source"] == "" {
			return nil, fmt.Errorf("%s requires name and source", name)
		}
		return AIField{Name: attrs["name"], Source: attrs["source"], Prompt: attrs["prompt"]}, nil
	case tagPageBreak:
		return PageBreak{}, nil
	}
	return nil, fmt.Errorf("unknown output tag %s", name)
}

// ParseInputFields returns the fields declared by an input template, in order.
// A field declared twice is returned once.
func ParseInputFields(src string) ([]models.InputField, error) {
	var fields []models.InputField
	seen := make(map[models.FieldKey]bool)
	for _, m := range tagPattern.FindAllStringSubmatch(src, -1) {
		attrs := parseAttrs(m[2])

		var field models.InputField
		switch m[1] {
		case tagInputText:
			field = models.InputField{Key: models.TextKey(attrs["name"]), Label: attrs["label"]}
		case tagInputTable:
			field = models.InputField{Key: models.TableKey(attrs["name"]), Label: attrs["label"], Columns: splitList(attrs["columns"])}
		default:
			continue
		}
		if field.Key.Name == "" {
			return nil, fmt.Errorf("%s without name", m[1])
		}
		if seen[field.Key] {
			continue
		}
		seen[field.Key] = true
		fields = append(fields, field)
	}
	return fields, nil
}

func parseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrPattern.FindAllStringSubmatch(s, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
