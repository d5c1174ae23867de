// Package content splits raw lesson content into sections and parses the field
// declarations and output placeholders embedded in section templates.
package content

import (
	"strings"

	"github.com/coursekit/playground/internal/models"
)

// SplitSections pairs blocks consecutively: block 2k is the input template of
// section k+1 and block 2k+1 is its output template. An odd trailing block is ignored.
func SplitSections(raw models.RawContent) []models.SectionTemplates {
	count := len(raw.Blocks) / 2
	sections := make([]models.SectionTemplates, 0, count)
	for k := 0; k < count; k++ {
		sections = append(sections, models.SectionTemplates{
			Input:  raw.Blocks[2*k].Body,
			Output: raw.Blocks[2*k+1].Body,
		})
	}
	return sections
}

// TotalSections returns the number of complete input/output pairs in raw
func TotalSections(raw models.RawContent) int {
	return len(raw.Blocks) / 2
}

// SectionAt returns the templates of the 1-based section, or empty templates when out of range
func SectionAt(sections []models.SectionTemplates, section int) models.SectionTemplates {
	if section < 1 || section > len(sections) {
		return models.SectionTemplates{}
	}
	return sections[section-1]
}

// LessonOutputTemplate concatenates every section's output template in order.
// The lesson output is always rendered from this, never from a single section.
func LessonOutputTemplate(sections []models.SectionTemplates) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.Output)
	}
	return strings.Join(parts, "\n")
}
