// Package sections computes the view model of a playground section from persisted
// progress. Everything here is pure: callers gather every source up front.
package sections

import (
	"fmt"

	"github.com/coursekit/playground/internal/models"
)

// Input carries everything needed to resolve a single section page
type Input struct {
	CourseID      string
	Lesson        models.Lesson
	Section       int
	TotalSections int
	Templates     models.SectionTemplates
	Fields        []models.InputField
	Record        *models.ProgressRecord
	// PrevLessonSections is the section count of Lesson.Prev; 0 when unknown or empty.
	PrevLessonSections int
	// Attempt holds values from a submission that failed validation.
	Attempt models.FieldValues
	// Cached holds values cached outside the record's own store, e.g. a guest session.
	Cached models.FieldValues
}

// Href returns the playground path of a section
func Href(courseID, lessonID string, section int) string {
	return fmt.Sprintf("/playground/%s/%s/%d", courseID, lessonID, section)
}

// LessonHref returns the playground path of a lesson
func LessonHref(courseID, lessonID string) string {
	return fmt.Sprintf("/playground/%s/%s", courseID, lessonID)
}

// InRange reports whether section addresses an existing section
func InRange(section, total int) bool {
	return section >= 1 && section <= total
}

// SectionCompleted reports whether the section has been submitted and rendered
func SectionCompleted(record *models.ProgressRecord, section int) bool {
	return record.HasOutput() && record.LastCompletedSection() >= section
}

// DefaultValues picks, for every field, the most specific available value:
// attempt, then cached, then persisted, then missing.
func DefaultValues(fields []models.InputField, attempt, cached, persisted models.FieldValues) models.FieldValues {
	out := make(models.FieldValues, len(fields))
	for _, f := range fields {
		out[f.Key] = firstPresent(f.Key, attempt, cached, persisted)
	}
	return out
}

func firstPresent(key models.FieldKey, sources ...models.FieldValues) models.FieldValue {
	for _, src := range sources {
		if v := src.Get(key); !v.IsMissing() {
			return v
		}
	}
	return models.MissingValue()
}

// Resolve computes the section view. A section outside 1..TotalSections yields models.ErrNotFound.
func Resolve(in Input) (*models.SectionView, error) {
	if !InRange(in.Section, in.TotalSections) {
		return nil, fmt.Errorf("section %d of lesson %q: %w", in.Section, in.Lesson.ID, models.ErrNotFound)
	}

	completed := SectionCompleted(in.Record, in.Section)
	view := &models.SectionView{
		CourseID:         in.CourseID,
		LessonID:         in.Lesson.ID,
		Section:          in.Section,
		TotalSections:    in.TotalSections,
		InputTemplate:    in.Templates.Input,
		Fields:           in.Fields,
		DefaultValues:    DefaultValues(in.Fields, in.Attempt, in.Cached, in.Record.Values()),
		SectionCompleted: completed,
		LessonCompleted:  completed && in.Section == in.TotalSections,
		PrevLink:         prevLink(in),
		NextLink:         nextLink(in, completed),
	}
	if in.Record.HasOutput() {
		view.Output = in.Record.Outputs.Data
	}
	if view.Fields == nil {
		view.Fields = []models.InputField{}
	}
	return view, nil
}

func prevLink(in Input) *models.NavLink {
	if in.Section > 1 {
		return link(in.CourseID, in.Lesson.ID, in.Section-1, true)
	}
	if in.Lesson.Prev != "" && in.PrevLessonSections > 0 {
		return link(in.CourseID, in.Lesson.Prev, in.PrevLessonSections, true)
	}
	return nil
}

func nextLink(in Input, completed bool) *models.NavLink {
	if in.Section < in.TotalSections {
		return link(in.CourseID, in.Lesson.ID, in.Section+1, completed)
	}
	if in.Lesson.Next != "" {
		return link(in.CourseID, in.Lesson.Next, 1, completed)
	}
	return nil
}

func link(courseID, lessonID string, section int, enabled bool) *models.NavLink {
	return &models.NavLink{
		CourseID: courseID,
		LessonID: lessonID,
		Section:  section,
		Href:     Href(courseID, lessonID, section),
		Enabled:  enabled,
	}
}

// ResumeSection returns the section to open when a lesson is requested without one
func ResumeSection(record *models.ProgressRecord, total int) int {
	if total < 1 {
		return 0
	}
	next := record.LastCompletedSection() + 1
	if !record.HasOutput() {
		next = 1
	}
	if next > total {
		return total
	}
	return next
}

// LessonCompleted reports whether every section of the lesson is completed
func LessonCompleted(record *models.ProgressRecord, total int) bool {
	return total > 0 && SectionCompleted(record, total)
}

// LessonProgress summarizes a lesson for the syllabus: the number of completed
// sections and whether the whole lesson is completed
func LessonProgress(record *models.ProgressRecord, total int) (int, bool) {
	if !record.HasOutput() {
		return 0, false
	}
	return min(record.LastCompletedSection(), total), LessonCompleted(record, total)
}

// ResetTarget returns the lastCompletedSection a record must hold after resetting section
func ResetTarget(record *models.ProgressRecord, section int) int {
	last := record.LastCompletedSection()
	if section-1 < last {
		return section - 1
	}
	return last
}
