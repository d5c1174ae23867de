package models

import "time"

// InputsMetadata holds bookkeeping for a record's inputs
type InputsMetadata struct {
	LastCompletedSection int       `json:"lastCompletedSection"`
	ModifiedAt           time.Time `json:"modifiedAt"`
}

// Inputs holds the submitted field values of a lesson
type Inputs struct {
	Data     FieldValues    `json:"data"`
	Metadata InputsMetadata `json:"metadata"`
}

// OutputsMetadata holds bookkeeping for a record's rendered output
type OutputsMetadata struct {
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Outputs holds the rendered output of a lesson. Data is nil until the first render completes.
type Outputs struct {
	Data     *string         `json:"data"`
	Metadata OutputsMetadata `json:"metadata"`
}

// ProgressRecord represents a user's or guest's answers and rendered output for one lesson
type ProgressRecord struct {
	Owner    Identity `json:"-"`
	CourseID string   `json:"courseId"`
	LessonID string   `json:"lessonId"`
	Inputs   Inputs   `json:"inputs"`
	Outputs  Outputs  `json:"outputs"`
}

// HasOutput reports whether the record carries a rendered output
func (r *ProgressRecord) HasOutput() bool {
	return r != nil && r.Outputs.Data != nil
}

// LastCompletedSection returns the last completed section, 0 for a nil record
func (r *ProgressRecord) LastCompletedSection() int {
	if r == nil {
		return 0
	}
	return r.Inputs.Metadata.LastCompletedSection
}

// Values returns the record's field values, never nil
func (r *ProgressRecord) Values() FieldValues {
	if r == nil || r.Inputs.Data == nil {
		return FieldValues{}
	}
	return r.Inputs.Data
}

// Clock returns the current time; stores take one so tests can pin timestamps
type Clock func() time.Time

// UTCNow is the default Clock
func UTCNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
