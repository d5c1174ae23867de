package models

import "time"

// ExportedOutput is an immutable snapshot of a lesson's rendered output.
// Only ViewCount changes after creation (and IsPublic, by its owner).
type ExportedOutput struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"courseId"`
	LessonID   string    `json:"lessonId"`
	UserID     int       `json:"userId"`
	FullName   string    `json:"fullName"`
	Output     string    `json:"output"`
	IsPublic   bool      `json:"isPublic"`
	ViewCount  int       `json:"viewCount"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// CreateExportRequest represents a request to export a lesson's output
type CreateExportRequest struct {
	FullName string `json:"fullName"`
	IsPublic bool   `json:"isPublic"`
}

// UpdateExportRequest represents a request to change an export's visibility
type UpdateExportRequest struct {
	IsPublic bool `json:"isPublic"`
}
