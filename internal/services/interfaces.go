package services

import (
	"context"

	"github.com/coursekit/playground/internal/content"
	"github.com/coursekit/playground/internal/models"
	"github.com/coursekit/playground/internal/render"
)

// ProgressStore is the interface that wraps methods for progress record persistence.
// It is implemented once for signed-in users and once for guests.
type ProgressStore interface {
	// Method Fetch retrieves the record of a single lesson.
	//
	// "ctx" is the context for the request.
	// "owner" is the user or guest the record belongs to.
	// "courseID" and "lessonID" address the lesson.
	//
	// An absent record is returned as "nil" with a "nil" error.
	// A record whose stored inputs or outputs are malformed yields an error wrapping models.ErrDataIntegrity.
	Fetch(ctx context.Context, owner models.Identity, courseID, lessonID string) (*models.ProgressRecord, error)
	// Method FetchCourse retrieves every record of a course keyed by lesson id.
	//
	// Please reference Fetch method for more information about parameters and error values.
	FetchCourse(ctx context.Context, owner models.Identity, courseID string) (map[string]*models.ProgressRecord, error)
	// Method Upsert merges "patch" into the stored inputs field by field.
	//
	// "lastCompletedSection" is raised to the provided value, never lowered.
	// The record is created when absent.
	Upsert(ctx context.Context, owner models.Identity, courseID, lessonID string, patch models.FieldValues, lastCompletedSection int) error
	// Method SetOutput stores the rendered output of the lesson.
	//
	// "output" is the rendered lesson output; "nil" clears the stored output.
	// "lastCompletedSection" is raised to the provided value in the same write, never lowered,
	// so a section only counts as completed together with the output rendered from its values.
	SetOutput(ctx context.Context, owner models.Identity, courseID, lessonID string, output *string, lastCompletedSection int) error
	// Method DeleteLessonProgress removes the record of the lesson.
	//
	// Removing an absent record is not an error.
	DeleteLessonProgress(ctx context.Context, owner models.Identity, courseID, lessonID string) error
	// Method ResetSection removes "keys" from the stored inputs and lowers "lastCompletedSection" to at most the provided value.
	//
	// An absent record is left absent.
	ResetSection(ctx context.Context, owner models.Identity, courseID, lessonID string, keys []models.FieldKey, lastCompletedSection int) error
}

// ProgressStores selects the progress backend of an identity
type ProgressStores struct {
	Users  ProgressStore
	Guests ProgressStore
}

// For returns the store holding the identity's records.
// This is the only place where guests and users are told apart.
func (s ProgressStores) For(owner models.Identity) ProgressStore {
	if owner.Authenticated() {
		return s.Users
	}
	return s.Guests
}

// Catalog is the interface that wraps read access to the static course catalog
type Catalog interface {
	// Method Courses returns every course in catalog order.
	Courses() []models.Course
	// Method Course returns the course with the given id and whether it exists.
	Course(id string) (*models.Course, bool)
	// Method Lesson returns the lesson of a course and whether it exists.
	Lesson(courseID, lessonID string) (*models.Lesson, bool)
}

// ContentSource is the interface that wraps lesson content retrieval
type ContentSource interface {
	// Method FetchContent retrieves the ordered blocks of a content reference.
	//
	// "ref" is the opaque content reference of a lesson.
	// An unknown reference yields content without blocks.
	FetchContent(ctx context.Context, ref string) (models.RawContent, error)
}

// ProfileRepository is the interface that wraps profile retrieval
type ProfileRepository interface {
	// Method GetByUserID retrieves the profile of a user, or "nil" when the user has none.
	GetByUserID(ctx context.Context, userID int) (*models.Profile, error)
}

// OutputRenderer is the interface that wraps output template rendering
type OutputRenderer interface {
	// Method Render substitutes every field of "tmpl" with values from "src".
	//
	// Missing values degrade to inline markers; a failed text generation returns an error.
	Render(ctx context.Context, tmpl content.Template, src render.Sources) (string, error)
}

// ExportRepository is the interface that wraps methods for exported output persistence
type ExportRepository interface {
	// Method Create stores a new export snapshot.
	Create(ctx context.Context, export *models.ExportedOutput) error
	// Method GetByID retrieves an export.
	//
	// An unknown id yields an error wrapping models.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.ExportedOutput, error)
	// Method ListByUser retrieves a user's exports, newest first.
	ListByUser(ctx context.Context, userID int) ([]models.ExportedOutput, error)
	// Method IncrementViewCount adds one view to an export.
	IncrementViewCount(ctx context.Context, id string) error
	// Method SetVisibility changes whether an export is public.
	SetVisibility(ctx context.Context, id string, isPublic bool) error
}
