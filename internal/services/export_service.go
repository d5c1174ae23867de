package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursekit/playground/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type exportService struct {
	access   accessPolicy
	progress ProgressStore
	exports  ExportRepository
	profiles ProfileRepository
	now      models.Clock
	logger   *zap.Logger
}

// NewExportService creates a new export service. Only signed-in users export, so it reads
// the users' progress store directly.
func NewExportService(catalog Catalog, progress ProgressStore, exports ExportRepository, profiles ProfileRepository, logger *zap.Logger) *exportService {
	return &exportService{
		access:   accessPolicy{catalog: catalog, profiles: profiles},
		progress: progress,
		exports:  exports,
		profiles: profiles,
		now:      models.UTCNow,
		logger:   logger,
	}
}

// Create snapshots the lesson's rendered output.
// When no full name is given, the name from the user's profile is used.
func (s *exportService) Create(ctx context.Context, owner models.Identity, courseID, lessonID string, req models.CreateExportRequest) (*models.ExportedOutput, error) {
	if !owner.Authenticated() {
		return nil, fmt.Errorf("export: %w", models.ErrUnauthorized)
	}
	if _, _, err := s.access.lesson(ctx, courseID, lessonID, owner); err != nil {
		return nil, err
	}

	record, err := s.progress.Fetch(ctx, owner, courseID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lesson progress: %w", err)
	}
	if !record.HasOutput() {
		return nil, fmt.Errorf("lesson %q: %w", lessonID, models.ErrNothingToExport)
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		profile, err := s.profiles.GetByUserID(ctx, owner.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w: %w", models.ErrExternalService, err)
		}
		if profile != nil {
			fullName = profile.FullName
		}
	}

	now := s.now()
	export := &models.ExportedOutput{
		ID:         uuid.NewString(),
		CourseID:   courseID,
		LessonID:   lessonID,
		UserID:     owner.UserID,
		FullName:   fullName,
		Output:     *record.Outputs.Data,
		IsPublic:   req.IsPublic,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := s.exports.Create(ctx, export); err != nil {
		s.logger.Error("failed to create export", zap.Error(err), zap.Int("userId", owner.UserID))
		return nil, fmt.Errorf("failed to create export: %w", err)
	}
	return export, nil
}

// Get returns an export and counts the view. Private exports are visible to their owner only
// and are not counted for them.
func (s *exportService) Get(ctx context.Context, viewer models.Identity, id string) (*models.ExportedOutput, error) {
	export, err := s.exports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := viewer.Authenticated() && viewer.UserID == export.UserID
	if !export.IsPublic && !owned {
		return nil, fmt.Errorf("exported output %q: %w", id, models.ErrNotFound)
	}
	if owned {
		return export, nil
	}

	if err := s.exports.IncrementViewCount(ctx, id); err != nil {
		return nil, err
	}
	export.ViewCount++
	return export, nil
}

// ListMine returns the user's exports
func (s *exportService) ListMine(ctx context.Context, owner models.Identity) ([]models.ExportedOutput, error) {
	if !owner.Authenticated() {
		return nil, fmt.Errorf("exports: %w", models.ErrUnauthorized)
	}
	return s.exports.ListByUser(ctx, owner.UserID)
}

// SetVisibility publishes or hides one of the user's exports
func (s *exportService) SetVisibility(ctx context.Context, owner models.Identity, id string, isPublic bool) (*models.ExportedOutput, error) {
	if !owner.Authenticated() {
		return nil, fmt.Errorf("exports: %w", models.ErrUnauthorized)
	}

	export, err := s.exports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if export.UserID != owner.UserID {
		return nil, fmt.Errorf("exported output %q: %w", id, models.ErrNotFound)
	}

	if err := s.exports.SetVisibility(ctx, id, isPublic); err != nil {
		return nil, err
	}
	export.IsPublic = isPublic
	export.ModifiedAt = s.now()
	return export, nil
}
