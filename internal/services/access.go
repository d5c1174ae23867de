package services

import (
	"context"
	"fmt"

	"github.com/coursekit/playground/internal/models"
)

// accessPolicy resolves catalog entries and gates them by identity and plan
type accessPolicy struct {
	catalog  Catalog
	profiles ProfileRepository
}

// course returns the course if the identity may open it
func (a accessPolicy) course(ctx context.Context, courseID string, owner models.Identity) (*models.Course, error) {
	course, ok := a.catalog.Course(courseID)
	if !ok {
		return nil, fmt.Errorf("course %q: %w", courseID, models.ErrNotFound)
	}

	if course.Access == models.AccessPrivate || course.RequiredPlan != "" {
		if !owner.Authenticated() {
			return nil, fmt.Errorf("course %q: %w", courseID, models.ErrUnauthorized)
		}
	}

	if course.RequiredPlan != "" {
		profile, err := a.profiles.GetByUserID(ctx, owner.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w: %w", models.ErrExternalService, err)
		}
		plan := models.PlanFree
		if profile != nil {
			plan = profile.Plan
		}
		if !plan.Covers(course.RequiredPlan) {
			return nil, fmt.Errorf("course %q requires plan %q: %w", courseID, course.RequiredPlan, models.ErrForbidden)
		}
	}

	return course, nil
}

// lesson returns the course and lesson if the identity may open them
func (a accessPolicy) lesson(ctx context.Context, courseID, lessonID string, owner models.Identity) (*models.Course, *models.Lesson, error) {
	if _, ok := a.catalog.Course(courseID); !ok {
		return nil, nil, fmt.Errorf("course %q: %w", courseID, models.ErrNotFound)
	}
	lesson, ok := a.catalog.Lesson(courseID, lessonID)
	if !ok {
		return nil, nil, fmt.Errorf("lesson %q of course %q: %w", lessonID, courseID, models.ErrNotFound)
	}

	course, err := a.course(ctx, courseID, owner)
	if err != nil {
		return nil, nil, err
	}
	return course, lesson, nil
}
