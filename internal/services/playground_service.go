package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coursekit/playground/internal/content"
	"github.com/coursekit/playground/internal/metrics"
	"github.com/coursekit/playground/internal/models"
	"github.com/coursekit/playground/internal/render"
	"github.com/coursekit/playground/internal/sections"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWriteTimeout = 60 * time.Second
	syllabusFetchLimit  = 4
)

type playgroundService struct {
	access       accessPolicy
	catalog      Catalog
	stores       ProgressStores
	content      ContentSource
	renderer     OutputRenderer
	writeTimeout time.Duration
	logger       *zap.Logger
}

// NewPlaygroundService creates a new playground service.
// writeTimeout bounds a submission's persistence and rendering, which outlive the request.
func NewPlaygroundService(
	catalog Catalog,
	stores ProgressStores,
	contentSource ContentSource,
	profiles ProfileRepository,
	renderer OutputRenderer,
	writeTimeout time.Duration,
	logger *zap.Logger,
) *playgroundService {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &playgroundService{
		access:       accessPolicy{catalog: catalog, profiles: profiles},
		catalog:      catalog,
		stores:       stores,
		content:      contentSource,
		renderer:     renderer,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// ListCourses returns every course of the catalog
func (s *playgroundService) ListCourses(ctx context.Context) []models.CourseListItem {
	courses := s.catalog.Courses()
	items := make([]models.CourseListItem, 0, len(courses))
	for _, c := range courses {
		items = append(items, courseListItem(c))
	}
	return items
}

// Syllabus returns a course with the identity's progress on every lesson
func (s *playgroundService) Syllabus(ctx context.Context, courseID string, owner models.Identity) (*models.Syllabus, error) {
	course, err := s.access.course(ctx, courseID, owner)
	if err != nil {
		return nil, err
	}

	var records map[string]*models.ProgressRecord
	totals := make([]int, len(course.Lessons))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syllabusFetchLimit + 1)
	g.Go(func() error {
		var err error
		records, err = s.stores.For(owner).FetchCourse(gctx, owner, course.ID)
		if err != nil {
			return fmt.Errorf("failed to fetch course progress: %w", err)
		}
		return nil
	})
	for i, lesson := range course.Lessons {
		g.Go(func() error {
			raw, err := s.fetchContent(gctx, lesson)
			if err != nil {
				return err
			}
			totals[i] = content.TotalSections(raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	syllabus := &models.Syllabus{
		Course:  courseListItem(*course),
		Lessons: make([]models.SyllabusLesson, 0, len(course.Lessons)),
	}
	for i, lesson := range course.Lessons {
		done, completed := sections.LessonProgress(records[lesson.ID], totals[i])
		syllabus.Lessons = append(syllabus.Lessons, models.SyllabusLesson{
			ID:                   lesson.ID,
			Title:                lesson.Title,
			Description:          lesson.Description,
			Order:                lesson.Order,
			TotalSections:        totals[i],
			LastCompletedSection: done,
			Completed:            completed,
			Href:                 sections.LessonHref(course.ID, lesson.ID),
		})
	}
	return syllabus, nil
}

// ResumeLesson returns the section a lesson opens at: the first one not yet completed
func (s *playgroundService) ResumeLesson(ctx context.Context, courseID, lessonID string, owner models.Identity) (int, error) {
	_, lesson, err := s.access.lesson(ctx, courseID, lessonID, owner)
	if err != nil {
		return 0, err
	}

	var record *models.ProgressRecord
	var raw models.RawContent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		record, err = s.fetchRecord(gctx, owner, courseID, lessonID)
		return err
	})
	g.Go(func() error {
		var err error
		raw, err = s.fetchContent(gctx, *lesson)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	section := sections.ResumeSection(record, content.TotalSections(raw))
	if section == 0 {
		return 0, fmt.Errorf("lesson %q has no sections: %w", lessonID, models.ErrNotFound)
	}
	return section, nil
}

// ResolveSection computes the view of one section for the identity
func (s *playgroundService) ResolveSection(ctx context.Context, courseID, lessonID string, section int, owner models.Identity) (*models.SectionView, error) {
	_, lesson, err := s.access.lesson(ctx, courseID, lessonID, owner)
	if err != nil {
		return nil, err
	}

	page, err := s.loadPage(ctx, courseID, *lesson, section, owner)
	if err != nil {
		return nil, err
	}
	return page.resolve(nil)
}

// SubmitSection validates and stores a section's values, renders the lesson output and
// returns the recomputed view. Persistence is not cancelled with the request.
func (s *playgroundService) SubmitSection(ctx context.Context, courseID, lessonID string, section int, owner models.Identity, values models.FieldValues) (*models.SubmitResult, error) {
	identityLabel := metrics.IdentityLabel(owner.Authenticated())

	result, err := s.submitSection(ctx, courseID, lessonID, section, owner, values)
	var validationErr *ValidationError
	switch {
	case err == nil:
		metrics.SectionSubmissions.WithLabelValues(identityLabel, "completed").Inc()
	case errors.As(err, &validationErr):
		metrics.SectionSubmissions.WithLabelValues(identityLabel, "invalid").Inc()
	default:
		metrics.SectionSubmissions.WithLabelValues(identityLabel, "error").Inc()
	}
	return result, err
}

func (s *playgroundService) submitSection(ctx context.Context, courseID, lessonID string, section int, owner models.Identity, values models.FieldValues) (*models.SubmitResult, error) {
	_, lesson, err := s.access.lesson(ctx, courseID, lessonID, owner)
	if err != nil {
		return nil, err
	}

	page, err := s.loadPage(ctx, courseID, *lesson, section, owner)
	if err != nil {
		return nil, err
	}

	problems := validateSubmission(page.fields, values)
	if section > 1 && !sections.SectionCompleted(page.record, section-1) {
		if problems == nil {
			problems = map[string]string{}
		}
		problems["section"] = fmt.Sprintf("complete section %d first", section-1)
	}
	if problems != nil {
		view, err := page.resolve(values)
		if err != nil {
			return nil, err
		}
		return nil, &ValidationError{Fields: problems, View: view}
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	// The values are stored first with the section still pending; it is marked completed
	// only together with the output rendered from them.
	store := s.stores.For(owner)
	if err := store.Upsert(writeCtx, owner, courseID, lessonID, values, section-1); err != nil {
		return nil, fmt.Errorf("failed to store section values: %w", err)
	}

	record, err := store.Fetch(writeCtx, owner, courseID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload lesson progress: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("lesson progress vanished after write: %w", models.ErrDataIntegrity)
	}

	output, err := s.renderLesson(writeCtx, courseID, page, record, owner)
	if err != nil {
		return nil, err
	}

	if err := store.SetOutput(writeCtx, owner, courseID, lessonID, &output, section); err != nil {
		return nil, fmt.Errorf("failed to store lesson output: %w", err)
	}
	record.Inputs.Metadata.LastCompletedSection = max(record.LastCompletedSection(), section)
	record.Outputs = models.Outputs{Data: &output, Metadata: models.OutputsMetadata{ModifiedAt: models.UTCNow()}}

	page.record = record
	page.cached = nil
	view, err := page.resolve(nil)
	if err != nil {
		return nil, err
	}

	redirect := sections.Href(courseID, lessonID, section)
	if view.NextLink != nil && view.NextLink.Enabled {
		redirect = view.NextLink.Href
	}
	return &models.SubmitResult{View: view, Redirect: redirect}, nil
}

// ResetSection clears a section's values so it has to be submitted again, together with every later section
func (s *playgroundService) ResetSection(ctx context.Context, courseID, lessonID string, section int, owner models.Identity) (*models.SectionView, error) {
	_, lesson, err := s.access.lesson(ctx, courseID, lessonID, owner)
	if err != nil {
		return nil, err
	}

	page, err := s.loadPage(ctx, courseID, *lesson, section, owner)
	if err != nil {
		return nil, err
	}

	keys := make([]models.FieldKey, 0, len(page.fields))
	for _, f := range page.fields {
		keys = append(keys, f.Key)
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	store := s.stores.For(owner)
	target := sections.ResetTarget(page.record, section)
	if err := store.ResetSection(writeCtx, owner, courseID, lessonID, keys, target); err != nil {
		return nil, fmt.Errorf("failed to reset section: %w", err)
	}

	record, err := store.Fetch(writeCtx, owner, courseID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload lesson progress: %w", err)
	}
	if record != nil {
		record.Outputs.Data = s.rerenderAfterReset(writeCtx, courseID, page, record, owner, target)
		if err := store.SetOutput(writeCtx, owner, courseID, lessonID, record.Outputs.Data, 0); err != nil {
			return nil, fmt.Errorf("failed to store lesson output: %w", err)
		}
	}
	page.record = record
	return page.resolve(nil)
}

// rerenderAfterReset renders the lesson output from the values left after a reset.
// With no completed section left, or when rendering fails, the output is cleared and the
// lesson waits for its next submission to produce one.
func (s *playgroundService) rerenderAfterReset(ctx context.Context, courseID string, p *page, record *models.ProgressRecord, owner models.Identity, target int) *string {
	if target < 1 {
		return nil
	}
	output, err := s.renderLesson(ctx, courseID, p, record, owner)
	if err != nil {
		s.logger.Warn("clearing lesson output after failed re-render", zap.Error(err),
			zap.String("courseId", courseID), zap.String("lessonId", p.lesson.ID))
		return nil
	}
	return &output
}

// RestartLesson clears every section of a lesson. Restarting an untouched lesson is a no-op.
// Returns the path of the lesson's first section.
func (s *playgroundService) RestartLesson(ctx context.Context, courseID, lessonID string, owner models.Identity) (string, error) {
	if _, _, err := s.access.lesson(ctx, courseID, lessonID, owner); err != nil {
		return "", err
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	if err := s.stores.For(owner).DeleteLessonProgress(writeCtx, owner, courseID, lessonID); err != nil {
		return "", fmt.Errorf("failed to restart lesson: %w", err)
	}
	return sections.Href(courseID, lessonID, 1), nil
}

// page gathers every source needed to resolve one section
type page struct {
	courseID      string
	lesson        models.Lesson
	section       int
	sections      []models.SectionTemplates
	fields        []models.InputField
	record        *models.ProgressRecord
	cached        models.FieldValues
	prevLessonLen int
}

func (p *page) resolve(attempt models.FieldValues) (*models.SectionView, error) {
	return sections.Resolve(sections.Input{
		CourseID:           p.courseID,
		Lesson:             p.lesson,
		Section:            p.section,
		TotalSections:      len(p.sections),
		Templates:          content.SectionAt(p.sections, p.section),
		Fields:             p.fields,
		Record:             p.record,
		PrevLessonSections: p.prevLessonLen,
		Attempt:            attempt,
		Cached:             p.cached,
	})
}

// loadPage fetches the record, the lesson content and, on a first section, the previous
// lesson's content concurrently. A section outside the lesson yields models.ErrNotFound.
func (s *playgroundService) loadPage(ctx context.Context, courseID string, lesson models.Lesson, section int, owner models.Identity) (*page, error) {
	p := &page{courseID: courseID, lesson: lesson, section: section}
	var raw models.RawContent
	var guestRecord *models.ProgressRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p.record, err = s.fetchRecord(gctx, owner, courseID, lesson.ID)
		return err
	})
	g.Go(func() error {
		var err error
		raw, err = s.fetchContent(gctx, lesson)
		return err
	})
	if section == 1 && lesson.Prev != "" {
		g.Go(func() error {
			prev, ok := s.catalog.Lesson(courseID, lesson.Prev)
			if !ok {
				return nil
			}
			prevRaw, err := s.fetchContent(gctx, *prev)
			if err != nil {
				return err
			}
			p.prevLessonLen = content.TotalSections(prevRaw)
			return nil
		})
	}
	if owner.Authenticated() && owner.GuestID != "" {
		g.Go(func() error {
			var err error
			guestRecord, err = s.fetchGuestCache(gctx, owner, courseID, lesson.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.sections = content.SplitSections(raw)
	if !sections.InRange(section, len(p.sections)) {
		return nil, fmt.Errorf("section %d of lesson %q: %w", section, lesson.ID, models.ErrNotFound)
	}

	fields, err := content.ParseInputFields(content.SectionAt(p.sections, section).Input)
	if err != nil {
		return nil, fmt.Errorf("lesson %q section %d: %w", lesson.ID, section, err)
	}
	p.fields = fields

	// Guest answers stand in only until the user's first submission of this lesson.
	if p.record == nil && guestRecord != nil {
		p.cached = guestRecord.Values()
	}
	return p, nil
}

// renderLesson renders the full lesson output template. Cross-lesson fields are read from
// the identity's other records of the course.
func (s *playgroundService) renderLesson(ctx context.Context, courseID string, p *page, record *models.ProgressRecord, owner models.Identity) (string, error) {
	start := time.Now()

	tmpl, err := content.ParseOutputTemplate(content.LessonOutputTemplate(p.sections))
	if err != nil {
		return "", fmt.Errorf("lesson %q output template: %w", p.lesson.ID, err)
	}

	src := render.Sources{
		CourseID:     courseID,
		Values:       record.Values(),
		Lessons:      map[string]*models.ProgressRecord{p.lesson.ID: record},
		LessonTitles: map[string]string{},
	}
	if refs := tmpl.ReferencedLessons(); len(refs) > 0 {
		others, err := s.stores.For(owner).FetchCourse(ctx, owner, courseID)
		if err != nil {
			return "", fmt.Errorf("failed to fetch referenced lessons: %w", err)
		}
		for _, ref := range refs {
			if ref != p.lesson.ID {
				src.Lessons[ref] = others[ref]
			}
			if l, ok := s.catalog.Lesson(courseID, ref); ok {
				src.LessonTitles[ref] = l.Title
			}
		}
	}

	output, err := s.renderer.Render(ctx, tmpl, src)
	if err != nil {
		metrics.RenderDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		s.logger.Error("failed to render lesson output", zap.Error(err),
			zap.String("courseId", courseID), zap.String("lessonId", p.lesson.ID))
		return "", err
	}
	metrics.RenderDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	return output, nil
}

func (s *playgroundService) fetchRecord(ctx context.Context, owner models.Identity, courseID, lessonID string) (*models.ProgressRecord, error) {
	record, err := s.stores.For(owner).Fetch(ctx, owner, courseID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lesson progress: %w", err)
	}
	return record, nil
}

// fetchGuestCache reads the guest session's record for a signed-in user. Only malformed
// data is an error; an unreachable guest store just means nothing is cached.
func (s *playgroundService) fetchGuestCache(ctx context.Context, owner models.Identity, courseID, lessonID string) (*models.ProgressRecord, error) {
	guest := models.Identity{GuestID: owner.GuestID}
	record, err := s.stores.Guests.Fetch(ctx, guest, courseID, lessonID)
	if errors.Is(err, models.ErrDataIntegrity) {
		return nil, fmt.Errorf("failed to fetch guest progress: %w", err)
	}
	if err != nil {
		s.logger.Warn("guest progress unavailable", zap.Error(err), zap.String("guestId", owner.GuestID))
		return nil, nil
	}
	return record, nil
}

func (s *playgroundService) fetchContent(ctx context.Context, lesson models.Lesson) (models.RawContent, error) {
	raw, err := s.content.FetchContent(ctx, lesson.ContentRef)
	if err != nil {
		return models.RawContent{}, fmt.Errorf("failed to fetch content of lesson %q: %w", lesson.ID, err)
	}
	return raw, nil
}

func courseListItem(c models.Course) models.CourseListItem {
	return models.CourseListItem{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Access:       c.Access,
		RequiredPlan: c.RequiredPlan,
		TotalLessons: len(c.Lessons),
	}
}
