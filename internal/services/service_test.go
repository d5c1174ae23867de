package services

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/coursekit/playground/internal/catalog"
	"github.com/coursekit/playground/internal/content"
	"github.com/coursekit/playground/internal/models"
	"github.com/coursekit/playground/internal/render"
	"github.com/stretchr/testify/require"
)

// mockStore is an in-memory ProgressStore keyed by owner, course and lesson
type mockStore struct {
	records   map[string]*models.ProgressRecord
	err       error
	fetchErr  error
	upserts   int
	setOutput int
	deletes   int
}

func newMockStore() *mockStore {
	return &mockStore{records: map[string]*models.ProgressRecord{}}
}

func storeKey(owner models.Identity, courseID, lessonID string) string {
	if owner.Authenticated() {
		return "u:" + strconv.Itoa(owner.UserID) + ":" + courseID + ":" + lessonID
	}
	return "g:" + owner.GuestID + ":" + courseID + ":" + lessonID
}

func (m *mockStore) Fetch(ctx context.Context, owner models.Identity, courseID, lessonID string) (*models.ProgressRecord, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	r, ok := m.records[storeKey(owner, courseID, lessonID)]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *mockStore) FetchCourse(ctx context.Context, owner models.Identity, courseID string) (map[string]*models.ProgressRecord, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := map[string]*models.ProgressRecord{}
	for _, r := range m.records {
		if r.Owner == owner && r.CourseID == courseID {
			cp := *r
			out[r.LessonID] = &cp
		}
	}
	return out, nil
}

func (m *mockStore) Upsert(ctx context.Context, owner models.Identity, courseID, lessonID string, patch models.FieldValues, lastCompletedSection int) error {
	if m.err != nil {
		return m.err
	}
	m.upserts++
	key := storeKey(owner, courseID, lessonID)
	r, ok := m.records[key]
	if !ok {
		r = &models.ProgressRecord{Owner: owner, CourseID: courseID, LessonID: lessonID}
		m.records[key] = r
	}
	r.Inputs.Data = r.Inputs.Data.Merge(patch)
	r.Inputs.Metadata.LastCompletedSection = max(r.Inputs.Metadata.LastCompletedSection, lastCompletedSection)
	return nil
}

func (m *mockStore) SetOutput(ctx context.Context, owner models.Identity, courseID, lessonID string, output *string, lastCompletedSection int) error {
	if m.err != nil {
		return m.err
	}
	m.setOutput++
	key := storeKey(owner, courseID, lessonID)
	r, ok := m.records[key]
	if !ok {
		r = &models.ProgressRecord{Owner: owner, CourseID: courseID, LessonID: lessonID}
		m.records[key] = r
	}
	r.Outputs.Data = output
	r.Inputs.Metadata.LastCompletedSection = max(r.Inputs.Metadata.LastCompletedSection, lastCompletedSection)
	return nil
}

func (m *mockStore) DeleteLessonProgress(ctx context.Context, owner models.Identity, courseID, lessonID string) error {
	if m.err != nil {
		return m.err
	}
	m.deletes++
	delete(m.records, storeKey(owner, courseID, lessonID))
	return nil
}

func (m *mockStore) ResetSection(ctx context.Context, owner models.Identity, courseID, lessonID string, keys []models.FieldKey, lastCompletedSection int) error {
	if m.err != nil {
		return m.err
	}
	r, ok := m.records[storeKey(owner, courseID, lessonID)]
	if !ok {
		return nil
	}
	r.Inputs.Data = r.Inputs.Data.Without(keys)
	r.Inputs.Metadata.LastCompletedSection = min(r.Inputs.Metadata.LastCompletedSection, lastCompletedSection)
	return nil
}

// mockContent is a mock implementation of ContentSource
type mockContent struct {
	blocks map[string][]string
	err    error
}

func (m *mockContent) FetchContent(ctx context.Context, ref string) (models.RawContent, error) {
	if m.err != nil {
		return models.RawContent{}, m.err
	}
	raw := models.RawContent{Ref: ref, Blocks: []models.ContentBlock{}}
	for i, body := range m.blocks[ref] {
		raw.Blocks = append(raw.Blocks, models.ContentBlock{Order: i + 1, Body: body})
	}
	return raw, nil
}

// mockProfiles is a mock implementation of ProfileRepository
type mockProfiles struct {
	profiles map[int]*models.Profile
	err      error
}

func (m *mockProfiles) GetByUserID(ctx context.Context, userID int) (*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profiles[userID], nil
}

// mockGenerator is a mock text generator for AI output fields
type mockGenerator struct {
	err   error
	calls int
}

func (m *mockGenerator) Generate(ctx context.Context, input, prompt string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return "SMART: " + input, nil
}

// cancellingRenderer cancels the request context while rendering, like a client navigating away
type cancellingRenderer struct {
	cancel context.CancelFunc
}

func (m *cancellingRenderer) Render(ctx context.Context, tmpl content.Template, src render.Sources) (string, error) {
	m.cancel()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "<p>rendered</p>", nil
}

var (
	testUser  = models.Identity{UserID: 7}
	testGuest = models.Identity{GuestID: "guest-1"}
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]models.Course{
		{
			ID: "demo", Title: "Demo", Access: models.AccessPublic,
			Lessons: []models.Lesson{
				{ID: "smart", ContentRef: "demo-smart", Title: "SMART goals", Order: 1},
				{ID: "plan", ContentRef: "demo-plan", Title: "Plan", Order: 2},
			},
		},
		{
			ID: "strategy", Title: "Strategy", Access: models.AccessPrivate, RequiredPlan: models.PlanBasic,
			Lessons: []models.Lesson{
				{ID: "audience", ContentRef: "strategy-audience", Title: "Audience", Order: 1},
			},
		},
		{
			ID: "members", Title: "Members", Access: models.AccessPrivate,
			Lessons: []models.Lesson{
				{ID: "intro", ContentRef: "members-intro", Title: "Intro", Order: 1},
			},
		},
	})
	require.NoError(t, err)
	return c
}

func testContent() *mockContent {
	return &mockContent{blocks: map[string][]string{
		"demo-smart": {
			`<p>What do you want?</p><I_TEXT name="specific" label="Specific" />`,
			`<h2>Goal</h2><O_TEXT name="specific" />`,
			`<I_TEXT name="measurable" label="Measurable" />`,
			`<p><O_TEXT name="measurable" /></p><O_AI name="pitch" source="specific" prompt="Rewrite {{input}}" />`,
		},
		"demo-plan": {
			`<I_TABLE name="steps" columns="Step,Date" />`,
			`<O_TEXT name="specific" lessonId="smart" /><O_TABLE name="steps" columns="Step,Date" />`,
		},
		"strategy-audience": {`<I_TEXT name="who" />`, `<O_TEXT name="who" />`},
		"members-intro":     {`<I_TEXT name="why" />`, `<O_TEXT name="why" />`},
	}}
}

type testDeps struct {
	users     *mockStore
	guests    *mockStore
	content   *mockContent
	profiles  *mockProfiles
	generator *mockGenerator
}

func newTestPlaygroundService(t *testing.T) (*playgroundService, *testDeps) {
	t.Helper()
	deps := &testDeps{
		users:     newMockStore(),
		guests:    newMockStore(),
		content:   testContent(),
		profiles:  &mockProfiles{profiles: map[int]*models.Profile{7: {UserID: 7, FullName: "Ada Lovelace", Plan: models.PlanFree}}},
		generator: &mockGenerator{},
	}
	svc := NewPlaygroundService(
		testCatalog(t),
		ProgressStores{Users: deps.users, Guests: deps.guests},
		deps.content,
		deps.profiles,
		render.NewRenderer(deps.generator),
		0,
		nopLogger(),
	)
	return svc, deps
}

func text(s string) models.FieldValues {
	return models.FieldValues{models.TextKey("specific"): models.TextValue(s)}
}

func assertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, target), "expected %v, got %v", target, err)
}
