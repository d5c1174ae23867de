package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coursekit/playground/internal/auth"
	"github.com/coursekit/playground/internal/models"
	"github.com/coursekit/playground/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockPlaygroundService is a mock implementation of PlaygroundService
type mockPlaygroundService struct {
	courses      []models.CourseListItem
	syllabus     *models.Syllabus
	resume       int
	view         *models.SectionView
	submitResult *models.SubmitResult
	restartHref  string
	err          error

	gotOwner   models.Identity
	gotCourse  string
	gotLesson  string
	gotSection int
	gotValues  models.FieldValues
}

func (m *mockPlaygroundService) record(owner models.Identity, courseID, lessonID string, section int) {
	m.gotOwner, m.gotCourse, m.gotLesson, m.gotSection = owner, courseID, lessonID, section
}

func (m *mockPlaygroundService) ListCourses(ctx context.Context) []models.CourseListItem {
	return m.courses
}

func (m *mockPlaygroundService) Syllabus(ctx context.Context, courseID string, owner models.Identity) (*models.Syllabus, error) {
	m.record(owner, courseID, "", 0)
	return m.syllabus, m.err
}

func (m *mockPlaygroundService) ResumeLesson(ctx context.Context, courseID, lessonID string, owner models.Identity) (int, error) {
	m.record(owner, courseID, lessonID, 0)
	return m.resume, m.err
}

func (m *mockPlaygroundService) ResolveSection(ctx context.Context, courseID, lessonID string, section int, owner models.Identity) (*models.SectionView, error) {
	m.record(owner, courseID, lessonID, section)
	return m.view, m.err
}

func (m *mockPlaygroundService) SubmitSection(ctx context.Context, courseID, lessonID string, section int, owner models.Identity, values models.FieldValues) (*models.SubmitResult, error) {
	m.record(owner, courseID, lessonID, section)
	m.gotValues = values
	return m.submitResult, m.err
}

func (m *mockPlaygroundService) ResetSection(ctx context.Context, courseID, lessonID string, section int, owner models.Identity) (*models.SectionView, error) {
	m.record(owner, courseID, lessonID, section)
	return m.view, m.err
}

func (m *mockPlaygroundService) RestartLesson(ctx context.Context, courseID, lessonID string, owner models.Identity) (string, error) {
	m.record(owner, courseID, lessonID, 0)
	return m.restartHref, m.err
}

// mockExportService is a mock implementation of ExportService
type mockExportService struct {
	export  *models.ExportedOutput
	exports []models.ExportedOutput
	err     error

	gotOwner  models.Identity
	gotID     string
	gotCreate models.CreateExportRequest
	gotPublic bool
}

func (m *mockExportService) Create(ctx context.Context, owner models.Identity, courseID, lessonID string, req models.CreateExportRequest) (*models.ExportedOutput, error) {
	m.gotOwner, m.gotCreate = owner, req
	return m.export, m.err
}

func (m *mockExportService) Get(ctx context.Context, viewer models.Identity, id string) (*models.ExportedOutput, error) {
	m.gotOwner, m.gotID = viewer, id
	return m.export, m.err
}

func (m *mockExportService) ListMine(ctx context.Context, owner models.Identity) ([]models.ExportedOutput, error) {
	m.gotOwner = owner
	return m.exports, m.err
}

func (m *mockExportService) SetVisibility(ctx context.Context, owner models.Identity, id string, isPublic bool) (*models.ExportedOutput, error) {
	m.gotOwner, m.gotID, m.gotPublic = owner, id, isPublic
	return m.export, m.err
}

const testGuestID = "5f0c6c8e-3d1a-4b7e-9a51-2c4f7f0e8b11"

// fakeIdentity resolves the identity from the X-Test-User header instead of a token
func fakeIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := models.Identity{GuestID: testGuestID}
		if r.Header.Get("X-Test-User") != "" {
			identity.UserID = 7
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}

func setupRouter(playground PlaygroundService, exports ExportService) chi.Router {
	logger := zap.NewNop()
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		NewPlaygroundHandler(playground, logger).RegisterRoutes(r, fakeIdentity)
		NewExportHandler(exports, logger).RegisterRoutes(r, fakeIdentity, auth.RequireUser)
	})
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path, body string, asUser bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if asUser {
		req.Header.Set("X-Test-User", "1")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPlaygroundHandler_ListCourses(t *testing.T) {
	svc := &mockPlaygroundService{courses: []models.CourseListItem{{ID: "demo", Title: "Demo", Access: models.AccessPublic, TotalLessons: 2}}}
	r := setupRouter(svc, &mockExportService{})

	w := doRequest(t, r, http.MethodGet, "/api/v1/courses", "", false)

	assert.Equal(t, http.StatusOK, w.Code)
	var courses []models.CourseListItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &courses))
	assert.Equal(t, svc.courses, courses)
}

func TestPlaygroundHandler_ResolveSection(t *testing.T) {
	output := "<p>Grow newsletter</p>"
	tests := []struct {
		name            string
		path            string
		asUser          bool
		err             error
		expectedStatus  int
		expectedSection int
		expectedOwner   models.Identity
		expectRedirect  string
	}{
		{
			name:            "guest",
			path:            "/api/v1/playground/demo/smart/1",
			expectedStatus:  http.StatusOK,
			expectedSection: 1,
			expectedOwner:   models.Identity{GuestID: testGuestID},
		},
		{
			name:            "user",
			path:            "/api/v1/playground/demo/smart/2",
			asUser:          true,
			expectedStatus:  http.StatusOK,
			expectedSection: 2,
			expectedOwner:   models.Identity{UserID: 7, GuestID: testGuestID},
		},
		{
			name:           "malformed section",
			path:           "/api/v1/playground/demo/smart/two",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "section zero",
			path:           "/api/v1/playground/demo/smart/0",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown lesson",
			path:           "/api/v1/playground/demo/nope/1",
			err:            fmt.Errorf("lesson %q: %w", "nope", models.ErrNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "private course as guest",
			path:           "/api/v1/playground/members/intro/1",
			err:            models.ErrUnauthorized,
			expectedStatus: http.StatusUnauthorized,
			expectRedirect: "/register",
		},
		{
			name:           "plan too low",
			path:           "/api/v1/playground/strategy/intro/1",
			asUser:         true,
			err:            models.ErrForbidden,
			expectedStatus: http.StatusForbidden,
			expectRedirect: "/pricing",
		},
		{
			name:           "malformed stored progress",
			path:           "/api/v1/playground/demo/smart/1",
			err:            fmt.Errorf("inputs: %w: bad json", models.ErrDataIntegrity),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "content database down",
			path:           "/api/v1/playground/demo/smart/1",
			err:            fmt.Errorf("failed to fetch content: %w", models.ErrExternalService),
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "unexpected error",
			path:           "/api/v1/playground/demo/smart/1",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPlaygroundService{
				view: &models.SectionView{CourseID: "demo", LessonID: "smart", Section: 1, TotalSections: 2, Output: &output},
				err:  tt.err,
			}
			r := setupRouter(svc, &mockExportService{})

			w := doRequest(t, r, http.MethodGet, tt.path, "", tt.asUser)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeBody(t, w)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedSection, svc.gotSection)
				assert.Equal(t, tt.expectedOwner, svc.gotOwner)
				assert.Equal(t, output, body["output"])
				return
			}
			assert.NotEmpty(t, body["error"])
			if tt.expectRedirect != "" {
				assert.Equal(t, tt.expectRedirect, body["redirect"])
			}
			assert.NotContains(t, body["error"], "boom")
		})
	}
}

func TestPlaygroundHandler_SubmitSection(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		result         *models.SubmitResult
		err            error
		expectedStatus int
		checkBody      func(t *testing.T, body map[string]any)
		checkValues    func(t *testing.T, values models.FieldValues)
	}{
		{
			name: "success returns redirect",
			body: `{"values":{"text:specific":"Grow newsletter"}}`,
			result: &models.SubmitResult{
				View:     &models.SectionView{Section: 1, SectionCompleted: true},
				Redirect: "/playground/demo/smart/2",
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "/playground/demo/smart/2", body["redirect"])
			},
			checkValues: func(t *testing.T, values models.FieldValues) {
				assert.Equal(t, models.TextValue("Grow newsletter"), values[models.TextKey("specific")])
			},
		},
		{
			name:           "table values decoded",
			body:           `{"values":{"table:steps":[["Launch","May"]]}}`,
			result:         &models.SubmitResult{View: &models.SectionView{}, Redirect: "/playground/demo/plan/1"},
			expectedStatus: http.StatusOK,
			checkValues: func(t *testing.T, values models.FieldValues) {
				assert.Equal(t, models.TableValue([][]string{{"Launch", "May"}}), values[models.TableKey("steps")])
			},
		},
		{
			name:           "empty body means no values",
			body:           `{}`,
			result:         &models.SubmitResult{View: &models.SectionView{}},
			expectedStatus: http.StatusOK,
			checkValues: func(t *testing.T, values models.FieldValues) {
				assert.NotNil(t, values)
				assert.Empty(t, values)
			},
		},
		{
			name:           "malformed json",
			body:           `{"values":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown field kind",
			body:           `{"values":{"video:clip":"x"}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "validation error carries fields and view",
			body: `{"values":{"text:specific":""}}`,
			err: &services.ValidationError{
				Fields: map[string]string{"text:specific": "this field is required"},
				View:   &models.SectionView{Section: 1},
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, map[string]any{"text:specific": "this field is required"}, body["fields"])
				assert.NotNil(t, body["view"])
			},
		},
		{
			name:           "generation failure",
			body:           `{"values":{"text:specific":"x"}}`,
			err:            fmt.Errorf("failed to render: %w", models.ErrExternalService),
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPlaygroundService{submitResult: tt.result, err: tt.err}
			r := setupRouter(svc, &mockExportService{})

			w := doRequest(t, r, http.MethodPost, "/api/v1/playground/demo/smart/1", tt.body, false)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeBody(t, w)
			if tt.checkBody != nil {
				tt.checkBody(t, body)
			}
			if tt.checkValues != nil {
				tt.checkValues(t, svc.gotValues)
			}
		})
	}
}

func TestPlaygroundHandler_Navigation(t *testing.T) {
	t.Run("resume", func(t *testing.T) {
		svc := &mockPlaygroundService{resume: 2}
		w := doRequest(t, setupRouter(svc, &mockExportService{}), http.MethodGet, "/api/v1/playground/demo/smart", "", false)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"section":2,"href":"/playground/demo/smart/2"}`, w.Body.String())
	})

	t.Run("syllabus", func(t *testing.T) {
		svc := &mockPlaygroundService{syllabus: &models.Syllabus{
			Course:  models.CourseListItem{ID: "demo"},
			Lessons: []models.SyllabusLesson{{ID: "smart", Completed: true}},
		}}
		w := doRequest(t, setupRouter(svc, &mockExportService{}), http.MethodGet, "/api/v1/playground/demo", "", false)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "demo", svc.gotCourse)
	})

	t.Run("reset", func(t *testing.T) {
		svc := &mockPlaygroundService{view: &models.SectionView{Section: 2}}
		w := doRequest(t, setupRouter(svc, &mockExportService{}), http.MethodDelete, "/api/v1/playground/demo/smart/2", "", false)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, svc.gotSection)
	})

	t.Run("restart", func(t *testing.T) {
		svc := &mockPlaygroundService{restartHref: "/playground/demo/smart/1"}
		w := doRequest(t, setupRouter(svc, &mockExportService{}), http.MethodDelete, "/api/v1/playground/demo/smart", "", false)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"redirect":"/playground/demo/smart/1"}`, w.Body.String())
		assert.Equal(t, "smart", svc.gotLesson)
	})
}

func TestExportHandler(t *testing.T) {
	export := &models.ExportedOutput{ID: "exp-1", CourseID: "demo", LessonID: "smart", UserID: 7, Output: "<p>x</p>", IsPublic: true}

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		asUser         bool
		err            error
		expectedStatus int
	}{
		{name: "create", method: http.MethodPost, path: "/api/v1/playground/demo/smart/exports", body: `{"fullName":"Ada","isPublic":true}`, asUser: true, expectedStatus: http.StatusCreated},
		{name: "create as guest", method: http.MethodPost, path: "/api/v1/playground/demo/smart/exports", body: `{}`, expectedStatus: http.StatusUnauthorized},
		{name: "create without output", method: http.MethodPost, path: "/api/v1/playground/demo/smart/exports", body: `{}`, asUser: true, err: models.ErrNothingToExport, expectedStatus: http.StatusConflict},
		{name: "create malformed body", method: http.MethodPost, path: "/api/v1/playground/demo/smart/exports", body: `nope`, asUser: true, expectedStatus: http.StatusBadRequest},
		{name: "get as guest", method: http.MethodGet, path: "/api/v1/exports/exp-1", expectedStatus: http.StatusOK},
		{name: "get private", method: http.MethodGet, path: "/api/v1/exports/exp-1", err: models.ErrNotFound, expectedStatus: http.StatusNotFound},
		{name: "list mine", method: http.MethodGet, path: "/api/v1/exports", asUser: true, expectedStatus: http.StatusOK},
		{name: "list mine as guest", method: http.MethodGet, path: "/api/v1/exports", expectedStatus: http.StatusUnauthorized},
		{name: "set visibility", method: http.MethodPatch, path: "/api/v1/exports/exp-1", body: `{"isPublic":false}`, asUser: true, expectedStatus: http.StatusOK},
		{name: "set visibility of others", method: http.MethodPatch, path: "/api/v1/exports/exp-1", body: `{"isPublic":false}`, asUser: true, err: models.ErrNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockExportService{export: export, exports: []models.ExportedOutput{*export}, err: tt.err}
			r := setupRouter(&mockPlaygroundService{}, svc)

			w := doRequest(t, r, tt.method, tt.path, tt.body, tt.asUser)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if w.Code == http.StatusUnauthorized {
				assert.Equal(t, "/register", decodeBody(t, w)["redirect"])
			}
			if tt.method == http.MethodPatch && tt.err == nil {
				assert.Equal(t, "exp-1", svc.gotID)
				assert.False(t, svc.gotPublic)
			}
			if tt.name == "create" {
				assert.Equal(t, models.CreateExportRequest{FullName: "Ada", IsPublic: true}, svc.gotCreate)
				assert.Equal(t, 7, svc.gotOwner.UserID)
			}
		})
	}
}

func TestBaseHandler_RequestTooLarge(t *testing.T) {
	svc := &mockPlaygroundService{}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			req.Body = http.MaxBytesReader(w, req.Body, 8)
			next.ServeHTTP(w, req)
		})
	})
	NewPlaygroundHandler(svc, zap.NewNop()).RegisterRoutes(r, fakeIdentity)

	req := httptest.NewRequest(http.MethodPost, "/playground/demo/smart/1", strings.NewReader(`{"values":{"text:a":"long value"}}`))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

type pingerStub struct{ err error }

func (p pingerStub) PingContext(ctx context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		components     map[string]Pinger
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "all up",
			components:     map[string]Pinger{"database": pingerStub{}, "redis": PingerFunc(func(ctx context.Context) error { return nil })},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok","components":{"database":"up","redis":"up"}}`,
		},
		{
			name:           "redis down",
			components:     map[string]Pinger{"database": pingerStub{}, "redis": pingerStub{err: errors.New("refused")}},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"degraded","components":{"database":"up","redis":"down"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			NewHealthHandler(tt.components, zap.NewNop()).RegisterRoutes(r)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
