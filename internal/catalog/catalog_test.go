package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/coursekit/playground/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		doc           string
		expectedError bool
		errorContains string
		check         func(t *testing.T, c *Catalog)
	}{
		{
			name: "derives links from order",
			doc: `
courses:
  - id: demo
    title: Demo
    lessons:
      - {id: plan, contentRef: p, order: 2}
      - {id: smart, contentRef: s, order: 1}
`,
			check: func(t *testing.T, c *Catalog) {
				course, ok := c.Course("demo")
				require.True(t, ok)
				assert.Equal(t, models.AccessPublic, course.Access)
				require.Len(t, course.Lessons, 2)
				assert.Equal(t, "smart", course.Lessons[0].ID)

				smart, ok := c.Lesson("demo", "smart")
				require.True(t, ok)
				assert.Equal(t, "", smart.Prev)
				assert.Equal(t, "plan", smart.Next)

				plan, ok := c.Lesson("demo", "plan")
				require.True(t, ok)
				assert.Equal(t, "smart", plan.Prev)
				assert.Equal(t, "", plan.Next)
			},
		},
		{
			name: "accepts declared links that agree with order",
			doc: `
courses:
  - id: demo
    access: private
    requiredPlan: pro
    lessons:
      - {id: a, order: 1, next: b}
      - {id: b, order: 2, prev: a}
`,
			check: func(t *testing.T, c *Catalog) {
				course, ok := c.Course("demo")
				require.True(t, ok)
				assert.Equal(t, models.AccessPrivate, course.Access)
				assert.Equal(t, models.PlanPro, course.RequiredPlan)
			},
		},
		{
			name: "rejects next that disagrees with order",
			doc: `
courses:
  - id: demo
    lessons:
      - {id: a, order: 1, next: c}
      - {id: b, order: 2}
      - {id: c, order: 3}
`,
			expectedError: true,
			errorContains: "declares next",
		},
		{
			name: "rejects shared order",
			doc: `
courses:
  - id: demo
    lessons:
      - {id: a, order: 1}
      - {id: b, order: 1}
`,
			expectedError: true,
			errorContains: "share order",
		},
		{
			name: "rejects duplicate course",
			doc: `
courses:
  - id: demo
  - id: demo
`,
			expectedError: true,
			errorContains: "duplicate course",
		},
		{
			name: "rejects unknown access",
			doc: `
courses:
  - id: demo
    access: secret
`,
			expectedError: true,
			errorContains: "unknown access",
		},
		{
			name:          "invalid yaml",
			doc:           "courses: [",
			expectedError: true,
			errorContains: "failed to parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.doc))

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Nil(t, c)
			} else {
				require.NoError(t, err)
				tt.check(t, c)
			}
		})
	}
}

func TestCatalog_Lookups(t *testing.T) {
	c, err := New([]models.Course{
		{ID: "demo", Lessons: []models.Lesson{{ID: "smart", Order: 1}}},
	})
	require.NoError(t, err)

	_, ok := c.Course("missing")
	assert.False(t, ok)

	_, ok = c.Lesson("demo", "missing")
	assert.False(t, ok)

	_, ok = c.Lesson("missing", "smart")
	assert.False(t, ok)

	assert.Len(t, c.Courses(), 1)
}

func TestLoad(t *testing.T) {
	t.Run("shipped catalog is valid", func(t *testing.T) {
		c, err := Load(filepath.Join("..", "..", "configs", "courses.yaml"))
		require.NoError(t, err)

		smart, ok := c.Lesson("demo", "smart")
		require.True(t, ok)
		assert.Equal(t, "plan", smart.Next)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("file on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "courses.yaml")
		require.NoError(t, os.WriteFile(path, []byte("courses:\n  - id: x\n"), 0o600))

		c, err := Load(path)
		require.NoError(t, err)
		_, ok := c.Course("x")
		assert.True(t, ok)
	})
}
