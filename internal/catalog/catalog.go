// Package catalog loads the static course catalog and answers lookups against it
package catalog

import (
	"fmt"
	"os"
	"sort"

	"github.com/coursekit/playground/internal/models"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Courses []models.Course `yaml:"courses"`
}

// Catalog is an immutable index of courses and their lessons
type Catalog struct {
	courses []models.Course
	byID    map[string]*models.Course
	lessons map[string]map[string]*models.Lesson
}

// Load reads and validates a catalog from a YAML file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse validates and indexes a YAML catalog document
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(file.Courses)
}

// New validates and indexes the given courses.
// Lessons are ordered by Order; missing prev/next links are derived from that order,
// and declared links that disagree with it are rejected.
func New(courses []models.Course) (*Catalog, error) {
	c := &Catalog{
		courses: make([]models.Course, 0, len(courses)),
		byID:    make(map[string]*models.Course, len(courses)),
		lessons: make(map[string]map[string]*models.Lesson, len(courses)),
	}

	for _, course := range courses {
		if course.ID == "" {
			return nil, fmt.Errorf("course without id")
		}
		if _, dup := c.byID[course.ID]; dup {
			return nil, fmt.Errorf("duplicate course %q", course.ID)
		}
		switch course.Access {
		case "":
			course.Access = models.AccessPublic
		case models.AccessPublic, models.AccessPrivate:
		default:
			return nil, fmt.Errorf("course %q: unknown access %q", course.ID, course.Access)
		}

		lessons, err := linkLessons(course.ID, course.Lessons)
		if err != nil {
			return nil, err
		}
		course.Lessons = lessons
		c.courses = append(c.courses, course)
	}

	for i := range c.courses {
		course := &c.courses[i]
		c.byID[course.ID] = course
		index := make(map[string]*models.Lesson, len(course.Lessons))
		for j := range course.Lessons {
			index[course.Lessons[j].ID] = &course.Lessons[j]
		}
		c.lessons[course.ID] = index
	}

	return c, nil
}

func linkLessons(courseID string, lessons []models.Lesson) ([]models.Lesson, error) {
	sorted := make([]models.Lesson, len(lessons))
	copy(sorted, lessons)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	seen := make(map[string]bool, len(sorted))
	for i := range sorted {
		lesson := &sorted[i]
		if lesson.ID == "" {
			return nil, fmt.Errorf("course %q: lesson without id", courseID)
		}
		if seen[lesson.ID] {
			return nil, fmt.Errorf("course %q: duplicate lesson %q", courseID, lesson.ID)
		}
		seen[lesson.ID] = true
		if i > 0 && sorted[i-1].Order == lesson.Order {
			return nil, fmt.Errorf("course %q: lessons %q and %q share order %d", courseID, sorted[i-1].ID, lesson.ID, lesson.Order)
		}

		var prev, next string
		if i > 0 {
			prev = sorted[i-1].ID
		}
		if i < len(sorted)-1 {
			next = sorted[i+1].ID
		}
		if lesson.Prev != "" && lesson.Prev != prev {
			return nil, fmt.Errorf("course %q: lesson %q declares prev %q but order implies %q", courseID, lesson.ID, lesson.Prev, prev)
		}
		if lesson.Next != "" && lesson.Next != next {
			return nil, fmt.Errorf("course %q: lesson %q declares next %q but order implies %q", courseID, lesson.ID, lesson.Next, next)
		}
		lesson.Prev = prev
		lesson.Next = next
	}

	return sorted, nil
}

// Courses returns all courses in declaration order
func (c *Catalog) Courses() []models.Course {
	return c.courses
}

// Course returns a course by id
func (c *Catalog) Course(id string) (*models.Course, bool) {
	course, ok := c.byID[id]
	return course, ok
}

// Lesson returns a lesson of a course by id
func (c *Catalog) Lesson(courseID, lessonID string) (*models.Lesson, bool) {
	lessons, ok := c.lessons[courseID]
	if !ok {
		return nil, false
	}
	lesson, ok := lessons[lessonID]
	return lesson, ok
}
