package models

// Access represents who may open a course in the playground
type Access string

const (
	AccessPublic  Access = "public"
	AccessPrivate Access = "private"
)

// Plan represents a subscription tier carried by a user profile
type Plan string

const (
	PlanFree  Plan = "free"
	PlanBasic Plan = "basic"
	PlanPro   Plan = "pro"
)

var planRank = map[Plan]int{
	PlanFree:  0,
	PlanBasic: 1,
	PlanPro:   2,
}

// Covers reports whether the plan grants access to content requiring the given plan.
// An empty requirement is always covered; unknown plans cover nothing beyond free.
func (p Plan) Covers(required Plan) bool {
	if required == "" {
		return true
	}
	return planRank[p] >= planRank[required]
}

// Course represents a course defined in the static catalog
type Course struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Access       Access   `json:"access" yaml:"access"`
	RequiredPlan Plan     `json:"requiredPlan,omitempty" yaml:"requiredPlan"`
	Lessons      []Lesson `json:"lessons" yaml:"lessons"`
}

// Lesson represents a lesson belonging to exactly one course
type Lesson struct {
	ID          string `json:"id" yaml:"id"`
	ContentRef  string `json:"-" yaml:"contentRef"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Order       int    `json:"order" yaml:"order"`
	Prev        string `json:"prev,omitempty" yaml:"prev"`
	Next        string `json:"next,omitempty" yaml:"next"`
}

// CourseListItem represents a course in list responses
type CourseListItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Access       Access `json:"access"`
	RequiredPlan Plan   `json:"requiredPlan,omitempty"`
	TotalLessons int    `json:"totalLessons"`
}

// SyllabusLesson represents a lesson with the caller's progress in a syllabus response
type SyllabusLesson struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	Description          string `json:"description"`
	Order                int    `json:"order"`
	TotalSections        int    `json:"totalSections"`
	LastCompletedSection int    `json:"lastCompletedSection"`
	Completed            bool   `json:"completed"`
	Href                 string `json:"href"`
}

// Syllabus represents a course together with per-lesson progress
type Syllabus struct {
	Course  CourseListItem   `json:"course"`
	Lessons []SyllabusLesson `json:"lessons"`
}
