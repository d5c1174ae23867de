package models

// NavLink represents a navigation target inside the playground
type NavLink struct {
	CourseID string `json:"courseId"`
	LessonID string `json:"lessonId"`
	Section  int    `json:"section"`
	Href     string `json:"href"`
	Enabled  bool   `json:"enabled"`
}

// SectionView is the view model of a single section page
type SectionView struct {
	CourseID         string       `json:"courseId"`
	LessonID         string       `json:"lessonId"`
	Section          int          `json:"section"`
	TotalSections    int          `json:"totalSections"`
	InputTemplate    string       `json:"inputTemplate"`
	Fields           []InputField `json:"fields"`
	DefaultValues    FieldValues  `json:"defaultValues"`
	SectionCompleted bool         `json:"sectionCompleted"`
	LessonCompleted  bool         `json:"lessonCompleted"`
	Output           *string      `json:"output"`
	PrevLink         *NavLink     `json:"prevLink"`
	NextLink         *NavLink     `json:"nextLink"`
}

// SubmitResult is returned after a successful section submission
type SubmitResult struct {
	View     *SectionView `json:"view"`
	Redirect string       `json:"redirect"`
}

// SubmitSectionRequest represents the body of a section submission
type SubmitSectionRequest struct {
	Values FieldValues `json:"values"`
}
