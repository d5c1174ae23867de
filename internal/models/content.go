package models

// ContentBlock represents one labeled block of raw lesson content
type ContentBlock struct {
	Order int    `json:"order"`
	Label string `json:"label"`
	Body  string `json:"body"`
}

// RawContent is the ordered list of blocks fetched for a lesson's content reference
type RawContent struct {
	Ref    string         `json:"ref"`
	Blocks []ContentBlock `json:"blocks"`
}

// SectionTemplates represents one section: an input template followed by its output template
type SectionTemplates struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// InputField represents a field declared by a section's input template
type InputField struct {
	Key     FieldKey `json:"key"`
	Label   string   `json:"label"`
	Columns []string `json:"columns,omitempty"`
}
