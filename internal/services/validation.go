package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coursekit/playground/internal/models"
)

// ValidationError is returned when a submission is rejected.
// View is the section as it should be shown again, with the attempted values as defaults.
type ValidationError struct {
	Fields map[string]string
	View   *models.SectionView
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

// validateSubmission checks values against the fields declared by the section.
// Every declared field is required; undeclared keys are rejected.
func validateSubmission(fields []models.InputField, values models.FieldValues) map[string]string {
	problems := map[string]string{}
	declared := make(map[models.FieldKey]models.InputField, len(fields))
	for _, f := range fields {
		declared[f.Key] = f
	}

	for key, value := range values {
		if _, ok := declared[key]; !ok {
			problems[key.String()] = "unknown field"
			continue
		}
		if !value.IsMissing() && !value.Matches(key.Kind) {
			problems[key.String()] = fmt.Sprintf("expected a %s value", key.Kind)
		}
	}

	for _, f := range fields {
		if _, reported := problems[f.Key.String()]; reported {
			continue
		}
		value := values.Get(f.Key)
		if value.Blank() {
			problems[f.Key.String()] = "required"
			continue
		}
		if rows, ok := value.Rows(); ok && len(f.Columns) > 0 {
			for i, row := range rows {
				if len(row) != len(f.Columns) {
					problems[f.Key.String()] = fmt.Sprintf("row %d must have %d columns", i+1, len(f.Columns))
					break
				}
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}
