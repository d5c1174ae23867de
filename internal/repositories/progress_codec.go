package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/coursekit/playground/internal/models"
)

// decodeInputs decodes a persisted inputs document. A NULL column is an empty inputs value;
// anything present but malformed is a data-integrity failure.
func decodeInputs(raw sql.NullString) (models.Inputs, error) {
	var inputs models.Inputs
	if !raw.Valid {
		return inputs, nil
	}
	if err := json.Unmarshal([]byte(raw.String), &inputs); err != nil {
		return models.Inputs{}, fmt.Errorf("inputs: %w: %v", models.ErrDataIntegrity, err)
	}
	if err := inputs.Data.Validate(); err != nil {
		return models.Inputs{}, fmt.Errorf("inputs: %w: %v", models.ErrDataIntegrity, err)
	}
	return inputs, nil
}

// decodeOutputs decodes a persisted outputs document with the same rules as decodeInputs
func decodeOutputs(raw sql.NullString) (models.Outputs, error) {
	var outputs models.Outputs
	if !raw.Valid {
		return outputs, nil
	}
	if err := json.Unmarshal([]byte(raw.String), &outputs); err != nil {
		return models.Outputs{}, fmt.Errorf("outputs: %w: %v", models.ErrDataIntegrity, err)
	}
	return outputs, nil
}

// decodeRecord decodes a whole record document as stored for guests
func decodeRecord(raw string) (*models.ProgressRecord, error) {
	var record models.ProgressRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("record: %w: %v", models.ErrDataIntegrity, err)
	}
	if err := record.Inputs.Data.Validate(); err != nil {
		return nil, fmt.Errorf("record: %w: %v", models.ErrDataIntegrity, err)
	}
	return &record, nil
}

func mergeInputs(existing models.Inputs, patch models.FieldValues, lastCompletedSection int, now models.Clock) models.Inputs {
	merged := models.Inputs{
		Data:     existing.Data.Merge(patch),
		Metadata: existing.Metadata,
	}
	merged.Metadata.LastCompletedSection = max(existing.Metadata.LastCompletedSection, lastCompletedSection)
	merged.Metadata.ModifiedAt = now()
	return merged
}

func resetInputs(existing models.Inputs, keys []models.FieldKey, lastCompletedSection int, now models.Clock) models.Inputs {
	reset := models.Inputs{
		Data:     existing.Data.Without(keys),
		Metadata: existing.Metadata,
	}
	reset.Metadata.LastCompletedSection = min(existing.Metadata.LastCompletedSection, lastCompletedSection)
	reset.Metadata.ModifiedAt = now()
	return reset
}
