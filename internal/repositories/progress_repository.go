package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coursekit/playground/internal/models"
	"go.uber.org/zap"
)

var errUserRequired = errors.New("user progress store requires an authenticated identity")

type progressRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    models.Clock
}

// NewProgressRepository creates a MySQL-backed progress store for signed-in users
func NewProgressRepository(db *sql.DB, logger *zap.Logger) *progressRepository {
	return &progressRepository{
		db:     db,
		logger: logger,
		now:    models.UTCNow,
	}
}

// Fetch retrieves the record of one lesson. A missing row yields nil without error.
func (r *progressRepository) Fetch(ctx context.Context, owner models.Identity, courseID, lessonID string) (*models.ProgressRecord, error) {
	if !owner.Authenticated() {
		return nil, errUserRequired
	}

	query := `
		SELECT inputs_json, outputs_json
		FROM lesson_progress
		WHERE user_id = ? AND course_id = ? AND lesson_id = ?
		LIMIT 1
	`

	var inputsJSON, outputsJSON sql.NullString
	err := r.db.QueryRowContext(ctx, query, owner.UserID, courseID, lessonID).Scan(&inputsJSON, &outputsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to query lesson progress", zap.Error(err), zap.Int("userId", owner.UserID))
		return nil, fmt.Errorf("failed to query lesson progress: %w", err)
	}

	record, err := r.decode(owner, courseID, lessonID, inputsJSON, outputsJSON)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// FetchCourse retrieves every record of a course keyed by lesson id
func (r *progressRepository) FetchCourse(ctx context.Context, owner models.Identity, courseID string) (map[string]*models.ProgressRecord, error) {
	if !owner.Authenticated() {
		return nil, errUserRequired
	}

	query := `
		SELECT lesson_id, inputs_json, outputs_json
		FROM lesson_progress
		WHERE user_id = ? AND course_id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, owner.UserID, courseID)
	if err != nil {
		r.logger.Error("failed to query course progress", zap.Error(err), zap.Int("userId", owner.UserID))
		return nil, fmt.Errorf("failed to query course progress: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*models.ProgressRecord)
	for rows.Next() {
		var lessonID string
		var inputsJSON, outputsJSON sql.NullString
		if err := rows.Scan(&lessonID, &inputsJSON, &outputsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan lesson progress: %w", err)
		}
		record, err := r.decode(owner, courseID, lessonID, inputsJSON, outputsJSON)
		if err != nil {
			return nil, err
		}
		records[lessonID] = record
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// Upsert merges patch into the stored inputs and raises lastCompletedSection.
// The row is locked for the read-merge-write so concurrent patches do not drop fields.
func (r *progressRepository) Upsert(ctx context.Context, owner models.Identity, courseID, lessonID string, patch models.FieldValues, lastCompletedSection int) error {
	if !owner.Authenticated() {
		return errUserRequired
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, _, err := r.lockInputs(ctx, tx, owner, courseID, lessonID)
	if err != nil {
		return err
	}

	inputsJSON, err := json.Marshal(mergeInputs(existing, patch, lastCompletedSection, r.now))
	if err != nil {
		return fmt.Errorf("failed to marshal inputs: %w", err)
	}

	query := `
		INSERT INTO lesson_progress (user_id, course_id, lesson_id, inputs_json)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			inputs_json = VALUES(inputs_json)
	`
	if _, err := tx.ExecContext(ctx, query, owner.UserID, courseID, lessonID, string(inputsJSON)); err != nil {
		r.logger.Error("failed to upsert lesson progress", zap.Error(err), zap.Int("userId", owner.UserID))
		return fmt.Errorf("failed to upsert lesson progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetOutput stores the rendered lesson output and raises lastCompletedSection in one write.
// A nil output clears the stored one.
func (r *progressRepository) SetOutput(ctx context.Context, owner models.Identity, courseID, lessonID string, output *string, lastCompletedSection int) error {
	if !owner.Authenticated() {
		return errUserRequired
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, _, err := r.lockInputs(ctx, tx, owner, courseID, lessonID)
	if err != nil {
		return err
	}

	inputsJSON, err := json.Marshal(mergeInputs(existing, nil, lastCompletedSection, r.now))
	if err != nil {
		return fmt.Errorf("failed to marshal inputs: %w", err)
	}
	outputsJSON, err := json.Marshal(models.Outputs{
		Data:     output,
		Metadata: models.OutputsMetadata{ModifiedAt: r.now()},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal outputs: %w", err)
	}

	query := `
		INSERT INTO lesson_progress (user_id, course_id, lesson_id, inputs_json, outputs_json)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			inputs_json = VALUES(inputs_json),
			outputs_json = VALUES(outputs_json)
	`
	if _, err := tx.ExecContext(ctx, query, owner.UserID, courseID, lessonID, string(inputsJSON), string(outputsJSON)); err != nil {
		r.logger.Error("failed to set lesson output", zap.Error(err), zap.Int("userId", owner.UserID))
		return fmt.Errorf("failed to set lesson output: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteLessonProgress removes the record of a lesson. Deleting an absent record is not an error.
func (r *progressRepository) DeleteLessonProgress(ctx context.Context, owner models.Identity, courseID, lessonID string) error {
	if !owner.Authenticated() {
		return errUserRequired
	}

	query := `DELETE FROM lesson_progress WHERE user_id = ? AND course_id = ? AND lesson_id = ?`
	if _, err := r.db.ExecContext(ctx, query, owner.UserID, courseID, lessonID); err != nil {
		r.logger.Error("failed to delete lesson progress", zap.Error(err), zap.Int("userId", owner.UserID))
		return fmt.Errorf("failed to delete lesson progress: %w", err)
	}
	return nil
}

// ResetSection removes keys from the stored inputs and lowers lastCompletedSection to at most
// lastCompletedSection. An absent record is left absent.
func (r *progressRepository) ResetSection(ctx context.Context, owner models.Identity, courseID, lessonID string, keys []models.FieldKey, lastCompletedSection int) error {
	if !owner.Authenticated() {
		return errUserRequired
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, found, err := r.lockInputs(ctx, tx, owner, courseID, lessonID)
	if err != nil {
		return err
	}
	if !found {
		return tx.Commit()
	}

	inputsJSON, err := json.Marshal(resetInputs(existing, keys, lastCompletedSection, r.now))
	if err != nil {
		return fmt.Errorf("failed to marshal inputs: %w", err)
	}

	query := `
		UPDATE lesson_progress
		SET inputs_json = ?
		WHERE user_id = ? AND course_id = ? AND lesson_id = ?
	`
	if _, err := tx.ExecContext(ctx, query, string(inputsJSON), owner.UserID, courseID, lessonID); err != nil {
		r.logger.Error("failed to reset section", zap.Error(err), zap.Int("userId", owner.UserID))
		return fmt.Errorf("failed to reset section: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// lockInputs reads the stored inputs with a row lock held until tx ends
func (r *progressRepository) lockInputs(ctx context.Context, tx *sql.Tx, owner models.Identity, courseID, lessonID string) (models.Inputs, bool, error) {
	query := `
		SELECT inputs_json
		FROM lesson_progress
		WHERE user_id = ? AND course_id = ? AND lesson_id = ?
		FOR UPDATE
	`

	var inputsJSON sql.NullString
	err := tx.QueryRowContext(ctx, query, owner.UserID, courseID, lessonID).Scan(&inputsJSON)
	if err == sql.ErrNoRows {
		return models.Inputs{}, false, nil
	}
	if err != nil {
		return models.Inputs{}, false, fmt.Errorf("failed to lock lesson progress: %w", err)
	}

	inputs, err := decodeInputs(inputsJSON)
	if err != nil {
		r.logger.Error("malformed lesson progress", zap.Error(err),
			zap.Int("userId", owner.UserID), zap.String("courseId", courseID), zap.String("lessonId", lessonID))
		return models.Inputs{}, false, err
	}
	return inputs, true, nil
}

func (r *progressRepository) decode(owner models.Identity, courseID, lessonID string, inputsJSON, outputsJSON sql.NullString) (*models.ProgressRecord, error) {
	inputs, err := decodeInputs(inputsJSON)
	if err == nil {
		var outputs models.Outputs
		outputs, err = decodeOutputs(outputsJSON)
		if err == nil {
			return &models.ProgressRecord{
				Owner:    owner,
				CourseID: courseID,
				LessonID: lessonID,
				Inputs:   inputs,
				Outputs:  outputs,
			}, nil
		}
	}

	r.logger.Error("malformed lesson progress", zap.Error(err),
		zap.Int("userId", owner.UserID), zap.String("courseId", courseID), zap.String("lessonId", lessonID))
	return nil, err
}
