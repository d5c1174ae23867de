package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coursekit/playground/internal/models"
)

type exportRepository struct {
	db *sql.DB
}

// NewExportRepository creates a new exported output repository
func NewExportRepository(db *sql.DB) *exportRepository {
	return &exportRepository{
		db: db,
	}
}

const exportColumns = `id, course_id, lesson_id, user_id, full_name, output, is_public, view_count, created_at, modified_at`

// Create stores a new export snapshot
func (r *exportRepository) Create(ctx context.Context, export *models.ExportedOutput) error {
	query := `
		INSERT INTO exported_outputs (id, course_id, lesson_id, user_id, full_name, output, is_public, view_count, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		export.ID,
		export.CourseID,
		export.LessonID,
		export.UserID,
		export.FullName,
		export.Output,
		export.IsPublic,
		export.ViewCount,
		export.CreatedAt,
		export.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create exported output: %w", err)
	}

	return nil
}

// GetByID retrieves an export by its id
func (r *exportRepository) GetByID(ctx context.Context, id string) (*models.ExportedOutput, error) {
	query := `SELECT ` + exportColumns + ` FROM exported_outputs WHERE id = ? LIMIT 1`

	export, err := scanExport(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("exported output %q: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exported output by id: %w", err)
	}

	return export, nil
}

// ListByUser retrieves a user's exports, newest first
func (r *exportRepository) ListByUser(ctx context.Context, userID int) ([]models.ExportedOutput, error) {
	query := `SELECT ` + exportColumns + ` FROM exported_outputs WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exported outputs: %w", err)
	}
	defer rows.Close()

	exports := []models.ExportedOutput{}
	for rows.Next() {
		export, err := scanExport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exported output: %w", err)
		}
		exports = append(exports, *export)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return exports, nil
}

// IncrementViewCount adds one view to an export
func (r *exportRepository) IncrementViewCount(ctx context.Context, id string) error {
	query := `UPDATE exported_outputs SET view_count = view_count + 1 WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}

	return nil
}

// SetVisibility changes whether an export is public
func (r *exportRepository) SetVisibility(ctx context.Context, id string, isPublic bool) error {
	query := `UPDATE exported_outputs SET is_public = ?, modified_at = CURRENT_TIMESTAMP WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, isPublic, id); err != nil {
		return fmt.Errorf("failed to update export visibility: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExport(row rowScanner) (*models.ExportedOutput, error) {
	var export models.ExportedOutput
	err := row.Scan(
		&export.ID,
		&export.CourseID,
		&export.LessonID,
		&export.UserID,
		&export.FullName,
		&export.Output,
		&export.IsPublic,
		&export.ViewCount,
		&export.CreatedAt,
		&export.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &export, nil
}
