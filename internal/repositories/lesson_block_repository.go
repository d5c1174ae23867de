package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coursekit/playground/internal/models"
)

type lessonBlockRepository struct {
	db *sql.DB
}

// NewLessonBlockRepository creates a new lesson block repository
func NewLessonBlockRepository(db *sql.DB) *lessonBlockRepository {
	return &lessonBlockRepository{
		db: db,
	}
}

// FetchContent retrieves every block of a content reference, sorted by order.
// An unknown reference yields content without blocks.
func (r *lessonBlockRepository) FetchContent(ctx context.Context, ref string) (models.RawContent, error) {
	query := `
		SELECT block_order, label, body
		FROM lesson_blocks
		WHERE content_ref = ?
		ORDER BY block_order
	`

	rows, err := r.db.QueryContext(ctx, query, ref)
	if err != nil {
		return models.RawContent{}, fmt.Errorf("failed to query lesson blocks: %w: %w", models.ErrExternalService, err)
	}
	defer rows.Close()

	content := models.RawContent{Ref: ref, Blocks: []models.ContentBlock{}}
	for rows.Next() {
		var block models.ContentBlock
		if err := rows.Scan(&block.Order, &block.Label, &block.Body); err != nil {
			return models.RawContent{}, fmt.Errorf("failed to scan lesson block: %w", err)
		}
		content.Blocks = append(content.Blocks, block)
	}

	if err := rows.Err(); err != nil {
		return models.RawContent{}, fmt.Errorf("error iterating rows: %w", err)
	}

	return content, nil
}
