package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coursekit/playground/internal/models"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) *profileRepository {
	return &profileRepository{
		db: db,
	}
}

// GetByUserID retrieves a user's profile. A user without a profile yields nil without error.
func (r *profileRepository) GetByUserID(ctx context.Context, userID int) (*models.Profile, error) {
	query := `
		SELECT user_id, full_name, plan
		FROM profiles
		WHERE user_id = ?
		LIMIT 1
	`

	var profile models.Profile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&profile.UserID, &profile.FullName, &profile.Plan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by user id: %w", err)
	}

	return &profile, nil
}
