package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coursekit/playground/internal/models"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const guestKeyPrefix = "playground:guest:"

var errGuestRequired = errors.New("guest progress store requires a guest id")

// GuestClient is the subset of the Redis client used by the guest progress store
type GuestClient interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HGetAll(ctx context.Context, key string) *redis.StringStringMapCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type guestProgressRepository struct {
	client GuestClient
	ttl    time.Duration
	logger *zap.Logger
	now    models.Clock
}

// NewGuestProgressRepository creates a Redis-backed progress store for guests.
// One hash per guest and course holds a record per lesson; every write refreshes ttl.
func NewGuestProgressRepository(client GuestClient, ttl time.Duration, logger *zap.Logger) *guestProgressRepository {
	return &guestProgressRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
		now:    models.UTCNow,
	}
}

func guestKey(guestID, courseID string) string {
	return guestKeyPrefix + guestID + ":" + courseID
}

// Fetch retrieves the record of one lesson. A missing field yields nil without error.
func (r *guestProgressRepository) Fetch(ctx context.Context, owner models.Identity, courseID, lessonID string) (*models.ProgressRecord, error) {
	if owner.GuestID == "" {
		return nil, errGuestRequired
	}

	raw, err := r.client.HGet(ctx, guestKey(owner.GuestID, courseID), lessonID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to read guest progress", zap.Error(err), zap.String("guestId", owner.GuestID))
		return nil, fmt.Errorf("failed to read guest progress: %w", err)
	}

	return r.decode(owner, courseID, lessonID, raw)
}

// FetchCourse retrieves every record of a course keyed by lesson id
func (r *guestProgressRepository) FetchCourse(ctx context.Context, owner models.Identity, courseID string) (map[string]*models.ProgressRecord, error) {
	if owner.GuestID == "" {
		return nil, errGuestRequired
	}

	fields, err := r.client.HGetAll(ctx, guestKey(owner.GuestID, courseID)).Result()
	if err != nil {
		r.logger.Error("failed to read guest course progress", zap.Error(err), zap.String("guestId", owner.GuestID))
		return nil, fmt.Errorf("failed to read guest course progress: %w", err)
	}

	records := make(map[string]*models.ProgressRecord, len(fields))
	for lessonID, raw := range fields {
		record, err := r.decode(owner, courseID, lessonID, raw)
		if err != nil {
			return nil, err
		}
		records[lessonID] = record
	}
	return records, nil
}

// Upsert merges patch into the stored inputs and raises lastCompletedSection.
// Guest sessions belong to one browser, so concurrent writers are last-write-wins.
func (r *guestProgressRepository) Upsert(ctx context.Context, owner models.Identity, courseID, lessonID string, patch models.FieldValues, lastCompletedSection int) error {
	record, err := r.load(ctx, owner, courseID, lessonID)
	if err != nil {
		return err
	}
	record.Inputs = mergeInputs(record.Inputs, patch, lastCompletedSection, r.now)
	return r.save(ctx, owner, record)
}

// SetOutput stores the rendered lesson output and raises lastCompletedSection. A nil output clears the stored one.
func (r *guestProgressRepository) SetOutput(ctx context.Context, owner models.Identity, courseID, lessonID string, output *string, lastCompletedSection int) error {
	record, err := r.load(ctx, owner, courseID, lessonID)
	if err != nil {
		return err
	}
	record.Inputs = mergeInputs(record.Inputs, nil, lastCompletedSection, r.now)
	record.Outputs = models.Outputs{
		Data:     output,
		Metadata: models.OutputsMetadata{ModifiedAt: r.now()},
	}
	return r.save(ctx, owner, record)
}

// DeleteLessonProgress removes the record of a lesson. Deleting an absent record is not an error.
func (r *guestProgressRepository) DeleteLessonProgress(ctx context.Context, owner models.Identity, courseID, lessonID string) error {
	if owner.GuestID == "" {
		return errGuestRequired
	}

	if err := r.client.HDel(ctx, guestKey(owner.GuestID, courseID), lessonID).Err(); err != nil {
		r.logger.Error("failed to delete guest progress", zap.Error(err), zap.String("guestId", owner.GuestID))
		return fmt.Errorf("failed to delete guest progress: %w", err)
	}
	return nil
}

// ResetSection removes keys from the stored inputs and lowers lastCompletedSection.
// An absent record is left absent.
func (r *guestProgressRepository) ResetSection(ctx context.Context, owner models.Identity, courseID, lessonID string, keys []models.FieldKey, lastCompletedSection int) error {
	existing, err := r.Fetch(ctx, owner, courseID, lessonID)
	if err != nil || existing == nil {
		return err
	}
	existing.Inputs = resetInputs(existing.Inputs, keys, lastCompletedSection, r.now)
	return r.save(ctx, owner, existing)
}

// load returns the stored record or a fresh one
func (r *guestProgressRepository) load(ctx context.Context, owner models.Identity, courseID, lessonID string) (*models.ProgressRecord, error) {
	record, err := r.Fetch(ctx, owner, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &models.ProgressRecord{Owner: owner, CourseID: courseID, LessonID: lessonID}
	}
	return record, nil
}

func (r *guestProgressRepository) save(ctx context.Context, owner models.Identity, record *models.ProgressRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal guest progress: %w", err)
	}

	key := guestKey(owner.GuestID, record.CourseID)
	if err := r.client.HSet(ctx, key, record.LessonID, string(raw)).Err(); err != nil {
		r.logger.Error("failed to write guest progress", zap.Error(err), zap.String("guestId", owner.GuestID))
		return fmt.Errorf("failed to write guest progress: %w", err)
	}
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
			return fmt.Errorf("failed to refresh guest progress ttl: %w", err)
		}
	}
	return nil
}

func (r *guestProgressRepository) decode(owner models.Identity, courseID, lessonID, raw string) (*models.ProgressRecord, error) {
	record, err := decodeRecord(raw)
	if err != nil {
		r.logger.Error("malformed guest progress", zap.Error(err),
			zap.String("guestId", owner.GuestID), zap.String("courseId", courseID), zap.String("lessonId", lessonID))
		return nil, err
	}
	record.Owner = owner
	record.CourseID = courseID
	record.LessonID = lessonID
	return record, nil
}
