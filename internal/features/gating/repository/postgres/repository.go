package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"community-forum-backend/internal/features/gating/models"
	"community-forum-backend/internal/features/gating/repository"
)

type lockRepository struct {
	db *sql.DB
}

func NewLockRepository(db *sql.DB) repository.LockRepository {
	return &lockRepository{db: db}
}

func (r *lockRepository) Create(ctx context.Context, lock *models.Lock) error {
	gatingConfig, err := json.Marshal(lock.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal gating config: %w", err)
	}

	query := `
		INSERT INTO locks (id, name, description, gating_config, fulfillment,
			creator_id, community_id, is_template, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		lock.ID, lock.Name, lock.Description, gatingConfig, string(lock.Fulfillment),
		lock.CreatorID, lock.CommunityID, lock.IsTemplate, lock.IsPublic)
	if err != nil {
		return fmt.Errorf("failed to create lock: %w", err)
	}

	return nil
}

const lockColumns = `id, name, description, gating_config, fulfillment,
	creator_id, community_id, is_template, is_public,
	usage_count, success_rate, avg_verification_time_ms, created_at, updated_at`

func (r *lockRepository) GetByID(ctx context.Context, id string) (*models.Lock, error) {
	query := `SELECT ` + lockColumns + ` FROM locks WHERE id = $1`
	lock, err := scanLock(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrLockNotFound
		}
		return nil, fmt.Errorf("failed to get lock: %w", err)
	}
	return lock, nil
}

func (r *lockRepository) List(ctx context.Context, filter repository.LockFilter) ([]*models.Lock, error) {
	query := `SELECT ` + lockColumns + ` FROM locks WHERE 1=1`
	args := []interface{}{}

	if filter.CommunityID != "" {
		args = append(args, filter.CommunityID)
		query += fmt.Sprintf(" AND community_id = $%d", len(args))
	}
	if filter.CreatorID != "" {
		args = append(args, filter.CreatorID)
		query += fmt.Sprintf(" AND creator_id = $%d", len(args))
	}
	if filter.TemplatesOnly {
		query += " AND is_template = TRUE"
	}
	if filter.PublicOnly {
		query += " AND is_public = TRUE"
	}

	query += " ORDER BY usage_count DESC, created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list locks: %w", err)
	}
	defer rows.Close()

	var locks []*models.Lock
	for rows.Next() {
		lock, err := scanLock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lock: %w", err)
		}
		locks = append(locks, lock)
	}
	return locks, rows.Err()
}

func (r *lockRepository) Update(ctx context.Context, lock *models.Lock) error {
	gatingConfig, err := json.Marshal(lock.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal gating config: %w", err)
	}

	query := `
		UPDATE locks
		SET name = $2, description = $3, gating_config = $4, fulfillment = $5,
			is_template = $6, is_public = $7, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		lock.ID, lock.Name, lock.Description, gatingConfig, string(lock.Fulfillment),
		lock.IsTemplate, lock.IsPublic)
	if err != nil {
		return fmt.Errorf("failed to update lock: %w", err)
	}

	return requireRow(result, repository.ErrLockNotFound)
}

func (r *lockRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM locks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete lock: %w", err)
	}
	return requireRow(result, repository.ErrLockNotFound)
}

func (r *lockRepository) ReferenceCount(ctx context.Context, id string) (int64, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM posts WHERE gating_config IS NOT NULL AND gating_config->'lock_ids' @> to_jsonb($1::text)) +
			(SELECT COUNT(*) FROM boards WHERE gating_config IS NOT NULL AND gating_config->'lock_ids' @> to_jsonb($1::text))
	`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lock references: %w", err)
	}
	return count, nil
}

func (r *lockRepository) RecordVerification(ctx context.Context, id string, success bool, durationMs int64) error {
	// Running aggregates folded in-place; usage_count is the sample count.
	query := `
		UPDATE locks
		SET usage_count = usage_count + 1,
			success_rate = (success_rate * usage_count + $2) / (usage_count + 1),
			avg_verification_time_ms = (avg_verification_time_ms * usage_count + $3) / (usage_count + 1)
		WHERE id = $1
	`

	successValue := 0.0
	if success {
		successValue = 1.0
	}
	_, err := r.db.ExecContext(ctx, query, id, successValue, durationMs)
	if err != nil {
		return fmt.Errorf("failed to record verification: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLock(row rowScanner) (*models.Lock, error) {
	var lock models.Lock
	var gatingConfig []byte
	var fulfillment string

	err := row.Scan(
		&lock.ID, &lock.Name, &lock.Description, &gatingConfig, &fulfillment,
		&lock.CreatorID, &lock.CommunityID, &lock.IsTemplate, &lock.IsPublic,
		&lock.UsageCount, &lock.SuccessRate, &lock.AvgVerificationTimeMs,
		&lock.CreatedAt, &lock.UpdatedAt)
	if err != nil {
		return nil, err
	}

	lock.Fulfillment = models.Fulfillment(fulfillment)
	if err := json.Unmarshal(gatingConfig, &lock.Categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gating config: %w", err)
	}
	return &lock, nil
}

func requireRow(result sql.Result, missing error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return missing
	}
	return nil
}

type preVerificationRepository struct {
	db *sql.DB
}

func NewPreVerificationRepository(db *sql.DB) repository.PreVerificationRepository {
	return &preVerificationRepository{db: db}
}

func (r *preVerificationRepository) Upsert(ctx context.Context, pv *models.PreVerification) error {
	query := `
		INSERT INTO pre_verifications (user_id, lock_id, status, verified_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, lock_id) DO UPDATE SET
			status = EXCLUDED.status,
			verified_at = EXCLUDED.verified_at,
			expires_at = EXCLUDED.expires_at
	`

	_, err := r.db.ExecContext(ctx, query,
		pv.UserID, pv.LockID, string(pv.Status), pv.VerifiedAt, pv.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to upsert pre-verification: %w", err)
	}
	return nil
}

func (r *preVerificationRepository) Get(ctx context.Context, userID, lockID string) (*models.PreVerification, error) {
	query := `
		SELECT user_id, lock_id, status, verified_at, expires_at
		FROM pre_verifications
		WHERE user_id = $1 AND lock_id = $2
	`

	var pv models.PreVerification
	var status string
	err := r.db.QueryRowContext(ctx, query, userID, lockID).Scan(
		&pv.UserID, &pv.LockID, &status, &pv.VerifiedAt, &pv.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pre-verification: %w", err)
	}

	pv.Status = models.PreVerificationStatus(status)
	return &pv, nil
}

func (r *preVerificationRepository) Delete(ctx context.Context, userID, lockID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM pre_verifications WHERE user_id = $1 AND lock_id = $2", userID, lockID)
	if err != nil {
		return fmt.Errorf("failed to delete pre-verification: %w", err)
	}
	return nil
}

func (r *preVerificationRepository) DeleteByLock(ctx context.Context, lockID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM pre_verifications WHERE lock_id = $1", lockID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pre-verifications for lock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

func (r *preVerificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM pre_verifications WHERE expires_at <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired pre-verifications: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

type gatingSourceRepository struct {
	db *sql.DB
}

func NewGatingSourceRepository(db *sql.DB) repository.GatingSourceRepository {
	return &gatingSourceRepository{db: db}
}

func (r *gatingSourceRepository) ResolveBoard(ctx context.Context, boardID string) (*models.GatingConfig, error) {
	return r.resolve(ctx, "SELECT gating_config FROM boards WHERE id = $1", boardID)
}

func (r *gatingSourceRepository) ResolvePost(ctx context.Context, postID string) (*models.GatingConfig, error) {
	return r.resolve(ctx, "SELECT gating_config FROM posts WHERE id = $1", postID)
}

func (r *gatingSourceRepository) resolve(ctx context.Context, query, id string) (*models.GatingConfig, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve gating config: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var config models.GatingConfig
	if err := json.Unmarshal(raw, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gating config: %w", err)
	}
	if len(config.LockIDs) == 0 {
		return nil, nil
	}
	if config.Fulfillment == "" {
		config.Fulfillment = models.FulfillmentAny
	}
	return &config, nil
}
