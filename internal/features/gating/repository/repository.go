package repository

import (
	"context"
	"errors"
	"time"

	"community-forum-backend/internal/features/gating/models"
)

var (
	ErrLockNotFound = errors.New("lock not found")
	ErrNotFound     = errors.New("not found")
)

// LockFilter narrows lock listings.
type LockFilter struct {
	CommunityID   string
	CreatorID     string
	TemplatesOnly bool
	PublicOnly    bool
	Limit         int
	Offset        int
}

// LockRepository persists lock definitions and their usage statistics.
type LockRepository interface {
	Create(ctx context.Context, lock *models.Lock) error
	GetByID(ctx context.Context, id string) (*models.Lock, error)
	List(ctx context.Context, filter LockFilter) ([]*models.Lock, error)
	Update(ctx context.Context, lock *models.Lock) error
	Delete(ctx context.Context, id string) error
	// ReferenceCount reports how many boards and posts currently gate on
	// the lock; deletion is refused while it is non-zero.
	ReferenceCount(ctx context.Context, id string) (int64, error)
	// RecordVerification folds one verification run into the lock's
	// usage_count, success_rate and avg_verification_time_ms aggregates.
	RecordVerification(ctx context.Context, id string, success bool, durationMs int64) error
}

// PreVerificationRepository is the durable pre-verification store.
type PreVerificationRepository interface {
	Upsert(ctx context.Context, pv *models.PreVerification) error
	Get(ctx context.Context, userID, lockID string) (*models.PreVerification, error)
	Delete(ctx context.Context, userID, lockID string) error
	// DeleteByLock drops every member's durable record for a lock; used
	// when lock edits are configured to invalidate.
	DeleteByLock(ctx context.Context, lockID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PreVerificationCache is the hot-path cache in front of the durable
// store. Get returns found=false for both missing and expired entries.
type PreVerificationCache interface {
	Get(ctx context.Context, userID, lockID string) (*models.PreVerification, bool, error)
	Put(ctx context.Context, pv *models.PreVerification, ttl time.Duration) error
	Invalidate(ctx context.Context, userID, lockID string) error
	// InvalidateLock drops every user's cached entry for a lock; used when
	// lock edits are configured to invalidate.
	InvalidateLock(ctx context.Context, lockID string) error
}

// GatingSourceRepository resolves the gating configuration attached to
// boards and posts by the forum CRUD layer.
type GatingSourceRepository interface {
	// ResolveBoard returns nil when the board is not gated.
	ResolveBoard(ctx context.Context, boardID string) (*models.GatingConfig, error)
	// ResolvePost returns nil when the post carries no gating of its own.
	ResolvePost(ctx context.Context, postID string) (*models.GatingConfig, error)
}
