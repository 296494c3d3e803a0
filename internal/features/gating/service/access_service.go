package service

import (
	"context"
	stderrors "errors"
	"time"

	"community-forum-backend/internal/common/errors"
	"community-forum-backend/internal/common/logger"
	"community-forum-backend/internal/features/gating/models"
	"community-forum-backend/internal/features/gating/orchestrator"
	"community-forum-backend/internal/features/gating/repository"
)

// AccessService is the entry point the forum CRUD routes call before
// mutating state: it resolves the applicable locks, consults the
// pre-verification cache, and falls back to live orchestration on a miss.
type AccessService interface {
	// EvaluateLock runs a live verification of the identity against the
	// lock and records the outcome as a pre-verification.
	EvaluateLock(ctx context.Context, identity models.Identity, lockID string) (*models.LockVerificationOutcome, error)
	// VerificationStatus returns the caller's unexpired pre-verification
	// for a lock, if any.
	VerificationStatus(ctx context.Context, userID, lockID string) (*models.PreVerification, bool, error)
	// CanAct decides whether the member may act on the board or post now.
	CanAct(ctx context.Context, identity models.Identity, resource models.ResourceRef) (*models.Decision, error)
}

type accessService struct {
	locks  repository.LockRepository
	store  repository.PreVerificationRepository
	cache  repository.PreVerificationCache
	gating repository.GatingSourceRepository
	orch   *orchestrator.Orchestrator
	ttl    time.Duration

	now func() time.Time
}

func NewAccessService(
	locks repository.LockRepository,
	store repository.PreVerificationRepository,
	cache repository.PreVerificationCache,
	gating repository.GatingSourceRepository,
	orch *orchestrator.Orchestrator,
	ttl time.Duration,
) AccessService {
	return &accessService{
		locks:  locks,
		store:  store,
		cache:  cache,
		gating: gating,
		orch:   orch,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *accessService) EvaluateLock(ctx context.Context, identity models.Identity, lockID string) (*models.LockVerificationOutcome, error) {
	if identity.UserID == "" {
		return nil, errors.NewValidationError("user_id", "identity has no user id")
	}

	lock, err := s.locks.GetByID(ctx, lockID)
	if err != nil {
		if stderrors.Is(err, repository.ErrLockNotFound) {
			return nil, errors.NewLockNotFoundError(lockID)
		}
		return nil, errors.NewDatabaseError("get lock", err)
	}

	outcome, err := s.orch.Evaluate(ctx, identity, lock)
	if err != nil {
		// Cancellation: partial results are discarded, never cached.
		return nil, err
	}

	s.recordOutcome(ctx, identity.UserID, lock, outcome)
	return outcome, nil
}

func (s *accessService) VerificationStatus(ctx context.Context, userID, lockID string) (*models.PreVerification, bool, error) {
	pv, found := s.cachedEntry(ctx, userID, lockID)
	return pv, found, nil
}

func (s *accessService) CanAct(ctx context.Context, identity models.Identity, resource models.ResourceRef) (*models.Decision, error) {
	if identity.UserID == "" {
		return nil, errors.NewValidationError("user_id", "identity has no user id")
	}
	if resource.BoardID == "" && resource.PostID == "" {
		return nil, errors.NewValidationError("resource", "a board or post id is required")
	}

	config, err := s.resolveGating(ctx, resource)
	if err != nil {
		return nil, err
	}
	if config == nil {
		// Ungated resource: nothing to verify.
		return &models.Decision{Allowed: true}, nil
	}

	decision := &models.Decision{
		Fulfillment: config.Fulfillment,
		PerLock:     make([]models.LockDecision, 0, len(config.LockIDs)),
	}
	if config.Fulfillment == models.FulfillmentAny {
		decision.RequiredCount = 1
	} else {
		decision.RequiredCount = len(config.LockIDs)
	}

	for i, lockID := range config.LockIDs {
		lockDecision, err := s.checkLock(ctx, identity, lockID)
		if err != nil {
			// Only cancellation propagates; everything else was absorbed.
			return nil, err
		}
		decision.PerLock = append(decision.PerLock, lockDecision)

		if lockDecision.Status == models.PreVerificationVerified {
			decision.VerifiedCount++
			if config.Fulfillment == models.FulfillmentAny {
				// Outer ANY is satisfied; remaining locks are reported as
				// skipped rather than silently dropped so the caller's UI
				// still sees the full lock set.
				for _, rest := range config.LockIDs[i+1:] {
					decision.PerLock = append(decision.PerLock, models.LockDecision{
						LockID: rest,
						Status: models.PreVerificationSkipped,
					})
				}
				break
			}
		}
	}

	decision.Allowed = decision.VerifiedCount >= decision.RequiredCount
	return decision, nil
}

// checkLock consults the cache and falls back to live orchestration.
// Failures other than caller cancellation become evidence on the returned
// decision; access fails closed.
func (s *accessService) checkLock(ctx context.Context, identity models.Identity, lockID string) (models.LockDecision, error) {
	decision := models.LockDecision{LockID: lockID}

	if pv, found := s.cachedEntry(ctx, identity.UserID, lockID); found {
		decision.Status = pv.Status
		decision.FromCache = true
		return decision, nil
	}

	lock, err := s.locks.GetByID(ctx, lockID)
	if err != nil {
		decision.Status = models.PreVerificationFailed
		if stderrors.Is(err, repository.ErrLockNotFound) {
			decision.Error = "lock not found: " + lockID
		} else {
			decision.Error = "lock lookup failed"
			logger.Error().Err(err).Str("lock_id", lockID).Msg("Lock lookup failed during access check")
		}
		return decision, nil
	}

	outcome, err := s.orch.Evaluate(ctx, identity, lock)
	if err != nil {
		return decision, err
	}

	pv := s.recordOutcome(ctx, identity.UserID, lock, outcome)
	decision.Status = pv.Status
	decision.Outcome = outcome
	return decision, nil
}

// cachedEntry reads the hot cache first and the durable store second. An
// expired entry is treated exactly like a missing one, and a cache error
// falls through to the live path: the engine fails closed, never open.
func (s *accessService) cachedEntry(ctx context.Context, userID, lockID string) (*models.PreVerification, bool) {
	now := s.now()

	pv, found, err := s.cache.Get(ctx, userID, lockID)
	if err != nil {
		logger.Warn().Err(err).Str("lock_id", lockID).Msg("Pre-verification cache read failed")
	} else if found && !pv.Expired(now) {
		return pv, true
	}

	pv, err = s.store.Get(ctx, userID, lockID)
	if err != nil {
		if !stderrors.Is(err, repository.ErrNotFound) {
			logger.Warn().Err(err).Str("lock_id", lockID).Msg("Pre-verification store read failed")
		}
		return nil, false
	}
	if pv.Expired(now) {
		return nil, false
	}

	// Backfill the hot cache for the remaining lifetime.
	if err := s.cache.Put(ctx, pv, pv.ExpiresAt.Sub(now)); err != nil {
		logger.Warn().Err(err).Str("lock_id", lockID).Msg("Pre-verification cache backfill failed")
	}
	return pv, true
}

// recordOutcome persists the verification result with the engine TTL and
// folds it into the lock's usage statistics. Persistence failures are
// logged but never change the decision already computed.
func (s *accessService) recordOutcome(ctx context.Context, userID string, lock *models.Lock, outcome *models.LockVerificationOutcome) *models.PreVerification {
	now := s.now()
	status := models.PreVerificationFailed
	if outcome.Overall {
		status = models.PreVerificationVerified
	}

	pv := &models.PreVerification{
		UserID:     userID,
		LockID:     lock.ID,
		Status:     status,
		VerifiedAt: now,
		ExpiresAt:  now.Add(s.ttl),
	}

	if err := s.store.Upsert(ctx, pv); err != nil {
		logger.Error().Err(err).Str("lock_id", lock.ID).Msg("Failed to persist pre-verification")
	}
	if err := s.cache.Put(ctx, pv, s.ttl); err != nil {
		logger.Warn().Err(err).Str("lock_id", lock.ID).Msg("Failed to cache pre-verification")
	}
	if err := s.locks.RecordVerification(ctx, lock.ID, outcome.Overall, outcome.DurationMs); err != nil {
		logger.Warn().Err(err).Str("lock_id", lock.ID).Msg("Failed to record verification stats")
	}
	if n, err := s.store.DeleteExpired(ctx, now); err == nil && n > 0 {
		logger.Debug().Int64("deleted", n).Msg("Purged expired pre-verifications")
	}

	return pv
}

func (s *accessService) resolveGating(ctx context.Context, resource models.ResourceRef) (*models.GatingConfig, error) {
	// Post-level gating overrides board-level gating when both exist.
	if resource.PostID != "" {
		config, err := s.gating.ResolvePost(ctx, resource.PostID)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return nil, errors.NewValidationError("post_id", "unknown post: "+resource.PostID)
			}
			return nil, errors.NewDatabaseError("resolve post gating", err)
		}
		if config != nil {
			return config, nil
		}
	}

	if resource.BoardID != "" {
		config, err := s.gating.ResolveBoard(ctx, resource.BoardID)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return nil, errors.NewValidationError("board_id", "unknown board: "+resource.BoardID)
			}
			return nil, errors.NewDatabaseError("resolve board gating", err)
		}
		return config, nil
	}

	return nil, nil
}
