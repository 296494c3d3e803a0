package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-forum-backend/internal/features/gating/models"
	"community-forum-backend/internal/features/gating/models/dto"
	"community-forum-backend/internal/features/gating/orchestrator"
	"community-forum-backend/internal/features/gating/registry"
	"community-forum-backend/internal/features/gating/repository"
)

// --- fakes ---

type fakeLockRepo struct {
	mu         sync.Mutex
	locks      map[string]*models.Lock
	refCounts  map[string]int64
	recordings []bool
}

func newFakeLockRepo(locks ...*models.Lock) *fakeLockRepo {
	repo := &fakeLockRepo{locks: map[string]*models.Lock{}, refCounts: map[string]int64{}}
	for _, l := range locks {
		repo.locks[l.ID] = l
	}
	return repo
}

func (f *fakeLockRepo) Create(ctx context.Context, lock *models.Lock) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks[lock.ID] = lock
	return nil
}

func (f *fakeLockRepo) GetByID(ctx context.Context, id string) (*models.Lock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lock, ok := f.locks[id]
	if !ok {
		return nil, repository.ErrLockNotFound
	}
	return lock, nil
}

func (f *fakeLockRepo) List(ctx context.Context, filter repository.LockFilter) ([]*models.Lock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Lock, 0, len(f.locks))
	for _, l := range f.locks {
		if filter.CommunityID != "" && l.CommunityID != filter.CommunityID {
			continue
		}
		if filter.CreatorID != "" && l.CreatorID != filter.CreatorID {
			continue
		}
		if filter.TemplatesOnly && !l.IsTemplate {
			continue
		}
		if filter.PublicOnly && !l.IsPublic {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLockRepo) Update(ctx context.Context, lock *models.Lock) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.locks[lock.ID]; !ok {
		return repository.ErrLockNotFound
	}
	f.locks[lock.ID] = lock
	return nil
}

func (f *fakeLockRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.locks[id]; !ok {
		return repository.ErrLockNotFound
	}
	delete(f.locks, id)
	return nil
}

func (f *fakeLockRepo) ReferenceCount(ctx context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refCounts[id], nil
}

func (f *fakeLockRepo) RecordVerification(ctx context.Context, id string, success bool, durationMs int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordings = append(f.recordings, success)
	return nil
}

type fakeStore struct {
	mu      sync.Mutex
	entries map[string]*models.PreVerification
	getErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]*models.PreVerification{}}
}

func storeKey(userID, lockID string) string { return userID + "/" + lockID }

func (f *fakeStore) Upsert(ctx context.Context, pv *models.PreVerification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *pv
	f.entries[storeKey(pv.UserID, pv.LockID)] = &cp
	return nil
}

func (f *fakeStore) Get(ctx context.Context, userID, lockID string) (*models.PreVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	pv, ok := f.entries[storeKey(userID, lockID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *pv
	return &cp, nil
}

func (f *fakeStore) Delete(ctx context.Context, userID, lockID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, storeKey(userID, lockID))
	return nil
}

func (f *fakeStore) DeleteByLock(ctx context.Context, lockID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, pv := range f.entries {
		if pv.LockID == lockID {
			delete(f.entries, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, pv := range f.entries {
		if pv.Expired(now) {
			delete(f.entries, k)
			n++
		}
	}
	return n, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*models.PreVerification
	getErr  error
	putErr  error
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*models.PreVerification{}}
}

func (f *fakeCache) Get(ctx context.Context, userID, lockID string) (*models.PreVerification, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	pv, ok := f.entries[storeKey(userID, lockID)]
	if !ok {
		return nil, false, nil
	}
	cp := *pv
	return &cp, true, nil
}

func (f *fakeCache) Put(ctx context.Context, pv *models.PreVerification, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	cp := *pv
	f.entries[storeKey(pv.UserID, pv.LockID)] = &cp
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, userID, lockID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, storeKey(userID, lockID))
	return nil
}

func (f *fakeCache) InvalidateLock(ctx context.Context, lockID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, pv := range f.entries {
		if pv.LockID == lockID {
			delete(f.entries, k)
		}
	}
	return nil
}

type fakeGatingSources struct {
	boards map[string]*models.GatingConfig
	posts  map[string]*models.GatingConfig
}

func (f *fakeGatingSources) ResolveBoard(ctx context.Context, boardID string) (*models.GatingConfig, error) {
	cfg, ok := f.boards[boardID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cfg, nil
}

func (f *fakeGatingSources) ResolvePost(ctx context.Context, postID string) (*models.GatingConfig, error) {
	cfg, ok := f.posts[postID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cfg, nil
}

// passFailVerifier passes when the requirement's min_amount is "pass",
// blocks on "slow", fails otherwise. Counts invocations.
type passFailVerifier struct {
	mu    sync.Mutex
	calls int
}

func (p *passFailVerifier) Metadata() registry.Metadata {
	return registry.Metadata{Type: "test", Kinds: []models.RequirementKind{models.KindTokenBalance}}
}

func (p *passFailVerifier) Verify(ctx context.Context, identity models.Identity, req models.Requirement) models.VerificationResult {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if req.MinAmount == "slow" {
		<-ctx.Done()
		return models.VerificationResult{Kind: req.Kind, Error: "late"}
	}
	return models.VerificationResult{Kind: req.Kind, IsMet: req.MinAmount == "pass"}
}

func (p *passFailVerifier) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func passingLock(id string) *models.Lock {
	return testLockWith(id, "pass")
}

func failingLock(id string) *models.Lock {
	return testLockWith(id, "fail")
}

func testLockWith(id, script string) *models.Lock {
	return &models.Lock{
		ID:          id,
		Name:        "lock " + id,
		Fulfillment: models.FulfillmentAll,
		Categories: []models.Category{{
			Type:        "test",
			Enabled:     true,
			Fulfillment: models.FulfillmentAll,
			Requirements: []models.Requirement{{
				Kind: models.KindTokenBalance, ContractAddress: "0x1", MinAmount: script,
			}},
		}},
	}
}

type accessFixture struct {
	svc      *accessService
	locks    *fakeLockRepo
	store    *fakeStore
	cache    *fakeCache
	gating   *fakeGatingSources
	verifier *passFailVerifier
	now      time.Time
}

func newAccessFixture(t *testing.T, locks ...*models.Lock) *accessFixture {
	t.Helper()

	verifier := &passFailVerifier{}
	reg := registry.New()
	reg.MustRegister(verifier)

	f := &accessFixture{
		locks:    newFakeLockRepo(locks...),
		store:    newFakeStore(),
		cache:    newFakeCache(),
		gating:   &fakeGatingSources{boards: map[string]*models.GatingConfig{}, posts: map[string]*models.GatingConfig{}},
		verifier: verifier,
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	orch := orchestrator.New(reg, 200*time.Millisecond, 4)
	svc := NewAccessService(f.locks, f.store, f.cache, f.gating, orch, 30*time.Minute).(*accessService)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func testIdentity() models.Identity {
	return models.Identity{UserID: "user-1", CommunityID: "comm-1", EvmAddress: "0x1111111111111111111111111111111111111111"}
}

// --- EvaluateLock ---

func TestEvaluateLockRecordsOutcome(t *testing.T) {
	f := newAccessFixture(t, passingLock("lock-1"))

	outcome, err := f.svc.EvaluateLock(context.Background(), testIdentity(), "lock-1")
	require.NoError(t, err)
	assert.True(t, outcome.Overall)

	pv, err := f.store.Get(context.Background(), "user-1", "lock-1")
	require.NoError(t, err)
	assert.Equal(t, models.PreVerificationVerified, pv.Status)
	assert.Equal(t, f.now.Add(30*time.Minute), pv.ExpiresAt)

	_, found, err := f.cache.Get(context.Background(), "user-1", "lock-1")
	require.NoError(t, err)
	assert.True(t, found, "outcome is written through to the cache")

	require.Len(t, f.locks.recordings, 1)
	assert.True(t, f.locks.recordings[0])
}

func TestEvaluateLockFailedOutcomeIsCachedToo(t *testing.T) {
	f := newAccessFixture(t, failingLock("lock-1"))

	outcome, err := f.svc.EvaluateLock(context.Background(), testIdentity(), "lock-1")
	require.NoError(t, err)
	assert.False(t, outcome.Overall)

	pv, err := f.store.Get(context.Background(), "user-1", "lock-1")
	require.NoError(t, err)
	assert.Equal(t, models.PreVerificationFailed, pv.Status)
}

func TestEvaluateLockAlwaysRunsLive(t *testing.T) {
	f := newAccessFixture(t, passingLock("lock-1"))
	identity := testIdentity()

	_, err := f.svc.EvaluateLock(context.Background(), identity, "lock-1")
	require.NoError(t, err)
	_, err = f.svc.EvaluateLock(context.Background(), identity, "lock-1")
	require.NoError(t, err)

	assert.Equal(t, 2, f.verifier.callCount(), "explicit verification bypasses the cache")
}

func TestEvaluateLockUnknownLock(t *testing.T) {
	f := newAccessFixture(t)

	_, err := f.svc.EvaluateLock(context.Background(), testIdentity(), "ghost")
	assert.Error(t, err)
}

func TestEvaluateLockCancellationNotCached(t *testing.T) {
	f := newAccessFixture(t, testLockWith("lock-1", "slow"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := f.svc.EvaluateLock(ctx, testIdentity(), "lock-1")
	require.Error(t, err)

	_, storeErr := f.store.Get(context.Background(), "user-1", "lock-1")
	assert.ErrorIs(t, storeErr, repository.ErrNotFound, "cancelled runs leave no record")
}

// --- CanAct ---

func TestCanActUngatedResource(t *testing.T) {
	f := newAccessFixture(t)
	f.gating.boards["board-1"] = nil

	decision, err := f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{BoardID: "board-1"})
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.PerLock)
	assert.Zero(t, f.verifier.callCount())
}

func TestCanActSingleLockLiveEvaluation(t *testing.T) {
	f := newAccessFixture(t, passingLock("lock-1"))
	f.gating.boards["board-1"] = &models.GatingConfig{LockIDs: []string{"lock-1"}, Fulfillment: models.FulfillmentAll}

	decision, err := f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{BoardID: "board-1"})
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, decision.VerifiedCount)
	assert.Equal(t, 1, decision.RequiredCount)
	require.Len(t, decision.PerLock, 1)
	assert.False(t, decision.PerLock[0].FromCache)
	assert.NotNil(t, decision.PerLock[0].Outcome)
}

func TestCanActUsesCachedVerification(t *testing.T) {
	f := newAccessFixture(t, passingLock("lock-1"))
	f.gating.boards["board-1"] = &models.GatingConfig{LockIDs: []string{"lock-1"}, Fulfillment: models.FulfillmentAll}

	require.NoError(t, f.cache.Put(context.Background(), &models.PreVerification{
		UserID: "user-1", LockID: "lock-1",
		Status:     models.PreVerificationVerified,
		VerifiedAt: f.now.Add(-5 * time.Minute),
		ExpiresAt:  f.now.Add(25 * time.Minute),
	}, time.Hour))

	decision, err := f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{BoardID: "board-1"})
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.True(t, decision.PerLock[0].FromCache)
	assert.Zero(t, f.verifier.callCount(), "cache hit skips live evaluation")
}

func TestCanActCachedFailureAlsoHonored(t *testing.T) {
	f := newAccessFixture(t, passingLock("lock-1"))
	f.gating.boards["board-1"] = &models.GatingConfig{LockIDs: []string{"lock-1"}, Fulfillment: models.FulfillmentAll}

	require.NoError(t, f.cache.Put(context.Background(), &models.PreVerification{
		UserID: "user-1", LockID: "lock-1",
		Status:     models.PreVerificationFailed,
		VerifiedAt: f.now.Add(-5 * time.Minute),
		ExpiresAt:  f.now.Add(25 * time.Minute),
	}, time.Hour))

	decision, err := f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{BoardID: "board-1"})
	require.NoError(t, err)

	assert.False(t, decision.Allowed, "an unexpired failure is not re-evaluated")
	assert.Zero(t, f.verifier.callCount())
}

func TestCanActExpiredEntryTriggersReverification(t *testing.T) {
	f := newAccessFixture(t, passingLock("lock-1"))
	f.gating.boards["board-1"] = &models.GatingConfig{LockIDs: []string{"lock-1"}, Fulfillment: models.FulfillmentAll}

	stale := &models.PreVerification{
		UserID: "user-1", LockID: "lock-1",
		Status:     models.PreVerificationFailed,
		VerifiedAt: f.now.Add(-2 * time.Hour),
		ExpiresAt:  f.now.Add(-90 * time.Minute),
	}
	require.NoError(t, f.cache.Put(context.Background(), stale, time.Hour))
	require.NoError(t, f.store.Upsert(context.Background(), stale))

	decision, err := f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{BoardID: "board-1"})
	require.NoError(t, err)

	assert.True(t, decision.Allowed, "stale failure is ignored and the lock re-verified")
	assert.Equal(t, 1, f.verifier.callCount())
}

func TestCanActCacheErrorFallsThroughToLive(t *testing.T) {
	f := newAccessFixture(t, passingLock("lock-1"))
	f.gating.boards["board-1"] = &models.GatingConfig{LockIDs: []string{"lock-1"}, Fulfillment: models.FulfillmentAll}
	f.cache.getErr = errors.New("redis down")
	f.cache.putErr = errors.New("redis down")

	decision, err := f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{BoardID: "board-1"})
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, f.verifier.callCount())

	// The durable record is still written even with the cache down.
	pv, storeErr := f.store.Get(context.Background(), "user-1", "lock-1")
	require.NoError(t, storeErr)
	assert.Equal(t, models.PreVerificationVerified, pv.Status)
}

func TestCanActDurableFallbackBackfillsCache(t *testing.T) {
	f := newAccessFixture(t, passingLock("lock-1"))
	f.gating.boards["board-1"] = &models.GatingConfig{LockIDs: []string{"lock-1"}, Fulfillment: models.FulfillmentAll}

	require.NoError(t, f.store.Upsert(context.Background(), &models.PreVerification{
		UserID: "user-1", LockID: "lock-1",
		Status:     models.PreVerificationVerified,
		VerifiedAt: f.now.Add(-5 * time.Minute),
		ExpiresAt:  f.now.Add(25 * time.Minute),
	}))

	decision, err := f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{BoardID: "board-1"})
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Zero(t, f.verifier.callCount(), "durable record used without live evaluation")

	_, found, cacheErr := f.cache.Get(context.Background(), "user-1", "lock-1")
	require.NoError(t, cacheErr)
	assert.True(t, found, "hot cache backfilled from the durable store")
}

func TestCanActAfterEditWithInvalidationForcesReverification(t *testing.T) {
	lock := failingLock("lock-1")
	lock.CreatorID = "user-1"
	f := newAccessFixture(t, lock)
	f.gating.boards["board-1"] = &models.GatingConfig{LockIDs: []string{"lock-1"}, Fulfillment: models.FulfillmentAll}

	// A verified record from before the edit sits in both tiers.
	stale := &models.PreVerification{
		UserID: "user-1", LockID: "lock-1",
		Status:     models.PreVerificationVerified,
		VerifiedAt: f.now.Add(-5 * time.Minute),
		ExpiresAt:  f.now.Add(25 * time.Minute),
	}
	require.NoError(t, f.store.Upsert(context.Background(), stale))
	require.NoError(t, f.cache.Put(context.Background(), stale, 0))

	reg := registry.New()
	reg.MustRegister(&passFailVerifier{})
	lockSvc := NewLockService(f.locks, f.store, f.cache, reg, true)
	_, err := lockSvc.Update(context.Background(), Actor{UserID: "user-1", CommunityID: "comm-1"}, "lock-1", &dto.LockUpdateRequest{
		Name:        "Tightened",
		Fulfillment: models.FulfillmentAll,
		Categories:  validCreateRequest().Categories,
	})
	require.NoError(t, err)

	decision, err := f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{BoardID: "board-1"})
	require.NoError(t, err)

	assert.False(t, decision.Allowed, "the pre-edit grant must not survive the edit")
	assert.Equal(t, 1, f.verifier.callCount(), "edit purged both tiers, so the check runs live")
}

func TestCanActOuterAnyShortCircuits(t *testing.T) {
	f := newAccessFixture(t, failingLock("lock-1"), passingLock("lock-2"), passingLock("lock-3"))
	f.gating.boards["board-1"] = &models.GatingConfig{
		LockIDs:     []string{"lock-1", "lock-2", "lock-3"},
		Fulfillment: models.FulfillmentAny,
	}

	decision, err := f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{BoardID: "board-1"})
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, decision.VerifiedCount)
	assert.Equal(t, 1, decision.RequiredCount)

	require.Len(t, decision.PerLock, 3)
	assert.Equal(t, models.PreVerificationFailed, decision.PerLock[0].Status)
	assert.Equal(t, models.PreVerificationVerified, decision.PerLock[1].Status)
	assert.Equal(t, models.PreVerificationSkipped, decision.PerLock[2].Status)

	assert.Equal(t, 2, f.verifier.callCount(), "third lock never evaluated")

	// Skipped locks leave no pre-verification behind.
	_, storeErr := f.store.Get(context.Background(), "user-1", "lock-3")
	assert.ErrorIs(t, storeErr, repository.ErrNotFound)
}

func TestCanActOuterAllEvaluatesEveryLock(t *testing.T) {
	f := newAccessFixture(t, passingLock("lock-1"), failingLock("lock-2"))
	f.gating.boards["board-1"] = &models.GatingConfig{
		LockIDs:     []string{"lock-1", "lock-2"},
		Fulfillment: models.FulfillmentAll,
	}

	decision, err := f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{BoardID: "board-1"})
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, 1, decision.VerifiedCount)
	assert.Equal(t, 2, decision.RequiredCount)
	assert.Equal(t, 2, f.verifier.callCount())
}

func TestCanActMissingLockFailsClosed(t *testing.T) {
	f := newAccessFixture(t)
	f.gating.boards["board-1"] = &models.GatingConfig{LockIDs: []string{"ghost"}, Fulfillment: models.FulfillmentAll}

	decision, err := f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{BoardID: "board-1"})
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	require.Len(t, decision.PerLock, 1)
	assert.Equal(t, models.PreVerificationFailed, decision.PerLock[0].Status)
	assert.Contains(t, decision.PerLock[0].Error, "lock not found")
}

func TestCanActPostGatingOverridesBoard(t *testing.T) {
	f := newAccessFixture(t, passingLock("board-lock"), failingLock("post-lock"))
	f.gating.boards["board-1"] = &models.GatingConfig{LockIDs: []string{"board-lock"}, Fulfillment: models.FulfillmentAll}
	f.gating.posts["post-1"] = &models.GatingConfig{LockIDs: []string{"post-lock"}, Fulfillment: models.FulfillmentAll}

	decision, err := f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{BoardID: "board-1", PostID: "post-1"})
	require.NoError(t, err)

	assert.False(t, decision.Allowed, "post config wins over the board config")
	require.Len(t, decision.PerLock, 1)
	assert.Equal(t, "post-lock", decision.PerLock[0].LockID)
}

func TestCanActUngatedPostFallsBackToBoard(t *testing.T) {
	f := newAccessFixture(t, passingLock("board-lock"))
	f.gating.boards["board-1"] = &models.GatingConfig{LockIDs: []string{"board-lock"}, Fulfillment: models.FulfillmentAll}
	f.gating.posts["post-1"] = nil

	decision, err := f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{BoardID: "board-1", PostID: "post-1"})
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	require.Len(t, decision.PerLock, 1)
	assert.Equal(t, "board-lock", decision.PerLock[0].LockID)
}

func TestCanActValidatesInput(t *testing.T) {
	f := newAccessFixture(t)

	_, err := f.svc.CanAct(context.Background(), models.Identity{}, models.ResourceRef{BoardID: "b"})
	assert.Error(t, err)

	_, err = f.svc.CanAct(context.Background(), testIdentity(), models.ResourceRef{})
	assert.Error(t, err)
}

// --- VerificationStatus ---

func TestVerificationStatus(t *testing.T) {
	f := newAccessFixture(t)

	_, found, err := f.svc.VerificationStatus(context.Background(), "user-1", "lock-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, f.cache.Put(context.Background(), &models.PreVerification{
		UserID: "user-1", LockID: "lock-1",
		Status:     models.PreVerificationVerified,
		VerifiedAt: f.now,
		ExpiresAt:  f.now.Add(10 * time.Minute),
	}, time.Hour))

	pv, found, err := f.svc.VerificationStatus(context.Background(), "user-1", "lock-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.PreVerificationVerified, pv.Status)
}

func TestVerificationStatusPurgesNothingOnExpired(t *testing.T) {
	f := newAccessFixture(t)

	require.NoError(t, f.store.Upsert(context.Background(), &models.PreVerification{
		UserID: "user-1", LockID: "lock-1",
		Status:     models.PreVerificationVerified,
		VerifiedAt: f.now.Add(-time.Hour),
		ExpiresAt:  f.now.Add(-30 * time.Minute),
	}))

	_, found, err := f.svc.VerificationStatus(context.Background(), "user-1", "lock-1")
	require.NoError(t, err)
	assert.False(t, found, "expired records behave like missing ones")
}
