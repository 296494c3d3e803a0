package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"community-forum-backend/internal/common/errors"
	"community-forum-backend/internal/common/logger"
	"community-forum-backend/internal/features/gating/models"
	"community-forum-backend/internal/features/gating/models/dto"
	"community-forum-backend/internal/features/gating/registry"
	"community-forum-backend/internal/features/gating/repository"
)

// Actor is the authenticated member performing a lock operation, as
// resolved by the transport layer.
type Actor struct {
	UserID      string
	CommunityID string
	IsAdmin     bool
}

// LockService owns the lock CRUD boundary: structural validation against
// the registered category set happens here, before anything is persisted.
type LockService interface {
	Create(ctx context.Context, actor Actor, input *dto.LockCreateRequest) (*models.Lock, error)
	GetByID(ctx context.Context, actor Actor, id string) (*models.Lock, error)
	List(ctx context.Context, actor Actor, filter repository.LockFilter) ([]*models.Lock, error)
	Update(ctx context.Context, actor Actor, id string, input *dto.LockUpdateRequest) (*models.Lock, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Categories() []registry.Metadata
}

type lockService struct {
	repo             repository.LockRepository
	store            repository.PreVerificationRepository
	cache            repository.PreVerificationCache
	registry         *registry.Registry
	invalidateOnEdit bool
}

func NewLockService(repo repository.LockRepository, store repository.PreVerificationRepository, cache repository.PreVerificationCache, reg *registry.Registry, invalidateOnEdit bool) LockService {
	return &lockService{
		repo:             repo,
		store:            store,
		cache:            cache,
		registry:         reg,
		invalidateOnEdit: invalidateOnEdit,
	}
}

func (s *lockService) Create(ctx context.Context, actor Actor, input *dto.LockCreateRequest) (*models.Lock, error) {
	now := time.Now()
	lock := &models.Lock{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Categories:  input.Categories,
		Fulfillment: input.Fulfillment,
		CreatorID:   actor.UserID,
		CommunityID: actor.CommunityID,
		IsTemplate:  input.IsTemplate,
		IsPublic:    input.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.validateLock(lock); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, lock); err != nil {
		return nil, errors.NewDatabaseError("create lock", err)
	}

	logger.Info().
		Str("lock_id", lock.ID).
		Str("creator_id", actor.UserID).
		Str("community_id", actor.CommunityID).
		Msg("Lock created")

	return lock, nil
}

func (s *lockService) GetByID(ctx context.Context, actor Actor, id string) (*models.Lock, error) {
	lock, err := s.getLock(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lock.VisibleTo(actor.UserID) && !actor.IsAdmin {
		return nil, errors.NewForbiddenError("lock is private")
	}
	return lock, nil
}

func (s *lockService) List(ctx context.Context, actor Actor, filter repository.LockFilter) ([]*models.Lock, error) {
	if filter.CommunityID == "" {
		filter.CommunityID = actor.CommunityID
	}
	if !actor.IsAdmin && filter.CreatorID != actor.UserID {
		// Members only browse the shared library: public locks and
		// templates. The creator filter lifts the restriction for the
		// member's own locks only.
		filter.PublicOnly = !filter.TemplatesOnly
	}

	locks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.NewDatabaseError("list locks", err)
	}
	return locks, nil
}

func (s *lockService) Update(ctx context.Context, actor Actor, id string, input *dto.LockUpdateRequest) (*models.Lock, error) {
	lock, err := s.getLock(ctx, id)
	if err != nil {
		return nil, err
	}
	if lock.CreatorID != actor.UserID && !actor.IsAdmin {
		return nil, errors.NewForbiddenError("only the lock owner or an admin may edit a lock")
	}

	lock.Name = input.Name
	lock.Description = input.Description
	lock.Categories = input.Categories
	lock.Fulfillment = input.Fulfillment
	lock.IsTemplate = input.IsTemplate
	lock.IsPublic = input.IsPublic

	if err := s.validateLock(lock); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, lock); err != nil {
		if stderrors.Is(err, repository.ErrLockNotFound) {
			return nil, errors.NewLockNotFoundError(id)
		}
		return nil, errors.NewDatabaseError("update lock", err)
	}

	// Existing pre-verifications keep their natural expiry unless the
	// deployment opted into invalidation on edit. Both tiers have to go:
	// a surviving durable row would be backfilled into the cache on the
	// next access check.
	if s.invalidateOnEdit {
		if _, err := s.store.DeleteByLock(ctx, lock.ID); err != nil {
			logger.Warn().Err(err).Str("lock_id", lock.ID).Msg("Failed to purge pre-verifications after edit")
		}
		if err := s.cache.InvalidateLock(ctx, lock.ID); err != nil {
			logger.Warn().Err(err).Str("lock_id", lock.ID).Msg("Failed to invalidate lock cache after edit")
		}
	}

	logger.Info().Str("lock_id", lock.ID).Str("user_id", actor.UserID).Msg("Lock updated")
	return lock, nil
}

func (s *lockService) Delete(ctx context.Context, actor Actor, id string) error {
	lock, err := s.getLock(ctx, id)
	if err != nil {
		return err
	}
	if lock.CreatorID != actor.UserID && !actor.IsAdmin {
		return errors.NewForbiddenError("only the lock owner or an admin may delete a lock")
	}

	refs, err := s.repo.ReferenceCount(ctx, id)
	if err != nil {
		return errors.NewDatabaseError("count lock references", err)
	}
	if refs > 0 {
		return errors.New(errors.ErrCodeLockInUse,
			fmt.Sprintf("lock is referenced by %d boards or posts", refs)).
			WithDetail("references", refs)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, repository.ErrLockNotFound) {
			return errors.NewLockNotFoundError(id)
		}
		return errors.NewDatabaseError("delete lock", err)
	}

	logger.Info().Str("lock_id", id).Str("user_id", actor.UserID).Msg("Lock deleted")
	return nil
}

func (s *lockService) Categories() []registry.Metadata {
	return s.registry.List()
}

func (s *lockService) getLock(ctx context.Context, id string) (*models.Lock, error) {
	lock, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrLockNotFound) {
			return nil, errors.NewLockNotFoundError(id)
		}
		return nil, errors.NewDatabaseError("get lock", err)
	}
	return lock, nil
}

// validateLock layers registry checks on top of structural validation:
// every category type must be registered and every requirement kind must
// be supported by its category.
func (s *lockService) validateLock(lock *models.Lock) error {
	if err := lock.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid lock")
	}

	for _, cat := range lock.Categories {
		verifier, ok := s.registry.Get(cat.Type)
		if !ok {
			return errors.NewConfigurationError(fmt.Sprintf("unknown category type: %s", cat.Type))
		}
		meta := verifier.Metadata()
		for _, req := range cat.Requirements {
			if !meta.SupportsKind(req.Kind) {
				return errors.NewConfigurationError(fmt.Sprintf(
					"category %s does not support requirement kind %s", cat.Type, req.Kind))
			}
		}
	}
	return nil
}
