// Package orchestrator reduces a lock to a single boolean for an identity.
// It fans out to the category verifiers with bounded parallelism, isolates
// individual provider failures inside the evidence, and applies a per-call
// deadline so one slow provider cannot stall a whole lock evaluation.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"community-forum-backend/internal/common/logger"
	"community-forum-backend/internal/features/gating/models"
	"community-forum-backend/internal/features/gating/registry"
)

type Orchestrator struct {
	registry        *registry.Registry
	providerTimeout time.Duration
	maxConcurrent   int
	log             zerolog.Logger
}

func New(reg *registry.Registry, providerTimeout time.Duration, maxConcurrent int) *Orchestrator {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Orchestrator{
		registry:        reg,
		providerTimeout: providerTimeout,
		maxConcurrent:   maxConcurrent,
		log:             logger.Component("orchestrator"),
	}
}

// Evaluate checks the identity against every enabled category of the lock
// and reduces to the lock's overall boolean. Requirement and category
// failures are absorbed into the outcome; the only hard error is caller
// cancellation, in which case partial results are discarded.
func (o *Orchestrator) Evaluate(ctx context.Context, identity models.Identity, lock *models.Lock) (*models.LockVerificationOutcome, error) {
	start := time.Now()

	// Disabled categories are skipped entirely and do not count toward
	// the lock's ANY/ALL reduction.
	enabled := make([]models.Category, 0, len(lock.Categories))
	for _, cat := range lock.Categories {
		if cat.Enabled {
			enabled = append(enabled, cat)
		}
	}

	outcome := &models.LockVerificationOutcome{
		LockID:     lock.ID,
		Categories: make([]models.CategoryOutcome, len(enabled)),
	}

	g := new(errgroup.Group)
	g.SetLimit(o.maxConcurrent)
	for i, cat := range enabled {
		i, cat := i, cat
		g.Go(func() error {
			// Evidence lands at the category's lock-definition index so
			// response ordering stays deterministic.
			outcome.Categories[i] = o.evaluateCategory(ctx, identity, cat)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	passed := make([]bool, len(outcome.Categories))
	for i, cat := range outcome.Categories {
		passed[i] = cat.Passed
	}
	outcome.Overall = lock.Fulfillment.Reduce(passed)
	outcome.DurationMs = time.Since(start).Milliseconds()

	o.log.Debug().
		Str("lock_id", lock.ID).
		Str("user_id", identity.UserID).
		Bool("overall", outcome.Overall).
		Int64("duration_ms", outcome.DurationMs).
		Msg("Lock evaluated")

	return outcome, nil
}

func (o *Orchestrator) evaluateCategory(ctx context.Context, identity models.Identity, cat models.Category) models.CategoryOutcome {
	outcome := models.CategoryOutcome{
		Type:        cat.Type,
		Fulfillment: cat.Fulfillment,
	}

	verifier, ok := o.registry.Get(cat.Type)
	if !ok {
		// A lock referencing an unregistered category is a configuration
		// failure surfaced to the owner, never a silent pass.
		outcome.Results = []models.VerificationResult{{
			Error: fmt.Sprintf("category type %q is not registered", cat.Type),
		}}
		return outcome
	}

	outcome.Results = make([]models.VerificationResult, len(cat.Requirements))

	g := new(errgroup.Group)
	g.SetLimit(o.maxConcurrent)
	for i, req := range cat.Requirements {
		i, req := i, req
		g.Go(func() error {
			outcome.Results[i] = o.verifyOne(ctx, verifier, identity, req)
			return nil
		})
	}
	_ = g.Wait()

	passed := make([]bool, len(outcome.Results))
	for i, res := range outcome.Results {
		passed[i] = res.IsMet
	}
	outcome.Passed = cat.Fulfillment.Reduce(passed)
	return outcome
}

// verifyOne runs a single requirement under the provider deadline. A
// verifier that overruns the deadline resolves to a timeout failure while
// its goroutine drains in the background.
func (o *Orchestrator) verifyOne(ctx context.Context, verifier registry.Verifier, identity models.Identity, req models.Requirement) models.VerificationResult {
	tctx, cancel := context.WithTimeout(ctx, o.providerTimeout)
	defer cancel()

	done := make(chan models.VerificationResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- models.VerificationResult{
					Kind:     req.Kind,
					Required: req.Required(),
					Error:    fmt.Sprintf("verifier panic: %v", r),
				}
			}
		}()
		done <- verifier.Verify(tctx, identity, req)
	}()

	select {
	case res := <-done:
		return res
	case <-tctx.Done():
		reason := "cancelled"
		if errors.Is(tctx.Err(), context.DeadlineExceeded) {
			reason = "timeout"
		}
		return models.VerificationResult{
			Kind:     req.Kind,
			Required: req.Required(),
			Error:    reason,
		}
	}
}
