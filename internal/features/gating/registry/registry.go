// Package registry maps category type names to their verifier
// implementations. The set is closed and explicit: construction happens
// once at startup and the populated registry is handed to the
// orchestrator, so there is no import-order dependent global state.
package registry

import (
	"context"
	"fmt"

	"community-forum-backend/internal/features/gating/models"
)

// Metadata describes a registered category for display and validation.
type Metadata struct {
	Type        string                   `json:"type"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Kinds       []models.RequirementKind `json:"kinds"`
}

// SupportsKind reports whether the category evaluates the given kind.
func (m Metadata) SupportsKind(kind models.RequirementKind) bool {
	for _, k := range m.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Verifier evaluates requirements of one provider family against a live
// identity. Implementations must be safe for concurrent use, must not
// panic on provider unavailability, and report unreachable providers as
// failed results with a reason rather than propagating errors.
type Verifier interface {
	Metadata() Metadata
	Verify(ctx context.Context, identity models.Identity, req models.Requirement) models.VerificationResult
}

// Registry is the closed category set. Not safe for concurrent
// registration; register everything at startup, read freely afterwards.
type Registry struct {
	order     []string
	verifiers map[string]Verifier
}

func New() *Registry {
	return &Registry{verifiers: make(map[string]Verifier)}
}

// Register adds a verifier under its metadata type. Duplicate types are a
// wiring bug and rejected.
func (r *Registry) Register(v Verifier) error {
	t := v.Metadata().Type
	if t == "" {
		return fmt.Errorf("verifier metadata has empty type")
	}
	if _, exists := r.verifiers[t]; exists {
		return fmt.Errorf("category type already registered: %s", t)
	}
	r.verifiers[t] = v
	r.order = append(r.order, t)
	return nil
}

// MustRegister is Register for startup wiring.
func (r *Registry) MustRegister(v Verifier) {
	if err := r.Register(v); err != nil {
		panic(err)
	}
}

// Get resolves a category type. ok=false means the lock references a
// category this deployment cannot evaluate; callers must treat that as a
// configuration failure, never as a pass.
func (r *Registry) Get(categoryType string) (Verifier, bool) {
	v, ok := r.verifiers[categoryType]
	return v, ok
}

// List returns metadata for all registered categories in registration order.
func (r *Registry) List() []Metadata {
	out := make([]Metadata, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.verifiers[t].Metadata())
	}
	return out
}
