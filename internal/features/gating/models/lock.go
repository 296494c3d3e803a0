package models

import (
	"fmt"
	"time"

	"community-forum-backend/internal/common/validation"
)

// Fulfillment is the pass policy applied when reducing a set of booleans:
// requirements within a category, categories within a lock, and locks
// within a board or post gate.
type Fulfillment string

const (
	FulfillmentAny Fulfillment = "any"
	FulfillmentAll Fulfillment = "all"
)

// Valid reports whether f is a known policy.
func (f Fulfillment) Valid() bool {
	return f == FulfillmentAny || f == FulfillmentAll
}

// Reduce folds per-item pass booleans according to the policy. An empty
// set is vacuously true under ALL and vacuously false under ANY; a
// category has to supply at least one requirement to be meaningful.
func (f Fulfillment) Reduce(passed []bool) bool {
	if f == FulfillmentAny {
		for _, p := range passed {
			if p {
				return true
			}
		}
		return false
	}
	for _, p := range passed {
		if !p {
			return false
		}
	}
	return true
}

// Category groups same-provider-family requirements with their own policy.
type Category struct {
	Type         string        `json:"type"`
	Enabled      bool          `json:"enabled"`
	Fulfillment  Fulfillment   `json:"fulfillment"`
	Requirements []Requirement `json:"requirements"`
}

// Validate checks the category's structure. Whether Type is registered is
// checked separately against the category registry.
func (c Category) Validate() error {
	if c.Type == "" {
		return fmt.Errorf("category type is required")
	}
	if !c.Fulfillment.Valid() {
		return fmt.Errorf("category %s: invalid fulfillment: %q", c.Type, c.Fulfillment)
	}
	if len(c.Requirements) == 0 {
		return fmt.Errorf("category %s: at least one requirement is required", c.Type)
	}
	for i, req := range c.Requirements {
		if err := req.Validate(); err != nil {
			return fmt.Errorf("category %s: requirement %d: %w", c.Type, i, err)
		}
	}
	return nil
}

// Lock is a reusable, named bundle of gating categories attachable to
// boards and posts. Edits apply to all future verifications; cached
// pre-verification results keep their natural expiry.
type Lock struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Categories  []Category  `json:"categories"`
	Fulfillment Fulfillment `json:"fulfillment"`
	CreatorID   string      `json:"creator_id"`
	CommunityID string      `json:"community_id"`
	IsTemplate  bool        `json:"is_template"`
	IsPublic    bool        `json:"is_public"`

	UsageCount            int64   `json:"usage_count"`
	SuccessRate           float64 `json:"success_rate"`
	AvgVerificationTimeMs int64   `json:"avg_verification_time_ms"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the lock's structure before persistence.
func (l *Lock) Validate() error {
	if err := validation.ValidateName(l.Name); err != nil {
		return err
	}
	if err := validation.ValidateDescription(l.Description); err != nil {
		return err
	}
	if !l.Fulfillment.Valid() {
		return fmt.Errorf("invalid fulfillment: %q", l.Fulfillment)
	}
	if len(l.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	for _, cat := range l.Categories {
		if err := cat.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// VisibleTo reports whether a member other than the owner may use the lock.
func (l *Lock) VisibleTo(userID string) bool {
	return l.CreatorID == userID || l.IsPublic || l.IsTemplate
}

// GatingConfig points a board or post at its locks and the outer policy
// across them.
type GatingConfig struct {
	LockIDs     []string    `json:"lock_ids"`
	Fulfillment Fulfillment `json:"fulfillment"`
}

// ResourceRef identifies the board or post an action targets. Post-level
// gating overrides board-level gating when both are configured.
type ResourceRef struct {
	BoardID string `json:"board_id,omitempty"`
	PostID  string `json:"post_id,omitempty"`
}
