package models

import "time"

// PreVerificationStatus is the lifecycle of a cached verification.
type PreVerificationStatus string

const (
	PreVerificationPending  PreVerificationStatus = "pending"
	PreVerificationVerified PreVerificationStatus = "verified"
	PreVerificationFailed   PreVerificationStatus = "failed"
	// PreVerificationSkipped marks a lock the engine never consulted
	// because an outer ANY gate was already satisfied. Never persisted.
	PreVerificationSkipped PreVerificationStatus = "skipped"
)

// PreVerification records that a user was checked against a lock, with an
// expiry after which the record is treated exactly like a missing one.
// Unique per (user, lock); writes are last-write-wins.
type PreVerification struct {
	UserID     string                `json:"user_id"`
	LockID     string                `json:"lock_id"`
	Status     PreVerificationStatus `json:"status"`
	VerifiedAt time.Time             `json:"verified_at"`
	ExpiresAt  time.Time             `json:"expires_at"`
}

// Expired reports whether the record is past its expiry at now.
func (p *PreVerification) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// GrantsAccess reports whether consumers may honor the record as a pass.
// Only an unexpired verified row ever grants.
func (p *PreVerification) GrantsAccess(now time.Time) bool {
	return p.Status == PreVerificationVerified && !p.Expired(now)
}
