package models

// Identity is the subject being checked: the addresses and handles the
// caller supplies per verification. The engine never stores it.
type Identity struct {
	UserID      string `json:"user_id"`
	CommunityID string `json:"community_id,omitempty"`
	EvmAddress  string `json:"evm_address,omitempty"`
	UpAddress   string `json:"up_address,omitempty"`
	TonAddress  string `json:"ton_address,omitempty"`
}

// VerificationResult is the per-requirement evidence: pass/fail plus the
// observed and required values so callers can render why access was denied.
type VerificationResult struct {
	Kind     RequirementKind `json:"kind"`
	IsMet    bool            `json:"is_met"`
	Current  string          `json:"current,omitempty"`
	Required string          `json:"required,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// CategoryOutcome is one category's reduction plus its evidence, in
// lock-definition order.
type CategoryOutcome struct {
	Type        string               `json:"type"`
	Fulfillment Fulfillment          `json:"fulfillment"`
	Passed      bool                 `json:"passed"`
	Results     []VerificationResult `json:"results"`
}

// LockVerificationOutcome is the orchestrator's full answer for one lock.
type LockVerificationOutcome struct {
	LockID     string            `json:"lock_id"`
	Overall    bool              `json:"overall"`
	Categories []CategoryOutcome `json:"categories"`
	DurationMs int64             `json:"duration_ms"`
}

// LockDecision is one lock's contribution to an access decision.
type LockDecision struct {
	LockID    string                   `json:"lock_id"`
	Status    PreVerificationStatus    `json:"status"`
	FromCache bool                     `json:"from_cache"`
	Error     string                   `json:"error,omitempty"`
	Outcome   *LockVerificationOutcome `json:"outcome,omitempty"`
}

// Decision answers "may user U perform this action now". RequiredCount is
// the number of locks that had to pass under the outer fulfillment mode;
// VerifiedCount is how many did.
type Decision struct {
	Allowed       bool           `json:"allowed"`
	Fulfillment   Fulfillment    `json:"fulfillment,omitempty"`
	VerifiedCount int            `json:"verified_count"`
	RequiredCount int            `json:"required_count"`
	PerLock       []LockDecision `json:"per_lock,omitempty"`
}
