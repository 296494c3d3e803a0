package dto

import "community-forum-backend/internal/features/gating/models"

// LockCreateRequest is the payload for creating a lock.
type LockCreateRequest struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Fulfillment models.Fulfillment `json:"fulfillment" binding:"required"`
	Categories  []models.Category  `json:"categories" binding:"required"`
	IsTemplate  bool               `json:"is_template"`
	IsPublic    bool               `json:"is_public"`
}

// LockUpdateRequest is the payload for editing a lock. Edits apply to all
// future verifications immediately.
type LockUpdateRequest struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Fulfillment models.Fulfillment `json:"fulfillment" binding:"required"`
	Categories  []models.Category  `json:"categories" binding:"required"`
	IsTemplate  bool               `json:"is_template"`
	IsPublic    bool               `json:"is_public"`
}

// IdentityPayload carries the addresses the member is verifying with.
// The user and community ids come from the host auth context, never from
// the request body.
type IdentityPayload struct {
	EvmAddress string `json:"evm_address"`
	UpAddress  string `json:"up_address"`
	TonAddress string `json:"ton_address"`
}

// VerifyRequest triggers a live verification against a lock.
type VerifyRequest struct {
	IdentityPayload
}

// AccessCheckRequest asks whether the member may act on a board or post.
type AccessCheckRequest struct {
	IdentityPayload
	BoardID string `json:"board_id"`
	PostID  string `json:"post_id"`
}
