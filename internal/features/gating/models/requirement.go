package models

import (
	"fmt"

	"community-forum-backend/internal/common/validation"
)

// RequirementKind enumerates the checkable condition kinds.
type RequirementKind string

const (
	KindTokenBalance     RequirementKind = "token_balance"
	KindNFTOwnership     RequirementKind = "nft_ownership"
	KindNativeBalance    RequirementKind = "native_balance"
	KindENSDomain        RequirementKind = "ens_domain"
	KindFollowerCount    RequirementKind = "follower_count"
	KindMustFollow       RequirementKind = "must_follow"
	KindMustBeFollowedBy RequirementKind = "must_be_followed_by"
	KindCommunityRole    RequirementKind = "community_role"
)

// TokenStandard narrows how a contract balance is queried.
type TokenStandard string

const (
	StandardERC20   TokenStandard = "erc20"
	StandardERC721  TokenStandard = "erc721"
	StandardERC1155 TokenStandard = "erc1155"
	StandardLSP7    TokenStandard = "lsp7"
	StandardLSP8    TokenStandard = "lsp8"
	StandardJetton  TokenStandard = "jetton"
)

// Requirement is a single checkable condition inside a category. Kind
// determines which fields must be populated; the zero values of the other
// fields are ignored by verifiers.
type Requirement struct {
	Kind RequirementKind `json:"kind"`

	// token_balance / nft_ownership
	ContractAddress string        `json:"contract_address,omitempty"`
	TokenStandard   TokenStandard `json:"token_standard,omitempty"`
	TokenID         string        `json:"token_id,omitempty"`

	// token_balance / native_balance: minimum amount in base units
	// (wei, nanoTON, LSP7 units) as a decimal string.
	MinAmount string `json:"min_amount,omitempty"`

	// ens_domain: exact name or "*." wildcard pattern.
	Pattern string `json:"pattern,omitempty"`

	// must_follow / must_be_followed_by
	TargetAddress string `json:"target_address,omitempty"`

	// follower_count
	MinFollowers int64 `json:"min_followers,omitempty"`

	// community_role
	RoleID string `json:"role_id,omitempty"`
}

// Validate checks that the fields required by the requirement's kind are
// populated and well-formed. Structurally invalid requirements must be
// rejected before a lock is persisted.
func (r Requirement) Validate() error {
	switch r.Kind {
	case KindTokenBalance:
		// Address format is ecosystem-specific; the owning category's
		// verifier parses it. Structurally it just has to be present.
		if r.ContractAddress == "" {
			return fmt.Errorf("contract_address is required for token_balance")
		}
		if err := validation.ValidateAmount(r.MinAmount, "min_amount"); err != nil {
			return err
		}
	case KindNFTOwnership:
		if r.ContractAddress == "" {
			return fmt.Errorf("contract_address is required for nft_ownership")
		}
		if r.TokenStandard == StandardERC1155 && r.TokenID == "" {
			return fmt.Errorf("token_id is required for erc1155 ownership")
		}
	case KindNativeBalance:
		if err := validation.ValidateAmount(r.MinAmount, "min_amount"); err != nil {
			return err
		}
	case KindENSDomain:
		if err := validation.ValidateENSPattern(r.Pattern); err != nil {
			return err
		}
	case KindFollowerCount:
		if err := validation.ValidatePositiveInt(r.MinFollowers, "min_followers"); err != nil {
			return err
		}
	case KindMustFollow, KindMustBeFollowedBy:
		if err := validation.ValidateHexAddress(r.TargetAddress, "target_address"); err != nil {
			return err
		}
	case KindCommunityRole:
		if r.RoleID == "" {
			return fmt.Errorf("role_id is required for community_role")
		}
	case "":
		return fmt.Errorf("requirement kind is required")
	default:
		return fmt.Errorf("unknown requirement kind: %s", r.Kind)
	}
	return nil
}

// Required renders the requirement's threshold for verification evidence.
func (r Requirement) Required() string {
	switch r.Kind {
	case KindTokenBalance, KindNativeBalance:
		return r.MinAmount
	case KindNFTOwnership:
		if r.TokenID != "" {
			return fmt.Sprintf("token %s of %s", r.TokenID, r.ContractAddress)
		}
		return fmt.Sprintf("1 of %s", r.ContractAddress)
	case KindENSDomain:
		return r.Pattern
	case KindFollowerCount:
		return fmt.Sprintf("%d", r.MinFollowers)
	case KindMustFollow:
		return fmt.Sprintf("follows %s", r.TargetAddress)
	case KindMustBeFollowedBy:
		return fmt.Sprintf("followed by %s", r.TargetAddress)
	case KindCommunityRole:
		return r.RoleID
	}
	return ""
}
