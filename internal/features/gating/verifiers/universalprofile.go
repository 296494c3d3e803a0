package verifiers

import (
	"context"
	"math/big"
	"strings"

	"community-forum-backend/internal/common/validation"
	"community-forum-backend/internal/features/gating/models"
	"community-forum-backend/internal/features/gating/registry"
)

// LSP26 follower system selectors.
var (
	selIsFollowing   = selector("isFollowing(address,address)")
	selFollowerCount = selector("followerCount(address)")
)

// UniversalProfileVerifier evaluates requirements on the LUKSO
// smart-contract-account ecosystem: LYX balance, LSP7 token balances,
// LSP8 identifiable assets and the on-chain LSP26 follower registry.
// LSP7 and LSP8 both expose balanceOf(address), so the same call path
// serves token and NFT holdings.
type UniversalProfileVerifier struct {
	rpc              *rpcClient
	followerRegistry string
}

func NewUniversalProfileVerifier(rpcURLs []string, followerRegistry string) *UniversalProfileVerifier {
	return &UniversalProfileVerifier{
		rpc:              newRPCClient(rpcURLs),
		followerRegistry: followerRegistry,
	}
}

func (v *UniversalProfileVerifier) Metadata() registry.Metadata {
	return registry.Metadata{
		Type:        "universal_profile",
		Name:        "Universal Profile",
		Description: "LYX balance, LSP7/LSP8 holdings and LSP26 follower graph",
		Kinds: []models.RequirementKind{
			models.KindNativeBalance,
			models.KindTokenBalance,
			models.KindNFTOwnership,
			models.KindFollowerCount,
			models.KindMustFollow,
			models.KindMustBeFollowedBy,
		},
	}
}

func (v *UniversalProfileVerifier) Verify(ctx context.Context, identity models.Identity, req models.Requirement) models.VerificationResult {
	if identity.UpAddress == "" {
		return failed(req, "identity has no Universal Profile address")
	}
	if !validation.IsHexAddress(identity.UpAddress) {
		return failed(req, "invalid Universal Profile address: "+identity.UpAddress)
	}
	profile := identity.UpAddress

	switch req.Kind {
	case models.KindNativeBalance:
		required, ok := minAmount(req)
		if !ok {
			return failed(req, "malformed min_amount: "+req.MinAmount)
		}
		balance, err := v.rpc.balanceAt(ctx, profile)
		if err != nil {
			return failed(req, "balance lookup failed: "+err.Error())
		}
		return compared(req, balance.String(), balance.Cmp(required) >= 0)

	case models.KindTokenBalance:
		if !validation.IsHexAddress(req.ContractAddress) {
			return failed(req, "invalid contract address: "+req.ContractAddress)
		}
		required, ok := minAmount(req)
		if !ok {
			return failed(req, "malformed min_amount: "+req.MinAmount)
		}
		balance, err := v.assetBalance(ctx, req.ContractAddress, profile)
		if err != nil {
			return failed(req, "lsp7 balance lookup failed: "+err.Error())
		}
		return compared(req, balance.String(), balance.Cmp(required) >= 0)

	case models.KindNFTOwnership:
		if !validation.IsHexAddress(req.ContractAddress) {
			return failed(req, "invalid contract address: "+req.ContractAddress)
		}
		balance, err := v.assetBalance(ctx, req.ContractAddress, profile)
		if err != nil {
			return failed(req, "lsp8 balance lookup failed: "+err.Error())
		}
		return compared(req, balance.String(), balance.Sign() > 0)

	case models.KindFollowerCount:
		result, err := v.rpc.ethCall(ctx, v.followerRegistry, selFollowerCount+padAddress(profile))
		if err != nil {
			return failed(req, "follower count lookup failed: "+err.Error())
		}
		count, err := parseHexUint(result)
		if err != nil {
			return failed(req, "malformed follower count: "+err.Error())
		}
		return compared(req, count.String(), count.Cmp(big.NewInt(req.MinFollowers)) >= 0)

	case models.KindMustFollow:
		// Same self-reference rule as the EFP graph: no provider call.
		if strings.EqualFold(req.TargetAddress, profile) {
			return compared(req, "self", true)
		}
		return v.verifyFollowEdge(ctx, req, profile, req.TargetAddress)

	case models.KindMustBeFollowedBy:
		if strings.EqualFold(req.TargetAddress, profile) {
			return compared(req, "self", true)
		}
		return v.verifyFollowEdge(ctx, req, req.TargetAddress, profile)

	default:
		return unsupportedKind(req, "universal_profile")
	}
}

// verifyFollowEdge checks isFollowing(follower, target) on the registry.
func (v *UniversalProfileVerifier) verifyFollowEdge(ctx context.Context, req models.Requirement, follower, target string) models.VerificationResult {
	result, err := v.rpc.ethCall(ctx, v.followerRegistry, selIsFollowing+padAddress(follower)+padAddress(target))
	if err != nil {
		return failed(req, "follow lookup failed: "+err.Error())
	}
	n, err := parseHexUint(result)
	if err != nil {
		return failed(req, "malformed follow result: "+err.Error())
	}
	follows := n.Sign() > 0
	return compared(req, followState(follows), follows)
}

func (v *UniversalProfileVerifier) assetBalance(ctx context.Context, contract, profile string) (*big.Int, error) {
	result, err := v.rpc.ethCall(ctx, contract, selBalanceOf+padAddress(profile))
	if err != nil {
		return nil, err
	}
	return parseHexUint(result)
}
