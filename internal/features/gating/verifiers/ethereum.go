package verifiers

import (
	"context"
	"math/big"
	"strings"

	"community-forum-backend/internal/common/validation"
	"community-forum-backend/internal/features/gating/models"
	"community-forum-backend/internal/features/gating/registry"
)

// Function selectors are derived from the canonical signatures at startup
// rather than hardcoded.
var (
	selBalanceOf   = selector("balanceOf(address)")
	selBalanceOfID = selector("balanceOf(address,uint256)")
	selOwnerOf     = selector("ownerOf(uint256)")
	selResolver    = selector("resolver(bytes32)")
	selName        = selector("name(bytes32)")
)

// EthereumVerifier evaluates EVM-chain requirements: native ETH balance,
// ERC-20 balances, ERC-721/1155 ownership and ENS primary names. All
// lookups are read-only JSON-RPC calls with endpoint rotation on failure.
type EthereumVerifier struct {
	rpc         *rpcClient
	ensRegistry string
}

func NewEthereumVerifier(rpcURLs []string, ensRegistry string) *EthereumVerifier {
	return &EthereumVerifier{
		rpc:         newRPCClient(rpcURLs),
		ensRegistry: ensRegistry,
	}
}

func (v *EthereumVerifier) Metadata() registry.Metadata {
	return registry.Metadata{
		Type:        "ethereum",
		Name:        "Ethereum",
		Description: "ETH balance, ERC-20/721/1155 holdings and ENS names",
		Kinds: []models.RequirementKind{
			models.KindNativeBalance,
			models.KindTokenBalance,
			models.KindNFTOwnership,
			models.KindENSDomain,
		},
	}
}

func (v *EthereumVerifier) Verify(ctx context.Context, identity models.Identity, req models.Requirement) models.VerificationResult {
	if identity.EvmAddress == "" {
		return failed(req, "identity has no EVM address")
	}
	if !validation.IsHexAddress(identity.EvmAddress) {
		return failed(req, "invalid EVM address: "+identity.EvmAddress)
	}

	switch req.Kind {
	case models.KindNativeBalance:
		return v.verifyNativeBalance(ctx, identity.EvmAddress, req)
	case models.KindTokenBalance:
		return v.verifyTokenBalance(ctx, identity.EvmAddress, req)
	case models.KindNFTOwnership:
		return v.verifyNFTOwnership(ctx, identity.EvmAddress, req)
	case models.KindENSDomain:
		return v.verifyENSDomain(ctx, identity.EvmAddress, req)
	default:
		return unsupportedKind(req, "ethereum")
	}
}

func (v *EthereumVerifier) verifyNativeBalance(ctx context.Context, address string, req models.Requirement) models.VerificationResult {
	required, ok := minAmount(req)
	if !ok {
		return failed(req, "malformed min_amount: "+req.MinAmount)
	}

	balance, err := v.rpc.balanceAt(ctx, address)
	if err != nil {
		return failed(req, "balance lookup failed: "+err.Error())
	}
	return compared(req, balance.String(), balance.Cmp(required) >= 0)
}

func (v *EthereumVerifier) verifyTokenBalance(ctx context.Context, address string, req models.Requirement) models.VerificationResult {
	if !validation.IsHexAddress(req.ContractAddress) {
		return failed(req, "invalid contract address: "+req.ContractAddress)
	}
	required, ok := minAmount(req)
	if !ok {
		return failed(req, "malformed min_amount: "+req.MinAmount)
	}

	balance, err := v.contractBalance(ctx, req.ContractAddress, address)
	if err != nil {
		return failed(req, "token balance lookup failed: "+err.Error())
	}
	return compared(req, balance.String(), balance.Cmp(required) >= 0)
}

func (v *EthereumVerifier) verifyNFTOwnership(ctx context.Context, address string, req models.Requirement) models.VerificationResult {
	if !validation.IsHexAddress(req.ContractAddress) {
		return failed(req, "invalid contract address: "+req.ContractAddress)
	}

	switch {
	case req.TokenStandard == models.StandardERC1155:
		tokenID, ok := new(big.Int).SetString(req.TokenID, 10)
		if !ok {
			return failed(req, "malformed token_id: "+req.TokenID)
		}
		result, err := v.rpc.ethCall(ctx, req.ContractAddress, selBalanceOfID+padAddress(address)+padUint(tokenID))
		if err != nil {
			return failed(req, "erc1155 balance lookup failed: "+err.Error())
		}
		balance, err := parseHexUint(result)
		if err != nil {
			return failed(req, "malformed erc1155 balance: "+err.Error())
		}
		return compared(req, balance.String(), balance.Sign() > 0)

	case req.TokenID != "":
		// ERC-721 with a specific token: owner must match the identity.
		tokenID, ok := new(big.Int).SetString(req.TokenID, 10)
		if !ok {
			return failed(req, "malformed token_id: "+req.TokenID)
		}
		result, err := v.rpc.ethCall(ctx, req.ContractAddress, selOwnerOf+padUint(tokenID))
		if err != nil {
			return failed(req, "ownerOf lookup failed: "+err.Error())
		}
		word, err := wordAt(result, 0)
		if err != nil {
			return failed(req, "malformed ownerOf result")
		}
		owner := addressFromWord(word)
		return compared(req, owner, strings.EqualFold(owner, address))

	default:
		balance, err := v.contractBalance(ctx, req.ContractAddress, address)
		if err != nil {
			return failed(req, "nft balance lookup failed: "+err.Error())
		}
		return compared(req, balance.String(), balance.Sign() > 0)
	}
}

func (v *EthereumVerifier) verifyENSDomain(ctx context.Context, address string, req models.Requirement) models.VerificationResult {
	name, err := v.primaryName(ctx, address)
	if err != nil {
		return failed(req, "ens lookup failed: "+err.Error())
	}
	if name == "" {
		return compared(req, "(no primary name)", false)
	}
	return compared(req, name, matchDomainPattern(name, req.Pattern))
}

// primaryName reverse-resolves an address to its ENS primary name. An
// address without a reverse record resolves to the empty string.
func (v *EthereumVerifier) primaryName(ctx context.Context, address string) (string, error) {
	node := namehash(strings.ToLower(strings.TrimPrefix(address, "0x")) + ".addr.reverse")

	result, err := v.rpc.ethCall(ctx, v.ensRegistry, selResolver+strings.TrimPrefix(node, "0x"))
	if err != nil {
		return "", err
	}
	word, err := wordAt(result, 0)
	if err != nil {
		return "", err
	}
	resolver := addressFromWord(word)
	if resolver == "0x0000000000000000000000000000000000000000" {
		return "", nil
	}

	result, err = v.rpc.ethCall(ctx, resolver, selName+strings.TrimPrefix(node, "0x"))
	if err != nil {
		return "", err
	}
	return decodeABIString(result)
}

func (v *EthereumVerifier) contractBalance(ctx context.Context, contract, address string) (*big.Int, error) {
	result, err := v.rpc.ethCall(ctx, contract, selBalanceOf+padAddress(address))
	if err != nil {
		return nil, err
	}
	return parseHexUint(result)
}

// matchDomainPattern matches an ENS name against an exact name, a "*."
// wildcard suffix, or "*" for any name.
func matchDomainPattern(name, pattern string) bool {
	name = strings.ToLower(name)
	pattern = strings.ToLower(pattern)
	switch {
	case pattern == "*":
		return name != ""
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(name, pattern[1:]) && len(name) > len(pattern[1:])
	default:
		return name == pattern
	}
}
