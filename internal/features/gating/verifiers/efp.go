package verifiers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"community-forum-backend/internal/common/validation"
	"community-forum-backend/internal/features/gating/models"
	"community-forum-backend/internal/features/gating/registry"
)

// FollowStats are the aggregate counts the follow-graph indexer reports
// for an address.
type FollowStats struct {
	Followers int64
	Following int64
}

// FollowGraph is the token-curated follow graph consulted for social
// requirements.
type FollowGraph interface {
	Stats(ctx context.Context, address string) (FollowStats, error)
	Follows(ctx context.Context, follower, target string) (bool, error)
}

// EFPClient queries an Ethereum Follow Protocol indexer over HTTP.
type EFPClient struct {
	base       string
	httpClient *http.Client
}

func NewEFPClient(baseURL string) *EFPClient {
	return &EFPClient{
		base:       strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *EFPClient) Stats(ctx context.Context, address string) (FollowStats, error) {
	// The indexer reports counts as strings.
	var out struct {
		FollowersCount string `json:"followers_count"`
		FollowingCount string `json:"following_count"`
	}
	if err := c.getJSON(ctx, c.base+"/users/"+address+"/stats", &out); err != nil {
		return FollowStats{}, err
	}

	followers, err := strconv.ParseInt(out.FollowersCount, 10, 64)
	if err != nil {
		return FollowStats{}, fmt.Errorf("invalid followers count: %q", out.FollowersCount)
	}
	following, err := strconv.ParseInt(out.FollowingCount, 10, 64)
	if err != nil {
		return FollowStats{}, fmt.Errorf("invalid following count: %q", out.FollowingCount)
	}
	return FollowStats{Followers: followers, Following: following}, nil
}

func (c *EFPClient) Follows(ctx context.Context, follower, target string) (bool, error) {
	var out struct {
		State struct {
			Follow bool `json:"follow"`
		} `json:"state"`
	}
	if err := c.getJSON(ctx, c.base+"/users/"+follower+"/"+target+"/followState", &out); err != nil {
		return false, err
	}
	return out.State.Follow, nil
}

func (c *EFPClient) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("efp http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// EFPVerifier evaluates follow-graph requirements against an EFP indexer.
type EFPVerifier struct {
	graph FollowGraph
}

func NewEFPVerifier(graph FollowGraph) *EFPVerifier {
	return &EFPVerifier{graph: graph}
}

func (v *EFPVerifier) Metadata() registry.Metadata {
	return registry.Metadata{
		Type:        "efp",
		Name:        "Ethereum Follow Protocol",
		Description: "Follower counts and follow relationships on EFP",
		Kinds: []models.RequirementKind{
			models.KindFollowerCount,
			models.KindMustFollow,
			models.KindMustBeFollowedBy,
		},
	}
}

func (v *EFPVerifier) Verify(ctx context.Context, identity models.Identity, req models.Requirement) models.VerificationResult {
	if identity.EvmAddress == "" {
		return failed(req, "identity has no EVM address")
	}
	if !validation.IsHexAddress(identity.EvmAddress) {
		return failed(req, "invalid EVM address: "+identity.EvmAddress)
	}

	switch req.Kind {
	case models.KindFollowerCount:
		stats, err := v.graph.Stats(ctx, identity.EvmAddress)
		if err != nil {
			return failed(req, "follow stats lookup failed: "+err.Error())
		}
		return compared(req, strconv.FormatInt(stats.Followers, 10), stats.Followers >= req.MinFollowers)

	case models.KindMustFollow:
		// A user trivially satisfies a follow relationship with their own
		// address; the provider is not consulted. Semantic rule, callers
		// rely on it.
		if strings.EqualFold(req.TargetAddress, identity.EvmAddress) {
			return compared(req, "self", true)
		}
		follows, err := v.graph.Follows(ctx, identity.EvmAddress, req.TargetAddress)
		if err != nil {
			return failed(req, "follow state lookup failed: "+err.Error())
		}
		return compared(req, followState(follows), follows)

	case models.KindMustBeFollowedBy:
		if strings.EqualFold(req.TargetAddress, identity.EvmAddress) {
			return compared(req, "self", true)
		}
		follows, err := v.graph.Follows(ctx, req.TargetAddress, identity.EvmAddress)
		if err != nil {
			return failed(req, "follow state lookup failed: "+err.Error())
		}
		return compared(req, followState(follows), follows)

	default:
		return unsupportedKind(req, "efp")
	}
}

func followState(follows bool) string {
	if follows {
		return "following"
	}
	return "not following"
}
