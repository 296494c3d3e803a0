package verifiers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"community-forum-backend/internal/features/gating/models"
	"community-forum-backend/internal/features/gating/registry"
)

// Role is a community role as reported by the host application.
type Role struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Admin bool   `json:"admin"`
}

// RoleDirectory resolves a member's roles in the host community.
type RoleDirectory interface {
	MemberRoles(ctx context.Context, communityID, userID string) ([]Role, error)
}

// CommunityClient talks to the host application API the plugin is
// embedded in.
type CommunityClient struct {
	base       string
	token      string
	httpClient *http.Client
}

func NewCommunityClient(baseURL, apiToken string) *CommunityClient {
	return &CommunityClient{
		base:       strings.TrimRight(baseURL, "/"),
		token:      apiToken,
		httpClient: &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *CommunityClient) MemberRoles(ctx context.Context, communityID, userID string) ([]Role, error) {
	url := fmt.Sprintf("%s/communities/%s/members/%s/roles", c.base, communityID, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("community api http %d", resp.StatusCode)
	}

	var out struct {
		Roles []Role `json:"roles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Roles, nil
}

// CommunityRoleVerifier checks membership of a community role. An admin
// role satisfies any role requirement.
type CommunityRoleVerifier struct {
	directory RoleDirectory
}

func NewCommunityRoleVerifier(directory RoleDirectory) *CommunityRoleVerifier {
	return &CommunityRoleVerifier{directory: directory}
}

func (v *CommunityRoleVerifier) Metadata() registry.Metadata {
	return registry.Metadata{
		Type:        "community_role",
		Name:        "Community Role",
		Description: "Role membership in the host community",
		Kinds:       []models.RequirementKind{models.KindCommunityRole},
	}
}

func (v *CommunityRoleVerifier) Verify(ctx context.Context, identity models.Identity, req models.Requirement) models.VerificationResult {
	if req.Kind != models.KindCommunityRole {
		return unsupportedKind(req, "community_role")
	}
	if identity.UserID == "" || identity.CommunityID == "" {
		return failed(req, "identity has no community membership")
	}

	roles, err := v.directory.MemberRoles(ctx, identity.CommunityID, identity.UserID)
	if err != nil {
		return failed(req, "role lookup failed: "+err.Error())
	}

	held := make([]string, 0, len(roles))
	met := false
	for _, role := range roles {
		held = append(held, role.ID)
		if role.ID == req.RoleID || role.Admin {
			met = true
		}
	}

	current := strings.Join(held, ",")
	if current == "" {
		current = "(no roles)"
	}
	return compared(req, current, met)
}
