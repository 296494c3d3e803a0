package verifiers

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/xssnick/tonutils-go/address"

	"community-forum-backend/internal/features/gating/models"
	"community-forum-backend/internal/features/gating/registry"
)

// TonAPIClient reads account and jetton balances from a TonAPI-compatible
// HTTP endpoint.
type TonAPIClient struct {
	base       string
	token      string
	httpClient *http.Client
}

func NewTonAPIClient(baseURL, apiToken string) *TonAPIClient {
	if baseURL == "" {
		baseURL = "https://tonapi.io"
	}
	return &TonAPIClient{
		base:       strings.TrimRight(baseURL, "/"),
		token:      apiToken,
		httpClient: &http.Client{Timeout: 8 * time.Second},
	}
}

// AccountBalance returns the native TON balance in nanoTONs.
func (c *TonAPIClient) AccountBalance(ctx context.Context, addr string) (*big.Int, error) {
	var out struct {
		Balance json.Number `json:"balance"`
	}
	if err := c.getJSON(ctx, c.base+"/v2/accounts/"+addr, &out); err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(out.Balance.String(), 10)
	if !ok {
		return nil, fmt.Errorf("invalid balance format: %q", out.Balance)
	}
	return n, nil
}

// JettonBalance returns a jetton balance in its smallest units, or zero
// when the wallet holds none of the jetton.
func (c *TonAPIClient) JettonBalance(ctx context.Context, addr, jettonMaster string) (*big.Int, error) {
	var out struct {
		Balances []struct {
			Balance string `json:"balance"`
			Jetton  struct {
				Address string `json:"address"`
			} `json:"jetton"`
		} `json:"balances"`
	}
	if err := c.getJSON(ctx, c.base+"/v2/accounts/"+addr+"/jettons", &out); err != nil {
		return nil, err
	}

	master := normalizeTONAddress(jettonMaster)
	for _, b := range out.Balances {
		if normalizeTONAddress(b.Jetton.Address) != master {
			continue
		}
		n, ok := new(big.Int).SetString(b.Balance, 10)
		if !ok {
			return nil, fmt.Errorf("invalid jetton balance format: %q", b.Balance)
		}
		return n, nil
	}
	return big.NewInt(0), nil
}

func (c *TonAPIClient) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tonapi http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// parseTONAddress accepts friendly and raw forms.
func parseTONAddress(s string) (*address.Address, error) {
	if strings.Contains(s, ":") {
		return address.ParseRawAddr(s)
	}
	return address.ParseAddr(s)
}

// normalizeTONAddress maps any valid form to the friendly string form so
// addresses from different sources compare equal. Invalid input is
// returned unchanged; it will simply never match a parsed address.
func normalizeTONAddress(s string) string {
	a, err := parseTONAddress(s)
	if err != nil {
		return s
	}
	return a.String()
}

// TONVerifier evaluates TON ecosystem requirements: native balance and
// jetton balances via TonAPI. Addresses are validated and normalized with
// tonutils before any network call.
type TONVerifier struct {
	api *TonAPIClient
}

func NewTONVerifier(api *TonAPIClient) *TONVerifier {
	return &TONVerifier{api: api}
}

func (v *TONVerifier) Metadata() registry.Metadata {
	return registry.Metadata{
		Type:        "ton",
		Name:        "TON",
		Description: "Native TON and jetton balances",
		Kinds: []models.RequirementKind{
			models.KindNativeBalance,
			models.KindTokenBalance,
		},
	}
}

func (v *TONVerifier) Verify(ctx context.Context, identity models.Identity, req models.Requirement) models.VerificationResult {
	if identity.TonAddress == "" {
		return failed(req, "identity has no TON address")
	}
	wallet, err := parseTONAddress(identity.TonAddress)
	if err != nil {
		return failed(req, "invalid TON address: "+err.Error())
	}

	required, ok := minAmount(req)
	if !ok {
		return failed(req, "malformed min_amount: "+req.MinAmount)
	}

	switch req.Kind {
	case models.KindNativeBalance:
		balance, err := v.api.AccountBalance(ctx, wallet.String())
		if err != nil {
			return failed(req, "balance lookup failed: "+err.Error())
		}
		return compared(req, balance.String(), balance.Cmp(required) >= 0)

	case models.KindTokenBalance:
		if _, err := parseTONAddress(req.ContractAddress); err != nil {
			return failed(req, "invalid jetton master address: "+err.Error())
		}
		balance, err := v.api.JettonBalance(ctx, wallet.String(), req.ContractAddress)
		if err != nil {
			return failed(req, "jetton balance lookup failed: "+err.Error())
		}
		return compared(req, balance.String(), balance.Cmp(required) >= 0)

	default:
		return unsupportedKind(req, "ton")
	}
}
