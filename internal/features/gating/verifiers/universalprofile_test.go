package verifiers

import (
	"context"
	"math/big"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"community-forum-backend/internal/features/gating/models"
)

const (
	testProfile       = "0x5555555555555555555555555555555555555555"
	testLSP26Registry = "0x6666666666666666666666666666666666666666"
)

func newUPVerifier(t *testing.T, chain *fakeChain) *UniversalProfileVerifier {
	t.Helper()
	srv := httptest.NewServer(chain.handler())
	t.Cleanup(srv.Close)
	return NewUniversalProfileVerifier([]string{srv.URL}, testLSP26Registry)
}

func TestUniversalProfileAssetBalance(t *testing.T) {
	v := newUPVerifier(t, &fakeChain{calls: map[string]string{
		callKey(testContract, selBalanceOf): "0x" + padUint(big.NewInt(10)),
	}})
	identity := models.Identity{UserID: "u", UpAddress: testProfile}

	t.Run("lsp7 token balance", func(t *testing.T) {
		res := v.Verify(context.Background(), identity, models.Requirement{
			Kind: models.KindTokenBalance, ContractAddress: testContract,
			TokenStandard: models.StandardLSP7, MinAmount: "5",
		})
		assert.True(t, res.IsMet)
		assert.Equal(t, "10", res.Current)
	})

	t.Run("lsp8 ownership uses the same balance call", func(t *testing.T) {
		res := v.Verify(context.Background(), identity, models.Requirement{
			Kind: models.KindNFTOwnership, ContractAddress: testContract,
			TokenStandard: models.StandardLSP8,
		})
		assert.True(t, res.IsMet)
	})
}

func TestUniversalProfileFollowerCount(t *testing.T) {
	v := newUPVerifier(t, &fakeChain{calls: map[string]string{
		callKey(testLSP26Registry, selFollowerCount): "0x" + padUint(big.NewInt(42)),
	}})
	identity := models.Identity{UserID: "u", UpAddress: testProfile}

	res := v.Verify(context.Background(), identity, models.Requirement{
		Kind: models.KindFollowerCount, MinFollowers: 40,
	})
	assert.True(t, res.IsMet)
	assert.Equal(t, "42", res.Current)

	res = v.Verify(context.Background(), identity, models.Requirement{
		Kind: models.KindFollowerCount, MinFollowers: 50,
	})
	assert.False(t, res.IsMet)
}

func TestUniversalProfileFollowEdge(t *testing.T) {
	chain := &fakeChain{calls: map[string]string{
		callKey(testLSP26Registry, selIsFollowing): "0x" + padUint(big.NewInt(1)),
	}}
	v := newUPVerifier(t, chain)
	identity := models.Identity{UserID: "u", UpAddress: testProfile}

	res := v.Verify(context.Background(), identity, models.Requirement{
		Kind: models.KindMustFollow, TargetAddress: testContract,
	})
	assert.True(t, res.IsMet)
	assert.Equal(t, "following", res.Current)

	chain.calls[callKey(testLSP26Registry, selIsFollowing)] = "0x" + padUint(big.NewInt(0))
	res = v.Verify(context.Background(), identity, models.Requirement{
		Kind: models.KindMustBeFollowedBy, TargetAddress: testContract,
	})
	assert.False(t, res.IsMet)
	assert.Equal(t, "not following", res.Current)
}

func TestUniversalProfileSelfFollow(t *testing.T) {
	// No scripted calls: a provider hit would fail the lookup.
	v := newUPVerifier(t, &fakeChain{})
	identity := models.Identity{UserID: "u", UpAddress: testProfile}

	res := v.Verify(context.Background(), identity, models.Requirement{
		Kind: models.KindMustFollow, TargetAddress: strings.ToUpper(testProfile),
	})
	assert.True(t, res.IsMet, "case differences still count as self")
	assert.Equal(t, "self", res.Current)

	res = v.Verify(context.Background(), identity, models.Requirement{
		Kind: models.KindMustBeFollowedBy, TargetAddress: testProfile,
	})
	assert.True(t, res.IsMet)
	assert.Equal(t, "self", res.Current)
}

func TestUniversalProfileRequiresProfileAddress(t *testing.T) {
	v := newUPVerifier(t, &fakeChain{})

	res := v.Verify(context.Background(), models.Identity{UserID: "u", EvmAddress: testWallet}, models.Requirement{
		Kind: models.KindTokenBalance, ContractAddress: testContract, MinAmount: "1",
	})
	assert.False(t, res.IsMet)
	assert.Contains(t, res.Error, "no Universal Profile address")
}
