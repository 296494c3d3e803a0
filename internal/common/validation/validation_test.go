package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Token holders"))
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("   "))
	assert.Error(t, ValidateName(strings.Repeat("x", MaxNameLength+1)))
}

func TestValidateDescription(t *testing.T) {
	assert.NoError(t, ValidateDescription(""))
	assert.NoError(t, ValidateDescription("gated board for holders"))
	assert.Error(t, ValidateDescription(strings.Repeat("x", MaxDescriptionLength+1)))
}

func TestHexAddress(t *testing.T) {
	assert.True(t, IsHexAddress("0x1111111111111111111111111111111111111111"))
	assert.True(t, IsHexAddress("0xAbCdEf1234567890aBcDeF1234567890abcdef12"))
	assert.False(t, IsHexAddress("1111111111111111111111111111111111111111"))
	assert.False(t, IsHexAddress("0x1111"))
	assert.False(t, IsHexAddress("0xzz11111111111111111111111111111111111111"))

	assert.NoError(t, ValidateHexAddress("0x1111111111111111111111111111111111111111", "target"))
	assert.Error(t, ValidateHexAddress("", "target"))
}

func TestValidateENSPattern(t *testing.T) {
	assert.NoError(t, ValidateENSPattern("alice.eth"))
	assert.NoError(t, ValidateENSPattern("sub.alice.eth"))
	assert.NoError(t, ValidateENSPattern("*.eth"))
	assert.NoError(t, ValidateENSPattern("*.alice.eth"))
	assert.NoError(t, ValidateENSPattern("*"))
	assert.Error(t, ValidateENSPattern(""))
	assert.Error(t, ValidateENSPattern("not a domain"))
	assert.Error(t, ValidateENSPattern("noTLD"))
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount("0", "min_amount"))
	assert.NoError(t, ValidateAmount("1000000000000000000", "min_amount"))
	assert.Error(t, ValidateAmount("", "min_amount"))
	assert.Error(t, ValidateAmount("-5", "min_amount"))
	assert.Error(t, ValidateAmount("1.5", "min_amount"))
	assert.Error(t, ValidateAmount("1e18", "min_amount"))
}

func TestValidatePositiveInt(t *testing.T) {
	assert.NoError(t, ValidatePositiveInt(1, "min_followers"))
	assert.Error(t, ValidatePositiveInt(0, "min_followers"))
	assert.Error(t, ValidatePositiveInt(-3, "min_followers"))
}
