package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxNameLength        = 200
	MaxDescriptionLength = 1000

	MinNameLength = 1
)

// 0x-prefixed 20-byte hex address (EVM chains and LUKSO profiles).
var hexAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ENS name pattern: plain name or a single leading wildcard label.
var ensPatternRegex = regexp.MustCompile(`^(\*\.)?[a-z0-9-]+(\.[a-z0-9-]+)*\.[a-z]{2,}$`)

// ValidateName checks a lock name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < MinNameLength {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("name cannot exceed %d characters", MaxNameLength)
	}
	return nil
}

// ValidateDescription checks a lock description. Empty is allowed.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("description cannot exceed %d characters", MaxDescriptionLength)
	}
	return nil
}

// IsHexAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsHexAddress(s string) bool {
	return hexAddressRegex.MatchString(s)
}

// ValidateHexAddress checks a 0x-prefixed 20-byte hex address.
func ValidateHexAddress(address, fieldName string) error {
	if address == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	if !hexAddressRegex.MatchString(address) {
		return fmt.Errorf("%s must be a 0x-prefixed 20-byte hex address", fieldName)
	}
	return nil
}

// ValidateENSPattern checks an ENS domain or wildcard pattern like "*.eth".
func ValidateENSPattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("domain pattern cannot be empty")
	}
	if pattern == "*.eth" || pattern == "*" {
		return nil
	}
	if !ensPatternRegex.MatchString(strings.ToLower(pattern)) {
		return fmt.Errorf("invalid domain pattern: %s", pattern)
	}
	return nil
}

// ValidateAmount checks a decimal token amount in base units.
func ValidateAmount(amount, fieldName string) error {
	if amount == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	for i := 0; i < len(amount); i++ {
		if amount[i] < '0' || amount[i] > '9' {
			return fmt.Errorf("%s must be a non-negative integer in base units", fieldName)
		}
	}
	return nil
}

// ValidatePositiveInt checks that a count is positive.
func ValidatePositiveInt(value int64, fieldName string) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	return nil
}
