// Package verifiers holds one category verifier per provider family. Each
// owns its provider client and reports provider failures as failed
// evidence instead of propagating errors up the stack.
package verifiers

import (
	"math/big"

	"community-forum-backend/internal/features/gating/models"
)

func failed(req models.Requirement, reason string) models.VerificationResult {
	return models.VerificationResult{
		Kind:     req.Kind,
		Required: req.Required(),
		Error:    reason,
	}
}

func unsupportedKind(req models.Requirement, categoryType string) models.VerificationResult {
	return failed(req, "requirement kind "+string(req.Kind)+" is not supported by category "+categoryType)
}

func compared(req models.Requirement, current string, met bool) models.VerificationResult {
	return models.VerificationResult{
		Kind:     req.Kind,
		IsMet:    met,
		Current:  current,
		Required: req.Required(),
	}
}

// minAmount parses the requirement's decimal threshold.
func minAmount(req models.Requirement) (*big.Int, bool) {
	n, ok := new(big.Int).SetString(req.MinAmount, 10)
	return n, ok
}
