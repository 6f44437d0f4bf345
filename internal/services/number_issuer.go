package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"bankledger/internal/models"
)

type numberIssuer struct{}

// NewNumberIssuer creates an account number issuer backed by crypto/rand.
func NewNumberIssuer() NumberIssuerInterface {
	return &numberIssuer{}
}

var suffixSpace = big.NewInt(100000000) // 8 digits

// Generate returns a 10-digit account number: a 2-digit type prefix followed
// by 8 random digits, zero-padded.
func (g *numberIssuer) Generate(accountType string) (string, error) {
	prefix := models.AccountNumberPrefix(accountType)
	if prefix == "" {
		return "", models.ErrInvalidAccountType
	}

	n, err := rand.Int(rand.Reader, suffixSpace)
	if err != nil {
		return "", fmt.Errorf("failed to draw account number suffix: %w", err)
	}

	return fmt.Sprintf("%s%08d", prefix, n.Int64()), nil
}
