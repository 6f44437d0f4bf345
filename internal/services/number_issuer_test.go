package services

import (
	"testing"

	"bankledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberIssuer_CheckingPrefix(t *testing.T) {
	issuer := NewNumberIssuer()

	number, err := issuer.Generate(models.AccountTypeChecking)
	require.NoError(t, err)

	assert.Len(t, number, models.AccountNumberLength)
	assert.Equal(t, models.CheckingPrefix, number[:2])
	for _, c := range number {
		assert.True(t, c >= '0' && c <= '9', "account number must be all digits, got %q", number)
	}
}

func TestNumberIssuer_SavingsPrefix(t *testing.T) {
	issuer := NewNumberIssuer()

	number, err := issuer.Generate(models.AccountTypeSavings)
	require.NoError(t, err)

	assert.Len(t, number, models.AccountNumberLength)
	assert.Equal(t, models.SavingsPrefix, number[:2])
}

func TestNumberIssuer_InvalidType(t *testing.T) {
	issuer := NewNumberIssuer()

	number, err := issuer.Generate("money-market")
	assert.ErrorIs(t, err, models.ErrInvalidAccountType)
	assert.Empty(t, number)
}

func TestNumberIssuer_SuffixZeroPadded(t *testing.T) {
	issuer := NewNumberIssuer()

	// Every draw must produce a fixed-width number regardless of the
	// magnitude of the random suffix.
	for i := 0; i < 100; i++ {
		number, err := issuer.Generate(models.AccountTypeChecking)
		require.NoError(t, err)
		require.Len(t, number, models.AccountNumberLength)
	}
}
