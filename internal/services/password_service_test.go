package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	svc := NewPasswordService()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"meets full policy", "Ledger!Pass123", nil},
		{"spaces are allowed", "Ledger Pass 123!", nil},
		{"exactly the minimum length", "Aa1!Aa1!Aa1!", nil},
		{"empty", "", ErrPasswordEmpty},
		{"below minimum length", "Aa1!short", ErrPasswordTooShort},
		{"beyond bcrypt limit", strings.Repeat("Aa1!", 19), ErrPasswordTooLong},
		{"no uppercase", "ledger!pass123", ErrPasswordNoUppercase},
		{"no lowercase", "LEDGER!PASS123", ErrPasswordNoLowercase},
		{"no digit", "Ledger!PassWord", ErrPasswordNoNumber},
		{"no special character", "LedgerPass1234", ErrPasswordNoSpecial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidatePassword(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHashPassword(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.HashPassword("Ledger!Pass123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Ledger!Pass123", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$"),
		"expected a bcrypt hash, got %q", hash)
}

func TestHashPassword_RejectsPolicyViolations(t *testing.T) {
	svc := NewPasswordService()

	for _, password := range []string{"", "short", "nouppercase123!"} {
		hash, err := svc.HashPassword(password)
		assert.Error(t, err, "password %q must not hash", password)
		assert.Empty(t, hash)
	}
}

func TestHashPassword_NearBcryptLimit(t *testing.T) {
	svc := NewPasswordService()
	password := strings.Repeat("Aa1!", 17) // 68 bytes

	hash, err := svc.HashPassword(password)
	require.NoError(t, err)
	assert.True(t, svc.ComparePassword(password, hash))
}

func TestComparePassword(t *testing.T) {
	svc := NewPasswordService()
	hash, err := svc.HashPassword("Ledger!Pass123")
	require.NoError(t, err)

	assert.True(t, svc.ComparePassword("Ledger!Pass123", hash))
	assert.False(t, svc.ComparePassword("Wrong!Pass1234", hash))
	assert.False(t, svc.ComparePassword("ledger!pass123", hash), "comparison is case sensitive")
	assert.False(t, svc.ComparePassword("", hash))
	assert.False(t, svc.ComparePassword("Ledger!Pass123", "not-a-bcrypt-hash"))
	assert.False(t, svc.ComparePassword("Ledger!Pass123", ""))
}

func TestHashPassword_SaltedPerHash(t *testing.T) {
	svc := NewPasswordService()
	password := "Ledger!Pass123"

	hash1, err := svc.HashPassword(password)
	require.NoError(t, err)
	hash2, err := svc.HashPassword(password)
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2, "each hash carries its own salt")
	assert.True(t, svc.ComparePassword(password, hash1))
	assert.True(t, svc.ComparePassword(password, hash2))
}
