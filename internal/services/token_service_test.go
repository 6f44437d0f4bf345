package services

import (
	"testing"
	"time"

	"bankledger/internal/config"
	"bankledger/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "bankledger-test"

func newTestTokenService(t *testing.T, issuer string, duration time.Duration) TokenServiceInterface {
	t.Helper()
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	require.NoError(t, err)

	return NewTokenService(&config.JWTConfig{
		PrivateKey:          privateKey,
		PublicKey:           publicKey,
		Issuer:              issuer,
		AccessTokenDuration: duration,
	})
}

func tokenTestUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Email: "carol@bankledger.dev",
		Role:  models.RoleCustomer,
	}
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t, testIssuer, time.Hour)
	user := tokenTestUser()

	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, expiresAt.Before(time.Now().Add(2*time.Hour)))

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleCustomer, claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestGenerateAccessToken_NilUser(t *testing.T) {
	svc := newTestTokenService(t, testIssuer, time.Hour)

	token, _, err := svc.GenerateAccessToken(nil)

	assert.Error(t, err)
	assert.Empty(t, token)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc := newTestTokenService(t, testIssuer, time.Hour)

	tests := []struct {
		name    string
		token   string
		wantErr string
	}{
		{"empty string", "", "empty token"},
		{"not a jwt", "invalid.token.format", "invalid token"},
		{"forged signature", "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature", "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateAccessToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateAccessToken_Expired(t *testing.T) {
	svc := newTestTokenService(t, testIssuer, time.Millisecond)

	token, _, err := svc.GenerateAccessToken(tokenTestUser())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	claims, err := svc.ValidateAccessToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestValidateAccessToken_ForeignIssuer(t *testing.T) {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	require.NoError(t, err)

	// Same key pair, different configured issuers
	issuing := NewTokenService(&config.JWTConfig{
		PrivateKey: privateKey, PublicKey: publicKey,
		Issuer: "some-other-service", AccessTokenDuration: time.Hour,
	})
	verifying := NewTokenService(&config.JWTConfig{
		PrivateKey: privateKey, PublicKey: publicKey,
		Issuer: testIssuer, AccessTokenDuration: time.Hour,
	})

	token, _, err := issuing.GenerateAccessToken(tokenTestUser())
	require.NoError(t, err)

	claims, err := verifying.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidIssuer)
	assert.Nil(t, claims)
}

func TestValidateAccessToken_WrongKeyPair(t *testing.T) {
	issuing := newTestTokenService(t, testIssuer, time.Hour)
	verifying := newTestTokenService(t, testIssuer, time.Hour)

	token, _, err := issuing.GenerateAccessToken(tokenTestUser())
	require.NoError(t, err)

	claims, err := verifying.ValidateAccessToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
	assert.Nil(t, claims)
}

func TestExtractTokenFromHeader(t *testing.T) {
	svc := newTestTokenService(t, testIssuer, time.Hour)

	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"standard bearer", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi", true},
		{"missing scheme", "abc.def.ghi", "", false},
		{"empty header", "", "", false},
		{"scheme without token", "Bearer", "", false},
		{"scheme with only whitespace", "Bearer   ", "", false},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.ExtractTokenFromHeader(tt.header)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.want, token)
			} else {
				assert.ErrorIs(t, err, ErrInvalidAuthHeader)
				assert.Empty(t, token)
			}
		})
	}
}

func BenchmarkTokenService_GenerateAccessToken(b *testing.B) {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	if err != nil {
		b.Fatal(err)
	}

	svc := NewTokenService(&config.JWTConfig{
		PrivateKey: privateKey, PublicKey: publicKey,
		Issuer: testIssuer, AccessTokenDuration: time.Hour,
	})
	user := tokenTestUser()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := svc.GenerateAccessToken(user); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTokenService_ValidateAccessToken(b *testing.B) {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	if err != nil {
		b.Fatal(err)
	}

	svc := NewTokenService(&config.JWTConfig{
		PrivateKey: privateKey, PublicKey: publicKey,
		Issuer: testIssuer, AccessTokenDuration: time.Hour,
	})

	token, _, err := svc.GenerateAccessToken(tokenTestUser())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.ValidateAccessToken(token); err != nil {
			b.Fatal(err)
		}
	}
}
