package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// loadJWTKeys establishes the RSA keypair used to sign and verify access
// tokens. JWT_PRIVATE_KEY and JWT_PUBLIC_KEY, when both set, carry
// base64-encoded PEM and win in every environment. Production refuses to run
// without them; development and testing fall back to an ephemeral keypair,
// which invalidates all outstanding tokens on restart.
func loadJWTKeys(production bool) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privatePEM := os.Getenv("JWT_PRIVATE_KEY")
	publicPEM := os.Getenv("JWT_PUBLIC_KEY")

	if privatePEM != "" && publicPEM != "" {
		slog.Info("Loading RSA keypair from environment variables")
		return decodeKeyPair(privatePEM, publicPEM)
	}

	if production {
		return nil, nil, errors.New("JWT_PRIVATE_KEY and JWT_PUBLIC_KEY environment variables must be set in production environments")
	}

	slog.Info("Generating ephemeral RSA keypair for JWT; set JWT_PRIVATE_KEY and JWT_PUBLIC_KEY to persist keys across restarts")
	return GenerateRSAKeyPair()
}

// GenerateRSAKeyPair creates a fresh 2048-bit RSA keypair.
func GenerateRSAKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}
	return privateKey, &privateKey.PublicKey, nil
}

func decodeKeyPair(privateB64, publicB64 string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privatePEM, err := base64.StdEncoding.DecodeString(privateB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PRIVATE_KEY: %w", err)
	}
	publicPEM, err := base64.StdEncoding.DecodeString(publicB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PUBLIC_KEY: %w", err)
	}

	privateKey, err := parseRSAPrivateKey(privatePEM)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	publicKey, err := parseRSAPublicKey(publicPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return privateKey, publicKey, nil
}

// parseRSAPrivateKey accepts PKCS1 or PKCS8 PEM; openssl and ssh-keygen
// disagree on which one they emit.
func parseRSAPrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	if privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return privateKey, nil
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	privateKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}
	return privateKey, nil
}

func parseRSAPublicKey(pemData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	publicKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}
	return publicKey, nil
}
