package services

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

const (
	// BCryptCost of 12 keeps hashing around the 250ms mark on current
	// hardware.
	BCryptCost = 12

	MinPasswordLength = 12
	MaxPasswordLength = 72 // bcrypt truncates beyond 72 bytes
)

var (
	ErrPasswordEmpty       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong     = fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	ErrPasswordNoUppercase = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoLowercase = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoNumber    = errors.New("password must contain at least one number")
	ErrPasswordNoSpecial   = errors.New("password must contain at least one special character")
)

// characterRules pairs each required character class with its violation error.
var characterRules = []struct {
	pattern *regexp.Regexp
	err     error
}{
	{regexp.MustCompile(`[A-Z]`), ErrPasswordNoUppercase},
	{regexp.MustCompile(`[a-z]`), ErrPasswordNoLowercase},
	{regexp.MustCompile(`[0-9]`), ErrPasswordNoNumber},
	{regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{}|;:,.<>?]`), ErrPasswordNoSpecial},
}

// PasswordService hashes credentials and enforces the password policy.
type PasswordService struct {
	cost int
}

func NewPasswordService() PasswordServiceInterface {
	return &PasswordService{
		cost: BCryptCost,
	}
}

// ValidatePassword returns the first policy violation, nil if the password
// passes.
func (ps *PasswordService) ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrPasswordEmpty
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}

	for _, rule := range characterRules {
		if !rule.pattern.MatchString(password) {
			return rule.err
		}
	}

	return nil
}

// HashPassword validates the password against the policy and bcrypt-hashes it.
func (ps *PasswordService) HashPassword(password string) (string, error) {
	if err := ps.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("password validation failed: %w", err)
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), ps.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// ComparePassword reports whether the plain password matches the stored hash.
func (ps *PasswordService) ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
