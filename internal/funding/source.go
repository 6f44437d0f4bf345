package funding

import (
	"errors"
	"fmt"
)

const (
	SourceTypeCard = "card"
	SourceTypeBank = "bank"
)

var (
	ErrMalformedInstrument = errors.New("malformed funding instrument")
	ErrInvalidInstrument   = errors.New("invalid funding instrument")
)

// Source is the instrument presented with a funding request. Exactly two
// variants exist; each carries only the fields its type needs, so a routing
// number is never an always-present-but-sometimes-ignored field.
type Source interface {
	// SourceType returns the discriminator ("card" or "bank").
	SourceType() string
	// Validate checks the instrument's structural validity.
	Validate() error
	// MaskedNumber returns a display-safe form of the instrument number.
	MaskedNumber() string
}

// CardSource is a card-type funding instrument.
type CardSource struct {
	AccountNumber string
}

func (CardSource) SourceType() string { return SourceTypeCard }

// Validate runs the shape check and Luhn checksum on the card number.
func (s CardSource) Validate() error {
	if err := checkCardShape(s.AccountNumber); err != nil {
		return err
	}
	if !luhnValid(s.AccountNumber) {
		return fmt.Errorf("%w: card number failed checksum", ErrInvalidInstrument)
	}
	return nil
}

func (s CardSource) MaskedNumber() string { return maskNumber(s.AccountNumber) }

// BankSource is a bank-account funding instrument.
type BankSource struct {
	AccountNumber string
	RoutingNumber string
}

func (BankSource) SourceType() string { return SourceTypeBank }

// Validate requires a non-empty routing number for bank instruments.
func (s BankSource) Validate() error {
	if s.AccountNumber == "" {
		return fmt.Errorf("%w: bank account number is required", ErrMalformedInstrument)
	}
	if s.RoutingNumber == "" {
		return fmt.Errorf("%w: routing number is required for bank sources", ErrInvalidInstrument)
	}
	return nil
}

func (s BankSource) MaskedNumber() string { return maskNumber(s.AccountNumber) }

// New builds a Source from its wire representation. The type discriminator
// decides which fields are load-bearing; a routing number supplied with a
// card source is ignored, not rejected.
func New(sourceType, accountNumber, routingNumber string) (Source, error) {
	switch sourceType {
	case SourceTypeCard:
		return CardSource{AccountNumber: accountNumber}, nil
	case SourceTypeBank:
		return BankSource{AccountNumber: accountNumber, RoutingNumber: routingNumber}, nil
	default:
		return nil, fmt.Errorf("%w: unknown funding source type %q", ErrMalformedInstrument, sourceType)
	}
}

func maskNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return "••••" + number[len(number)-4:]
}
