package funding

import "fmt"

const (
	minCardNumberLength = 13
	maxCardNumberLength = 19
)

// checkCardShape rejects input the checksum should never see: empty strings,
// non-digit characters, and lengths outside common card number ranges.
func checkCardShape(number string) error {
	if number == "" {
		return fmt.Errorf("%w: card number is empty", ErrMalformedInstrument)
	}

	if len(number) < minCardNumberLength || len(number) > maxCardNumberLength {
		return fmt.Errorf("%w: card number must be %d-%d digits", ErrMalformedInstrument, minCardNumberLength, maxCardNumberLength)
	}

	for _, char := range number {
		if char < '0' || char > '9' {
			return fmt.Errorf("%w: card number contains non-digit characters", ErrMalformedInstrument)
		}
	}

	return nil
}

// luhnValid implements the mod-10 checksum: starting from the rightmost
// digit, double every second digit moving leftward, subtract 9 from doubled
// digits above 9, and sum. The number is valid iff the sum is divisible by
// 10. Length-agnostic; shape validation happens before this runs.
func luhnValid(number string) bool {
	sum := 0
	double := false

	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}

	return sum%10 == 0
}
