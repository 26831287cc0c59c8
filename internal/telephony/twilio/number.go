package twilio

import "strings"

const defaultCountryCode = "+91"

// digitsOnly strips every formatting character from a dialed number.
func digitsOnly(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeNumber converts a dialed number to international format.
// Already-formatted numbers pass through unchanged; bare 10-digit numbers in
// the mobile range are assumed domestic; an 11-digit number with a leading
// trunk zero has the zero replaced by the country code; a 12-digit number
// already starting with the country code just gains the plus. Anything else
// falls back to the default country code.
func NormalizeNumber(number string) string {
	trimmed := strings.TrimSpace(number)
	if strings.HasPrefix(trimmed, "+") {
		return trimmed
	}

	digits := digitsOnly(trimmed)
	switch {
	case len(digits) == 10 && digits[0] >= '6' && digits[0] <= '9':
		return defaultCountryCode + digits
	case len(digits) == 11 && digits[0] == '0':
		return defaultCountryCode + digits[1:]
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		return "+" + digits
	default:
		return defaultCountryCode + digits
	}
}
