package utils

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizePhone converts a phone number to E.164 form. Bare ten-digit
// numbers are assumed to be US/Canada and get a +1 prefix. An empty input
// is allowed; users without a phone simply receive no notifications.
func NormalizePhone(phone string) (string, error) {
	if phone == "" {
		return "", nil
	}

	var digits strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		} else if r != '+' && r != '-' && r != ' ' && r != '(' && r != ')' && r != '.' {
			return "", fmt.Errorf("invalid character %q in phone number", r)
		}
	}

	d := digits.String()
	switch {
	case len(d) == 10:
		return "+1" + d, nil
	case len(d) == 11 && d[0] == '1':
		return "+" + d, nil
	case len(d) >= 11 && len(d) <= 15 && strings.HasPrefix(phone, "+"):
		return "+" + d, nil
	default:
		return "", fmt.Errorf("invalid phone number: %s", phone)
	}
}
