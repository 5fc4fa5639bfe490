package login

import (
	"errors"
	"unicode"
)

const minPasswordLength = 12

// ValidatePasswordPolicy checks new account passwords: at least 12
// characters with an upper, a lower, a digit and a symbol.
func ValidatePasswordPolicy(password string) error {
	if len(password) < minPasswordLength {
		return errors.New("password must be at least 12 characters")
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	switch {
	case !upper:
		return errors.New("password must include an uppercase letter")
	case !lower:
		return errors.New("password must include a lowercase letter")
	case !digit:
		return errors.New("password must include a digit")
	case !symbol:
		return errors.New("password must include a symbol")
	}
	return nil
}
