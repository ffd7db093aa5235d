// Package validation checks identifiers against the ISO9660 character sets.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bgrewell/disc-kit/pkg/consts"
)

var ErrInvalidCharacter = errors.New("invalid character")

// validateByAllowedChars checks that every character in s is contained in the allowed set. The setName is used
// in error messages.
func validateByAllowedChars(s, allowed, setName string) error {
	for i, r := range s {
		if !strings.ContainsRune(allowed, r) {
			return fmt.Errorf("%w: %s-character %q at index %d", ErrInvalidCharacter, setName, r, i)
		}
	}
	return nil
}

// ValidateDCharacters checks that every character in the input string is one of the allowed D_CHARACTERS.
// If allowSeparators is true, it also permits the ISO9660 separator characters.
func ValidateDCharacters(s string, allowSeparators bool) error {
	allowedChars := consts.D_CHARACTERS
	if allowSeparators {
		allowedChars += consts.ISO9660_SEPARATOR_1 + consts.ISO9660_SEPARATOR_2
	}
	return validateByAllowedChars(s, allowedChars, "D")
}
