package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDCharacters(t *testing.T) {
	assert.NoError(t, ValidateDCharacters("SLUS_000", false))
	assert.NoError(t, ValidateDCharacters("SYSTEM.CNF;1", true))
	assert.ErrorIs(t, ValidateDCharacters("SYSTEM.CNF", false), ErrInvalidCharacter)
	assert.ErrorIs(t, ValidateDCharacters("readme.txt", true), ErrInvalidCharacter)
}
