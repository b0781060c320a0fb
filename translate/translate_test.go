package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golang.org/x/text/language"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLanguage(language.AmericanEnglish)

	assert.Equal("halted", From("halted"))
	assert.Equal("line 3 (address 00000101) oops", From("line %d (address %v) %v", 3, "00000101", "oops"))
}
