package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "Paracetamol 500 mg", Normalize("Paracetamol   500\t mg"))
	assert.Equal(t, "a b", Normalize("  a    b  "))
}

func TestNormalizePreservesNewlines(t *testing.T) {
	got := Normalize("Patient: John\nDr. Smith")
	assert.Equal(t, "Patient: John\nDr. Smith", got)
}

func TestNormalizeDropsCarriageReturns(t *testing.T) {
	assert.Equal(t, "line one\nline two", Normalize("line one\r\nline two"))
}

func TestNormalizeDropsControlCharacters(t *testing.T) {
	assert.Equal(t, "abc def", Normalize("abc\x00 \x07def"))
}

func TestNormalizeNFC(t *testing.T) {
	// e + combining acute accent composes to a single rune.
	assert.Equal(t, "café", Normalize("café"))
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, "one two three", Flatten("one\ntwo\n  three"))
	assert.Equal(t, "", Flatten("   \n\t "))
}
