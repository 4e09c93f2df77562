package abbrev

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	assert.Equal(t, "Take 1 tablet QD (once daily)", Expand("Take 1 tablet QD"))
	assert.Equal(t, "BID (twice daily) with food", Expand("BID with food"))
	assert.Equal(t,
		"1 tab PO (by mouth) TID (three times daily) PRN (as needed)",
		Expand("1 tab PO TID PRN"))
}

func TestExpandLowercaseShorthand(t *testing.T) {
	assert.Equal(t,
		"Take 1 tab po (by mouth) bid (twice daily)",
		Expand("Take 1 tab po bid"))
	assert.Equal(t, "apply tid (three times daily)", Expand("apply tid"))
}

func TestExpandWholeWordOnly(t *testing.T) {
	// Abbreviations embedded in longer tokens are not touched.
	assert.Equal(t, "RAPID onset", Expand("RAPID onset"))
	assert.Equal(t, "LIPID panel", Expand("LIPID panel"))
	assert.Equal(t, "SCAN results", Expand("SCAN results"))
}

func TestExpandIdempotent(t *testing.T) {
	inputs := []string{
		"Take 1 tablet QD",
		"BID with food",
		"Apply to OU HS",
		"1 tab po tid prn",
		"no abbreviations here",
	}
	for _, in := range inputs {
		once := Expand(in)
		assert.Equal(t, once, Expand(once), "input %q", in)
	}
}

func TestExpandMultipleOccurrences(t *testing.T) {
	got := Expand("QD in the morning, QD at night")
	assert.Equal(t, "QD (once daily) in the morning, QD (once daily) at night", got)
}

func TestExpandEmpty(t *testing.T) {
	assert.Equal(t, "", Expand(""))
}
