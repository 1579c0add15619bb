package ibmfloat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToIEEEZero(t *testing.T) {
	require.Equal(t, 0.0, ToIEEE(0))
	require.Equal(t, 0.0, ToIEEE(1<<31)) // negative zero, fraction still 0
}

func TestToIEEEKnownValues(t *testing.T) {
	// 1.0 in IBM float: sign=0, exponent=65 (16^1 covers it), fraction = 0x100000
	// value = 0x100000 * 16^(65-64) * 2^-24 = 1048576 * 16 / 16777216 = 1.0
	word := uint32(0x41100000)
	require.InDelta(t, 1.0, ToIEEE(word), 1e-9)
}

// TestRoundTripNormalizedWords asserts ieee_to_ibm(ibm_to_ieee(w)) == w for
// every normalized, finite, nonzero IBM hex-float word.
func TestRoundTripNormalizedWords(t *testing.T) {
	for exponent := 1; exponent <= 126; exponent++ {
		for _, fraction := range []uint32{1 << 20, 1<<20 + 1, 1<<24 - 1, 0xABCDE | (1 << 20)} {
			word := (uint32(exponent) << 24) | (fraction & 0x00FFFFFF)
			if word&0x00FFFFFF < (1 << 20) {
				continue // not normalized (leading hex digit would be zero)
			}
			value := ToIEEE(word)
			got, err := FromIEEE(value)
			require.NoError(t, err)
			require.Equalf(t, word, got, "exponent=%d fraction=%#x value=%v", exponent, fraction, value)
		}
	}
}

func TestRoundTripNegative(t *testing.T) {
	word := uint32(0xC1100000) // -1.0
	value := ToIEEE(word)
	require.InDelta(t, -1.0, value, 1e-9)
	got, err := FromIEEE(value)
	require.NoError(t, err)
	require.Equal(t, word, got)
}

func TestFromIEEEZero(t *testing.T) {
	word, err := FromIEEE(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0), word)
}
