package bitio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPackUnpackRoundTrip asserts unpack(pack(buf, v, o, n), o, n) == v &
// ((1<<n)-1) for all v, o, n <= 32, and that bits outside [o, o+n) are
// preserved.
func TestPackUnpackRoundTrip(t *testing.T) {
	offsets := []int{0, 1, 3, 7, 8, 9, 15, 16, 17, 31, 32, 63}
	widths := []int{0, 1, 2, 3, 7, 8, 9, 15, 16, 17, 24, 31, 32}
	values := []uint32{0, 1, 2, 0xFF, 0xABCD1234, 0xFFFFFFFF, 1 << 31}

	for _, o := range offsets {
		for _, n := range widths {
			for _, v := range values {
				bufBits := o + n + 64
				buf := make([]byte, (bufBits+7)/8)
				// Fill with a recognizable pattern to verify preservation.
				for i := range buf {
					buf[i] = 0xAA
				}
				before := append([]byte(nil), buf...)

				err := Pack(buf, v, o, n)
				require.NoError(t, err)

				got, err := Unpack(buf, o, n)
				require.NoError(t, err)

				var want uint32
				if n > 0 {
					if n < 32 {
						want = v & ((1 << uint(n)) - 1)
					} else {
						want = v
					}
				}
				require.Equalf(t, want, got, "offset=%d width=%d value=%#x", o, n, v)

				// Bits before the written field are untouched.
				for bit := 0; bit < o; bit++ {
					gotBit, _ := Unpack(buf, bit, 1)
					wantBit, _ := Unpack(before, bit, 1)
					require.Equal(t, wantBit, gotBit, "bit %d before field changed", bit)
				}
				// Bits after the written field are untouched.
				for bit := o + n; bit < bufBits; bit++ {
					gotBit, _ := Unpack(buf, bit, 1)
					wantBit, _ := Unpack(before, bit, 1)
					require.Equal(t, wantBit, gotBit, "bit %d after field changed", bit)
				}
			}
		}
	}
}

func TestUnpackZeroWidth(t *testing.T) {
	buf := []byte{0xFF}
	got, err := Unpack(buf, 3, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(0), got)
}

func TestPackZeroWidthNoOp(t *testing.T) {
	buf := []byte{0x5A}
	before := append([]byte(nil), buf...)
	require.NoError(t, Pack(buf, 0xFFFF, 2, 0))
	require.Equal(t, before, buf)
}

func TestUnpackSpansBytes(t *testing.T) {
	// 12-bit field starting at bit 4 spans two bytes.
	buf := []byte{0x00, 0x00}
	require.NoError(t, Pack(buf, 0xABC, 4, 12))
	got, err := Unpack(buf, 4, 12)
	require.NoError(t, err)
	require.Equal(t, uint32(0xABC), got)
}

func TestSignedSignMagnitudeRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 12345, -12345, 16383, -16383}
	for _, v := range cases {
		buf := make([]byte, 4)
		require.NoError(t, PackSigned(buf, v, 0, 16))
		got, err := UnpackSigned(buf, 0, 16)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestUnpackOutOfRange(t *testing.T) {
	buf := []byte{0x00}
	_, err := Unpack(buf, 0, 33)
	require.Error(t, err)
	_, err = Unpack(buf, 4, 8)
	require.Error(t, err)
}
