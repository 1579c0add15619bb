package grib1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestMessage(nx, ny int, bitmap []bool) *Message {
	values := make([]float64, nx*ny)
	for i := range values {
		if bitmap == nil || bitmap[i] {
			values[i] = float64(i) * 0.1
		}
	}
	return &Message{
		Edition: 1,
		Product: &ProductDefinition{
			TableVersion: 2, Center: 7, Parameter: 11, LevelType: 1,
			Year: 2023, Month: 1, Day: 31, Hour: 18,
			ForecastUnit: 1,
		},
		Grid: &GridDefinition{
			Type: DataRepLatLon,
			NX:   nx, NY: ny,
			SLat: 90, SLon: 0, ELat: -90, ELon: 357.5,
			LoInc: 2.5, LaInc: 2.5,
		},
		NX: nx, NY: ny,
		Gridpoints: values,
		Bitmap:     bitmap,
		E:          0,
		D:          1,
	}
}

// TestGridpointCountMatchesNXNY asserts an encoded message's gridpoint count
// always equals NX*NY (or the bitmap's length, when one is present).
func TestGridpointCountMatchesNXNY(t *testing.T) {
	msg := newTestMessage(4, 3, nil)
	encoded, err := msg.Encode(12)
	require.NoError(t, err)

	decoded, n, err := Read(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	require.Equal(t, decoded.NX*decoded.NY, len(decoded.Gridpoints))
}

func TestSimplePackingRoundTripIdempotent(t *testing.T) {
	msg := newTestMessage(4, 3, nil)
	msg.E = 2
	msg.D = 1
	encoded, err := msg.Encode(12)
	require.NoError(t, err)

	first, _, err := Read(encoded)
	require.NoError(t, err)

	reencoded, err := first.Encode(12)
	require.NoError(t, err)

	second, _, err := Read(reencoded)
	require.NoError(t, err)

	step := pow2(first.E) * pow10neg(first.D)
	for i := range first.Gridpoints {
		require.InDelta(t, first.Gridpoints[i], second.Gridpoints[i], step+1e-9)
	}
}

func TestConstantFieldPackWidthZero(t *testing.T) {
	msg := newTestMessage(3, 3, nil)
	for i := range msg.Gridpoints {
		msg.Gridpoints[i] = 42.0
	}
	msg.D = 0
	encoded, err := msg.Encode(0)
	require.NoError(t, err)

	decoded, _, err := Read(encoded)
	require.NoError(t, err)
	for _, v := range decoded.Gridpoints {
		require.InDelta(t, 42.0, v, 1e-6)
	}
}

func TestEmptyBitmapAllMissing(t *testing.T) {
	bitmap := make([]bool, 6)
	msg := newTestMessage(3, 2, bitmap)
	encoded, err := msg.Encode(8)
	require.NoError(t, err)

	decoded, _, err := Read(encoded)
	require.NoError(t, err)
	for _, v := range decoded.Gridpoints {
		require.Equal(t, Missing, v)
	}
}

func TestSingleBitBitmap(t *testing.T) {
	bitmap := make([]bool, 6)
	bitmap[3] = true
	msg := newTestMessage(3, 2, bitmap)
	encoded, err := msg.Encode(8)
	require.NoError(t, err)

	decoded, _, err := Read(encoded)
	require.NoError(t, err)

	present := 0
	for i, v := range decoded.Gridpoints {
		if v != Missing {
			present++
			require.Equal(t, 3, i)
		}
	}
	require.Equal(t, 1, present)
}

func TestLambertGDSLengthIs42Octets(t *testing.T) {
	msg := newTestMessage(2, 2, nil)
	msg.Grid = &GridDefinition{
		Type: DataRepLambert,
		NX:   614, NY: 428,
		SLat: 12.190, SLon: 226.541,
		OLon: 265.0, XLen: 12191, YLen: 12191,
		StdLat1: 25.0, StdLat2: 25.0,
	}
	var body []byte
	body = msg.Grid.encode(body)
	gdsLength := int(parse3ByteUint(body[0], body[1], body[2]))
	require.Equal(t, 42, gdsLength)
	require.Equal(t, 42, len(body))
}

func TestUnsupportedComplexPackingFails(t *testing.T) {
	data := make([]byte, 11)
	data[3] = complexPackingFlag
	_, _, err := parseBinaryData(data, 1, nil, 0, 0)
	require.Error(t, err)
}

func pow2(e int16) float64 {
	v := 1.0
	if e >= 0 {
		for i := int16(0); i < e; i++ {
			v *= 2
		}
	} else {
		for i := int16(0); i < -e; i++ {
			v /= 2
		}
	}
	return v
}

func pow10neg(d int16) float64 {
	v := 1.0
	for i := int16(0); i < d; i++ {
		v /= 10
	}
	return v
}
