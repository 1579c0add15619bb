package gribconv

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nimbus-grib/gribconv/grib1"
)

func testGrib1Message(nx, ny int) *grib1.Message {
	values := make([]float64, nx*ny)
	for i := range values {
		values[i] = float64(i) * 0.1
	}
	return &grib1.Message{
		Edition: 1,
		Product: &grib1.ProductDefinition{
			TableVersion: 2, Center: 7, Parameter: 11, LevelType: 100,
			Level1: 500, GeneratingProcess: 96,
			Year: 2023, Month: 1, Day: 31, Hour: 18,
			ForecastUnit: 1, P1: 6,
		},
		Grid: &grib1.GridDefinition{
			Type: grib1.DataRepLatLon,
			NX:   nx, NY: ny,
			SLat: 90, SLon: 0, ELat: -90, ELon: 357.5,
			LoInc: 2.5, LaInc: 2.5,
		},
		NX: nx, NY: ny,
		Gridpoints: values,
		E:          0,
		D:          1,
		PackBits:   12,
	}
}

func TestConvertGRIB1ToGRIB2RoundTripsThroughGRIB2ToGRIB1(t *testing.T) {
	msg := testGrib1Message(4, 3)
	encoded, err := msg.Encode(msg.PackBits)
	require.NoError(t, err)

	s := NewSession()
	var grib2Buf bytes.Buffer
	count, _, err := s.ConvertGRIB1ToGRIB2(bytes.NewReader(encoded), &grib2Buf)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.True(t, bytes.HasPrefix(grib2Buf.Bytes(), []byte("GRIB")))

	var grib1Buf bytes.Buffer
	count, _, err = s.ConvertGRIB2ToGRIB1(bytes.NewReader(grib2Buf.Bytes()), &grib1Buf)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	roundTripped, n, err := grib1.Read(grib1Buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, grib1Buf.Len(), n)
	require.Equal(t, msg.Product.Center, roundTripped.Product.Center)
	require.Equal(t, msg.Product.Parameter, roundTripped.Product.Parameter)
	require.Equal(t, msg.NX*msg.NY, len(roundTripped.Gridpoints))
}

func TestConvertGRIB1ToGRIB2SkipsMalformedMessageAndContinues(t *testing.T) {
	good := testGrib1Message(2, 2)
	encodedGood, err := good.Encode(good.PackBits)
	require.NoError(t, err)

	garbage := make([]byte, 24)
	copy(garbage[0:4], "GRIB")
	garbage[4], garbage[5], garbage[6] = 0, 0, 16 // declared length too short for a valid PDS
	garbage[7] = 1                                // edition 1

	stream := append(append([]byte{}, garbage...), encodedGood...)

	s := NewSession()
	var out bytes.Buffer
	count, warnings, err := s.ConvertGRIB1ToGRIB2(bytes.NewReader(stream), &out)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.NotEmpty(t, warnings)
}

func TestConvertGRIB2ToGRIB1ConcurrentMatchesSequential(t *testing.T) {
	msg := testGrib1Message(3, 3)
	encoded, err := msg.Encode(msg.PackBits)
	require.NoError(t, err)

	s := NewSession()
	var grib2Buf bytes.Buffer
	_, _, err = s.ConvertGRIB1ToGRIB2(bytes.NewReader(encoded), &grib2Buf)
	require.NoError(t, err)

	var sequential bytes.Buffer
	seqCount, _, err := s.ConvertGRIB2ToGRIB1(bytes.NewReader(grib2Buf.Bytes()), &sequential)
	require.NoError(t, err)

	var concurrent bytes.Buffer
	concCount, _, err := ConvertGRIB2ToGRIB1Concurrent(context.Background(), bytes.NewReader(grib2Buf.Bytes()), &concurrent, 2)
	require.NoError(t, err)

	require.Equal(t, seqCount, concCount)
	require.Equal(t, sequential.Len(), concurrent.Len())
}
