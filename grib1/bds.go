package grib1

import (
	"math"

	"github.com/nimbus-grib/gribconv/bitio"
	"github.com/nimbus-grib/gribconv/codecerr"
	"github.com/nimbus-grib/gribconv/ibmfloat"
)

// ncepLeadingWordGridTypes is the set of NCEP grid-catalogue codes (PDS
// octet 7) whose Binary Data Section packs one extra leading word before
// the real data stream begins.
var ncepLeadingWordGridTypes = map[uint8]bool{
	23: true, 24: true, 26: true, 63: true, 64: true,
}

const complexPackingFlag = 0x40 // bit in the high nibble of BDS octet 4

type binaryData struct {
	e         int16
	d         int16 // carried through from the PDS, not re-read here
	packWidth int
	values    []float64
}

func parseBinaryData(data []byte, nPoints int, bitmap []bool, gridCatalogID uint8, decimalScale int16) (*binaryData, int, error) {
	if len(data) < 11 {
		return nil, 0, &codecerr.InvariantViolation{Reason: "BDS must be at least 11 bytes"}
	}
	length := int(parse3ByteUint(data[0], data[1], data[2]))
	if length > len(data) {
		return nil, 0, &codecerr.InvariantViolation{Reason: "BDS declares more bytes than available"}
	}

	flag := data[3] >> 4
	unusedBits := int(data[3] & 0x0F)
	if flag&(complexPackingFlag>>4) != 0 {
		return nil, 0, &codecerr.UnsupportedPacking{Detail: "GRIB1 complex/second-order packing is not supported"}
	}

	e, err := bitio.UnpackSigned(data[4:6], 0, 16)
	if err != nil {
		return nil, 0, err
	}
	r := ibmfloat.ToIEEE(beUint32(data[6:10]))
	packWidth := int(data[10])

	scale := math.Pow(10, -float64(decimalScale))
	binScale := math.Pow(2, float64(e))

	out := make([]float64, nPoints)

	if packWidth == 0 {
		// Constant field: every unmasked point takes the reference value
		// itself, with no further quantization step to apply.
		for i := range out {
			if bitmap == nil || bitmap[i] {
				out[i] = r
			} else {
				out[i] = Missing
			}
		}
		return &binaryData{e: int16(e), d: decimalScale, packWidth: packWidth, values: out}, length, nil
	}

	payload := data[11:length]
	bitOffset := 0
	if ncepLeadingWordGridTypes[gridCatalogID] {
		bitOffset += packWidth
	}

	for i := range out {
		if bitmap != nil && !bitmap[i] {
			out[i] = Missing
			continue
		}
		raw, err := bitio.Unpack(payload, bitOffset, packWidth)
		if err != nil {
			return nil, 0, &codecerr.InvariantViolation{Reason: "BDS packed stream shorter than bitmap requires"}
		}
		bitOffset += packWidth
		out[i] = (r + float64(raw)*binScale) * scale
	}
	_ = unusedBits

	return &binaryData{e: int16(e), d: decimalScale, packWidth: packWidth, values: out}, length, nil
}

// encodeBinaryData packs gridpoints (masked entries already excluded by the
// caller via present) into a GRIB1 BDS using simple packing only.
func encodeBinaryData(buf []byte, values []float64, present []bool, e int16, d int16, packWidth int) ([]byte, error) {
	scale := math.Pow(10, float64(d))
	binScale := math.Pow(2, -float64(e))

	var toPack []float64
	for i, v := range values {
		if present == nil || present[i] {
			toPack = append(toPack, v)
		}
	}

	var r float64
	if len(toPack) > 0 {
		r = toPack[0]
		for _, v := range toPack[1:] {
			if v < r {
				r = v
			}
		}
	}

	payloadBits := len(toPack) * packWidth
	payloadBytes := (payloadBits + 7) / 8
	length := 11 + payloadBytes
	unusedBits := payloadBytes*8 - payloadBits

	start := len(buf)
	buf = append(buf, make([]byte, length)...)
	sec := buf[start:]

	put3ByteUint(sec[0:3], uint32(length))
	sec[3] = byte(unusedBits & 0x0F)
	if err := bitio.PackSigned(sec[4:6], int32(e), 0, 16); err != nil {
		return nil, err
	}
	// A constant field (packWidth == 0) stores the literal output value as
	// R with no further quantization; only the general case scales R into
	// the same domain as the packed integers.
	wireR := r * scale
	if packWidth == 0 {
		wireR = r
	}
	rWord, err := ibmfloat.FromIEEE(wireR)
	if err != nil {
		return nil, err
	}
	putBeUint32(sec[6:10], rWord)
	sec[10] = byte(packWidth)

	bitOffset := 0
	for _, v := range toPack {
		raw := uint32(math.Round((v*scale - r*scale) * binScale))
		if err := bitio.Pack(sec[11:], raw, bitOffset, packWidth); err != nil {
			return nil, err
		}
		bitOffset += packWidth
	}

	return buf, nil
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func putBeUint32(dst []byte, v uint32) {
	dst[0] = byte(v >> 24)
	dst[1] = byte(v >> 16)
	dst[2] = byte(v >> 8)
	dst[3] = byte(v)
}
