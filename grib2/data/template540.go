package data

import (
	"fmt"
	"math"

	"github.com/nimbus-grib/gribconv/internal"
	"github.com/nimbus-grib/gribconv/jpeg2000"
)

// Template540 represents Data Representation Templates 5.40 and 5.40000:
// JPEG 2000 code stream packing.
//
// Both templates share the Template 5.0 leading fields (R, E, D,
// pack_width, original field type) and differ only in how the payload
// in Section 7 is interpreted: instead of a flat bitstream of
// pack_width-bit integers, it is a JPEG 2000 code stream that decodes
// to one grayscale sample per grid point.
type Template540 struct {
	ReferenceValue     float32
	BinaryScaleFactor  int16
	DecimalScaleFactor int16
	NumBitsPerValue    uint8
	OriginalFieldType  uint8
	NumberOfDataValues uint32
	TemplateNum        int // 40 or 40000

	// Decoder performs the actual JPEG 2000 decode; defaults to
	// jpeg2000.NullDecoder, which always errors. Width and Height are
	// the expected image dimensions and must be set from the grid
	// definition (Section 3) before Decode is called.
	Decoder       jpeg2000.Decoder
	Width, Height int
}

// ParseTemplate540 parses Data Representation Templates 5.40/5.40000.
// templateNum distinguishes the two (40 vs 40000); their wire layout
// is identical.
func ParseTemplate540(templateNum int, numDataValues uint32, data []byte) (*Template540, error) {
	if len(data) < 10 {
		return nil, fmt.Errorf("template 5.%d requires at least 10 bytes, got %d", templateNum, len(data))
	}

	r := internal.NewReader(data)
	referenceValue, _ := r.Float32()
	binaryScaleFactor, _ := r.Int16()
	decimalScaleFactor, _ := r.Int16()
	bitsPerValue, _ := r.Uint8()
	originalFieldType, _ := r.Uint8()

	return &Template540{
		ReferenceValue:     referenceValue,
		BinaryScaleFactor:  binaryScaleFactor,
		DecimalScaleFactor: decimalScaleFactor,
		NumBitsPerValue:    bitsPerValue,
		OriginalFieldType:  originalFieldType,
		NumberOfDataValues: numDataValues,
		TemplateNum:        templateNum,
		Decoder:            jpeg2000.NullDecoder{},
	}, nil
}

// TemplateNumber returns 40 or 40000, whichever this template was parsed as.
func (t *Template540) TemplateNumber() int { return t.TemplateNum }

// NumDataValues returns the number of data values.
func (t *Template540) NumDataValues() uint32 { return t.NumberOfDataValues }

// BitsPerValue returns the number of bits per value before JPEG 2000 packing.
func (t *Template540) BitsPerValue() uint8 { return t.NumBitsPerValue }

// SetDecoder records the grid's expected image dimensions and the
// decoder to use for the JPEG 2000 code stream. Callers must invoke
// this (typically once Section 3's grid is known) before Decode.
func (t *Template540) SetDecoder(width, height int, dec jpeg2000.Decoder) {
	t.Width, t.Height = width, height
	if dec != nil {
		t.Decoder = dec
	}
}

// Decode unpacks the JPEG 2000 payload and applies simple-packing scaling
// to the resulting grayscale samples.
//
// A zero pack width is a constant field: every unmasked point is the
// reference value and the external decoder is never invoked, since
// Section 7 carries a zero-length payload in that case.
func (t *Template540) Decode(packedData []byte, bitmap []bool) ([]float64, error) {
	count := t.NumberOfDataValues
	if bitmap != nil {
		count = uint32(len(bitmap))
	}

	if t.NumBitsPerValue == 0 {
		values := make([]float64, count)
		ref := t.applyScaling(0)
		for i := range values {
			if bitmap == nil || bitmap[i] {
				values[i] = ref
			} else {
				values[i] = 9.999e20
			}
		}
		return values, nil
	}

	samples, err := t.Decoder.Decode(packedData, t.Width, t.Height)
	if err != nil {
		return nil, fmt.Errorf("jpeg2000 decode failed: %w", err)
	}

	values := make([]float64, count)
	idx := 0
	for i := range values {
		if bitmap != nil && !bitmap[i] {
			values[i] = 9.999e20
			continue
		}
		if idx >= len(samples) {
			return nil, fmt.Errorf("jpeg2000 decoder returned %d samples, need at least %d", len(samples), idx+1)
		}
		values[i] = t.applyScaling(samples[idx])
		idx++
	}
	return values, nil
}

func (t *Template540) applyScaling(packedValue uint32) float64 {
	value := float64(t.ReferenceValue)
	if packedValue != 0 {
		value += float64(packedValue) * math.Pow(2.0, float64(t.BinaryScaleFactor))
	}
	if t.DecimalScaleFactor != 0 {
		value /= math.Pow(10.0, float64(t.DecimalScaleFactor))
	}
	return value
}

// String returns a human-readable description.
func (t *Template540) String() string {
	return fmt.Sprintf("Template 5.%d: JPEG 2000, %d values, R=%g, E=%d, D=%d",
		t.TemplateNum, t.NumberOfDataValues, t.ReferenceValue, t.BinaryScaleFactor, t.DecimalScaleFactor)
}
