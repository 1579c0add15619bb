// Package grib1 decodes and encodes WMO GRIB edition 1 messages: the
// Indicator Section, Product Definition Section, optional Grid Definition
// and Bit-Map Sections, and the Binary Data Section.
//
// Section layouts follow WMO FM-92 GRIB edition 1. The traversal style
// (one parseBytes-equivalent method per section, each returning the number
// of bytes consumed) mirrors the grib2 section parsers in this module.
package grib1

import (
	"fmt"

	"github.com/nimbus-grib/gribconv/codecerr"
)

// Missing is the sentinel value a gridpoint takes when it falls outside the
// message's bitmap (or when no bitmap is present and the point is otherwise
// unrepresentable). It is the GRIB_MISSING constant from the shared
// decoding model, duplicated here (rather than imported) because grib1 and
// grib2 are independent leaf packages with no common dependency below them.
const Missing = 1e30

// Message is a fully decoded GRIB1 message: one product on one grid.
type Message struct {
	Edition int

	Product *ProductDefinition
	Grid    *GridDefinition // nil if the GDS was omitted
	Bitmap  []bool          // nil if the BMS was omitted; else len == NX*NY

	NX, NY     int
	Gridpoints []float64

	// E, D are the binary and decimal scale factors used to pack
	// Gridpoints; preserved so a decoded message can be re-encoded losslessly.
	E int16
	D int16

	// PackBits is the BDS bit width used to pack Gridpoints, preserved
	// alongside E/D so a decoded message (or its GRIB2 translation) can be
	// re-encoded with the same quantization.
	PackBits int
}

// Read parses one GRIB1 message from the start of data and returns it along
// with the number of bytes consumed. Trailing bytes (further concatenated
// messages) are left in data, unconsumed.
func Read(data []byte) (*Message, int, error) {
	if len(data) < 8 {
		return nil, 0, &codecerr.TruncatedMessage{Offset: 0, Declared: 8, Got: len(data)}
	}
	if string(data[0:4]) != "GRIB" {
		return nil, 0, &codecerr.Eof{Offset: 0}
	}

	length := int(parse3ByteUint(data[4], data[5], data[6]))
	edition := int(data[7])
	if edition != 0 && edition != 1 {
		return nil, 0, &codecerr.UnsupportedEdition{Edition: edition}
	}
	if length > len(data) {
		return nil, 0, &codecerr.TruncatedMessage{Offset: 0, Declared: length, Got: len(data)}
	}

	msg := &Message{Edition: edition}
	offset := 8

	if edition == 0 {
		// Edition 0's 24-bit length carries only the PDS; section 0 is
		// logically just the magic and the PDS follows immediately.
		length = len(data)
	}

	pds, n, err := parseProductDefinition(data[offset:length])
	if err != nil {
		return nil, 0, fmt.Errorf("grib1: product definition: %w", err)
	}
	msg.Product = pds
	offset += n

	if pds.gridDescriptionIncluded() {
		grid, n, err := parseGridDefinition(data[offset:length])
		if err != nil {
			return nil, 0, fmt.Errorf("grib1: grid definition: %w", err)
		}
		msg.Grid = grid
		offset += n
		msg.NX, msg.NY = grid.NX, grid.NY
	}

	var bitmap []bool
	if pds.bitmapIncluded() {
		b, n, err := parseBitmap(data[offset:length])
		if err != nil {
			return nil, 0, fmt.Errorf("grib1: bitmap section: %w", err)
		}
		bitmap = b
		offset += n
	}

	nPoints := msg.NX * msg.NY
	if bitmap != nil {
		nPoints = len(bitmap)
	}

	bds, n, err := parseBinaryData(data[offset:length], nPoints, bitmap, pds.GridCatalogID, pds.DecimalScale)
	if err != nil {
		return nil, 0, fmt.Errorf("grib1: binary data section: %w", err)
	}
	offset += n
	msg.Bitmap = bitmap
	msg.Gridpoints = bds.values
	msg.E = bds.e
	msg.D = bds.d
	msg.PackBits = bds.packWidth

	if offset+4 <= length && string(data[offset:offset+4]) == "7777" {
		offset += 4
	}
	// MissingEndMarker is a warning, not fatal: the message is returned
	// either way. The caller (Session) is responsible for surfacing it.

	return msg, length, nil
}

func (p *ProductDefinition) gridDescriptionIncluded() bool {
	return p.Flags&0x80 != 0
}

func (p *ProductDefinition) bitmapIncluded() bool {
	return p.Flags&0x40 != 0
}
