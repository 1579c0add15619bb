// Package jpeg2000 defines the narrow interface the GRIB2 codec needs
// from a JPEG 2000 decoder for Data Representation Templates 5.40 and
// 5.40000. It does not implement JPEG 2000 decoding itself.
package jpeg2000

import "fmt"

// Decoder turns a JPEG 2000 code-stream embedded in a GRIB2 Data
// Section into the grayscale integer samples it encodes.
type Decoder interface {
	// Decode reads payload, a raw JPEG 2000 code-stream starting at its
	// header, and returns one sample per grid point in scan order.
	// width and height are the encoder's expected image dimensions,
	// taken from the grid definition; a mismatch between the decoded
	// image and these dimensions is an error.
	Decode(payload []byte, width, height int) ([]uint32, error)
}

// MultiComponentImageError reports that a code-stream the codec handed
// to a Decoder encoded more than one color component, i.e. it was not
// the grayscale image GRIB2 payloads are required to be.
type MultiComponentImageError struct {
	Components int
}

func (e *MultiComponentImageError) Error() string {
	return fmt.Sprintf("jpeg2000: payload encodes %d components, want 1 (grayscale)", e.Components)
}

// NullDecoder is a Decoder that always fails. It exists so the codec
// compiles and links with no JPEG 2000 implementation wired in; callers
// that need to decode templates 5.40/5.40000 must supply a real
// Decoder (e.g. an external CGo or WASM binding).
type NullDecoder struct{}

func (NullDecoder) Decode(payload []byte, width, height int) ([]uint32, error) {
	return nil, fmt.Errorf("jpeg2000: no decoder configured (got %d byte payload for %dx%d image)", len(payload), width, height)
}
