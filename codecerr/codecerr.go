// Package codecerr defines the tagged error variants shared by the grib1
// and grib2 decoders and the translate package. Every fallible codec
// operation returns one of these (or wraps one via errors.As), rather than
// an ad hoc string, so callers can branch on failure kind.
package codecerr

import "fmt"

// Eof signals end of input before any bytes of a new message were read.
type Eof struct {
	Offset int
}

func (e *Eof) Error() string {
	return fmt.Sprintf("eof at offset %d before start of message", e.Offset)
}

// TruncatedMessage signals a header declaring more bytes than the stream yields.
type TruncatedMessage struct {
	Offset   int
	Declared int
	Got      int
}

func (e *TruncatedMessage) Error() string {
	return fmt.Sprintf("truncated message at offset %d: declared %d bytes, got %d", e.Offset, e.Declared, e.Got)
}

// MissingEndMarker signals the absence of the "7777" end marker. Callers
// should treat this as a warning, not a fatal parse error: the message
// itself is still returned.
type MissingEndMarker struct {
	Offset int
}

func (e *MissingEndMarker) Error() string {
	return fmt.Sprintf("missing \"7777\" end marker at offset %d", e.Offset)
}

// UnsupportedEdition signals a GRIB edition other than 0, 1, or 2.
type UnsupportedEdition struct {
	Edition int
}

func (e *UnsupportedEdition) Error() string {
	return fmt.Sprintf("unsupported GRIB edition %d", e.Edition)
}

// UnsupportedGridTemplate signals an unimplemented grid definition template
// or GRIB1 data representation code.
type UnsupportedGridTemplate struct {
	ID int
}

func (e *UnsupportedGridTemplate) Error() string {
	return fmt.Sprintf("unsupported grid template %d", e.ID)
}

// UnsupportedProductTemplate signals an unimplemented product definition template.
type UnsupportedProductTemplate struct {
	ID int
}

func (e *UnsupportedProductTemplate) Error() string {
	return fmt.Sprintf("unsupported product definition template %d", e.ID)
}

// UnsupportedDataTemplate signals an unimplemented data representation template.
type UnsupportedDataTemplate struct {
	ID int
}

func (e *UnsupportedDataTemplate) Error() string {
	return fmt.Sprintf("unsupported data representation template %d", e.ID)
}

// UnsupportedPacking signals GRIB1 second-order packing on decode, or an
// unsupported data representation on encode.
type UnsupportedPacking struct {
	Detail string
}

func (e *UnsupportedPacking) Error() string {
	return fmt.Sprintf("unsupported packing: %s", e.Detail)
}

// UnmappedParameter signals that the parameter translation table has no
// entry for the given key. Per the failure model this is non-fatal: callers
// degrade to parameter code 255 and emit a warning rather than aborting.
type UnmappedParameter struct {
	Key string
}

func (e *UnmappedParameter) Error() string {
	return fmt.Sprintf("unmapped parameter: %s", e.Key)
}

// UnmappedLevel signals that the level translation table has no entry for
// the given key. This is fatal.
type UnmappedLevel struct {
	Key string
}

func (e *UnmappedLevel) Error() string {
	return fmt.Sprintf("unmapped level: %s", e.Key)
}

// UnmappedProcess signals that the statistical-process translation table
// has no entry for the given key. This is fatal.
type UnmappedProcess struct {
	Key string
}

func (e *UnmappedProcess) Error() string {
	return fmt.Sprintf("unmapped statistical process: %s", e.Key)
}

// InvariantViolation signals an internal consistency check failed, e.g. a
// packed-count mismatch against the bitmap's count of set bits.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Reason)
}

// IoError wraps an error surfaced from the caller's I/O collaborator.
type IoError struct {
	Underlying error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("i/o error: %v", e.Underlying)
}

func (e *IoError) Unwrap() error {
	return e.Underlying
}
