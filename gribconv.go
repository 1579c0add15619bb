// Package gribconv pumps messages through the decoder, translator, and
// encoder for both conversion directions: GRIB1 -> GRIB2 and GRIB2 -> GRIB1.
//
// The codec is sequential: a Session owns one input byte buffer and one
// scratch output buffer, both of which grow in capacity as larger messages
// are seen but are never shared across goroutines. A caller that wants
// parallel throughput creates one Session per goroutine (see
// ConvertGRIB2ToGRIB1Concurrent for a bulk convenience that does this
// internally).
package gribconv

import (
	"bytes"
	"fmt"
	"io"

	"github.com/nimbus-grib/gribconv/codecerr"
	"github.com/nimbus-grib/gribconv/grib1"
	"github.com/nimbus-grib/gribconv/grib2"
	"github.com/nimbus-grib/gribconv/translate"
)

// Session drives one sequential conversion run. It is not safe for
// concurrent use; the scratch buffers it owns are reused message-to-message
// within a single call and grow monotonically rather than being
// reallocated per message.
type Session struct {
	input  []byte
	output []byte
}

// NewSession returns an empty Session ready to drive a conversion.
func NewSession() *Session {
	return &Session{}
}

// readAll drains r into the session's input buffer, reusing its backing
// array across calls so repeated conversions on the same Session don't
// reallocate once the buffer has grown to the largest file seen.
func (s *Session) readAll(r io.Reader) ([]byte, error) {
	buf := s.input[:0]
	var chunk [64 * 1024]byte
	for {
		n, err := r.Read(chunk[:])
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &codecerr.IoError{Underlying: err}
		}
	}
	s.input = buf
	return buf, nil
}

// nextGribMarker returns the suffix of data starting at the next "GRIB"
// magic number after its first 4 bytes, or nil if none remains. It lets a
// malformed message be skipped without abandoning the rest of the stream,
// per the codec's "decoding errors abort the current message, not the
// session" failure policy.
func nextGribMarker(data []byte) []byte {
	if len(data) <= 4 {
		return nil
	}
	idx := bytes.Index(data[4:], []byte("GRIB"))
	if idx < 0 {
		return nil
	}
	return data[4+idx:]
}

// ConvertGRIB1ToGRIB2 reads a stream of concatenated GRIB1 messages from r,
// translates each to GRIB2, and writes the resulting concatenated GRIB2
// messages to w. It returns the number of messages successfully converted
// and any non-fatal translation warnings (unmapped parameters). A message
// that fails to decode is skipped (recorded as a warning) and the scan
// resumes at the next "GRIB" marker; a message that fails to translate or
// encode aborts the whole run, since the failure model treats encoder
// errors as session-fatal.
func (s *Session) ConvertGRIB1ToGRIB2(r io.Reader, w io.Writer) (int, []error, error) {
	data, err := s.readAll(r)
	if err != nil {
		return 0, nil, err
	}

	out := s.output[:0]
	var warnings []error
	count := 0

	for len(data) > 0 {
		msg, n, err := grib1.Read(data)
		if err != nil {
			if _, isEOF := err.(*codecerr.Eof); isEOF {
				break
			}
			warnings = append(warnings, fmt.Errorf("gribconv: skipping malformed GRIB1 message: %w", err))
			data = nextGribMarker(data)
			if data == nil {
				break
			}
			continue
		}
		data = data[n:]

		spec, warns, err := translate.Forward(msg)
		warnings = append(warnings, warns...)
		if err != nil {
			s.output = out
			return count, warnings, fmt.Errorf("gribconv: translating message %d: %w", count, err)
		}

		encoded, err := grib2.EncodeMessage(spec)
		if err != nil {
			s.output = out
			return count, warnings, fmt.Errorf("gribconv: encoding message %d: %w", count, err)
		}

		out = append(out, encoded...)
		count++
	}

	s.output = out
	if _, err := w.Write(out); err != nil {
		return count, warnings, &codecerr.IoError{Underlying: err}
	}
	return count, warnings, nil
}

// ConvertGRIB2ToGRIB1 reads a GRIB2 stream from r, translates each message
// to GRIB1 (only the first grid of a multi-grid message, per translate.Reverse's
// single-product scope), and writes the resulting concatenated GRIB1
// messages to w. A message that fails to parse or translate is skipped
// (recorded as a warning); an encode failure is session-fatal.
func (s *Session) ConvertGRIB2ToGRIB1(r io.Reader, w io.Writer) (int, []error, error) {
	data, err := s.readAll(r)
	if err != nil {
		return 0, nil, err
	}

	seeker := bytes.NewReader(data)
	boundaries, err := grib2.FindMessagesInStream(seeker)
	if err != nil {
		return 0, nil, fmt.Errorf("gribconv: scanning GRIB2 message boundaries: %w", err)
	}

	out := s.output[:0]
	var warnings []error
	count := 0

	for _, b := range boundaries {
		msgBytes := make([]byte, b.Length)
		if _, err := seeker.Seek(int64(b.Start), io.SeekStart); err != nil {
			s.output = out
			return count, warnings, &codecerr.IoError{Underlying: err}
		}
		if _, err := io.ReadFull(seeker, msgBytes); err != nil {
			s.output = out
			return count, warnings, &codecerr.IoError{Underlying: err}
		}

		msg, err := grib2.ParseMessage(msgBytes)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("gribconv: skipping message %d at offset %d: %w", b.Index, b.Start, err))
			continue
		}

		grib1Msg, warns, err := translate.Reverse(msg)
		warnings = append(warnings, warns...)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("gribconv: skipping message %d at offset %d: %w", b.Index, b.Start, err))
			continue
		}

		encoded, err := grib1Msg.Encode(grib1Msg.PackBits)
		if err != nil {
			s.output = out
			return count, warnings, fmt.Errorf("gribconv: encoding message %d: %w", count, err)
		}

		out = append(out, encoded...)
		count++
	}

	s.output = out
	if _, err := w.Write(out); err != nil {
		return count, warnings, &codecerr.IoError{Underlying: err}
	}
	return count, warnings, nil
}
