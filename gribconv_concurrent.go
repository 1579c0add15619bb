package gribconv

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/nimbus-grib/gribconv/codecerr"
	"github.com/nimbus-grib/gribconv/grib2"
	"github.com/nimbus-grib/gribconv/internal"
	"github.com/nimbus-grib/gribconv/translate"
)

// gribOutcome is one message's conversion result, recorded by index so
// results can be written out in source order even though the pool finishes
// tasks out of order.
type gribOutcome struct {
	encoded  []byte
	warnings []error
	skip     error
}

// ConvertGRIB2ToGRIB1Concurrent is the bulk counterpart to
// (*Session).ConvertGRIB2ToGRIB1: every message's decode+translate+encode
// runs independently on internal.WorkerPool, since each message's bytes and
// the pure translate/encode functions it calls share no mutable state
// across goroutines. Only the boundary scan and the final in-order write to
// w are sequential. Output order matches input order regardless of the
// order tasks complete in.
func ConvertGRIB2ToGRIB1Concurrent(ctx context.Context, r io.Reader, w io.Writer, workers int) (int, []error, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return 0, nil, &codecerr.IoError{Underlying: err}
	}

	seeker := bytes.NewReader(data)
	boundaries, err := grib2.FindMessagesInStream(seeker)
	if err != nil {
		return 0, nil, fmt.Errorf("gribconv: scanning GRIB2 message boundaries: %w", err)
	}
	if len(boundaries) == 0 {
		return 0, nil, nil
	}

	// Reading from seeker is not safe to parallelize, so every message's
	// bytes are pulled into memory sequentially before any goroutine starts.
	messageData := make([][]byte, len(boundaries))
	for i, b := range boundaries {
		buf := make([]byte, b.Length)
		if _, err := seeker.Seek(int64(b.Start), io.SeekStart); err != nil {
			return 0, nil, &codecerr.IoError{Underlying: err}
		}
		if _, err := io.ReadFull(seeker, buf); err != nil {
			return 0, nil, &codecerr.IoError{Underlying: err}
		}
		messageData[i] = buf
	}

	results := make([]gribOutcome, len(boundaries))
	pool := internal.NewWorkerPool(ctx, workers)

	for i := range boundaries {
		idx := i
		boundary := boundaries[idx]
		if err := pool.Submit(func() error {
			msg, err := grib2.ParseMessage(messageData[idx])
			if err != nil {
				results[idx] = gribOutcome{skip: fmt.Errorf("gribconv: skipping message %d at offset %d: %w", boundary.Index, boundary.Start, err)}
				return nil
			}

			grib1Msg, warns, err := translate.Reverse(msg)
			if err != nil {
				results[idx] = gribOutcome{warnings: warns, skip: fmt.Errorf("gribconv: skipping message %d at offset %d: %w", boundary.Index, boundary.Start, err)}
				return nil
			}

			encoded, err := grib1Msg.Encode(grib1Msg.PackBits)
			if err != nil {
				return fmt.Errorf("gribconv: encoding message %d at offset %d: %w", boundary.Index, boundary.Start, err)
			}

			results[idx] = gribOutcome{encoded: encoded, warnings: warns}
			return nil
		}); err != nil {
			pool.Close()
			return 0, nil, fmt.Errorf("gribconv: submitting message %d: %w", boundary.Index, err)
		}
	}

	if err := pool.Wait(); err != nil {
		return 0, nil, err
	}

	var warnings []error
	count := 0
	for _, res := range results {
		warnings = append(warnings, res.warnings...)
		if res.skip != nil {
			warnings = append(warnings, res.skip)
			continue
		}
		if _, err := w.Write(res.encoded); err != nil {
			return count, warnings, &codecerr.IoError{Underlying: err}
		}
		count++
	}
	return count, warnings, nil
}
