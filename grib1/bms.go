package grib1

import "github.com/nimbus-grib/gribconv/codecerr"

// parseBitmap decodes the GRIB1 Bit-Map Section and returns one bool per
// gridpoint (true = value present), plus the number of bytes consumed.
func parseBitmap(data []byte) ([]bool, int, error) {
	if len(data) < 6 {
		return nil, 0, &codecerr.InvariantViolation{Reason: "BMS must be at least 6 bytes"}
	}
	length := int(parse3ByteUint(data[0], data[1], data[2]))
	if length > len(data) {
		return nil, 0, &codecerr.InvariantViolation{Reason: "BMS declares more bytes than available"}
	}
	unusedBits := int(data[3])
	tableRef := parse2ByteUint(data[4], data[5])
	if tableRef != 0 {
		return nil, 0, &codecerr.UnsupportedPacking{Detail: "predefined bitmap reference is not supported"}
	}

	nBits := (length-6)*8 - unusedBits
	bits := make([]bool, nBits)
	for i := 0; i < nBits; i++ {
		byteIdx := 6 + i/8
		bitIdx := 7 - uint(i%8)
		bits[i] = (data[byteIdx]>>bitIdx)&1 != 0
	}

	return bits, length, nil
}

// encodeBitmap appends the wire representation of a bitmap to buf. present
// is nil when no bitmap applies.
func encodeBitmap(buf []byte, present []bool) []byte {
	if present == nil {
		return buf
	}
	nBytes := (len(present) + 7) / 8
	unusedBits := nBytes*8 - len(present)
	length := 6 + nBytes
	start := len(buf)
	buf = append(buf, make([]byte, length)...)
	sec := buf[start:]

	put3ByteUint(sec[0:3], uint32(length))
	sec[3] = byte(unusedBits)
	put2ByteUint(sec[4:6], 0)

	for i, set := range present {
		if !set {
			continue
		}
		byteIdx := 6 + i/8
		bitIdx := 7 - uint(i%8)
		sec[byteIdx] |= 1 << bitIdx
	}

	return buf
}
