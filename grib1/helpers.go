package grib1

import "github.com/nimbus-grib/gribconv/bitio"

func parse2ByteUint(b0, b1 byte) uint16 {
	return uint16(b0)<<8 | uint16(b1)
}

func parse3ByteUint(b0, b1, b2 byte) uint32 {
	return uint32(b0)<<16 | uint32(b1)<<8 | uint32(b2)
}

// parse3ByteSigned reads a 24-bit sign-magnitude field: bit 0 of the first
// octet is the sign, the remaining 23 bits are the magnitude. Used for
// GRIB1 GDS latitudes/longitudes.
func parse3ByteSigned(b0, b1, b2 byte) (int32, error) {
	return bitio.UnpackSigned([]byte{b0, b1, b2}, 0, 24)
}

func put3ByteSigned(dst []byte, v int32) {
	_ = bitio.PackSigned(dst, v, 0, 24)
}

func put2ByteUint(dst []byte, v uint16) {
	dst[0] = byte(v >> 8)
	dst[1] = byte(v)
}

func put3ByteUint(dst []byte, v uint32) {
	dst[0] = byte(v >> 16)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v)
}
