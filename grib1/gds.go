package grib1

import (
	"github.com/nimbus-grib/gribconv/codecerr"
)

// DataRepresentationType is the GRIB1 GDS "data representation type" code
// (WMO Code table 6) selecting the grid projection.
type DataRepresentationType uint8

const (
	DataRepLatLon             DataRepresentationType = 0
	DataRepMercator           DataRepresentationType = 1
	DataRepLambert            DataRepresentationType = 3
	DataRepGaussian           DataRepresentationType = 4
	DataRepPolarStereographic DataRepresentationType = 5
	DataRepRotatedLatLon      DataRepresentationType = 10
)

// GridDefinition is the decoded GRIB1 Grid Definition Section (GDS). Not
// every field is meaningful for every Type; see the decode dispatch below
// for which fields a given projection populates.
type GridDefinition struct {
	Type DataRepresentationType

	NX, NY int

	// Degrees, scaled by 1e-3 on the wire. Meaningful for LatLon, Gaussian,
	// RotatedLatLon, Mercator.
	SLat, SLon, ELat, ELon float64
	ResComp                uint8
	ScanMode               uint8

	// LoInc is the longitude increment (degrees*1e-3) for LatLon/Rotated,
	// and the same field for Gaussian. LaInc is the latitude increment
	// (degrees*1e-3) for LatLon/Rotated, but for Gaussian grids this field
	// instead carries N, the integer count of parallels between a pole and
	// the equator (not a scaled angle), per the WMO Gaussian grid encoding.
	LoInc, LaInc float64
	GaussianN    int

	// Mercator.
	StdLat1 float64

	// Mercator, Lambert, Polar Stereographic: increments in meters.
	XLen, YLen float64

	// Lambert, Polar Stereographic.
	OLon float64
	Proj uint8

	// Lambert only.
	StdLat2 float64
}

func parseGridDefinition(data []byte) (*GridDefinition, int, error) {
	if len(data) < 6 {
		return nil, 0, truncatedErr("GDS must be at least 6 bytes")
	}
	length := int(parse3ByteUint(data[0], data[1], data[2]))
	if length > len(data) {
		return nil, 0, truncatedErr("GDS declares more bytes than available")
	}

	repType := DataRepresentationType(data[5])
	rep := data[6:length]

	g := &GridDefinition{Type: repType}

	switch repType {
	case DataRepLatLon, DataRepGaussian, DataRepRotatedLatLon:
		if len(rep) < 22 {
			return nil, 0, truncatedErr("lat/lon GDS body too short")
		}
		g.NX = int(parse2ByteUint(rep[0], rep[1]))
		g.NY = int(parse2ByteUint(rep[2], rep[3]))
		slat, err := parse3ByteSigned(rep[4], rep[5], rep[6])
		if err != nil {
			return nil, 0, err
		}
		slon, err := parse3ByteSigned(rep[7], rep[8], rep[9])
		if err != nil {
			return nil, 0, err
		}
		g.ResComp = rep[10]
		elat, err := parse3ByteSigned(rep[11], rep[12], rep[13])
		if err != nil {
			return nil, 0, err
		}
		elon, err := parse3ByteSigned(rep[14], rep[15], rep[16])
		if err != nil {
			return nil, 0, err
		}
		g.SLat = float64(slat) * 1e-3
		g.SLon = float64(slon) * 1e-3
		g.ELat = float64(elat) * 1e-3
		g.ELon = float64(elon) * 1e-3
		g.LoInc = float64(parse2ByteUint(rep[17], rep[18])) * 1e-3
		if repType == DataRepGaussian {
			g.GaussianN = int(parse2ByteUint(rep[19], rep[20]))
		} else {
			g.LaInc = float64(parse2ByteUint(rep[19], rep[20])) * 1e-3
		}
		g.ScanMode = rep[21]

	case DataRepMercator:
		if len(rep) < 26 {
			return nil, 0, truncatedErr("Mercator GDS body too short")
		}
		g.NX = int(parse2ByteUint(rep[0], rep[1]))
		g.NY = int(parse2ByteUint(rep[2], rep[3]))
		slat, err := parse3ByteSigned(rep[4], rep[5], rep[6])
		if err != nil {
			return nil, 0, err
		}
		slon, err := parse3ByteSigned(rep[7], rep[8], rep[9])
		if err != nil {
			return nil, 0, err
		}
		g.ResComp = rep[10]
		elat, err := parse3ByteSigned(rep[11], rep[12], rep[13])
		if err != nil {
			return nil, 0, err
		}
		elon, err := parse3ByteSigned(rep[14], rep[15], rep[16])
		if err != nil {
			return nil, 0, err
		}
		stdlat1, err := parse3ByteSigned(rep[17], rep[18], rep[19])
		if err != nil {
			return nil, 0, err
		}
		g.SLat = float64(slat) * 1e-3
		g.SLon = float64(slon) * 1e-3
		g.ELat = float64(elat) * 1e-3
		g.ELon = float64(elon) * 1e-3
		g.StdLat1 = float64(stdlat1) * 1e-3
		// rep[20] reserved
		g.XLen = float64(parse2ByteUint(rep[21], rep[22]))
		g.YLen = float64(parse2ByteUint(rep[23], rep[24]))
		g.ScanMode = rep[25]

	case DataRepLambert, DataRepPolarStereographic:
		if len(rep) < 22 {
			return nil, 0, truncatedErr("Lambert/Polar-Stereographic GDS body too short")
		}
		g.NX = int(parse2ByteUint(rep[0], rep[1]))
		g.NY = int(parse2ByteUint(rep[2], rep[3]))
		slat, err := parse3ByteSigned(rep[4], rep[5], rep[6])
		if err != nil {
			return nil, 0, err
		}
		slon, err := parse3ByteSigned(rep[7], rep[8], rep[9])
		if err != nil {
			return nil, 0, err
		}
		g.ResComp = rep[10]
		olon, err := parse3ByteSigned(rep[11], rep[12], rep[13])
		if err != nil {
			return nil, 0, err
		}
		g.SLat = float64(slat) * 1e-3
		g.SLon = float64(slon) * 1e-3
		g.OLon = float64(olon) * 1e-3
		g.XLen = float64(parse3ByteUint(rep[14], rep[15], rep[16]))
		g.YLen = float64(parse3ByteUint(rep[17], rep[18], rep[19]))
		g.Proj = rep[20]
		g.ScanMode = rep[21]

		if repType == DataRepLambert {
			if len(rep) < 36 {
				return nil, 0, truncatedErr("Lambert GDS body too short for standard parallels")
			}
			stdlat1, err := parse3ByteSigned(rep[22], rep[23], rep[24])
			if err != nil {
				return nil, 0, err
			}
			stdlat2, err := parse3ByteSigned(rep[25], rep[26], rep[27])
			if err != nil {
				return nil, 0, err
			}
			g.StdLat1 = float64(stdlat1) * 1e-3
			g.StdLat2 = float64(stdlat2) * 1e-3
		}

	default:
		return nil, 0, &codecerr.UnsupportedGridTemplate{ID: int(repType)}
	}

	return g, length, nil
}

// encode appends the wire representation of g to buf, with the GDS total
// length (header + body) matching the real WMO layout for each projection:
// 32 octets for LatLon/Gaussian/Rotated/Polar-Stereographic, 32 for
// Mercator, 42 for Lambert.
func (g *GridDefinition) encode(buf []byte) []byte {
	var body int
	switch g.Type {
	case DataRepLatLon, DataRepGaussian, DataRepRotatedLatLon:
		body = 26
	case DataRepMercator:
		body = 26
	case DataRepPolarStereographic:
		body = 26
	case DataRepLambert:
		body = 36
	}
	length := 6 + body
	start := len(buf)
	buf = append(buf, make([]byte, length)...)
	sec := buf[start:]

	put3ByteUint(sec[0:3], uint32(length))
	sec[3] = 0 // NV
	sec[4] = 255
	sec[5] = byte(g.Type)
	rep := sec[6:]

	switch g.Type {
	case DataRepLatLon, DataRepGaussian, DataRepRotatedLatLon:
		put2ByteUint(rep[0:2], uint16(g.NX))
		put2ByteUint(rep[2:4], uint16(g.NY))
		put3ByteSigned(rep[4:7], int32(g.SLat/1e-3))
		put3ByteSigned(rep[7:10], int32(g.SLon/1e-3))
		rep[10] = g.ResComp
		put3ByteSigned(rep[11:14], int32(g.ELat/1e-3))
		put3ByteSigned(rep[14:17], int32(g.ELon/1e-3))
		put2ByteUint(rep[17:19], uint16(g.LoInc/1e-3))
		if g.Type == DataRepGaussian {
			put2ByteUint(rep[19:21], uint16(g.GaussianN))
		} else {
			put2ByteUint(rep[19:21], uint16(g.LaInc/1e-3))
		}
		rep[21] = g.ScanMode

	case DataRepMercator:
		put2ByteUint(rep[0:2], uint16(g.NX))
		put2ByteUint(rep[2:4], uint16(g.NY))
		put3ByteSigned(rep[4:7], int32(g.SLat/1e-3))
		put3ByteSigned(rep[7:10], int32(g.SLon/1e-3))
		rep[10] = g.ResComp
		put3ByteSigned(rep[11:14], int32(g.ELat/1e-3))
		put3ByteSigned(rep[14:17], int32(g.ELon/1e-3))
		put3ByteSigned(rep[17:20], int32(g.StdLat1/1e-3))
		put2ByteUint(rep[21:23], uint16(g.XLen))
		put2ByteUint(rep[23:25], uint16(g.YLen))
		rep[25] = g.ScanMode

	case DataRepLambert, DataRepPolarStereographic:
		put2ByteUint(rep[0:2], uint16(g.NX))
		put2ByteUint(rep[2:4], uint16(g.NY))
		put3ByteSigned(rep[4:7], int32(g.SLat/1e-3))
		put3ByteSigned(rep[7:10], int32(g.SLon/1e-3))
		rep[10] = g.ResComp
		put3ByteSigned(rep[11:14], int32(g.OLon/1e-3))
		put3ByteUint(rep[14:17], uint32(g.XLen))
		put3ByteUint(rep[17:20], uint32(g.YLen))
		rep[20] = g.Proj
		rep[21] = g.ScanMode
		if g.Type == DataRepLambert {
			put3ByteSigned(rep[22:25], int32(g.StdLat1/1e-3))
			put3ByteSigned(rep[25:28], int32(g.StdLat2/1e-3))
		}
	}

	return buf
}

// ResolutionComponentFlag derives the GRIB1 resolution-and-component flags
// octet from a GRIB2 resolution-and-component flags octet and earth-shape
// code, per the scaling rule applied when translating a Lambert grid.
func ResolutionComponentFlag(gribTwoRescomp uint8, earthShape uint8) uint8 {
	var flag uint8
	if gribTwoRescomp&0x20 != 0 {
		flag |= 0x80
	}
	if earthShape == 2 {
		flag |= 0x40
	}
	flag |= gribTwoRescomp & 0x8
	return flag
}

func truncatedErr(msg string) error {
	return &codecerr.InvariantViolation{Reason: msg}
}
