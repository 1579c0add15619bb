package grib2

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/nimbus-grib/gribconv/bitio"
	"github.com/nimbus-grib/gribconv/codecerr"
)

// GridSpec describes a grid definition to be emitted in Section 3.
//
// Templates 0 (Lat/Lon) and 40 (Gaussian) share the same field layout; the
// only difference is the meaning of the last angle field before the
// scanning mode octet. Template 30 (Lambert Conformal) has its own layout.
//
// Latin1 does double duty: for Template 30 it is the first standard
// parallel (a scaled latitude, as WMO Table 3.30 defines it). For Template
// 40 it is read into the octets that WMO defines as "N, number of
// parallels between a pole and the equator" — the translator shares one
// field across both templates and never reinterprets it for Gaussian
// grids, so a translated Gaussian grid's "N" comes out wired to whatever
// latitude-shaped value the forward mapping happened to populate. This
// mirrors a defect present in the source codec; it is intentionally not
// fixed (see §9 Open Question 3) and is pinned by a round-trip test.
type GridSpec struct {
	Template uint16 // 0, 30, or 40

	Ni, Nj             uint32
	La1, Lo1, La2, Lo2 int32 // micro-degrees
	ResFlags           uint8
	Di, Dj             uint32 // micro-degrees (Lat/Lon); Di only for Gaussian
	ScanningMode       uint8

	// Lambert Conformal (Template 30) only.
	LaD, LoV         int32
	Dx, Dy           uint32
	ProjectionCenter uint8
	Latin1, Latin2   int32
	LatSouthPole     int32
	LonSouthPole     int32
}

// StatisticalRange is one (process, time-increment) specification inside a
// Template 4.8 statistical process descriptor.
type StatisticalRange struct {
	StatisticalProcess uint8
	TimeIncrementType  uint8
	TimeRangeUnit      uint8
	TimeRangeLength    uint32
	TimeIncrementUnit  uint8
	TimeIncrement      uint32
}

// ProductSpec describes a product definition to be emitted in Section 4.
// Only templates 0 and 8 are supported, since the
// GRIB2 encoder does not need to emit ensemble or spatial-processing
// products, only the analysis/forecast and single-range statistical cases
// a GRIB1 message can actually express.
type ProductSpec struct {
	Template uint16 // 0 or 8

	ParameterCategory, ParameterNumber                uint8
	GeneratingProcess, BackgroundProcess, ForecastProcess uint8
	HoursAfterCutoff                                   uint16
	MinutesAfterCutoff                                 uint8
	TimeRangeUnit                                      uint8
	ForecastTime                                       uint32
	FirstSurfaceType, FirstSurfaceScaleFactor          uint8
	FirstSurfaceValue                                  uint32
	SecondSurfaceType, SecondSurfaceScaleFactor         uint8
	SecondSurfaceValue                                 uint32

	// Template 8 only.
	EndTime       time.Time
	NumberMissing uint32
	Ranges        []StatisticalRange
}

// EncodeSpec is the input to EncodeMessage: one fully-resolved GRIB2 grid
// field, ready to serialize. The translate package builds one of these per
// translated GRIB1 message.
type EncodeSpec struct {
	Discipline uint8

	Center, Subcenter                 uint16
	MasterTableVersion, LocalTableVersion uint8
	SignificanceOfRefTime              uint8
	ReferenceTime                      time.Time
	ProductionStatus, TypeOfData       uint8

	Grid    GridSpec
	Product ProductSpec

	// Simple packing (DRS template 0) parameters.
	PackBits           int
	BinaryScaleFactor   int16
	DecimalScaleFactor  int16

	// Values is in grid scan order; entries >= 9.999e20 are treated as missing
	// and excluded from the bitmap (if any bitmap is present at all, one
	// entry is false for every missing value).
	Values []float64
}

const missingSentinel = 9.999e20

// EncodeMessage serializes spec into a complete single-grid GRIB2 message:
// IS, IDS, GDS, PDS, DRS, BMS, DS, and the "7777" end marker.
func EncodeMessage(spec *EncodeSpec) ([]byte, error) {
	gdsTemplate, gdsBody, err := encodeGridDefinition(&spec.Grid)
	if err != nil {
		return nil, err
	}
	pdsTemplate, pdsBody, err := encodeProductDefinition(&spec.Product)
	if err != nil {
		return nil, err
	}

	present := make([]bool, len(spec.Values))
	anyMissing := false
	for i, v := range spec.Values {
		present[i] = v < missingSentinel
		if !present[i] {
			anyMissing = true
		}
	}

	refValue, packed, err := encodeSimplePacking(spec.Values, present, spec.BinaryScaleFactor, spec.DecimalScaleFactor, spec.PackBits)
	if err != nil {
		return nil, err
	}

	var body []byte
	body = append(body, encodeSection1(spec)...)
	body = append(body, encodeSection3(gdsTemplate, uint32(len(spec.Values)), gdsBody)...)
	body = append(body, encodeSection4(pdsTemplate, pdsBody)...)
	body = append(body, encodeSection5(uint32(len(spec.Values)), refValue, spec.BinaryScaleFactor, spec.DecimalScaleFactor, spec.PackBits)...)
	body = append(body, encodeSection6(anyMissing, present)...)
	body = append(body, encodeSection7(packed)...)

	totalLength := 16 + len(body) + 4
	out := make([]byte, 0, totalLength)
	out = append(out, 'G', 'R', 'I', 'B', 0, 0, spec.Discipline, 2)
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(totalLength))
	out = append(out, lenBuf[:]...)
	out = append(out, body...)
	out = append(out, '7', '7', '7', '7')

	if int(binary.BigEndian.Uint64(out[8:16])) != len(out) {
		return nil, &codecerr.InvariantViolation{Reason: "encoded GRIB2 length does not match buffer size"}
	}
	return out, nil
}

func putU16(dst []byte, v uint16) { binary.BigEndian.PutUint16(dst, v) }
func putU32(dst []byte, v uint32) { binary.BigEndian.PutUint32(dst, v) }

func encodeSection1(spec *EncodeSpec) []byte {
	sec := make([]byte, 21)
	putU32(sec[0:4], 21)
	sec[4] = 1
	putU16(sec[5:7], spec.Center)
	putU16(sec[7:9], spec.Subcenter)
	sec[9] = spec.MasterTableVersion
	sec[10] = spec.LocalTableVersion
	sec[11] = spec.SignificanceOfRefTime
	t := spec.ReferenceTime.UTC()
	putU16(sec[12:14], uint16(t.Year()))
	sec[14] = byte(t.Month())
	sec[15] = byte(t.Day())
	sec[16] = byte(t.Hour())
	sec[17] = byte(t.Minute())
	sec[18] = byte(t.Second())
	sec[19] = spec.ProductionStatus
	sec[20] = spec.TypeOfData
	return sec
}

// encodeGridDefinition returns the template number and template-specific
// body, which starts with the earth-shape octets; callers prepend only the
// 14-byte section header.
func encodeGridDefinition(g *GridSpec) (uint16, []byte, error) {
	switch g.Template {
	case 0, 40:
		// 16 bytes earth shape (spherical, default radius) + Ni/Nj (8) +
		// basic angle/subdivisions (8, set to "missing" so La*/Lo*/Di/Dj
		// are interpreted at the default 1e-6 degree scale) + La1/Lo1/
		// ResFlags/La2/Lo2/Di/(Dj or N)/ScanMode (26) = 58 meaningful
		// bytes. Padded to 72 to satisfy the existing decoder's minimum
		// length check, which is more conservative than the bytes it
		// actually reads.
		body := make([]byte, 72)
		body[0] = 6 // spherical earth, WMO-default radius
		for i := 1; i < 16; i++ {
			body[i] = 0xFF
		}
		putU32(body[16:20], g.Ni)
		putU32(body[20:24], g.Nj)
		for i := 24; i < 32; i++ {
			body[i] = 0xFF // basic angle + subdivisions: "missing" (default units)
		}
		putU32(body[32:36], uint32(g.La1))
		putU32(body[36:40], uint32(g.Lo1))
		body[40] = g.ResFlags
		putU32(body[41:45], uint32(g.La2))
		putU32(body[45:49], uint32(g.Lo2))
		putU32(body[49:53], g.Di)
		if g.Template == 40 {
			// Bug preserved per §9 Open Question 3: this octet group is
			// WMO's "N", but the field actually written is Latin1.
			putU32(body[53:57], uint32(g.Latin1))
		} else {
			putU32(body[53:57], g.Dj)
		}
		body[57] = g.ScanningMode
		return g.Template, body, nil

	case 30:
		// 14 bytes earth shape + Nx/Ny/La1/Lo1/ResFlags/LaD/LoV/Dx/Dy/
		// ProjCenter/ScanMode/Latin1/Latin2/LatSP/LonSP (51) = 65
		// meaningful bytes, padded to 69 for the same reason as above.
		body := make([]byte, 69)
		body[0] = 6
		off := 14
		putU32(body[off:off+4], g.Ni)
		putU32(body[off+4:off+8], g.Nj)
		putU32(body[off+8:off+12], uint32(g.La1))
		putU32(body[off+12:off+16], uint32(g.Lo1))
		body[off+16] = g.ResFlags
		putU32(body[off+17:off+21], uint32(g.LaD))
		putU32(body[off+21:off+25], uint32(g.LoV))
		putU32(body[off+25:off+29], g.Dx)
		putU32(body[off+29:off+33], g.Dy)
		body[off+33] = g.ProjectionCenter
		body[off+34] = g.ScanningMode
		putU32(body[off+35:off+39], uint32(g.Latin1))
		putU32(body[off+39:off+43], uint32(g.Latin2))
		putU32(body[off+43:off+47], uint32(g.LatSouthPole))
		putU32(body[off+47:off+51], uint32(g.LonSouthPole))
		return g.Template, body, nil

	default:
		return 0, nil, &codecerr.UnsupportedGridTemplate{ID: int(g.Template)}
	}
}

func encodeSection3(templateNumber uint16, numDataPoints uint32, body []byte) []byte {
	length := 14 + len(body)
	sec := make([]byte, length)
	putU32(sec[0:4], uint32(length))
	sec[4] = 3
	sec[5] = 0 // source: grid definition present
	putU32(sec[6:10], numDataPoints)
	sec[10] = 0
	sec[11] = 0
	putU16(sec[12:14], templateNumber)
	copy(sec[14:], body)
	return sec
}

func encodeProductDefinition(p *ProductSpec) (uint16, []byte, error) {
	base := make([]byte, 25)
	base[0] = p.ParameterCategory
	base[1] = p.ParameterNumber
	base[2] = p.GeneratingProcess
	base[3] = p.BackgroundProcess
	base[4] = p.ForecastProcess
	putU16(base[5:7], p.HoursAfterCutoff)
	base[7] = p.MinutesAfterCutoff
	base[8] = p.TimeRangeUnit
	putU32(base[9:13], p.ForecastTime)
	base[13] = p.FirstSurfaceType
	base[14] = p.FirstSurfaceScaleFactor
	putU32(base[15:19], p.FirstSurfaceValue)
	base[19] = p.SecondSurfaceType
	base[20] = p.SecondSurfaceScaleFactor
	putU32(base[21:25], p.SecondSurfaceValue)

	switch p.Template {
	case 0:
		return 0, base, nil

	case 8:
		t := p.EndTime.UTC()
		tail := make([]byte, 12+12*len(p.Ranges))
		putU16(tail[0:2], uint16(t.Year()))
		tail[2] = byte(t.Month())
		tail[3] = byte(t.Day())
		tail[4] = byte(t.Hour())
		tail[5] = byte(t.Minute())
		tail[6] = byte(t.Second())
		tail[7] = byte(len(p.Ranges))
		putU32(tail[8:12], p.NumberMissing)
		for i, r := range p.Ranges {
			off := 12 + i*12
			tail[off] = r.StatisticalProcess
			tail[off+1] = r.TimeIncrementType
			tail[off+2] = r.TimeRangeUnit
			putU32(tail[off+3:off+7], r.TimeRangeLength)
			tail[off+7] = r.TimeIncrementUnit
			putU32(tail[off+8:off+12], r.TimeIncrement)
		}
		return 8, append(base, tail...), nil

	default:
		return 0, nil, &codecerr.UnsupportedProductTemplate{ID: int(p.Template)}
	}
}

func encodeSection4(templateNumber uint16, body []byte) []byte {
	length := 9 + len(body)
	sec := make([]byte, length)
	putU32(sec[0:4], uint32(length))
	sec[4] = 4
	putU16(sec[5:7], 0) // no coordinate values list
	putU16(sec[7:9], templateNumber)
	copy(sec[9:], body)
	return sec
}

func encodeSection5(numValues uint32, refValue float32, e, d int16, packBits int) []byte {
	length := 11 + 10
	sec := make([]byte, length)
	putU32(sec[0:4], uint32(length))
	sec[4] = 5
	putU32(sec[5:9], numValues)
	putU16(sec[9:11], 0) // template 0: simple packing
	putU32(sec[11:15], math.Float32bits(refValue))
	putInt16(sec[15:17], e)
	putInt16(sec[17:19], d)
	sec[19] = byte(packBits)
	sec[20] = 0 // original field type: floating point
	return sec
}

// putInt16 writes v in the sign-magnitude form internal.Reader.Int16
// expects: bit 15 is the sign flag, bits 0-14 the magnitude.
func putInt16(dst []byte, v int16) {
	if v < 0 {
		putU16(dst, uint16(-v)|0x8000)
		return
	}
	putU16(dst, uint16(v))
}

func encodeSection6(hasBitmap bool, present []bool) []byte {
	if !hasBitmap {
		sec := make([]byte, 6)
		putU32(sec[0:4], 6)
		sec[4] = 6
		sec[5] = 255
		return sec
	}

	nBytes := (len(present) + 7) / 8
	length := 6 + nBytes
	sec := make([]byte, length)
	putU32(sec[0:4], uint32(length))
	sec[4] = 6
	sec[5] = 0
	for i, ok := range present {
		if !ok {
			continue
		}
		byteIdx := 6 + i/8
		bitIdx := 7 - uint(i%8)
		sec[byteIdx] |= 1 << bitIdx
	}
	return sec
}

func encodeSection7(packed []byte) []byte {
	length := 5 + len(packed)
	sec := make([]byte, length)
	putU32(sec[0:4], uint32(length))
	sec[4] = 7
	copy(sec[5:], packed)
	return sec
}

// encodeSimplePacking quantizes values (ignoring entries where present is
// false) using the same R/E/D formula as the GRIB1 BDS: value = (R +
// raw*2^E) / 10^D. packBits == 0 degenerates to a constant field: R holds
// the smallest present value times 10^D and no packed octets are written.
func encodeSimplePacking(values []float64, present []bool, e, d int16, packBits int) (float32, []byte, error) {
	scale := math.Pow(10, float64(d))
	binScale := math.Pow(2, -float64(e))

	var toPack []float64
	for i, v := range values {
		if present[i] {
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

	if packBits == 0 {
		return float32(r * scale), nil, nil
	}

	payloadBits := len(toPack) * packBits
	payloadBytes := (payloadBits + 7) / 8
	packed := make([]byte, payloadBytes)

	wireR := r * scale
	bitOffset := 0
	for _, v := range toPack {
		raw := uint32(math.Round((v*scale - wireR) * binScale))
		if err := bitio.Pack(packed, raw, bitOffset, packBits); err != nil {
			return 0, nil, fmt.Errorf("grib2: failed to pack data value: %w", err)
		}
		bitOffset += packBits
	}

	return float32(wireR), packed, nil
}
