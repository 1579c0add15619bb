package grib1

import (
	"fmt"

	"github.com/nimbus-grib/gribconv/bitio"
)

// ProductDefinition is the decoded GRIB1 Product Definition Section (PDS).
type ProductDefinition struct {
	TableVersion      uint8
	Center            uint8
	GeneratingProcess uint8
	GridCatalogID     uint8
	Flags             uint8 // bit 0x80 = GDS included, 0x40 = BMS included

	Parameter uint8
	LevelType uint8
	Level1    uint16
	Level2    uint16

	Year, Month, Day, Hour, Minute int

	ForecastUnit       uint8
	P1, P2             uint8
	TimeRangeIndicator uint8
	NAvg               uint16
	NMissing           uint8

	DecimalScale int16 // D

	// Extension holds any bytes beyond octet 40, opaque and preserved
	// verbatim rather than interpreted.
	Extension []byte
}

// sixteenBitLevelTypes is the set of GRIB1 level-type codes whose level
// value occupies a single 16-bit field (octets 11-12) rather than splitting
// into two independent 8-bit surfaces.
var sixteenBitLevelTypes = map[uint8]bool{
	100: true, 103: true, 105: true, 107: true, 109: true, 111: true,
	113: true, 115: true, 125: true, 160: true, 200: true, 201: true,
}

// nAvgTimeRangeCodes is the set of time-range-indicator codes for which the
// PDS carries a nonzero "number included in average" field.
var nAvgTimeRangeCodes = map[uint8]bool{
	3: true, 4: true, 51: true, 113: true, 114: true, 115: true,
	116: true, 117: true, 123: true, 124: true,
}

func parseProductDefinition(data []byte) (*ProductDefinition, int, error) {
	if len(data) < 28 {
		return nil, 0, fmt.Errorf("PDS must be at least 28 bytes, got %d", len(data))
	}
	length := int(parse3ByteUint(data[0], data[1], data[2]))
	if length < 28 || length > len(data) {
		return nil, 0, fmt.Errorf("PDS declares length %d, have %d bytes", length, len(data))
	}

	p := &ProductDefinition{
		TableVersion:      data[3],
		Center:            data[4],
		GeneratingProcess: data[5],
		GridCatalogID:     data[6],
		Flags:             data[7],
		Parameter:         data[8],
		LevelType:         data[9],
	}

	if sixteenBitLevelTypes[p.LevelType] {
		p.Level1 = uint16(data[10])<<8 | uint16(data[11])
		p.Level2 = 0
	} else {
		p.Level1 = uint16(data[10])
		p.Level2 = uint16(data[11])
	}

	yearOfCentury := int(data[12])
	p.Month = int(data[13])
	p.Day = int(data[14])
	p.Hour = int(data[15])
	p.Minute = int(data[16])
	p.ForecastUnit = data[17]
	p.P1 = data[18]
	p.P2 = data[19]
	p.TimeRangeIndicator = data[20]

	if nAvgTimeRangeCodes[p.TimeRangeIndicator] {
		p.NAvg = uint16(data[21])<<8 | uint16(data[22])
	}
	p.NMissing = data[23]

	century := int(data[24])
	p.Year = century*100 + yearOfCentury - 100

	d, err := bitio.UnpackSigned(data[26:28], 0, 16)
	if err != nil {
		return nil, 0, fmt.Errorf("PDS decimal scale factor: %w", err)
	}
	p.DecimalScale = int16(d)

	if length > 40 {
		p.Extension = append([]byte(nil), data[40:length]...)
	}

	return p, length, nil
}

// encode appends the wire representation of p to buf and returns the
// extended slice. It always writes a 40-byte base PDS (octets 1-40) plus
// any Extension.
func (p *ProductDefinition) encode(buf []byte) []byte {
	length := 40 + len(p.Extension)
	start := len(buf)
	buf = append(buf, make([]byte, length)...)
	sec := buf[start:]

	putUint24(sec[0:3], uint32(length))
	sec[3] = p.TableVersion
	sec[4] = p.Center
	sec[5] = p.GeneratingProcess
	sec[6] = p.GridCatalogID
	sec[7] = p.Flags
	sec[8] = p.Parameter
	sec[9] = p.LevelType

	if sixteenBitLevelTypes[p.LevelType] {
		sec[10] = byte(p.Level1 >> 8)
		sec[11] = byte(p.Level1)
	} else {
		sec[10] = byte(p.Level1)
		sec[11] = byte(p.Level2)
	}

	century := (p.Year-1)/100 + 1
	yearOfCentury := p.Year - (century-1)*100
	sec[12] = byte(yearOfCentury)
	sec[13] = byte(p.Month)
	sec[14] = byte(p.Day)
	sec[15] = byte(p.Hour)
	sec[16] = byte(p.Minute)
	sec[17] = p.ForecastUnit
	sec[18] = p.P1
	sec[19] = p.P2
	sec[20] = p.TimeRangeIndicator
	sec[21] = byte(p.NAvg >> 8)
	sec[22] = byte(p.NAvg)
	sec[23] = p.NMissing
	sec[24] = byte(century)
	sec[25] = 0 // sub-centre, unused by this codec

	_ = bitio.PackSigned(sec[26:28], int32(p.DecimalScale), 0, 16)

	copy(sec[40:], p.Extension)

	return buf
}

func putUint24(dst []byte, v uint32) {
	dst[0] = byte(v >> 16)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v)
}
