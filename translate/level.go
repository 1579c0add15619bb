package translate

import (
	"fmt"
	"math"

	"github.com/nimbus-grib/gribconv/codecerr"
)

// levelEntry describes how a GRIB1 level-type code maps onto a GRIB2 fixed
// surface: GRIB2's scaled value is round(grib1Level * Multiplier) stored
// with a fixed ScaleFactor (actual value = scaledValue * 10^-ScaleFactor).
type levelEntry struct {
	Grib2Type  uint8
	ScaleFactor uint8
	Multiplier  float64
}

// singleLevelForward covers the non-layer GRIB1 level types this codec
// maps explicitly.
var singleLevelForward = map[uint8]levelEntry{
	100: {Grib2Type: 100, ScaleFactor: 0, Multiplier: 100}, // isobaric, hPa -> Pa
	103: {Grib2Type: 102, ScaleFactor: 0, Multiplier: 1},   // height above MSL, m
	105: {Grib2Type: 103, ScaleFactor: 0, Multiplier: 1},   // height above ground, m
	107: {Grib2Type: 104, ScaleFactor: 4, Multiplier: 1},   // sigma (already *1e4 on the wire)
	109: {Grib2Type: 105, ScaleFactor: 0, Multiplier: 1},   // hybrid level number
	111: {Grib2Type: 106, ScaleFactor: 2, Multiplier: 1},   // depth below land, cm -> m
	113: {Grib2Type: 107, ScaleFactor: 0, Multiplier: 1},   // isentropic (theta), K
	115: {Grib2Type: 108, ScaleFactor: 0, Multiplier: 100}, // pressure difference, hPa -> Pa
	117: {Grib2Type: 109, ScaleFactor: 0, Multiplier: 1},   // potential vorticity surface
	119: {Grib2Type: 111, ScaleFactor: 4, Multiplier: 1},   // eta level (sigma-like, *1e4)
	125: {Grib2Type: 103, ScaleFactor: 2, Multiplier: 1},   // height above ground, high precision, cm -> m
	128: {Grib2Type: 104, ScaleFactor: 5, Multiplier: 1},   // sigma, high precision (*1e5)
	141: {Grib2Type: 108, ScaleFactor: 0, Multiplier: 1000}, // pressure difference, kPa -> Pa
}

// layerBase maps a GRIB1 aggregated (two-surface) level-type code to the
// single-surface code sharing its GRIB2 fixed-surface identity.
var layerBase = map[uint8]uint8{
	101: 100,
	102: 100,
	104: 103,
	106: 105,
	108: 107,
	110: 109,
	112: 111,
	114: 113,
	116: 115,
	120: 119,
}

var layerBaseReverse = map[uint8]uint8{
	100: 101,
	103: 104,
	105: 106,
	107: 108,
	109: 110,
	111: 112,
	113: 114,
	115: 116,
	119: 120,
}

// reverseLevelEntry is the inverse of levelEntry: it names the canonical
// GRIB1 level type a given GRIB2 fixed-surface type decodes to, plus the
// inverse value transform.
type reverseLevelEntry struct {
	Grib1Type   uint8
	ScaleFactor uint8
	Multiplier  float64 // grib1Level = scaledValue * 10^-ScaleFactor * Multiplier
}

var reverseLevelMap = map[uint8]reverseLevelEntry{
	100: {Grib1Type: 100, ScaleFactor: 0, Multiplier: 1.0 / 100},
	102: {Grib1Type: 103, ScaleFactor: 0, Multiplier: 1},
	103: {Grib1Type: 105, ScaleFactor: 0, Multiplier: 1},
	104: {Grib1Type: 107, ScaleFactor: 4, Multiplier: 1},
	105: {Grib1Type: 109, ScaleFactor: 0, Multiplier: 1},
	106: {Grib1Type: 111, ScaleFactor: 2, Multiplier: 1},
	107: {Grib1Type: 113, ScaleFactor: 0, Multiplier: 1},
	108: {Grib1Type: 115, ScaleFactor: 0, Multiplier: 1.0 / 100},
	109: {Grib1Type: 117, ScaleFactor: 0, Multiplier: 1},
	111: {Grib1Type: 119, ScaleFactor: 4, Multiplier: 1},
}

// ForwardLevel rewrites a GRIB1 (level_type, level1, level2) pair into a
// GRIB2 first/second fixed-surface description, splitting two-sided layers
// into independent first/second surfaces. secondType is 255 ("missing")
// for single-surface levels.
func ForwardLevel(levelType uint8, level1, level2 uint16) (firstType, firstScale uint8, firstValue uint32, secondType, secondScale uint8, secondValue uint32, err error) {
	if base, ok := layerBase[levelType]; ok {
		entry, known := singleLevelForward[base]
		if !known {
			return 0, 0, 0, 0, 0, 0, &codecerr.UnmappedLevel{Key: fmt.Sprintf("layer level_type=%d", levelType)}
		}
		firstValue = scaledValue(level1, entry)
		secondValue = scaledValue(level2, entry)
		return entry.Grib2Type, entry.ScaleFactor, firstValue, entry.Grib2Type, entry.ScaleFactor, secondValue, nil
	}

	entry, ok := singleLevelForward[levelType]
	if !ok {
		return 0, 0, 0, 0, 0, 0, &codecerr.UnmappedLevel{Key: fmt.Sprintf("level_type=%d", levelType)}
	}
	firstValue = scaledValue(level1, entry)
	return entry.Grib2Type, entry.ScaleFactor, firstValue, 255, 0, 0, nil
}

func scaledValue(level uint16, entry levelEntry) uint32 {
	return uint32(math.Round(float64(level) * entry.Multiplier))
}

// ReverseLevel rewrites a GRIB2 fixed-surface pair back into a GRIB1
// (level_type, level1, level2) triple. secondType == 255 selects the
// single-surface path. GRIB2 type 117 ("mixed layer depth") has no GRIB1
// equivalent and is fatal.
func ReverseLevel(firstType uint8, firstValue uint32, secondType uint8, secondValue uint32) (levelType uint8, level1, level2 uint16, err error) {
	if firstType == 117 {
		return 0, 0, 0, &codecerr.UnmappedLevel{Key: "grib2 fixed surface type 117 (mixed layer depth)"}
	}

	entry, ok := reverseLevelMap[firstType]
	if !ok {
		return 0, 0, 0, &codecerr.UnmappedLevel{Key: fmt.Sprintf("grib2 fixed surface type=%d", firstType)}
	}

	l1 := uint16(math.Round(float64(firstValue) * entry.Multiplier))

	if secondType == 255 {
		return entry.Grib1Type, l1, 0, nil
	}

	aggregated, ok := layerBaseReverse[entry.Grib1Type]
	if !ok {
		return 0, 0, 0, &codecerr.UnmappedLevel{Key: fmt.Sprintf("no layer pair for grib1 level_type=%d", entry.Grib1Type)}
	}
	l2 := uint16(math.Round(float64(secondValue) * entry.Multiplier))
	return aggregated, l1, l2, nil
}
