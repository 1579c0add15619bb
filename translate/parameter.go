// Package translate maps GRIB1 product/level/time-range fields onto their
// GRIB2 equivalents and back. The source material for both directions is
// branch-heavy dispatch on integer tuples with known fall-through bugs in
// its inner switches; this package replaces that with a
// flat map keyed directly by the tuple, so a missing entry is an explicit
// lookup miss rather than an accidental descent into the next case.
package translate

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/nimbus-grib/gribconv/codecerr"
)

// ParameterKey identifies a GRIB1 parameter within a table version and
// originating center.
type ParameterKey struct {
	TableVersion uint8
	Center       uint8
	Code         uint8
}

// Grib2Parameter is a GRIB2 discipline/category/number triple.
type Grib2Parameter struct {
	Discipline uint8
	Category   uint8
	Number     uint8
}

// reverseParameterKey identifies a GRIB2 parameter for the reverse
// direction; Center is consulted only for local-range numbers (192-254).
type reverseParameterKey struct {
	Discipline uint8
	Category   uint8
	Number     uint8
	Center     uint8
}

// parameterForward is the WMO table-2 subset (NCEP center 7 only) this
// codec round-trips; it is deliberately small rather than a
// full copy of every center's local table, matching the component's stated
// scope of "the mapping tables this codec exercises" rather than a
// complete WMO table mirror.
var parameterForward = map[ParameterKey]Grib2Parameter{
	{TableVersion: 2, Center: 7, Code: 11}:  {Discipline: 0, Category: 0, Number: 0},  // TMP
	{TableVersion: 2, Center: 7, Code: 17}:  {Discipline: 0, Category: 0, Number: 17}, // SKINT
	{TableVersion: 2, Center: 7, Code: 33}:  {Discipline: 0, Category: 2, Number: 2},  // UGRD
	{TableVersion: 2, Center: 7, Code: 34}:  {Discipline: 0, Category: 2, Number: 3},  // VGRD
	{TableVersion: 2, Center: 7, Code: 39}:  {Discipline: 0, Category: 2, Number: 8},  // VVEL
	{TableVersion: 2, Center: 7, Code: 52}:  {Discipline: 0, Category: 1, Number: 1},  // RH
	{TableVersion: 2, Center: 7, Code: 51}:  {Discipline: 0, Category: 1, Number: 0},  // SPFH
	{TableVersion: 2, Center: 7, Code: 61}:  {Discipline: 0, Category: 1, Number: 8},  // APCP
	{TableVersion: 2, Center: 7, Code: 65}:  {Discipline: 0, Category: 1, Number: 13}, // WEASD
	{TableVersion: 2, Center: 7, Code: 66}:  {Discipline: 0, Category: 1, Number: 11}, // SNOD
	{TableVersion: 2, Center: 7, Code: 1}:   {Discipline: 0, Category: 3, Number: 0},  // PRES
	{TableVersion: 2, Center: 7, Code: 2}:   {Discipline: 0, Category: 3, Number: 1},  // PRMSL
	{TableVersion: 2, Center: 7, Code: 7}:   {Discipline: 0, Category: 3, Number: 5},  // HGT
	{TableVersion: 2, Center: 7, Code: 15}:  {Discipline: 0, Category: 0, Number: 4},  // TMAX
	{TableVersion: 2, Center: 7, Code: 16}:  {Discipline: 0, Category: 0, Number: 5},  // TMIN
	{TableVersion: 2, Center: 7, Code: 71}:  {Discipline: 0, Category: 6, Number: 1},  // TCDC
	{TableVersion: 2, Center: 7, Code: 157}: {Discipline: 0, Category: 7, Number: 6},  // CAPE
}

var parameterReverse map[reverseParameterKey]ParameterKey

func init() {
	parameterReverse = make(map[reverseParameterKey]ParameterKey, len(parameterForward))
	for k, v := range parameterForward {
		parameterReverse[reverseParameterKey{
			Discipline: v.Discipline,
			Category:   v.Category,
			Number:     v.Number,
			Center:     k.Center,
		}] = k
	}
}

// ForwardParameter resolves a GRIB1 parameter to its GRIB2 triple. An
// unmapped key is non-fatal: it degrades to (255,255,255)
// and returns a wrapped codecerr.UnmappedParameter the caller can log and
// discard.
func ForwardParameter(key ParameterKey) (Grib2Parameter, error) {
	if p, ok := parameterForward[key]; ok {
		return p, nil
	}
	return Grib2Parameter{Discipline: 255, Category: 255, Number: 255},
		errors.Wrap(&codecerr.UnmappedParameter{Key: fmt.Sprintf("table=%d center=%d code=%d", key.TableVersion, key.Center, key.Code)}, "translate: forward parameter")
}

// ReverseParameter resolves a GRIB2 parameter triple (plus originating
// center, consulted only for local-range numbers) to its GRIB1
// (table_version, code) pair. An unmapped triple degrades to table 3, code
// 255, the documented default for an unmapped reverse lookup.
func ReverseParameter(discipline, category, number, center uint8) (tableVersion, code uint8, err error) {
	key := reverseParameterKey{Discipline: discipline, Category: category, Number: number, Center: center}
	if number >= 192 && number <= 254 {
		if p, ok := parameterReverse[key]; ok {
			return p.TableVersion, p.Code, nil
		}
	}

	// WMO-range numbers, and local numbers with no entry for this center,
	// resolve by discipline/category/number alone.
	for k, p := range parameterReverse {
		if k.Discipline == discipline && k.Category == category && k.Number == number {
			return p.TableVersion, p.Code, nil
		}
	}

	return 3, 255, errors.Wrap(&codecerr.UnmappedParameter{
		Key: fmt.Sprintf("discipline=%d category=%d number=%d center=%d", discipline, category, number, center),
	}, "translate: reverse parameter")
}

// knownCenters returns the sorted set of centers with at least one forward
// mapping, used by tests asserting table coverage.
func knownCenters() []uint8 {
	seen := map[uint8]bool{}
	for k := range parameterForward {
		seen[k.Center] = true
	}
	out := make([]uint8, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
