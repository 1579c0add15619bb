package grib2

import (
	"testing"

	"github.com/nimbus-grib/gribconv/grib2/grid"
)

// TestEncodeGaussianGridAliasesLatin1IntoN pins the Template 40 wire layout
// documented on GridSpec: the octet group WMO assigns to "N" is filled from
// Latin1, not a dedicated N field, because the translator writes a GRIB1
// grid's GaussianN into GridSpec.Latin1 before this function ever sees it.
// A decoder reading the same octets back must therefore see Latin1's value
// show up as N.
func TestEncodeGaussianGridAliasesLatin1IntoN(t *testing.T) {
	spec := &GridSpec{
		Template:     40,
		Ni:           144,
		Nj:           73,
		La1:          90_000_000,
		Lo1:          0,
		La2:          -90_000_000,
		Lo2:          357_500_000,
		Di:           2_500_000,
		Latin1:       48, // stands in for GaussianN, per the aliasing this test pins
		ScanningMode: 0,
	}

	templateNumber, body, err := encodeGridDefinition(spec)
	if err != nil {
		t.Fatalf("encodeGridDefinition: %v", err)
	}
	if templateNumber != 40 {
		t.Fatalf("templateNumber = %d, want 40", templateNumber)
	}

	decoded, err := grid.ParseGaussianGrid(body)
	if err != nil {
		t.Fatalf("ParseGaussianGrid: %v", err)
	}

	if decoded.N != uint32(spec.Latin1) {
		t.Fatalf("decoded.N = %d, want %d (GridSpec.Latin1)", decoded.N, spec.Latin1)
	}
	if decoded.Ni != spec.Ni || decoded.Nj != spec.Nj {
		t.Fatalf("decoded grid shape = %dx%d, want %dx%d", decoded.Ni, decoded.Nj, spec.Ni, spec.Nj)
	}
}

// TestEncodeLatLonGridDoesNotAliasDj confirms Template 0 writes Dj in the
// same octets Template 40 repurposes for Latin1/N, so the aliasing above is
// specific to Template 40 and does not corrupt the ordinary Lat/Lon case.
func TestEncodeLatLonGridDoesNotAliasDj(t *testing.T) {
	spec := &GridSpec{
		Template: 0,
		Ni:       4, Nj: 3,
		La1: 90_000_000, Lo1: 0,
		La2: -90_000_000, Lo2: 270_000_000,
		Di: 90_000_000, Dj: 60_000_000,
	}

	_, body, err := encodeGridDefinition(spec)
	if err != nil {
		t.Fatalf("encodeGridDefinition: %v", err)
	}

	decoded, err := grid.ParseLatLonGrid(body)
	if err != nil {
		t.Fatalf("ParseLatLonGrid: %v", err)
	}
	if decoded.Dj != spec.Dj {
		t.Fatalf("decoded.Dj = %d, want %d", decoded.Dj, spec.Dj)
	}
}
