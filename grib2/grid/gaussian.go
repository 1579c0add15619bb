package grid

import (
	"fmt"

	"github.com/nimbus-grib/gribconv/internal"
)

// GaussianGrid represents Grid Definition Template 3.40: Gaussian
// Latitude/Longitude.
//
// Points are evenly spaced in longitude but fall on the roots of an
// unassociated Legendre polynomial in latitude, so two grids with the
// same Nj can still disagree point-for-point unless N also matches.
type GaussianGrid struct {
	Ni           uint32 // Number of points along a parallel (longitude)
	Nj           uint32 // Number of points along a meridian (latitude)
	La1          int32  // Latitude of first grid point (micro-degrees)
	Lo1          int32  // Longitude of first grid point (micro-degrees)
	ResFlags     uint8  // Resolution and component flags
	La2          int32  // Latitude of last grid point (micro-degrees)
	Lo2          int32  // Longitude of last grid point (micro-degrees)
	Di           uint32 // i direction increment (micro-degrees)
	N            uint32 // Parallels between a pole and the equator
	ScanningMode uint8  // Scanning mode (Table 3.4)
}

// ParseGaussianGrid parses a Gaussian Lat/Lon grid from template data
// (Template 3.40).
//
// The field layout matches Template 3.0 with the j-direction increment
// octets replaced by N, the count of parallels between a pole and the
// equator.
func ParseGaussianGrid(data []byte) (*GaussianGrid, error) {
	if len(data) < 72 {
		return nil, fmt.Errorf("template 3.40 requires at least 72 bytes, got %d", len(data))
	}

	r := internal.NewReader(data)

	// Skip shape of earth (1 byte) and related parameters (15 bytes)
	r.Skip(16)

	ni, _ := r.Uint32()
	nj, _ := r.Uint32()

	// Skip basic angle and subdivisions (8 bytes)
	r.Skip(8)

	la1, _ := r.Int32()
	lo1, _ := r.Int32()
	resFlags, _ := r.Uint8()
	la2, _ := r.Int32()
	lo2, _ := r.Int32()
	di, _ := r.Uint32()
	n, _ := r.Uint32()
	scanningMode, _ := r.Uint8()

	return &GaussianGrid{
		Ni:           ni,
		Nj:           nj,
		La1:          la1,
		Lo1:          lo1,
		ResFlags:     resFlags,
		La2:          la2,
		Lo2:          lo2,
		Di:           di,
		N:            n,
		ScanningMode: scanningMode,
	}, nil
}

// TemplateNumber returns 40 for Gaussian grids.
func (g *GaussianGrid) TemplateNumber() int {
	return 40
}

// GridType returns "Gaussian".
func (g *GaussianGrid) GridType() string {
	return "Gaussian"
}

// NumPoints returns the total number of grid points.
func (g *GaussianGrid) NumPoints() int {
	return int(g.Ni * g.Nj)
}

// String returns a human-readable description of the grid.
func (g *GaussianGrid) String() string {
	return fmt.Sprintf("Gaussian grid: %d x %d points, N=%d, (%.6f°, %.6f°) to (%.6f°, %.6f°)",
		g.Ni, g.Nj, g.N,
		float64(g.La1)/1e6, float64(g.Lo1)/1e6,
		float64(g.La2)/1e6, float64(g.Lo2)/1e6)
}

// FirstGridPoint returns the latitude and longitude of the first grid point in degrees.
func (g *GaussianGrid) FirstGridPoint() (lat, lon float64) {
	return float64(g.La1) / 1e6, float64(g.Lo1) / 1e6
}

// LastGridPoint returns the latitude and longitude of the last grid point in degrees.
func (g *GaussianGrid) LastGridPoint() (lat, lon float64) {
	return float64(g.La2) / 1e6, float64(g.Lo2) / 1e6
}

// ScanningFlags returns the scanning mode flags as individual booleans.
func (g *GaussianGrid) ScanningFlags() (iNegative, jPositive, consecutive bool) {
	iNegative = (g.ScanningMode & 0x80) != 0
	jPositive = (g.ScanningMode & 0x40) != 0
	consecutive = (g.ScanningMode & 0x20) == 0
	return
}
