package product

import (
	"fmt"

	"github.com/nimbus-grib/gribconv/internal"
)

// Template415 represents Product Definition Template 4.15:
// Average, accumulation, extreme values, or other statistically
// processed values over a spatial area at a horizontal level or in a
// horizontal layer at a point in time.
//
// Unlike Template 4.8, the statistical process here is applied across
// neighboring grid points rather than across a time interval.
type Template415 struct {
	Template40
	StatisticalProcess          uint8  // Table 4.10
	SpatialProcessingType       uint8  // Table 4.15
	NumberOfPointsForProcessing uint32
}

// ParseTemplate415 parses Product Definition Template 4.15.
func ParseTemplate415(data []byte) (*Template415, error) {
	if len(data) < 31 {
		return nil, fmt.Errorf("template 4.15 requires at least 31 bytes, got %d", len(data))
	}
	base, err := ParseTemplate40(data[:25])
	if err != nil {
		return nil, err
	}

	r := internal.NewReader(data[25:])
	statProcess, _ := r.Uint8()
	spatialType, _ := r.Uint8()
	numPoints, _ := r.Uint32()

	return &Template415{
		Template40:                  *base,
		StatisticalProcess:          statProcess,
		SpatialProcessingType:       spatialType,
		NumberOfPointsForProcessing: numPoints,
	}, nil
}

// TemplateNumber returns 15 for Template 4.15.
func (t *Template415) TemplateNumber() int { return 15 }

// String returns a human-readable description.
func (t *Template415) String() string {
	return fmt.Sprintf("Template 4.15: Category=%d, Parameter=%d, Statistical Process=%d, Points=%d",
		t.ParameterCategory, t.ParameterNumber, t.StatisticalProcess, t.NumberOfPointsForProcessing)
}
