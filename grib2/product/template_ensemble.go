package product

import (
	"fmt"

	"github.com/nimbus-grib/gribconv/internal"
)

// Template41 represents Product Definition Template 4.1:
// Individual ensemble forecast, control and perturbed, at a horizontal
// level or in a horizontal layer at a point in time.
//
// Extends Template 4.0 with the three ensemble-identifying octets.
type Template41 struct {
	ParameterCategory            uint8
	ParameterNumber              uint8
	GeneratingProcess            uint8
	BackgroundProcess            uint8
	ForecastProcess              uint8
	HoursAfterCutoff             uint16
	MinutesAfterCutoff           uint8
	TimeRangeUnit                uint8
	ForecastTime                 uint32
	FirstSurfaceType             uint8
	FirstSurfaceScaleFactor      uint8
	FirstSurfaceValue            uint32
	SecondSurfaceType            uint8
	SecondSurfaceScaleFactor     uint8
	SecondSurfaceValue           uint32
	TypeOfEnsembleForecast       uint8 // Table 4.6
	PerturbationNumber           uint8
	NumberOfForecastsInEnsemble  uint8
}

// ParseTemplate41 parses Product Definition Template 4.1.
func ParseTemplate41(data []byte) (*Template41, error) {
	if len(data) < 28 {
		return nil, fmt.Errorf("template 4.1 requires at least 28 bytes, got %d", len(data))
	}
	r := internal.NewReader(data)

	t := &Template41{}
	t.ParameterCategory, _ = r.Uint8()
	t.ParameterNumber, _ = r.Uint8()
	t.GeneratingProcess, _ = r.Uint8()
	t.BackgroundProcess, _ = r.Uint8()
	t.ForecastProcess, _ = r.Uint8()
	t.HoursAfterCutoff, _ = r.Uint16()
	t.MinutesAfterCutoff, _ = r.Uint8()
	t.TimeRangeUnit, _ = r.Uint8()
	t.ForecastTime, _ = r.Uint32()
	t.FirstSurfaceType, _ = r.Uint8()
	t.FirstSurfaceScaleFactor, _ = r.Uint8()
	t.FirstSurfaceValue, _ = r.Uint32()
	t.SecondSurfaceType, _ = r.Uint8()
	t.SecondSurfaceScaleFactor, _ = r.Uint8()
	t.SecondSurfaceValue, _ = r.Uint32()
	t.TypeOfEnsembleForecast, _ = r.Uint8()
	t.PerturbationNumber, _ = r.Uint8()
	t.NumberOfForecastsInEnsemble, _ = r.Uint8()

	return t, nil
}

// TemplateNumber returns 1 for Template 4.1.
func (t *Template41) TemplateNumber() int { return 1 }

// GetParameterCategory returns the parameter category code.
func (t *Template41) GetParameterCategory() uint8 { return t.ParameterCategory }

// GetParameterNumber returns the parameter number code.
func (t *Template41) GetParameterNumber() uint8 { return t.ParameterNumber }

// String returns a human-readable description.
func (t *Template41) String() string {
	return fmt.Sprintf("Template 4.1: Category=%d, Parameter=%d, Ensemble Type=%d, Perturbation=%d",
		t.ParameterCategory, t.ParameterNumber, t.TypeOfEnsembleForecast, t.PerturbationNumber)
}

// Surface returns the type, scale factor, and value of the first fixed
// surface, satisfying the same horizontalLevel interface as Template40.
func (t *Template41) Surface() (surfaceType, scaleFactor uint8, value uint32) {
	return t.FirstSurfaceType, t.FirstSurfaceScaleFactor, t.FirstSurfaceValue
}

// Template42 represents Product Definition Template 4.2:
// Derived forecast based on all ensemble members at a horizontal level
// or in a horizontal layer at a point in time.
type Template42 struct {
	ParameterCategory           uint8
	ParameterNumber             uint8
	GeneratingProcess           uint8
	BackgroundProcess           uint8
	ForecastProcess             uint8
	HoursAfterCutoff            uint16
	MinutesAfterCutoff          uint8
	TimeRangeUnit               uint8
	ForecastTime                uint32
	FirstSurfaceType            uint8
	FirstSurfaceScaleFactor     uint8
	FirstSurfaceValue           uint32
	SecondSurfaceType           uint8
	SecondSurfaceScaleFactor    uint8
	SecondSurfaceValue          uint32
	DerivedForecastType         uint8 // Table 4.7
	NumberOfForecastsInEnsemble uint8
}

// ParseTemplate42 parses Product Definition Template 4.2.
func ParseTemplate42(data []byte) (*Template42, error) {
	if len(data) < 27 {
		return nil, fmt.Errorf("template 4.2 requires at least 27 bytes, got %d", len(data))
	}
	r := internal.NewReader(data)

	t := &Template42{}
	t.ParameterCategory, _ = r.Uint8()
	t.ParameterNumber, _ = r.Uint8()
	t.GeneratingProcess, _ = r.Uint8()
	t.BackgroundProcess, _ = r.Uint8()
	t.ForecastProcess, _ = r.Uint8()
	t.HoursAfterCutoff, _ = r.Uint16()
	t.MinutesAfterCutoff, _ = r.Uint8()
	t.TimeRangeUnit, _ = r.Uint8()
	t.ForecastTime, _ = r.Uint32()
	t.FirstSurfaceType, _ = r.Uint8()
	t.FirstSurfaceScaleFactor, _ = r.Uint8()
	t.FirstSurfaceValue, _ = r.Uint32()
	t.SecondSurfaceType, _ = r.Uint8()
	t.SecondSurfaceScaleFactor, _ = r.Uint8()
	t.SecondSurfaceValue, _ = r.Uint32()
	t.DerivedForecastType, _ = r.Uint8()
	t.NumberOfForecastsInEnsemble, _ = r.Uint8()

	return t, nil
}

// TemplateNumber returns 2 for Template 4.2.
func (t *Template42) TemplateNumber() int { return 2 }

// GetParameterCategory returns the parameter category code.
func (t *Template42) GetParameterCategory() uint8 { return t.ParameterCategory }

// GetParameterNumber returns the parameter number code.
func (t *Template42) GetParameterNumber() uint8 { return t.ParameterNumber }

// String returns a human-readable description.
func (t *Template42) String() string {
	return fmt.Sprintf("Template 4.2: Category=%d, Parameter=%d, Derived Type=%d",
		t.ParameterCategory, t.ParameterNumber, t.DerivedForecastType)
}

// Surface returns the type, scale factor, and value of the first fixed
// surface, satisfying the same horizontalLevel interface as Template40.
func (t *Template42) Surface() (surfaceType, scaleFactor uint8, value uint32) {
	return t.FirstSurfaceType, t.FirstSurfaceScaleFactor, t.FirstSurfaceValue
}

// Template411 represents Product Definition Template 4.11: individual
// ensemble forecast, statistically processed over a time interval.
//
// Layout is Template 4.1 followed by the Template 4.8 statistical tail
// (end-of-interval date plus time range specifications).
type Template411 struct {
	Template41
	EndYear                    uint16
	EndMonth                   uint8
	EndDay                     uint8
	EndHour                    uint8
	EndMinute                  uint8
	EndSecond                  uint8
	NumberOfTimeRanges         uint8
	NumberMissingInStatProcess uint32
	TimeRanges                 []StatisticalTimeRange
}

// ParseTemplate411 parses Product Definition Template 4.11.
func ParseTemplate411(data []byte) (*Template411, error) {
	if len(data) < 40 {
		return nil, fmt.Errorf("template 4.11 requires at least 40 bytes, got %d", len(data))
	}
	base, err := ParseTemplate41(data[:28])
	if err != nil {
		return nil, err
	}

	r := internal.NewReader(data[28:])
	endYear, _ := r.Uint16()
	endMonth, _ := r.Uint8()
	endDay, _ := r.Uint8()
	endHour, _ := r.Uint8()
	endMinute, _ := r.Uint8()
	endSecond, _ := r.Uint8()
	numTimeRanges, _ := r.Uint8()
	numMissing, _ := r.Uint32()

	expectedLen := 40 + int(numTimeRanges)*12
	if len(data) < expectedLen {
		return nil, fmt.Errorf("template 4.11 with %d time ranges requires %d bytes, got %d",
			numTimeRanges, expectedLen, len(data))
	}

	timeRanges, err := parseStatisticalTimeRanges(r, numTimeRanges)
	if err != nil {
		return nil, err
	}

	return &Template411{
		Template41:                 *base,
		EndYear:                    endYear,
		EndMonth:                   endMonth,
		EndDay:                     endDay,
		EndHour:                    endHour,
		EndMinute:                  endMinute,
		EndSecond:                  endSecond,
		NumberOfTimeRanges:         numTimeRanges,
		NumberMissingInStatProcess: numMissing,
		TimeRanges:                 timeRanges,
	}, nil
}

// TemplateNumber returns 11 for Template 4.11.
func (t *Template411) TemplateNumber() int { return 11 }

// String returns a human-readable description.
func (t *Template411) String() string {
	return fmt.Sprintf("Template 4.11: Category=%d, Parameter=%d, Perturbation=%d, Time Ranges=%d",
		t.ParameterCategory, t.ParameterNumber, t.PerturbationNumber, t.NumberOfTimeRanges)
}

// Template412 represents Product Definition Template 4.12: derived
// ensemble forecast, statistically processed over a time interval.
//
// Layout is Template 4.2 followed by the Template 4.8 statistical tail.
type Template412 struct {
	Template42
	EndYear                    uint16
	EndMonth                   uint8
	EndDay                     uint8
	EndHour                    uint8
	EndMinute                  uint8
	EndSecond                  uint8
	NumberOfTimeRanges         uint8
	NumberMissingInStatProcess uint32
	TimeRanges                 []StatisticalTimeRange
}

// ParseTemplate412 parses Product Definition Template 4.12.
func ParseTemplate412(data []byte) (*Template412, error) {
	if len(data) < 39 {
		return nil, fmt.Errorf("template 4.12 requires at least 39 bytes, got %d", len(data))
	}
	base, err := ParseTemplate42(data[:27])
	if err != nil {
		return nil, err
	}

	r := internal.NewReader(data[27:])
	endYear, _ := r.Uint16()
	endMonth, _ := r.Uint8()
	endDay, _ := r.Uint8()
	endHour, _ := r.Uint8()
	endMinute, _ := r.Uint8()
	endSecond, _ := r.Uint8()
	numTimeRanges, _ := r.Uint8()
	numMissing, _ := r.Uint32()

	expectedLen := 39 + int(numTimeRanges)*12
	if len(data) < expectedLen {
		return nil, fmt.Errorf("template 4.12 with %d time ranges requires %d bytes, got %d",
			numTimeRanges, expectedLen, len(data))
	}

	timeRanges, err := parseStatisticalTimeRanges(r, numTimeRanges)
	if err != nil {
		return nil, err
	}

	return &Template412{
		Template42:                 *base,
		EndYear:                    endYear,
		EndMonth:                   endMonth,
		EndDay:                     endDay,
		EndHour:                    endHour,
		EndMinute:                  endMinute,
		EndSecond:                  endSecond,
		NumberOfTimeRanges:         numTimeRanges,
		NumberMissingInStatProcess: numMissing,
		TimeRanges:                 timeRanges,
	}, nil
}

// TemplateNumber returns 12 for Template 4.12.
func (t *Template412) TemplateNumber() int { return 12 }

// String returns a human-readable description.
func (t *Template412) String() string {
	return fmt.Sprintf("Template 4.12: Category=%d, Parameter=%d, Derived Type=%d, Time Ranges=%d",
		t.ParameterCategory, t.ParameterNumber, t.DerivedForecastType, t.NumberOfTimeRanges)
}

// parseStatisticalTimeRanges reads n 12-byte statistical time range
// specifications, shared by Templates 4.8, 4.11, and 4.12.
func parseStatisticalTimeRanges(r *internal.Reader, n uint8) ([]StatisticalTimeRange, error) {
	ranges := make([]StatisticalTimeRange, n)
	for i := uint8(0); i < n; i++ {
		statProcess, _ := r.Uint8()
		timeIncrType, _ := r.Uint8()
		timeRangeUnit, _ := r.Uint8()
		timeRangeLen, _ := r.Uint32()
		timeIncrUnit, _ := r.Uint8()
		timeIncr, _ := r.Uint32()

		ranges[i] = StatisticalTimeRange{
			StatisticalProcess: statProcess,
			TimeIncrementType:  timeIncrType,
			TimeRangeUnit:      timeRangeUnit,
			TimeRangeLength:    timeRangeLen,
			TimeIncrementUnit:  timeIncrUnit,
			TimeIncrement:      timeIncr,
		}
	}
	return ranges, nil
}
