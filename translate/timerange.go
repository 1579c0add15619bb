package translate

import (
	"fmt"
	"time"

	"github.com/nimbus-grib/gribconv/codecerr"
	"github.com/nimbus-grib/gribconv/timeutil"
)

// Statistical process codes (GRIB2 Table 4.10), the subset this codec maps.
const (
	ProcessAverage     uint8 = 0
	ProcessAccumulation uint8 = 1
	ProcessMaximum     uint8 = 2
	ProcessMinimum     uint8 = 3
	ProcessDifference  uint8 = 4
)

// ForwardStatisticalProcess derives the GRIB2 statistical-process code for
// a GRIB1 (t_range, parameter) pair. t_range=4 always
// means accumulation; otherwise the process is inferred from the parameter
// code (15 = max temperature, 16 = min temperature); anything else fails.
func ForwardStatisticalProcess(tRange, parameter uint8) (uint8, error) {
	switch {
	case tRange == 4:
		return ProcessAccumulation, nil
	case parameter == 15:
		return ProcessMaximum, nil
	case parameter == 16:
		return ProcessMinimum, nil
	default:
		return 0, &codecerr.UnmappedProcess{Key: fmt.Sprintf("t_range=%d parameter=%d", tRange, parameter)}
	}
}

// ForwardTimeRange reports whether the GRIB1 time-range indicator maps to
// PDS template 0 (point-in-time) or template 8 (statistically processed),
// and for template 8 computes the single statistical range plus its
// end-of-aggregation time.
type ForwardTimeRangeResult struct {
	Template           uint16 // 0 or 8
	StatisticalProcess uint8
	RangeLength        uint32
	EndTime            time.Time
}

// ForwardTimeRange maps GRIB1's time-range indicator onto a GRIB2 product
// template: t_range ∈
// {0, 1, 10} is a point-in-time field (template 0); t_range ∈ {2, 3, 4}
// statistically processes over [P1, P2] (template 8, single range).
func ForwardTimeRange(tRange uint8, parameter uint8, p1, p2 uint8, fcstUnit uint8, refTime time.Time) (ForwardTimeRangeResult, error) {
	switch tRange {
	case 0, 1, 10:
		return ForwardTimeRangeResult{Template: 0}, nil

	case 2, 3, 4:
		process, err := ForwardStatisticalProcess(tRange, parameter)
		if err != nil {
			return ForwardTimeRangeResult{}, err
		}
		endTime, err := timeutil.AddDuration(refTime, int(p2), int(fcstUnit))
		if err != nil {
			return ForwardTimeRangeResult{}, fmt.Errorf("translate: time-range end time: %w", err)
		}
		length := uint32(p2) - uint32(p1)
		return ForwardTimeRangeResult{
			Template:           8,
			StatisticalProcess: process,
			RangeLength:        length,
			EndTime:            endTime,
		}, nil

	default:
		return ForwardTimeRangeResult{}, &codecerr.UnmappedProcess{Key: fmt.Sprintf("t_range=%d", tRange)}
	}
}

// The cfsr* constants describe the NCEP CFSR local convention (center 7, two
// statistical ranges) mapping statistical process codes 193..207 onto
// GRIB1 time-range-indicator codes 113..140.
const (
	cfsrProcessLow  = 193
	cfsrProcessHigh = 207
	cfsrTRangeLow   = 113
)

// ReverseTimeRange maps a GRIB2 product template and statistical process
// back onto a GRIB1 time-range indicator and P1/P2 pair.
// pdsTemplate selects the dispatch branch; for templates 8/11/12 with a
// single range, processCode picks the GRIB1 time-range-indicator code;
// with two ranges under center 7 (NCEP CFSR monthly), the explicit
// 193..207 -> 113..140 table applies. endTime/refTime are only consulted
// for the statistically-processed templates.
func ReverseTimeRange(pdsTemplate uint16, timeUnit uint8, forecastTime uint32, numRanges int, processCode uint8, center uint8, refTime, endTime time.Time) (tRange uint8, p1, p2 uint8, err error) {
	switch pdsTemplate {
	case 0, 1, 2, 15:
		if timeUnit == uint8(timeutil.UnitMinute) {
			tRange = 10
		} else {
			tRange = 0
		}
		return tRange, uint8(forecastTime), 0, nil

	case 8, 11, 12:
		p1 = uint8(forecastTime)

		if numRanges == 2 {
			if center != 7 {
				return 0, 0, 0, &codecerr.UnmappedProcess{Key: fmt.Sprintf("num_ranges=2 center=%d (only NCEP CFSR monthly is mapped)", center)}
			}
			if processCode < cfsrProcessLow || processCode > cfsrProcessHigh {
				return 0, 0, 0, &codecerr.UnmappedProcess{Key: fmt.Sprintf("cfsr process code=%d out of range", processCode)}
			}
			tRange = cfsrTRangeLow + (processCode - cfsrProcessLow)
			p2 = p2FromDuration(refTime, endTime, timeUnit)
			return tRange, p1, p2, nil
		}

		if numRanges != 1 {
			return 0, 0, 0, &codecerr.UnmappedProcess{Key: fmt.Sprintf("num_ranges=%d unsupported", numRanges)}
		}

		switch processCode {
		case ProcessAverage:
			tRange = 3
		case ProcessAccumulation:
			tRange = 4
		case ProcessDifference:
			tRange = 5
		case ProcessMaximum, ProcessMinimum:
			tRange = 2
		default:
			return 0, 0, 0, &codecerr.UnmappedProcess{Key: fmt.Sprintf("statistical process code=%d", processCode)}
		}
		p2 = p2FromDuration(refTime, endTime, timeUnit)
		return tRange, p1, p2, nil

	default:
		return 0, 0, 0, &codecerr.UnmappedProcess{Key: fmt.Sprintf("pds_template=%d", pdsTemplate)}
	}
}

func p2FromDuration(refTime, endTime time.Time, unit uint8) uint8 {
	d := endTime.Sub(refTime)
	switch unit {
	case uint8(timeutil.UnitMinute):
		return uint8(d.Minutes())
	case uint8(timeutil.UnitDay):
		return uint8(d.Hours() / 24)
	default:
		return uint8(d.Hours())
	}
}
