package translate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardTimeRangePointInTime(t *testing.T) {
	refTime := time.Date(2023, time.January, 31, 18, 0, 0, 0, time.UTC)
	result, err := ForwardTimeRange(0, 11, 6, 0, 1, refTime)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), result.Template)
}

func TestForwardTimeRangeAccumulationEndOfMonthRollover(t *testing.T) {
	refTime := time.Date(2023, time.January, 31, 18, 0, 0, 0, time.UTC)
	result, err := ForwardTimeRange(4, 61, 0, 6, 1, refTime)
	require.NoError(t, err)
	assert.Equal(t, uint16(8), result.Template)
	assert.Equal(t, ProcessAccumulation, result.StatisticalProcess)
	assert.Equal(t, uint32(6), result.RangeLength)
	assert.Equal(t, time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC), result.EndTime)
}

func TestForwardTimeRangeUnmappedIndicatorIsFatal(t *testing.T) {
	refTime := time.Now()
	_, err := ForwardTimeRange(99, 11, 0, 0, 1, refTime)
	require.Error(t, err)
}

func TestReverseTimeRangePointInTime(t *testing.T) {
	tRange, p1, p2, err := ReverseTimeRange(0, uint8(1), 6, 0, 0, 7, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, uint8(0), tRange)
	assert.Equal(t, uint8(6), p1)
	assert.Equal(t, uint8(0), p2)
}

func TestReverseTimeRangeAccumulation(t *testing.T) {
	refTime := time.Date(2023, time.January, 31, 18, 0, 0, 0, time.UTC)
	endTime := time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)
	tRange, p1, p2, err := ReverseTimeRange(8, 1, 0, 1, ProcessAccumulation, 7, refTime, endTime)
	require.NoError(t, err)
	assert.Equal(t, uint8(4), tRange)
	assert.Equal(t, uint8(0), p1)
	assert.Equal(t, uint8(6), p2)
}

func TestReverseTimeRangeCFSRMonthlyTwoRanges(t *testing.T) {
	refTime := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	endTime := time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)
	tRange, _, _, err := ReverseTimeRange(8, 2, 0, 2, 193, 7, refTime, endTime)
	require.NoError(t, err)
	assert.Equal(t, uint8(113), tRange)
}

func TestReverseTimeRangeCFSRTwoRangesRejectsNonNCEPCenter(t *testing.T) {
	refTime := time.Now()
	_, _, _, err := ReverseTimeRange(8, 2, 0, 2, 193, 74, refTime, refTime)
	require.Error(t, err)
}
