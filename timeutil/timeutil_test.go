package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDurationMonthRollover(t *testing.T) {
	ref := time.Date(2023, time.January, 31, 18, 0, 0, 0, time.UTC)

	got, err := AddDuration(ref, 6, UnitHour)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestAddDurationMinutes(t *testing.T) {
	ref := time.Date(2023, time.June, 1, 0, 45, 0, 0, time.UTC)

	got, err := AddDuration(ref, 30, UnitMinute)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.June, 1, 1, 15, 0, 0, time.UTC), got)
}

func TestAddDurationDays(t *testing.T) {
	ref := time.Date(2023, time.December, 30, 12, 0, 0, 0, time.UTC)

	got, err := AddDuration(ref, 3, UnitDay)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 2, 12, 0, 0, 0, time.UTC), got)
}

func TestAddDurationUnsupportedUnit(t *testing.T) {
	_, err := AddDuration(time.Now(), 1, 99)
	require.Error(t, err)
}
