package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardLevelSingleSurface(t *testing.T) {
	firstType, firstScale, firstValue, secondType, secondScale, secondValue, err := ForwardLevel(100, 500, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(100), firstType)
	assert.Equal(t, uint8(0), firstScale)
	assert.Equal(t, uint32(50000), firstValue) // hPa -> Pa
	assert.Equal(t, uint8(255), secondType)
	assert.Equal(t, uint8(0), secondScale)
	assert.Equal(t, uint32(0), secondValue)
}

func TestForwardLevelTwoSidedLayerSplitsIntoBothSurfaces(t *testing.T) {
	firstType, _, firstValue, secondType, _, secondValue, err := ForwardLevel(101, 1000, 900)
	require.NoError(t, err)
	assert.Equal(t, uint8(100), firstType)
	assert.Equal(t, uint8(100), secondType)
	assert.Equal(t, uint32(100000), firstValue)
	assert.Equal(t, uint32(90000), secondValue)
}

func TestForwardLevelUnmappedTypeIsFatal(t *testing.T) {
	_, _, _, _, _, _, err := ForwardLevel(200, 1, 0)
	require.Error(t, err)
}

func TestReverseLevelSingleSurface(t *testing.T) {
	levelType, l1, l2, err := ReverseLevel(100, 50000, 255, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(100), levelType)
	assert.Equal(t, uint16(500), l1)
	assert.Equal(t, uint16(0), l2)
}

func TestReverseLevelTwoSidedLayer(t *testing.T) {
	levelType, l1, l2, err := ReverseLevel(100, 100000, 100, 90000)
	require.NoError(t, err)
	assert.Equal(t, uint8(101), levelType)
	assert.Equal(t, uint16(1000), l1)
	assert.Equal(t, uint16(900), l2)
}

func TestReverseLevelType117IsFatal(t *testing.T) {
	_, _, _, err := ReverseLevel(117, 0, 255, 0)
	require.Error(t, err)
}
