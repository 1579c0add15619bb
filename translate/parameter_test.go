package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardParameterKnownCode(t *testing.T) {
	p, err := ForwardParameter(ParameterKey{TableVersion: 2, Center: 7, Code: 11})
	require.NoError(t, err)
	assert.Equal(t, Grib2Parameter{Discipline: 0, Category: 0, Number: 0}, p)
}

func TestForwardParameterUnknownCodeDegradesTo255(t *testing.T) {
	p, err := ForwardParameter(ParameterKey{TableVersion: 2, Center: 7, Code: 250})
	require.Error(t, err)
	assert.Equal(t, Grib2Parameter{Discipline: 255, Category: 255, Number: 255}, p)
}

func TestReverseParameterKnownTriple(t *testing.T) {
	table, code, err := ReverseParameter(0, 0, 0, 7)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), table)
	assert.Equal(t, uint8(11), code)
}

func TestReverseParameterUnknownTripleDegradesToTable3Code255(t *testing.T) {
	table, code, err := ReverseParameter(9, 9, 9, 7)
	require.Error(t, err)
	assert.Equal(t, uint8(3), table)
	assert.Equal(t, uint8(255), code)
}

func TestKnownCentersIncludesNCEP(t *testing.T) {
	assert.Contains(t, knownCenters(), uint8(7))
}
