package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-9)
}

func TestSumAndCumulative(t *testing.T) {
	assert.Equal(t, 0.0, Sum(nil))
	assert.InDelta(t, 190.0, Sum([]float64{550, -360}), 1e-9)

	in := []float64{10, -5, 20}
	out := Cumulative(in)
	assert.Equal(t, []float64{10, 5, 25}, out)
	assert.Equal(t, []float64{10, -5, 20}, in, "input must not be modified")
	assert.Empty(t, Cumulative(nil))
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{1.0, 1.0},
		{0.333333, 0.33},
		{1.005, 1.01},
		{0.125, 0.13},
		{2.994, 2.99},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, RoundTo(tc.in, 2), "RoundTo(%v)", tc.in)
	}
}

func TestMovingAverage(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5}
	ma := MovingAverage(series, 3)
	require.Len(t, ma, 5)
	assert.Nil(t, ma[0])
	assert.Nil(t, ma[1])
	require.NotNil(t, ma[2])
	assert.InDelta(t, 2.0, *ma[2], 1e-9)
	assert.InDelta(t, 4.0, *ma[4], 1e-9)

	short := MovingAverage([]float64{1}, 3)
	require.Len(t, short, 1)
	assert.Nil(t, short[0])
}
