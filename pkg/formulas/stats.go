// Package formulas holds small numeric helpers shared by the calculators.
package formulas

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values.
// An empty slice yields 0.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Sum adds up a slice of float64 values
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Sum(data)
}

// Cumulative returns the running total of data
func Cumulative(data []float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	if len(out) > 0 {
		floats.CumSum(out, out)
	}
	return out
}

// RoundTo rounds v to the given number of decimal places, half away from zero.
// Decimal arithmetic keeps values like 1.005 from drifting down to 1.00.
func RoundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
