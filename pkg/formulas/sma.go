package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// MovingAverage calculates the Simple Moving Average for every point of series.
// Points inside the lookback window have no value and are returned as nil.
func MovingAverage(series []float64, length int) []*float64 {
	out := make([]*float64, len(series))
	if length <= 0 || len(series) < length {
		return out
	}

	sma := talib.Sma(series, length)
	for i := length - 1; i < len(sma) && i < len(series); i++ {
		if isNaN(sma[i]) {
			continue
		}
		v := sma[i]
		out[i] = &v
	}
	return out
}

func isNaN(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}
