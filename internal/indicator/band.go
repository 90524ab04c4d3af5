package indicator

import "math"

// Band is a mean-reversion band around a simple moving average. All three
// slices share the same warm-up-trimmed length.
type Band struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// MeanReversionBand computes middle = SMA(period) with upper/lower offset by
// width population standard deviations of the same trailing window.
func MeanReversionBand(values []float64, period int, width float64) Band {
	middle := SMA(values, period)
	if len(middle) == 0 {
		return Band{Upper: []float64{}, Middle: []float64{}, Lower: []float64{}}
	}

	upper := make([]float64, len(middle))
	lower := make([]float64, len(middle))

	for i := range middle {
		window := values[i : i+period]

		variance := 0.0
		for _, v := range window {
			diff := v - middle[i]
			variance += diff * diff
		}

		stdDev := math.Sqrt(variance / float64(period))
		upper[i] = middle[i] + width*stdDev
		lower[i] = middle[i] - width*stdDev
	}

	return Band{Upper: upper, Middle: middle, Lower: lower}
}

// Channel is a breakout channel of rolling extremes. Upper holds the highest
// high and Lower the lowest low of each trailing window.
type Channel struct {
	Upper []float64
	Lower []float64
}

// BreakoutChannel computes rolling max-of-highs and min-of-lows over the
// trailing period. Both slices are shorter than the input by period-1.
func BreakoutChannel(highs, lows []float64, period int) Channel {
	if period <= 0 || period >= len(highs) || len(highs) != len(lows) {
		return Channel{Upper: []float64{}, Lower: []float64{}}
	}

	n := len(highs) - period + 1
	upper := make([]float64, n)
	lower := make([]float64, n)

	for i := 0; i < n; i++ {
		maxHigh := highs[i]
		minLow := lows[i]

		for j := i + 1; j < i+period; j++ {
			if highs[j] > maxHigh {
				maxHigh = highs[j]
			}

			if lows[j] < minLow {
				minLow = lows[j]
			}
		}

		upper[i] = maxHigh
		lower[i] = minLow
	}

	return Channel{Upper: upper, Lower: lower}
}
