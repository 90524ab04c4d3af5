// Package indicator provides pure moving-average, band, and channel
// computations over price slices. Every function returns a freshly allocated
// slice and never mutates its input; a lookback of at least the input length
// yields an empty result, which callers must treat as "no signal" rather than
// a fault.
package indicator

// SMA computes the simple moving average of the trailing period values.
// The result is shorter than the input by period-1 elements: the warm-up
// window produces no value. An empty slice is returned when period is not
// positive or is at least the input length.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || period >= len(values) {
		return []float64{}
	}

	result := make([]float64, 0, len(values)-period+1)

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			result = append(result, sum/float64(period))
		}
	}

	return result
}

// EMA computes the exponential moving average with smoothing factor
// alpha = 2/(period+1), seeded with the SMA of the first period values.
// Output length and warm-up behavior match SMA.
func EMA(values []float64, period int) []float64 {
	if period <= 0 || period >= len(values) {
		return []float64{}
	}

	result := make([]float64, 0, len(values)-period+1)

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}

	seed /= float64(period)
	result = append(result, seed)

	alpha := 2.0 / float64(period+1)

	ema := seed
	for i := period; i < len(values); i++ {
		ema = values[i]*alpha + ema*(1-alpha)
		result = append(result, ema)
	}

	return result
}

// TailAlign truncates both series to the shorter of the two lengths, anchored
// at the most recent values, so indicators with different warm-ups can be
// compared element-wise.
func TailAlign(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	return a[len(a)-n:], b[len(b)-n:]
}
