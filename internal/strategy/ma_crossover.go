package strategy

import (
	"fmt"
	"math"

	"github.com/quantframe-lab/quantframe/internal/indicator"
	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/quantframe-lab/quantframe/pkg/errors"
)

// generateCrossoverSignals emits BUY when the short MA crosses from at-or-below
// to above the long MA and SELL on the mirror crossing. Both averages are
// tail-aligned before comparison so that different warm-up lengths line up on
// the most recent bars.
func generateCrossoverSignals(series types.PriceSeries, cfg types.StrategyConfig) ([]types.Signal, error) {
	params := cfg.Parameters
	if params.ShortPeriod <= 0 || params.LongPeriod <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"crossover periods must be positive, got short=%d long=%d",
			params.ShortPeriod, params.LongPeriod)
	}

	if params.ShortPeriod >= params.LongPeriod {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"short period %d must be less than long period %d",
			params.ShortPeriod, params.LongPeriod)
	}

	closes := series.Closes()

	var shortMA, longMA []float64

	switch params.MAKind {
	case types.MAKindExponential:
		shortMA = indicator.EMA(closes, params.ShortPeriod)
		longMA = indicator.EMA(closes, params.LongPeriod)
	case types.MAKindSimple, "":
		shortMA = indicator.SMA(closes, params.ShortPeriod)
		longMA = indicator.SMA(closes, params.LongPeriod)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"unknown moving average kind: %s", params.MAKind)
	}

	shortMA, longMA = indicator.TailAlign(shortMA, longMA)
	if len(shortMA) < 2 {
		// Warm-up consumed the series; no signal is not a fault.
		return []types.Signal{}, nil
	}

	// Aligned index 0 corresponds to this bar offset in the series.
	offset := len(closes) - len(shortMA)

	signals := make([]types.Signal, 0)

	for i := 1; i < len(shortMA); i++ {
		bullish := shortMA[i] > longMA[i] && shortMA[i-1] <= longMA[i-1]
		bearish := shortMA[i] < longMA[i] && shortMA[i-1] >= longMA[i-1]

		if !bullish && !bearish {
			continue
		}

		barIndex, ok := delayedBarIndex(offset+i, params.SignalDelay, len(series.Bars))
		if !ok {
			continue
		}

		gap := 0.0
		if longMA[i] != 0 {
			gap = math.Abs(shortMA[i]-longMA[i]) / longMA[i]
		}

		signalType := types.SignalTypeBuy
		reason := fmt.Sprintf("short MA(%d) crossed above long MA(%d)", params.ShortPeriod, params.LongPeriod)

		if bearish {
			signalType = types.SignalTypeSell
			reason = fmt.Sprintf("short MA(%d) crossed below long MA(%d)", params.ShortPeriod, params.LongPeriod)
		}

		bar := series.Bars[barIndex]
		signals = append(signals, types.Signal{
			Time:       bar.Date,
			Type:       signalType,
			Strength:   classifyStrength(gap),
			Price:      bar.Close,
			Confidence: confidence(gap),
			Symbol:     series.Symbol,
			Reason:     reason,
			Indicators: map[string]float64{
				"short_ma": shortMA[i],
				"long_ma":  longMA[i],
			},
		})
	}

	return signals, nil
}
