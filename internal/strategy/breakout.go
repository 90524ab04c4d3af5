package strategy

import (
	"math"

	"github.com/quantframe-lab/quantframe/internal/indicator"
	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/quantframe-lab/quantframe/pkg/errors"
)

// generateBreakoutSignals emits BUY when the close breaks above the prior
// bar's rolling high channel and SELL when it breaks below the prior bar's
// rolling low channel. Comparing against the previous channel value keeps the
// current bar's own extreme from masking its breakout.
func generateBreakoutSignals(series types.PriceSeries, cfg types.StrategyConfig) ([]types.Signal, error) {
	params := cfg.Parameters
	if params.Period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"breakout period must be positive, got %d", params.Period)
	}

	closes := series.Closes()

	channel := indicator.BreakoutChannel(series.Highs(), series.Lows(), params.Period)
	if len(channel.Upper) < 2 {
		return []types.Signal{}, nil
	}

	offset := len(closes) - len(channel.Upper)

	signals := make([]types.Signal, 0)

	for i := 1; i < len(channel.Upper); i++ {
		price := closes[offset+i]

		brokeHigh := price > channel.Upper[i-1]
		brokeLow := price < channel.Lower[i-1]

		if !brokeHigh && !brokeLow {
			continue
		}

		barIndex, ok := delayedBarIndex(offset+i, params.SignalDelay, len(series.Bars))
		if !ok {
			continue
		}

		gap := 0.0

		if brokeHigh && channel.Upper[i-1] != 0 {
			gap = math.Abs(price-channel.Upper[i-1]) / channel.Upper[i-1]
		} else if brokeLow && channel.Lower[i-1] != 0 {
			gap = math.Abs(channel.Lower[i-1]-price) / channel.Lower[i-1]
		}

		signalType := types.SignalTypeBuy
		reason := "close broke above rolling high channel"

		if brokeLow {
			signalType = types.SignalTypeSell
			reason = "close broke below rolling low channel"
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
				"channel_high": channel.Upper[i-1],
				"channel_low":  channel.Lower[i-1],
			},
		})
	}

	return signals, nil
}
