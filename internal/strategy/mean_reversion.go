package strategy

import (
	"fmt"
	"math"

	"github.com/quantframe-lab/quantframe/internal/indicator"
	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/quantframe-lab/quantframe/pkg/errors"
)

// defaultBandWidth is used when the configuration leaves the width unset.
const defaultBandWidth = 2.0

// generateMeanReversionSignals emits BUY when the close crosses from at-or-above
// to below the lower band (expecting reversion to the mean) and SELL when it
// crosses from at-or-below to above the upper band.
func generateMeanReversionSignals(series types.PriceSeries, cfg types.StrategyConfig) ([]types.Signal, error) {
	params := cfg.Parameters
	if params.Period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"mean reversion period must be positive, got %d", params.Period)
	}

	width := params.BandWidth
	if width <= 0 {
		width = defaultBandWidth
	}

	closes := series.Closes()

	band := indicator.MeanReversionBand(closes, params.Period, width)
	if len(band.Middle) < 2 {
		return []types.Signal{}, nil
	}

	offset := len(closes) - len(band.Middle)

	signals := make([]types.Signal, 0)

	for i := 1; i < len(band.Middle); i++ {
		price := closes[offset+i]
		prevPrice := closes[offset+i-1]

		crossedBelow := price < band.Lower[i] && prevPrice >= band.Lower[i-1]
		crossedAbove := price > band.Upper[i] && prevPrice <= band.Upper[i-1]

		if !crossedBelow && !crossedAbove {
			continue
		}

		barIndex, ok := delayedBarIndex(offset+i, params.SignalDelay, len(series.Bars))
		if !ok {
			continue
		}

		gap := 0.0
		if band.Middle[i] != 0 {
			if crossedBelow {
				gap = math.Abs(band.Lower[i]-price) / band.Middle[i]
			} else {
				gap = math.Abs(price-band.Upper[i]) / band.Middle[i]
			}
		}

		signalType := types.SignalTypeBuy
		reason := fmt.Sprintf("close crossed below %.1f-sigma lower band", width)

		if crossedAbove {
			signalType = types.SignalTypeSell
			reason = fmt.Sprintf("close crossed above %.1f-sigma upper band", width)
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
				"upper_band": band.Upper[i],
				"middle":     band.Middle[i],
				"lower_band": band.Lower[i],
			},
		})
	}

	return signals, nil
}
