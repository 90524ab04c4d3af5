// Package strategy turns a price series and a strategy configuration into an
// ordered signal stream. Strategies form a closed set of tagged variants
// behind a single generation contract; adding a rule means adding a case to
// the dispatch switch, not a subclass.
package strategy

import (
	"math"

	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/quantframe-lab/quantframe/pkg/errors"
)

// Strength bucket thresholds on the relative indicator gap.
const (
	strongThreshold   = 0.02
	moderateThreshold = 0.01
)

// Confidence bounds: clamp(strength*20, floor, ceiling). The floor guarantees
// every emitted signal is minimally confident.
const (
	confidenceScale   = 20.0
	confidenceFloor   = 0.5
	confidenceCeiling = 1.0
)

// Generate produces the signal stream for the configured rule. Signals are
// emitted in strict bar order. A warm-up period longer than the series is not
// an error: it produces an empty stream.
func Generate(series types.PriceSeries, cfg types.StrategyConfig) ([]types.Signal, error) {
	switch cfg.Type {
	case types.StrategyTypeMovingAverageCrossover:
		return generateCrossoverSignals(series, cfg)
	case types.StrategyTypeMeanReversion:
		return generateMeanReversionSignals(series, cfg)
	case types.StrategyTypeBreakout:
		return generateBreakoutSignals(series, cfg)
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedStrategy,
			"unsupported strategy type: %s", cfg.Type)
	}
}

// classifyStrength buckets a relative gap: >2% STRONG, >1% MODERATE, else WEAK.
func classifyStrength(gap float64) types.SignalStrength {
	switch {
	case gap > strongThreshold:
		return types.SignalStrengthStrong
	case gap > moderateThreshold:
		return types.SignalStrengthModerate
	default:
		return types.SignalStrengthWeak
	}
}

// confidence maps a relative gap to [0.5, 1.0].
func confidence(gap float64) float64 {
	return math.Min(confidenceCeiling, math.Max(confidenceFloor, gap*confidenceScale))
}

// delayedBarIndex applies the configured signal delay to a detection index.
// The second return is false when the delayed index falls past the series
// end, in which case the signal is dropped.
func delayedBarIndex(detectionIndex, delay, seriesLen int) (int, bool) {
	index := detectionIndex + delay
	if index >= seriesLen {
		return 0, false
	}

	return index, true
}
