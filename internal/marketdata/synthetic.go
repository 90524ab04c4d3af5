package marketdata

import (
	"math"
	"math/rand"
	"time"

	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/quantframe-lab/quantframe/pkg/errors"
)

// Pattern selects the shape of a generated price path.
type Pattern string

const (
	// PatternTrend drifts the price up or down each bar with noise.
	PatternTrend Pattern = "trend"
	// PatternFlat holds the price constant; useful for degenerate-case tests.
	PatternFlat Pattern = "flat"
	// PatternRandomWalk applies pure noise around the previous close.
	PatternRandomWalk Pattern = "random_walk"
)

// minimumPrice floors generated closes so bars never go non-positive.
const minimumPrice = 0.01

// GeneratorConfig describes one synthetic series.
type GeneratorConfig struct {
	Symbol string
	// NumBars is the number of daily bars to generate.
	NumBars int
	// StartDate is the date of the first bar; subsequent bars are daily.
	StartDate time.Time
	// InitialPrice is the close of the first bar.
	InitialPrice float64
	// DriftPerBar is the per-bar price change for PatternTrend; negative
	// values trend downward.
	DriftPerBar float64
	// Volatility scales the per-bar noise for trend and random-walk
	// patterns, as a fraction of the current price.
	Volatility float64
	Pattern    Pattern
}

// Generate builds a synthetic daily series. The RNG is an explicit parameter
// so that two generations never interfere through shared state: pass
// rand.New(rand.NewSource(seed)) for a reproducible series. PatternFlat
// ignores the RNG and accepts nil.
func Generate(cfg GeneratorConfig, rng *rand.Rand) (types.PriceSeries, error) {
	if cfg.NumBars <= 0 {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"number of bars must be positive, got %d", cfg.NumBars)
	}

	if cfg.InitialPrice <= 0 {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"initial price must be positive, got %f", cfg.InitialPrice)
	}

	if cfg.Pattern != PatternFlat && rng == nil {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"pattern %s requires an explicit RNG", cfg.Pattern)
	}

	bars := make([]types.PriceBar, cfg.NumBars)
	previousClose := cfg.InitialPrice

	for i := 0; i < cfg.NumBars; i++ {
		date := cfg.StartDate.AddDate(0, 0, i)

		var close float64

		switch cfg.Pattern {
		case PatternFlat:
			close = cfg.InitialPrice
		case PatternTrend:
			noise := (rng.Float64()*2 - 1) * cfg.Volatility * previousClose
			close = previousClose + cfg.DriftPerBar + noise
		case PatternRandomWalk:
			noise := (rng.Float64()*2 - 1) * cfg.Volatility * previousClose
			close = previousClose + noise
		default:
			return types.PriceSeries{}, errors.Newf(errors.ErrCodeInvalidParameter,
				"unknown pattern: %s", cfg.Pattern)
		}

		if close < minimumPrice {
			close = minimumPrice
		}

		open := previousClose
		if i == 0 {
			open = close
		}

		high := math.Max(open, close)
		low := math.Min(open, close)

		if cfg.Pattern != PatternFlat {
			spread := cfg.Volatility * close / 2
			high += spread
			low -= spread

			if low < minimumPrice {
				low = minimumPrice
			}
		}

		bars[i] = types.PriceBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: 1_000_000,
		}

		previousClose = close
	}

	return types.PriceSeries{
		Symbol: cfg.Symbol,
		Bars:   bars,
		Metadata: types.SeriesMetadata{
			Currency: "USD",
			Timezone: "UTC",
			Interval: "1d",
		},
	}, nil
}
