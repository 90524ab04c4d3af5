package types

import (
	"time"

	"github.com/quantframe-lab/quantframe/pkg/errors"
)

// PriceBar is a single OHLCV bar. Bars are owned by the caller and are
// read-only to the engine.
type PriceBar struct {
	Date   time.Time `yaml:"date" json:"date" csv:"date"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// SeriesMetadata describes the market context of a price series.
type SeriesMetadata struct {
	Currency string `yaml:"currency" json:"currency"`
	Timezone string `yaml:"timezone" json:"timezone"`
	// Interval is the bar interval, e.g. "1d".
	Interval string `yaml:"interval" json:"interval"`
}

// PriceSeries is an ordered sequence of daily bars for one instrument.
type PriceSeries struct {
	Symbol   string         `yaml:"symbol" json:"symbol"`
	Bars     []PriceBar     `yaml:"bars" json:"bars"`
	Metadata SeriesMetadata `yaml:"metadata" json:"metadata"`
}

// Validate checks the series invariants: a non-empty symbol, strictly
// increasing bar dates, and low <= open,close <= high on every bar.
func (s *PriceSeries) Validate() error {
	if s.Symbol == "" {
		return errors.New(errors.ErrCodeSeriesInvalid, "price series symbol is empty")
	}

	if len(s.Bars) == 0 {
		return errors.Newf(errors.ErrCodeSeriesEmpty, "price series %s contains no bars", s.Symbol)
	}

	for i, bar := range s.Bars {
		if bar.Low > bar.Open || bar.Low > bar.Close || bar.High < bar.Open || bar.High < bar.Close {
			return errors.Newf(errors.ErrCodeSeriesInvalid,
				"bar %d (%s): OHLC out of range (open=%f high=%f low=%f close=%f)",
				i, bar.Date.Format(time.DateOnly), bar.Open, bar.High, bar.Low, bar.Close)
		}

		if i > 0 && !bar.Date.After(s.Bars[i-1].Date) {
			return errors.Newf(errors.ErrCodeSeriesInvalid,
				"bar %d (%s): date is not strictly increasing", i, bar.Date.Format(time.DateOnly))
		}
	}

	return nil
}

// Closes returns the close prices of the series in bar order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		closes[i] = bar.Close
	}

	return closes
}

// Highs returns the high prices of the series in bar order.
func (s *PriceSeries) Highs() []float64 {
	highs := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		highs[i] = bar.High
	}

	return highs
}

// Lows returns the low prices of the series in bar order.
func (s *PriceSeries) Lows() []float64 {
	lows := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		lows[i] = bar.Low
	}

	return lows
}
