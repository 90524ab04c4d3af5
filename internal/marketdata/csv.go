// Package marketdata supplies price series to the engine: a CSV loader for
// historical files and a seeded synthetic generator for demos and tests.
// The engine itself never fetches data; retries and acquisition concerns
// live with the caller.
package marketdata

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/quantframe-lab/quantframe/pkg/errors"
)

// csvDateLayouts are tried in order when parsing the date column.
var csvDateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// LoadCSVSeries reads a price series from a CSV file with the header
// date,open,high,low,close,volume. The returned series is validated before
// being handed to the caller.
func LoadCSVSeries(path, symbol string, metadata types.SeriesMetadata) (types.PriceSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeDataParse, err, "failed to open data file %s", path)
	}
	defer file.Close()

	series, err := ReadCSVSeries(file, symbol, metadata)
	if err != nil {
		return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeDataParse, err, "failed to read data file %s", path)
	}

	return series, nil
}

// ReadCSVSeries parses CSV price data from any reader.
func ReadCSVSeries(r io.Reader, symbol string, metadata types.SeriesMetadata) (types.PriceSeries, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return types.PriceSeries{}, errors.Wrap(errors.ErrCodeDataParse, "failed to read CSV header", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	for _, required := range []string{"date", "open", "high", "low", "close", "volume"} {
		if _, ok := columns[required]; !ok {
			return types.PriceSeries{}, errors.Newf(errors.ErrCodeDataParse, "missing CSV column %q", required)
		}
	}

	bars := make([]types.PriceBar, 0)

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeDataParse, err, "failed to read CSV line %d", line)
		}

		date, err := parseDate(record[columns["date"]])
		if err != nil {
			return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeDataParse, err, "invalid date on line %d", line)
		}

		bar := types.PriceBar{Date: date}

		for name, target := range map[string]*float64{
			"open":   &bar.Open,
			"high":   &bar.High,
			"low":    &bar.Low,
			"close":  &bar.Close,
			"volume": &bar.Volume,
		} {
			value, err := strconv.ParseFloat(record[columns[name]], 64)
			if err != nil {
				return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeDataParse, err, "invalid %s on line %d", name, line)
			}

			*target = value
		}

		bars = append(bars, bar)
	}

	series := types.PriceSeries{
		Symbol:   symbol,
		Bars:     bars,
		Metadata: metadata,
	}

	if err := series.Validate(); err != nil {
		return types.PriceSeries{}, err
	}

	return series, nil
}

func parseDate(value string) (time.Time, error) {
	var lastErr error

	for _, layout := range csvDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}

		lastErr = err
	}

	return time.Time{}, lastErr
}
