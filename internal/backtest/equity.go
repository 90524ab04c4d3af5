package backtest

import (
	"github.com/quantframe-lab/quantframe/internal/types"
)

// buildEquityCurve replays the trade ledger against the price series in a
// single forward pass, maintaining running cash and share count. All trades
// dated on a bar are applied in original ledger order before the position is
// valued at that bar's close. The curve always has exactly one point per bar,
// and the first point equals the initial capital: no trade can precede the
// first bar.
func buildEquityCurve(series types.PriceSeries, trades []types.Trade, initialCapital float64) []types.EquityPoint {
	equity := make([]types.EquityPoint, 0, len(series.Bars))

	cash := initialCapital
	shares := 0.0
	peak := 0.0
	previousValue := 0.0
	tradeIndex := 0

	for i, bar := range series.Bars {
		for tradeIndex < len(trades) && !trades[tradeIndex].Time.After(bar.Date) {
			trade := trades[tradeIndex]
			tradeIndex++

			switch trade.Side {
			case types.TradeSideBuy:
				cash -= trade.TotalCost
				shares += trade.Quantity
			case types.TradeSideSell:
				cash += trade.TotalCost
				shares -= trade.Quantity
			case types.TradeSideShort, types.TradeSideCover:
				// Short trades are never produced by the long-only simulator.
			}
		}

		value := cash + shares*bar.Close

		if value > peak {
			peak = value
		}

		drawdown := 0.0
		if peak > 0 && value < peak {
			drawdown = (peak - value) / peak
		}

		periodReturn := 0.0
		if i > 0 && previousValue != 0 {
			periodReturn = (value - previousValue) / previousValue
		}

		equity = append(equity, types.EquityPoint{
			Date:           bar.Date,
			PortfolioValue: value,
			Drawdown:       drawdown,
			PeriodReturn:   periodReturn,
		})

		previousValue = value
	}

	return equity
}
