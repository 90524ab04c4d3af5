package backtest

import (
	"math"
	"sort"

	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/quantframe-lab/quantframe/internal/utils"
)

// tradingDaysPerYear annualizes daily-return volatility.
const tradingDaysPerYear = 252.0

// analyze derives the full statistics record from the ledger and equity
// curve. Every ratio degrades to a defined finite fallback (0) when its
// denominator is empty or zero: zero trades, zero volatility, and zero
// drawdown are conditions, not faults.
func analyze(
	positions []types.Position,
	trades []types.Trade,
	equity []types.EquityPoint,
	initialCapital float64,
) types.PerformanceAnalysis {
	dailyReturns := make([]float64, 0, len(equity))
	for i := 1; i < len(equity); i++ {
		dailyReturns = append(dailyReturns, equity[i].PeriodReturn)
	}

	returns := analyzeReturns(equity, dailyReturns, initialCapital)
	drawdown := analyzeDrawdown(equity)
	risk := analyzeRisk(dailyReturns)
	trading := analyzeTrading(positions, trades)
	ratios := analyzeRatios(returns, risk, drawdown)

	return types.PerformanceAnalysis{
		Returns:  returns,
		Risk:     risk,
		Trading:  trading,
		Ratios:   ratios,
		Drawdown: drawdown,
	}
}

func analyzeReturns(equity []types.EquityPoint, dailyReturns []float64, initialCapital float64) types.ReturnStatistics {
	stats := types.ReturnStatistics{}
	if len(equity) == 0 || initialCapital <= 0 {
		return stats
	}

	final := equity[len(equity)-1].PortfolioValue
	stats.TotalReturn = (final - initialCapital) / initialCapital

	// Geometric compounding over elapsed calendar time.
	years := equity[len(equity)-1].Date.Sub(equity[0].Date).Hours() / 24 / 365.25
	if years > 0 && stats.TotalReturn > -1 {
		stats.AnnualizedReturn = math.Pow(1+stats.TotalReturn, 1/years) - 1
	} else if years > 0 {
		stats.AnnualizedReturn = -1
	}

	stats.Volatility = stdDev(dailyReturns) * math.Sqrt(tradingDaysPerYear)
	stats.Skewness = skewness(dailyReturns)
	stats.Kurtosis = kurtosis(dailyReturns)

	return stats
}

func analyzeRisk(dailyReturns []float64) types.RiskStatistics {
	stats := types.RiskStatistics{}
	if len(dailyReturns) == 0 {
		return stats
	}

	stats.ValueAtRisk95, stats.ConditionalVaR95 = historicalVaR(dailyReturns, 0.95)
	stats.ValueAtRisk99, stats.ConditionalVaR99 = historicalVaR(dailyReturns, 0.99)
	stats.DownsideDeviation = downsideDeviation(dailyReturns) * math.Sqrt(tradingDaysPerYear)

	return stats
}

// historicalVaR returns the loss threshold at the given confidence level and
// the expected loss beyond it, both non-negative by convention. The tail mean
// is taken over returns at or below the quantile, so CVaR >= VaR always
// holds.
func historicalVaR(dailyReturns []float64, confidence float64) (valueAtRisk, conditionalVaR float64) {
	sorted := append([]float64(nil), dailyReturns...)
	sort.Float64s(sorted)

	index := int(math.Floor((1 - confidence) * float64(len(sorted))))
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	quantile := sorted[index]
	valueAtRisk = math.Max(0, -quantile)

	tail := sorted[:index+1]

	tailSum := 0.0
	for _, r := range tail {
		tailSum += r
	}

	conditionalVaR = math.Max(0, -tailSum/float64(len(tail)))
	if conditionalVaR < valueAtRisk {
		conditionalVaR = valueAtRisk
	}

	return valueAtRisk, conditionalVaR
}

func analyzeTrading(positions []types.Position, trades []types.Trade) types.TradingStatistics {
	stats := types.TradingStatistics{
		TotalTrades: len(trades),
	}

	grossProfit := 0.0
	grossLoss := 0.0
	holdingDays := make([]float64, 0, len(positions))

	for _, pos := range positions {
		if pos.Status != types.PositionStatusClosed {
			continue
		}

		stats.ClosedTrades++
		holdingDays = append(holdingDays, pos.HoldingPeriod())

		switch {
		case pos.RealizedPnL > 0:
			stats.WinningTrades++
			grossProfit += pos.RealizedPnL
		case pos.RealizedPnL < 0:
			stats.LosingTrades++
			grossLoss += -pos.RealizedPnL
		}
	}

	for _, trade := range trades {
		stats.TotalCommission += trade.Commission
		stats.TotalSlippage += trade.Slippage
	}

	stats.TotalCommission = utils.RoundMoney(stats.TotalCommission)
	stats.TotalSlippage = utils.RoundMoney(stats.TotalSlippage)
	stats.GrossProfit = utils.RoundMoney(grossProfit)
	stats.GrossLoss = utils.RoundMoney(grossLoss)

	if stats.ClosedTrades > 0 {
		stats.HitRate = float64(stats.WinningTrades) / float64(stats.ClosedTrades)
	}

	// With no losses the factor falls back to gross profit itself (0 when
	// there were no wins either) so the value stays finite.
	if grossLoss > 0 {
		stats.ProfitFactor = grossProfit / grossLoss
	} else {
		stats.ProfitFactor = utils.RoundMoney(grossProfit)
	}

	if stats.WinningTrades > 0 {
		stats.AverageWin = utils.RoundMoney(grossProfit / float64(stats.WinningTrades))
	}

	if stats.LosingTrades > 0 {
		stats.AverageLoss = utils.RoundMoney(grossLoss / float64(stats.LosingTrades))
	}

	if len(holdingDays) > 0 {
		minDays := holdingDays[0]
		maxDays := holdingDays[0]
		sum := 0.0

		for _, d := range holdingDays {
			sum += d
			if d < minDays {
				minDays = d
			}

			if d > maxDays {
				maxDays = d
			}
		}

		stats.AvgHoldingDays = sum / float64(len(holdingDays))
		stats.MinHoldingDays = minDays
		stats.MaxHoldingDays = maxDays
	}

	return stats
}

func analyzeRatios(returns types.ReturnStatistics, risk types.RiskStatistics, drawdown types.DrawdownStatistics) types.RatioStatistics {
	ratios := types.RatioStatistics{}

	if returns.Volatility > 0 {
		ratios.Sharpe = returns.AnnualizedReturn / returns.Volatility
	}

	if risk.DownsideDeviation > 0 {
		ratios.Sortino = returns.AnnualizedReturn / risk.DownsideDeviation
	}

	if drawdown.MaxDrawdown > 0 {
		ratios.Calmar = returns.AnnualizedReturn / drawdown.MaxDrawdown
		ratios.RecoveryFactor = returns.TotalReturn / drawdown.MaxDrawdown
	}

	return ratios
}

func analyzeDrawdown(equity []types.EquityPoint) types.DrawdownStatistics {
	stats := types.DrawdownStatistics{}
	if len(equity) == 0 {
		return stats
	}

	peakIndex := 0
	peak := equity[0].PortfolioValue

	for i, point := range equity {
		if point.PortfolioValue >= peak {
			peak = point.PortfolioValue
			peakIndex = i
		}

		if point.Drawdown > stats.MaxDrawdown {
			stats.MaxDrawdown = point.Drawdown
			stats.MaxDrawdownDuration = i - peakIndex
		}
	}

	stats.CurrentDrawdown = equity[len(equity)-1].Drawdown

	return stats
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// stdDev is the sample standard deviation; 0 for fewer than two values.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := mean(values)

	sum := 0.0
	for _, v := range values {
		diff := v - m
		sum += diff * diff
	}

	return math.Sqrt(sum / float64(len(values)-1))
}

// downsideDeviation considers only returns below the zero target.
func downsideDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		if v < 0 {
			sum += v * v
		}
	}

	return math.Sqrt(sum / float64(len(values)))
}

// skewness is the adjusted sample skewness; 0 for degenerate inputs.
func skewness(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return 0
	}

	m := mean(values)
	s := stdDev(values)

	if s == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		z := (v - m) / s
		sum += z * z * z
	}

	return n / ((n - 1) * (n - 2)) * sum
}

// kurtosis is the excess sample kurtosis; 0 for degenerate inputs.
func kurtosis(values []float64) float64 {
	n := float64(len(values))
	if n < 4 {
		return 0
	}

	m := mean(values)
	s := stdDev(values)

	if s == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		z := (v - m) / s
		sum += z * z * z * z
	}

	return n*(n+1)/((n-1)*(n-2)*(n-3))*sum - 3*(n-1)*(n-1)/((n-2)*(n-3))
}
