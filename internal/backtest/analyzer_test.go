package backtest

import (
	"testing"

	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/stretchr/testify/suite"
)

type AnalyzerTestSuite struct {
	suite.Suite
}

func TestAnalyzerSuite(t *testing.T) {
	suite.Run(t, new(AnalyzerTestSuite))
}

func closedPosition(pnl float64, heldDays int) types.Position {
	return types.Position{
		Type:        types.PositionTypeLong,
		Symbol:      "TEST",
		EntryDate:   seriesStart,
		ExitDate:    seriesStart.AddDate(0, 0, heldDays),
		Status:      types.PositionStatusClosed,
		RealizedPnL: pnl,
	}
}

func (suite *AnalyzerTestSuite) TestEmptyInputsYieldZeroAnalysis() {
	analysis := analyze(nil, nil, nil, 0)

	suite.Equal(types.PerformanceAnalysis{}, analysis)
}

func (suite *AnalyzerTestSuite) TestHistoricalVaRTail() {
	returns := []float64{-0.10, -0.05}
	for i := 0; i < 18; i++ {
		returns = append(returns, 0.01)
	}

	var95, cvar95 := historicalVaR(returns, 0.95)
	suite.InDelta(0.05, var95, 1e-12)
	suite.InDelta(0.075, cvar95, 1e-12)
	suite.GreaterOrEqual(cvar95, var95)

	var99, cvar99 := historicalVaR(returns, 0.99)
	suite.InDelta(0.10, var99, 1e-12)
	suite.InDelta(0.10, cvar99, 1e-12)
	suite.GreaterOrEqual(cvar99, var99)
}

func (suite *AnalyzerTestSuite) TestVaRZeroWhenNoLosses() {
	returns := []float64{0.01, 0.02, 0.03, 0.04, 0.05}

	var95, cvar95 := historicalVaR(returns, 0.95)
	suite.Equal(0.0, var95)
	suite.Equal(0.0, cvar95)
}

func (suite *AnalyzerTestSuite) TestDownsideDeviationIgnoresGains() {
	returns := []float64{0.02, -0.02, 0.03, -0.04}

	suite.InDelta(0.02236068, downsideDeviation(returns), 1e-8)

	allGains := []float64{0.01, 0.02, 0.03}
	suite.Equal(0.0, downsideDeviation(allGains))
}

func (suite *AnalyzerTestSuite) TestTradingStatistics() {
	positions := []types.Position{
		closedPosition(100, 5),
		closedPosition(-50, 2),
		{Status: types.PositionStatusOpen},
	}
	trades := []types.Trade{
		{Commission: 1, Slippage: 0.5},
		{Commission: 1, Slippage: 0.5},
	}

	stats := analyzeTrading(positions, trades)

	suite.Equal(2, stats.TotalTrades)
	suite.Equal(2, stats.ClosedTrades)
	suite.Equal(1, stats.WinningTrades)
	suite.Equal(1, stats.LosingTrades)
	suite.Equal(0.5, stats.HitRate)
	suite.Equal(2.0, stats.ProfitFactor)
	suite.Equal(100.0, stats.GrossProfit)
	suite.Equal(50.0, stats.GrossLoss)
	suite.Equal(100.0, stats.AverageWin)
	suite.Equal(50.0, stats.AverageLoss)
	suite.Equal(2.0, stats.TotalCommission)
	suite.Equal(1.0, stats.TotalSlippage)
	suite.Equal(3.5, stats.AvgHoldingDays)
	suite.Equal(2.0, stats.MinHoldingDays)
	suite.Equal(5.0, stats.MaxHoldingDays)
}

func (suite *AnalyzerTestSuite) TestProfitFactorWithoutLosses() {
	positions := []types.Position{closedPosition(100, 1)}

	stats := analyzeTrading(positions, nil)
	suite.Equal(100.0, stats.ProfitFactor)
	suite.Equal(1.0, stats.HitRate)

	empty := analyzeTrading(nil, nil)
	suite.Equal(0.0, empty.ProfitFactor)
	suite.Equal(0.0, empty.HitRate)
}

func (suite *AnalyzerTestSuite) TestRatios() {
	ratios := analyzeRatios(
		types.ReturnStatistics{TotalReturn: 0.15, AnnualizedReturn: 0.1, Volatility: 0.2},
		types.RiskStatistics{DownsideDeviation: 0.1},
		types.DrawdownStatistics{MaxDrawdown: 0.05},
	)

	suite.InDelta(0.5, ratios.Sharpe, 1e-12)
	suite.InDelta(1.0, ratios.Sortino, 1e-12)
	suite.InDelta(2.0, ratios.Calmar, 1e-12)
	suite.InDelta(3.0, ratios.RecoveryFactor, 1e-12)
}

func (suite *AnalyzerTestSuite) TestRatiosDegradeToZero() {
	ratios := analyzeRatios(types.ReturnStatistics{}, types.RiskStatistics{}, types.DrawdownStatistics{})

	suite.Equal(0.0, ratios.Sharpe)
	suite.Equal(0.0, ratios.Sortino)
	suite.Equal(0.0, ratios.Calmar)
	suite.Equal(0.0, ratios.RecoveryFactor)
}

func (suite *AnalyzerTestSuite) TestDrawdownDuration() {
	values := []float64{100, 120, 110, 105, 120, 130}
	equity := make([]types.EquityPoint, len(values))
	peak := 0.0

	for i, v := range values {
		if v > peak {
			peak = v
		}

		dd := 0.0
		if v < peak {
			dd = (peak - v) / peak
		}

		equity[i] = types.EquityPoint{
			Date:           seriesStart.AddDate(0, 0, i),
			PortfolioValue: v,
			Drawdown:       dd,
		}
	}

	stats := analyzeDrawdown(equity)

	suite.InDelta(15.0/120.0, stats.MaxDrawdown, 1e-12)
	suite.Equal(2, stats.MaxDrawdownDuration)
	suite.Equal(0.0, stats.CurrentDrawdown)
}

func (suite *AnalyzerTestSuite) TestReturnStatisticsOverOneYear() {
	// Two points exactly one year apart with a 10% gain: annualized equals
	// total.
	equity := []types.EquityPoint{
		{Date: seriesStart, PortfolioValue: 100_000},
		{Date: seriesStart.AddDate(1, 0, 0), PortfolioValue: 110_000, PeriodReturn: 0.1},
	}

	stats := analyzeReturns(equity, []float64{0.1}, 100_000)

	suite.InDelta(0.1, stats.TotalReturn, 1e-12)
	suite.InDelta(0.1, stats.AnnualizedReturn, 5e-3)
	suite.Equal(0.0, stats.Volatility)
}

func (suite *AnalyzerTestSuite) TestMomentHelpers() {
	suite.Equal(2.0, mean([]float64{1, 2, 3}))
	suite.Equal(1.0, stdDev([]float64{1, 2, 3}))
	suite.Equal(0.0, stdDev([]float64{5}))
	suite.Equal(0.0, skewness([]float64{1, 2, 3, 4, 5}))
	suite.Equal(0.0, skewness([]float64{1, 1}))
	suite.Equal(0.0, kurtosis([]float64{1, 1, 1}))
}
