package types

import (
	"os"
	"time"

	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"
)

// EquityPoint is the portfolio state at one bar. The equity curve has exactly
// one point per input bar.
type EquityPoint struct {
	Date time.Time `yaml:"date" json:"date" csv:"date"`
	// PortfolioValue is cash plus marked-to-close holdings.
	PortfolioValue float64 `yaml:"portfolio_value" json:"portfolio_value" csv:"portfolio_value"`
	// Drawdown is the decline from the running peak, in [0, 1].
	Drawdown float64 `yaml:"drawdown" json:"drawdown" csv:"drawdown"`
	// PeriodReturn is the bar-over-bar return; zero for the first bar.
	PeriodReturn float64 `yaml:"period_return" json:"period_return" csv:"period_return"`
}

// ReturnStatistics summarizes the daily-return distribution.
type ReturnStatistics struct {
	TotalReturn      float64 `yaml:"total_return" json:"total_return"`
	AnnualizedReturn float64 `yaml:"annualized_return" json:"annualized_return"`
	// Volatility is the annualized standard deviation of daily returns.
	Volatility float64 `yaml:"volatility" json:"volatility"`
	Skewness   float64 `yaml:"skewness" json:"skewness"`
	Kurtosis   float64 `yaml:"kurtosis" json:"kurtosis"`
}

// RiskStatistics captures loss-tail and downside measures. VaR values are
// reported non-negative by convention; conditional VaR is always >= VaR.
type RiskStatistics struct {
	ValueAtRisk95     float64 `yaml:"value_at_risk_95" json:"value_at_risk_95"`
	ValueAtRisk99     float64 `yaml:"value_at_risk_99" json:"value_at_risk_99"`
	ConditionalVaR95  float64 `yaml:"conditional_var_95" json:"conditional_var_95"`
	ConditionalVaR99  float64 `yaml:"conditional_var_99" json:"conditional_var_99"`
	DownsideDeviation float64 `yaml:"downside_deviation" json:"downside_deviation"`
}

// TradingStatistics summarizes the closed-trade ledger. Every ratio degrades
// to 0 rather than NaN when its denominator is empty.
type TradingStatistics struct {
	TotalTrades       int     `yaml:"total_trades" json:"total_trades"`
	ClosedTrades      int     `yaml:"closed_trades" json:"closed_trades"`
	WinningTrades     int     `yaml:"winning_trades" json:"winning_trades"`
	LosingTrades      int     `yaml:"losing_trades" json:"losing_trades"`
	HitRate           float64 `yaml:"hit_rate" json:"hit_rate"`
	ProfitFactor      float64 `yaml:"profit_factor" json:"profit_factor"`
	GrossProfit       float64 `yaml:"gross_profit" json:"gross_profit"`
	GrossLoss         float64 `yaml:"gross_loss" json:"gross_loss"`
	AverageWin        float64 `yaml:"average_win" json:"average_win"`
	AverageLoss       float64 `yaml:"average_loss" json:"average_loss"`
	TotalCommission   float64 `yaml:"total_commission" json:"total_commission"`
	TotalSlippage     float64 `yaml:"total_slippage" json:"total_slippage"`
	AvgHoldingDays    float64 `yaml:"avg_holding_days" json:"avg_holding_days"`
	MaxHoldingDays    float64 `yaml:"max_holding_days" json:"max_holding_days"`
	MinHoldingDays    float64 `yaml:"min_holding_days" json:"min_holding_days"`
}

// RatioStatistics are the risk-adjusted return measures.
type RatioStatistics struct {
	Sharpe  float64 `yaml:"sharpe" json:"sharpe"`
	Sortino float64 `yaml:"sortino" json:"sortino"`
	Calmar  float64 `yaml:"calmar" json:"calmar"`
	// RecoveryFactor is total return divided by the max drawdown magnitude.
	RecoveryFactor float64 `yaml:"recovery_factor" json:"recovery_factor"`
}

// DrawdownStatistics describes the worst peak-to-trough decline.
type DrawdownStatistics struct {
	// MaxDrawdown is in [0, 1].
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
	// MaxDrawdownDuration is the length of the worst decline in bars.
	MaxDrawdownDuration int `yaml:"max_drawdown_duration" json:"max_drawdown_duration"`
	// CurrentDrawdown is the drawdown at the final bar.
	CurrentDrawdown float64 `yaml:"current_drawdown" json:"current_drawdown"`
}

// PerformanceAnalysis is the derived statistics record; it has no identity of
// its own.
type PerformanceAnalysis struct {
	Returns  ReturnStatistics   `yaml:"returns" json:"returns"`
	Risk     RiskStatistics     `yaml:"risk" json:"risk"`
	Trading  TradingStatistics  `yaml:"trading" json:"trading"`
	Ratios   RatioStatistics    `yaml:"ratios" json:"ratios"`
	Drawdown DrawdownStatistics `yaml:"drawdown" json:"drawdown"`
}

// ExecutionStats records the run envelope.
type ExecutionStats struct {
	StartDate      time.Time `yaml:"start_date" json:"start_date"`
	EndDate        time.Time `yaml:"end_date" json:"end_date"`
	InitialCapital float64   `yaml:"initial_capital" json:"initial_capital"`
	FinalCapital   float64   `yaml:"final_capital" json:"final_capital"`
	TradingDays    int       `yaml:"trading_days" json:"trading_days"`
	// Duration is the calendar span of the simulated data, so two runs over
	// the same series always report the same value.
	Duration time.Duration `yaml:"duration" json:"duration"`
}

// ResultMetadata identifies the engine build that produced a result.
type ResultMetadata struct {
	Engine  string   `yaml:"engine" json:"engine"`
	Version string   `yaml:"version" json:"version"`
	Tags    []string `yaml:"tags" json:"tags"`
	// Benchmark is the optional benchmark symbol the caller may fill in.
	Benchmark optional.Option[string] `yaml:"benchmark" json:"benchmark"`
}

// BacktestResult is the immutable output record of one run.
type BacktestResult struct {
	ID          string              `yaml:"id" json:"id"`
	Strategy    StrategyConfig      `yaml:"strategy" json:"strategy"`
	Symbol      string              `yaml:"symbol" json:"symbol"`
	Period      Period              `yaml:"period" json:"period"`
	Execution   ExecutionStats      `yaml:"execution" json:"execution"`
	Performance PerformanceAnalysis `yaml:"performance" json:"performance"`
	Trades      []Trade             `yaml:"trades" json:"trades"`
	Positions   []Position          `yaml:"positions" json:"positions"`
	Signals     []Signal            `yaml:"signals" json:"signals"`
	Equity      []EquityPoint       `yaml:"equity" json:"equity"`
	Metadata    ResultMetadata      `yaml:"metadata" json:"metadata"`
}

// WriteBacktestResult serializes a result to a YAML file.
func WriteBacktestResult(path string, result BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
