// Package backtest coordinates the simulation pipeline: signal generation,
// cost-aware trade execution, equity-curve reconstruction, and performance
// analysis. A run is a pure fold over an already-materialized price series;
// identical inputs always produce bit-identical results.
package backtest

import (
	"github.com/quantframe-lab/quantframe/internal/backtest/cost"
	"github.com/quantframe-lab/quantframe/internal/logger"
	"github.com/quantframe-lab/quantframe/internal/strategy"
	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/quantframe-lab/quantframe/internal/version"
	"github.com/quantframe-lab/quantframe/pkg/errors"
	"go.uber.org/zap"
)

// Engine orchestrates backtest runs. It holds no per-run state, so one Engine
// can serve concurrent runs.
type Engine struct {
	log *logger.Logger
}

// NewEngine creates a backtest engine. A nil logger disables engine logging.
func NewEngine(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Engine{log: log}
}

// Run executes one backtest. Configuration violations fail before any
// computation; a symbol mismatch between the series and the configuration
// aborts before signal generation. An unsupported strategy type surfaces as a
// named error from signal dispatch. A warm-up period longer than the series
// yields a valid empty-trade result, not an error.
func (e *Engine) Run(cfg types.BacktestConfig, series types.PriceSeries) (types.BacktestResult, error) {
	if err := cfg.Validate(); err != nil {
		return types.BacktestResult{}, err
	}

	if err := series.Validate(); err != nil {
		return types.BacktestResult{}, err
	}

	if series.Symbol != cfg.Symbol {
		return types.BacktestResult{}, errors.Newf(errors.ErrCodeSymbolMismatch,
			"price series symbol %q does not match configured symbol %q",
			series.Symbol, cfg.Symbol)
	}

	signals, err := strategy.Generate(series, cfg.Strategy)
	if err != nil {
		return types.BacktestResult{}, err
	}

	model := cost.NewModel(cfg.Commission, cfg.Slippage)
	simulation := simulate(series, signals, cfg, model, e.log)
	equity := buildEquityCurve(series, simulation.Trades, cfg.InitialCapital)
	performance := analyze(simulation.Positions, simulation.Trades, equity, cfg.InitialCapital)

	firstBar := series.Bars[0]
	lastBar := series.Bars[len(series.Bars)-1]

	result := types.BacktestResult{
		ID:       newIDGenerator(cfg).next("result"),
		Strategy: cfg.Strategy,
		Symbol:   cfg.Symbol,
		Period:   cfg.Period,
		Execution: types.ExecutionStats{
			StartDate:      firstBar.Date,
			EndDate:        lastBar.Date,
			InitialCapital: cfg.InitialCapital,
			FinalCapital:   equity[len(equity)-1].PortfolioValue,
			TradingDays:    len(series.Bars),
			Duration:       lastBar.Date.Sub(firstBar.Date),
		},
		Performance: performance,
		Trades:      simulation.Trades,
		Positions:   simulation.Positions,
		Signals:     signals,
		Equity:      equity,
		Metadata: types.ResultMetadata{
			Engine:  version.EngineName,
			Version: version.EngineVersion,
			Tags:    cfg.Tags,
		},
	}

	e.log.Info("backtest run completed",
		zap.String("result_id", result.ID),
		zap.String("symbol", cfg.Symbol),
		zap.String("strategy", string(cfg.Strategy.Type)),
		zap.Int("signals", len(signals)),
		zap.Int("trades", len(simulation.Trades)),
		zap.Float64("final_capital", result.Execution.FinalCapital),
	)

	return result, nil
}
