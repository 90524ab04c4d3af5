package backtest

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/quantframe-lab/quantframe/internal/backtest/cost"
	"github.com/quantframe-lab/quantframe/internal/logger"
	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/quantframe-lab/quantframe/internal/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// minSignalConfidence is the hard risk gate: signals below it never trade.
const minSignalConfidence = 0.6

// idGenerator issues deterministic name-based UUIDs so that identical inputs
// reproduce bit-identical ledgers across runs.
type idGenerator struct {
	run string
	n   int
}

func newIDGenerator(cfg types.BacktestConfig) *idGenerator {
	return &idGenerator{
		run: fmt.Sprintf("%s/%s/%d", cfg.Strategy.ID, cfg.Symbol, cfg.Seed),
	}
}

func (g *idGenerator) next(kind string) string {
	g.n++

	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%s/%d", g.run, kind, g.n))).String()
}

// simulationResult is the immutable ledger of one run. Both slices are built
// fresh per call; the simulator shares no state between runs.
type simulationResult struct {
	Trades    []types.Trade
	Positions []types.Position
}

// simulate walks the bars in date order, applying the signals that fall on
// each bar. The state machine holds at most one open position:
// Flat -> (BUY accepted) -> Long -> (SELL accepted) -> Flat. A BUY while long,
// a SELL while flat, or any signal below the confidence gate is rejected
// without a trade. If the series ends with a position open, a close is forced
// at the last bar.
func simulate(
	series types.PriceSeries,
	signals []types.Signal,
	cfg types.BacktestConfig,
	model cost.Model,
	log *logger.Logger,
) simulationResult {
	trades := make([]types.Trade, 0)
	positions := make([]types.Position, 0)

	ids := newIDGenerator(cfg)
	budget := positionBudget(cfg)

	var open types.Position

	hasOpen := false
	signalIndex := 0

	for _, bar := range series.Bars {
		// Protective exits fire before the bar's own signals.
		if hasOpen {
			if exitPrice, reason, hit := protectiveExit(open, bar, cfg.Strategy.Risk); hit {
				exitSignal := types.Signal{
					Time:       bar.Date,
					Type:       types.SignalTypeCloseLong,
					Strength:   types.SignalStrengthStrong,
					Price:      exitPrice,
					Confidence: 1.0,
					Symbol:     series.Symbol,
					Reason:     reason,
				}

				closed, trade := closePosition(open, bar, exitPrice, exitSignal, model, ids)
				positions = append(positions, closed)
				trades = append(trades, trade)
				hasOpen = false
			}
		}

		for signalIndex < len(signals) && !signals[signalIndex].Time.After(bar.Date) {
			signal := signals[signalIndex]
			signalIndex++

			if !signal.Time.Equal(bar.Date) {
				continue
			}

			if signal.Confidence < minSignalConfidence {
				log.Debug("signal rejected by confidence gate",
					zap.Time("time", signal.Time),
					zap.String("type", string(signal.Type)),
					zap.Float64("confidence", signal.Confidence),
				)

				continue
			}

			switch signal.Type {
			case types.SignalTypeBuy:
				if hasOpen {
					log.Debug("buy rejected: position already open",
						zap.Time("time", signal.Time),
					)

					continue
				}

				quantity := utils.CalculateQuantity(budget, signal.Price)
				if quantity == 0 {
					continue
				}

				price := utils.RoundPrice(signal.Price)
				commission := model.Commission(price, quantity)
				slippage := model.Slippage(price)

				open = types.Position{
					ID:         ids.next("position"),
					Type:       types.PositionTypeLong,
					Symbol:     series.Symbol,
					EntryDate:  bar.Date,
					EntryPrice: price,
					Quantity:   quantity,
					Status:     types.PositionStatusOpen,
				}
				hasOpen = true

				trades = append(trades, types.Trade{
					ID:         ids.next("trade"),
					Side:       types.TradeSideBuy,
					Time:       bar.Date,
					Price:      price,
					Quantity:   quantity,
					Commission: commission,
					Slippage:   slippage,
					TotalCost:  buyCost(price, quantity, commission, slippage),
					PositionID: open.ID,
					Signal:     signal,
				})

			case types.SignalTypeSell, types.SignalTypeCloseLong:
				if !hasOpen {
					log.Debug("sell rejected: no open position",
						zap.Time("time", signal.Time),
					)

					continue
				}

				closed, trade := closePosition(open, bar, signal.Price, signal, model, ids)
				positions = append(positions, closed)
				trades = append(trades, trade)
				hasOpen = false

			case types.SignalTypeHold, types.SignalTypeCloseShort:
				// HOLD is a no-op; short positions are never opened, so
				// CLOSE_SHORT has nothing to act on.
			}
		}
	}

	// No position may remain open past the series end.
	if hasOpen {
		lastBar := series.Bars[len(series.Bars)-1]
		forced := types.Signal{
			Time:       lastBar.Date,
			Type:       types.SignalTypeCloseLong,
			Strength:   types.SignalStrengthStrong,
			Price:      lastBar.Close,
			Confidence: 1.0,
			Symbol:     series.Symbol,
			Reason:     "forced close at series end",
		}

		closed, trade := closePosition(open, lastBar, lastBar.Close, forced, model, ids)
		positions = append(positions, closed)
		trades = append(trades, trade)
		hasOpen = false
	}

	return simulationResult{Trades: trades, Positions: positions}
}

// positionBudget is the fixed notional committed to each position: initial
// capital scaled by the configured max position size. Sizing by a fixed
// budget divided by price is a documented simplification, not a risk model.
func positionBudget(cfg types.BacktestConfig) float64 {
	size := cfg.Strategy.Risk.MaxPositionSize
	if size <= 0 || size > 100 {
		size = 100
	}

	return cfg.InitialCapital * size / 100
}

// protectiveExit checks the optional stop-loss and take-profit levels against
// the bar close. Stop-loss wins when both would trigger on the same bar.
func protectiveExit(pos types.Position, bar types.PriceBar, risk types.RiskManagement) (float64, string, bool) {
	if risk.StopLoss.IsSome() {
		stopPrice := pos.EntryPrice * (1 - risk.StopLoss.Unwrap())
		if bar.Close <= stopPrice {
			return bar.Close, fmt.Sprintf("stop loss hit at %.4f", stopPrice), true
		}
	}

	if risk.TakeProfit.IsSome() {
		targetPrice := pos.EntryPrice * (1 + risk.TakeProfit.Unwrap())
		if bar.Close >= targetPrice {
			return bar.Close, fmt.Sprintf("take profit hit at %.4f", targetPrice), true
		}
	}

	return 0, "", false
}

func closePosition(
	open types.Position,
	bar types.PriceBar,
	rawPrice float64,
	signal types.Signal,
	model cost.Model,
	ids *idGenerator,
) (types.Position, types.Trade) {
	price := utils.RoundPrice(rawPrice)
	commission := model.Commission(price, open.Quantity)
	slippage := model.Slippage(price)

	closed := open.Close(bar.Date, price)

	trade := types.Trade{
		ID:         ids.next("trade"),
		Side:       types.TradeSideSell,
		Time:       bar.Date,
		Price:      price,
		Quantity:   open.Quantity,
		Commission: commission,
		Slippage:   slippage,
		TotalCost:  sellProceeds(price, open.Quantity, commission, slippage),
		PositionID: open.ID,
		Signal:     signal,
	}

	return closed, trade
}

// buyCost is notional plus costs, rounded to cents.
func buyCost(price, quantity, commission, slippage float64) float64 {
	notional := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(quantity))
	total := notional.Add(decimal.NewFromFloat(commission)).Add(decimal.NewFromFloat(slippage))
	rounded, _ := total.Round(2).Float64()

	return rounded
}

// sellProceeds is notional minus costs, rounded to cents.
func sellProceeds(price, quantity, commission, slippage float64) float64 {
	notional := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(quantity))
	total := notional.Sub(decimal.NewFromFloat(commission)).Sub(decimal.NewFromFloat(slippage))
	rounded, _ := total.Round(2).Float64()

	return rounded
}
