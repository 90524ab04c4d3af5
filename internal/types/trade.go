package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeSide string

const (
	TradeSideBuy   TradeSide = "BUY"
	TradeSideSell  TradeSide = "SELL"
	TradeSideShort TradeSide = "SHORT"
	TradeSideCover TradeSide = "COVER"
)

type PositionType string

const (
	PositionTypeLong  PositionType = "LONG"
	PositionTypeShort PositionType = "SHORT"
)

type PositionStatus string

const (
	PositionStatusOpen    PositionStatus = "OPEN"
	PositionStatusClosed  PositionStatus = "CLOSED"
	PositionStatusPartial PositionStatus = "PARTIAL"
)

// Trade is one executed fill in the ledger. Money amounts are rounded to 2
// decimals and prices to 4; a Trade is never mutated after creation.
type Trade struct {
	ID       string    `yaml:"id" json:"id" csv:"id"`
	Side     TradeSide `yaml:"side" json:"side" csv:"side"`
	Time     time.Time `yaml:"time" json:"time" csv:"time"`
	Price    float64   `yaml:"price" json:"price" csv:"price" validate:"gt=0"`
	Quantity float64   `yaml:"quantity" json:"quantity" csv:"quantity" validate:"gt=0"`
	// Commission and Slippage are the cost-model amounts for this fill.
	Commission float64 `yaml:"commission" json:"commission" csv:"commission" validate:"gte=0"`
	Slippage   float64 `yaml:"slippage" json:"slippage" csv:"slippage" validate:"gte=0"`
	// TotalCost is the notional adjusted by costs: buys pay
	// notional+commission+slippage, sells receive notional-commission-slippage.
	TotalCost  float64 `yaml:"total_cost" json:"total_cost" csv:"total_cost"`
	PositionID string  `yaml:"position_id" json:"position_id" csv:"position_id"`
	// Signal is the originating signal for this trade.
	Signal Signal `yaml:"signal" json:"signal"`
}

// Position represents one holding over its lifecycle. Positions are values:
// every state transition returns a new Position rather than mutating in place,
// so a caller holding an old copy never observes a change.
type Position struct {
	ID         string         `yaml:"id" json:"id" csv:"id"`
	Type       PositionType   `yaml:"type" json:"type" csv:"type"`
	Symbol     string         `yaml:"symbol" json:"symbol" csv:"symbol"`
	EntryDate  time.Time      `yaml:"entry_date" json:"entry_date" csv:"entry_date"`
	EntryPrice float64        `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	Quantity   float64        `yaml:"quantity" json:"quantity" csv:"quantity"`
	Status     PositionStatus `yaml:"status" json:"status" csv:"status"`
	ExitDate   time.Time      `yaml:"exit_date,omitempty" json:"exit_date,omitzero"`
	ExitPrice  float64        `yaml:"exit_price,omitempty" json:"exit_price,omitempty"`
	// RealizedPnL is set once the position is closed.
	RealizedPnL float64 `yaml:"realized_pnl" json:"realized_pnl" csv:"realized_pnl"`
}

// Close returns a new Position with status CLOSED and realized PnL computed
// as (exit - entry) * quantity, rounded to 2 decimals.
func (p Position) Close(exitDate time.Time, exitPrice float64) Position {
	closed := p
	closed.Status = PositionStatusClosed
	closed.ExitDate = exitDate
	closed.ExitPrice = exitPrice
	closed.RealizedPnL = realizedPnL(p.Type, p.EntryPrice, exitPrice, p.Quantity)

	return closed
}

// Decrease returns a new Position with the given quantity removed and the
// realized PnL for the removed slice accumulated. The position becomes
// PARTIAL, or CLOSED when the full quantity is removed.
func (p Position) Decrease(quantity float64, exitDate time.Time, exitPrice float64) Position {
	if quantity >= p.Quantity {
		return p.Close(exitDate, exitPrice)
	}

	reduced := p
	reduced.Quantity = p.Quantity - quantity
	reduced.Status = PositionStatusPartial
	reduced.RealizedPnL = roundCents(p.RealizedPnL + realizedPnL(p.Type, p.EntryPrice, exitPrice, quantity))

	return reduced
}

// HoldingPeriod returns the number of calendar days the position was held.
// Zero for positions that are still open.
func (p Position) HoldingPeriod() float64 {
	if p.Status != PositionStatusClosed {
		return 0
	}

	return p.ExitDate.Sub(p.EntryDate).Hours() / 24
}

func realizedPnL(positionType PositionType, entryPrice, exitPrice, quantity float64) float64 {
	entry := decimal.NewFromFloat(entryPrice)
	exit := decimal.NewFromFloat(exitPrice)
	qty := decimal.NewFromFloat(quantity)

	pnl := exit.Sub(entry).Mul(qty)
	if positionType == PositionTypeShort {
		pnl = pnl.Neg()
	}

	rounded, _ := pnl.Round(2).Float64()

	return rounded
}

func roundCents(amount float64) float64 {
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()

	return rounded
}
