package types

import "time"

type SignalType string

const (
	// SignalTypeBuy tells the simulator to open a long position
	SignalTypeBuy SignalType = "BUY"
	// SignalTypeSell tells the simulator to close a long position
	SignalTypeSell SignalType = "SELL"
	// SignalTypeHold tells the simulator to take no action
	SignalTypeHold SignalType = "HOLD"
	// SignalTypeCloseLong forces a long position closed regardless of rule state
	SignalTypeCloseLong SignalType = "CLOSE_LONG"
	// SignalTypeCloseShort forces a short position closed regardless of rule state
	SignalTypeCloseShort SignalType = "CLOSE_SHORT"
)

type SignalStrength string

const (
	SignalStrengthWeak     SignalStrength = "WEAK"
	SignalStrengthModerate SignalStrength = "MODERATE"
	SignalStrengthStrong   SignalStrength = "STRONG"
)

// Signal is one discrete trading decision emitted by a strategy rule.
// Signals are produced in strict date order and never mutated after creation.
type Signal struct {
	// Time is the bar date the signal becomes executable, after any
	// configured signal delay has been applied.
	Time time.Time `yaml:"time" json:"time" csv:"time"`
	// Type is the action the signal requests.
	Type SignalType `yaml:"type" json:"type" csv:"type"`
	// Strength buckets the relative indicator gap that produced the signal.
	Strength SignalStrength `yaml:"strength" json:"strength" csv:"strength"`
	// Price is the close of the executable bar.
	Price float64 `yaml:"price" json:"price" csv:"price"`
	// Confidence is in [0.5, 1.0]; the floor guarantees every emitted
	// signal is minimally confident.
	Confidence float64 `yaml:"confidence" json:"confidence" csv:"confidence"`
	// Symbol is the instrument the signal applies to.
	Symbol string `yaml:"symbol" json:"symbol" csv:"symbol"`
	// Reason describes the rule condition that fired.
	Reason string `yaml:"reason" json:"reason" csv:"reason"`
	// Indicators is a snapshot of the indicator values at signal time.
	Indicators map[string]float64 `yaml:"indicators" json:"indicators"`
}
