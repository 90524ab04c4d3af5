package types

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/quantframe-lab/quantframe/pkg/errors"
)

// StrategyType is the closed set of supported strategy rules. Dispatch is by
// tag, not by subclassing: every rule shares the same generation contract.
type StrategyType string

const (
	StrategyTypeMovingAverageCrossover StrategyType = "MOVING_AVERAGE_CROSSOVER"
	StrategyTypeMeanReversion          StrategyType = "MEAN_REVERSION"
	StrategyTypeBreakout               StrategyType = "BREAKOUT"
)

// AllStrategyTypes lists every supported strategy type for schema generation.
var AllStrategyTypes = []any{
	StrategyTypeMovingAverageCrossover,
	StrategyTypeMeanReversion,
	StrategyTypeBreakout,
}

// MAKind selects the moving-average flavor used by the crossover rule.
type MAKind string

const (
	MAKindSimple      MAKind = "SIMPLE"
	MAKindExponential MAKind = "EXPONENTIAL"
)

// StrategyParameters carries the named numeric/enum fields for all strategy
// types. Only the fields relevant to the configured type are consulted.
type StrategyParameters struct {
	// ShortPeriod and LongPeriod are the crossover lookbacks.
	ShortPeriod int `yaml:"short_period" json:"short_period" jsonschema:"title=Short Period,minimum=1"`
	LongPeriod  int `yaml:"long_period" json:"long_period" jsonschema:"title=Long Period,minimum=1"`
	// MAKind selects SIMPLE or EXPONENTIAL averaging for the crossover rule.
	MAKind MAKind `yaml:"ma_kind" json:"ma_kind" jsonschema:"title=Moving Average Kind"`
	// Period is the lookback for the mean-reversion band and breakout channel.
	Period int `yaml:"period" json:"period" jsonschema:"title=Period,minimum=1"`
	// BandWidth is the number of standard deviations for the mean-reversion band.
	BandWidth float64 `yaml:"band_width" json:"band_width" jsonschema:"title=Band Width"`
	// SignalDelay shifts the executable index forward to simulate reaction
	// lag; delayed signals falling past the series end are dropped.
	SignalDelay int `yaml:"signal_delay" json:"signal_delay" jsonschema:"title=Signal Delay,minimum=0"`
}

// RiskManagement bounds position sizing and exposes optional exit levels.
type RiskManagement struct {
	// MaxPositionSize is the percentage of initial capital committed to one
	// position; zero means the full capital.
	MaxPositionSize float64 `yaml:"max_position_size" json:"max_position_size" validate:"gte=0,lte=100"`
	// MaxDrawdown is the tolerated drawdown percentage; informational for
	// the analyzer, not an execution halt.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown" validate:"gte=0,lte=100"`
	// StopLoss is the optional loss fraction that closes a position, e.g.
	// 0.05 closes a long once price falls 5% below entry.
	StopLoss optional.Option[float64] `yaml:"stop_loss" json:"stop_loss"`
	// TakeProfit is the optional gain fraction that closes a position.
	TakeProfit optional.Option[float64] `yaml:"take_profit" json:"take_profit"`
}

// UnmarshalYAML implements custom unmarshaling so optional levels can be
// omitted from config files.
func (r *RiskManagement) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain struct {
		MaxPositionSize float64  `yaml:"max_position_size"`
		MaxDrawdown     float64  `yaml:"max_drawdown"`
		StopLoss        *float64 `yaml:"stop_loss"`
		TakeProfit      *float64 `yaml:"take_profit"`
	}

	var raw plain
	if err := unmarshal(&raw); err != nil {
		return err
	}

	r.MaxPositionSize = raw.MaxPositionSize
	r.MaxDrawdown = raw.MaxDrawdown

	if raw.StopLoss != nil {
		r.StopLoss = optional.Some(*raw.StopLoss)
	}

	if raw.TakeProfit != nil {
		r.TakeProfit = optional.Some(*raw.TakeProfit)
	}

	return nil
}

// StrategyConfig identifies one parameterized rule. Immutable once passed to
// the engine.
type StrategyConfig struct {
	ID         string             `yaml:"id" json:"id" validate:"required"`
	Name       string             `yaml:"name" json:"name"`
	Type       StrategyType       `yaml:"type" json:"type" validate:"required"`
	Parameters StrategyParameters `yaml:"parameters" json:"parameters"`
	Risk       RiskManagement     `yaml:"risk" json:"risk"`
	Metadata   map[string]string  `yaml:"metadata" json:"metadata"`
}

type CommissionType string

const (
	CommissionTypeFixed      CommissionType = "FIXED"
	CommissionTypePercentage CommissionType = "PERCENTAGE"
	// CommissionTypePerShare charges a flat amount per trade; the share
	// count is deliberately ignored in this simplified model.
	CommissionTypePerShare CommissionType = "PER_SHARE"
)

type SlippageType string

const (
	SlippageTypeFixed      SlippageType = "FIXED"
	SlippageTypePercentage SlippageType = "PERCENTAGE"
	// SlippageTypeDynamic currently behaves like PERCENTAGE; reserved for a
	// volume-aware extension.
	SlippageTypeDynamic SlippageType = "DYNAMIC"
)

// CommissionConfig selects a commission policy and its value: a flat amount
// for FIXED and PER_SHARE, a rate for PERCENTAGE.
type CommissionConfig struct {
	Type  CommissionType `yaml:"type" json:"type" validate:"required,oneof=FIXED PERCENTAGE PER_SHARE"`
	Value float64        `yaml:"value" json:"value" validate:"gte=0"`
}

// SlippageConfig selects a slippage policy: a flat amount for FIXED, a rate
// applied to price for PERCENTAGE and DYNAMIC.
type SlippageConfig struct {
	Type  SlippageType `yaml:"type" json:"type" validate:"required,oneof=FIXED PERCENTAGE DYNAMIC"`
	Value float64      `yaml:"value" json:"value" validate:"gte=0"`
}

// Period is the requested backtest window.
type Period struct {
	Start time.Time `yaml:"start" json:"start" validate:"required"`
	End   time.Time `yaml:"end" json:"end" validate:"required"`
}

// BacktestOptions are reserved execution options. They are validated but only
// partially routed; short selling in particular is accepted and recorded
// without the strategies emitting short-side signals yet.
type BacktestOptions struct {
	Leverage     float64 `yaml:"leverage" json:"leverage" validate:"gte=0"`
	Margin       float64 `yaml:"margin" json:"margin" validate:"gte=0"`
	InterestRate float64 `yaml:"interest_rate" json:"interest_rate" validate:"gte=0"`
	AllowShort   bool    `yaml:"allow_short" json:"allow_short"`
}

// BacktestConfig is the full input contract for one backtest run.
type BacktestConfig struct {
	Strategy       StrategyConfig   `yaml:"strategy" json:"strategy"`
	Symbol         string           `yaml:"symbol" json:"symbol" validate:"required"`
	Period         Period           `yaml:"period" json:"period"`
	InitialCapital float64          `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0"`
	Commission     CommissionConfig `yaml:"commission" json:"commission"`
	Slippage       SlippageConfig   `yaml:"slippage" json:"slippage"`
	// Seed feeds any reproducibility-sensitive subcomponent (synthetic data
	// generation); the simulation itself is deterministic without it.
	Seed    int64           `yaml:"seed" json:"seed"`
	Options BacktestOptions `yaml:"options" json:"options"`
	Tags    []string        `yaml:"tags" json:"tags"`
}

// Validate fails fast with a descriptive error for each violation: positive
// capital, ordered period, and a present strategy. Strategy type support is
// checked at dispatch time so new variants stay in one place.
func (c *BacktestConfig) Validate() error {
	if c.InitialCapital <= 0 {
		return errors.Newf(errors.ErrCodeInvalidCapital,
			"initial capital must be positive, got %f", c.InitialCapital)
	}

	if !c.Period.Start.Before(c.Period.End) {
		return errors.Newf(errors.ErrCodeInvalidPeriod,
			"period start %s must be before period end %s",
			c.Period.Start.Format(time.DateOnly), c.Period.End.Format(time.DateOnly))
	}

	if c.Strategy.Type == "" {
		return errors.New(errors.ErrCodeMissingStrategy, "strategy configuration is missing")
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest configuration", err)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestConfig.
func (c *BacktestConfig) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if strings.HasPrefix(t.String(), "optional.Option[") {
				return &jsonschema.Schema{
					Type: "number",
				}
			}

			if strings.Contains(t.String(), "types.StrategyType") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: AllStrategyTypes,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "backtest-config"
	schema.Description = "Configuration schema for a backtest run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates an indented JSON schema string for the
// BacktestConfig.
func (c *BacktestConfig) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
