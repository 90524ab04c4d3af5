// Package cost applies commission and slippage policies to simulated trades.
package cost

import (
	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/quantframe-lab/quantframe/internal/utils"
)

// Model combines one commission policy and one slippage policy. A Model is a
// value; it holds no state between calls.
type Model struct {
	commission types.CommissionConfig
	slippage   types.SlippageConfig
}

// NewModel creates a cost model from the configured policies.
func NewModel(commission types.CommissionConfig, slippage types.SlippageConfig) Model {
	return Model{
		commission: commission,
		slippage:   slippage,
	}
}

// Commission returns the commission for a fill, rounded to cents.
// FIXED and PER_SHARE charge the flat configured amount (PER_SHARE ignores
// the share count in this simplified model); PERCENTAGE charges rate times
// notional.
func (m Model) Commission(price, quantity float64) float64 {
	switch m.commission.Type {
	case types.CommissionTypePercentage:
		return utils.RoundMoney(price * quantity * m.commission.Value)
	case types.CommissionTypeFixed, types.CommissionTypePerShare:
		return utils.RoundMoney(m.commission.Value)
	default:
		return 0
	}
}

// Slippage returns the slippage cost for a fill at the given price, rounded
// to cents. FIXED charges the flat configured amount; PERCENTAGE and DYNAMIC
// charge rate times price. DYNAMIC is reserved for a volume-aware extension
// and currently behaves exactly like PERCENTAGE.
func (m Model) Slippage(price float64) float64 {
	switch m.slippage.Type {
	case types.SlippageTypePercentage, types.SlippageTypeDynamic:
		return utils.RoundMoney(price * m.slippage.Value)
	case types.SlippageTypeFixed:
		return utils.RoundMoney(m.slippage.Value)
	default:
		return 0
	}
}
