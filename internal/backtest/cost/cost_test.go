package cost

import (
	"testing"

	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/stretchr/testify/suite"
)

type CostTestSuite struct {
	suite.Suite
}

func TestCostSuite(t *testing.T) {
	suite.Run(t, new(CostTestSuite))
}

func (suite *CostTestSuite) TestCommission() {
	tests := []struct {
		name     string
		config   types.CommissionConfig
		price    float64
		quantity float64
		expected float64
	}{
		{
			name:     "fixed flat amount",
			config:   types.CommissionConfig{Type: types.CommissionTypeFixed, Value: 9.99},
			price:    100,
			quantity: 50,
			expected: 9.99,
		},
		{
			name:     "percentage of notional",
			config:   types.CommissionConfig{Type: types.CommissionTypePercentage, Value: 0.001},
			price:    100,
			quantity: 50,
			expected: 5.0,
		},
		{
			name:     "percentage rounds to cents",
			config:   types.CommissionConfig{Type: types.CommissionTypePercentage, Value: 0.001},
			price:    123.4567,
			quantity: 3,
			expected: 0.37,
		},
		{
			name:     "per share ignores quantity",
			config:   types.CommissionConfig{Type: types.CommissionTypePerShare, Value: 1.5},
			price:    100,
			quantity: 9999,
			expected: 1.5,
		},
		{
			name:     "unknown type charges nothing",
			config:   types.CommissionConfig{Type: types.CommissionType("MYSTERY"), Value: 5},
			price:    100,
			quantity: 10,
			expected: 0,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			model := NewModel(tc.config, types.SlippageConfig{Type: types.SlippageTypeFixed, Value: 0})
			suite.Equal(tc.expected, model.Commission(tc.price, tc.quantity))
		})
	}
}

func (suite *CostTestSuite) TestSlippage() {
	tests := []struct {
		name     string
		config   types.SlippageConfig
		price    float64
		expected float64
	}{
		{
			name:     "fixed flat amount",
			config:   types.SlippageConfig{Type: types.SlippageTypeFixed, Value: 0.05},
			price:    100,
			expected: 0.05,
		},
		{
			name:     "percentage of price",
			config:   types.SlippageConfig{Type: types.SlippageTypePercentage, Value: 0.001},
			price:    200,
			expected: 0.2,
		},
		{
			name:     "dynamic behaves like percentage",
			config:   types.SlippageConfig{Type: types.SlippageTypeDynamic, Value: 0.001},
			price:    200,
			expected: 0.2,
		},
		{
			name:     "unknown type charges nothing",
			config:   types.SlippageConfig{Type: types.SlippageType("MYSTERY"), Value: 5},
			price:    100,
			expected: 0,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			model := NewModel(types.CommissionConfig{Type: types.CommissionTypeFixed, Value: 0}, tc.config)
			suite.Equal(tc.expected, model.Slippage(tc.price))
		})
	}
}
