package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MATestSuite struct {
	suite.Suite
}

func TestMASuite(t *testing.T) {
	suite.Run(t, new(MATestSuite))
}

func (suite *MATestSuite) TestSMA() {
	tests := []struct {
		name     string
		values   []float64
		period   int
		expected []float64
	}{
		{
			name:     "basic window",
			values:   []float64{1, 2, 3, 4, 5},
			period:   3,
			expected: []float64{2, 3, 4},
		},
		{
			name:     "period one is identity",
			values:   []float64{10, 20, 30},
			period:   1,
			expected: []float64{10, 20, 30},
		},
		{
			name:     "period equals length yields empty",
			values:   []float64{2, 4, 6},
			period:   3,
			expected: []float64{},
		},
		{
			name:     "period exceeds length yields empty",
			values:   []float64{1, 2},
			period:   5,
			expected: []float64{},
		},
		{
			name:     "zero period yields empty",
			values:   []float64{1, 2, 3},
			period:   0,
			expected: []float64{},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			result := SMA(tc.values, tc.period)
			suite.Equal(tc.expected, result)
		})
	}
}

func (suite *MATestSuite) TestSMAWarmupLength() {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}

	for _, period := range []int{1, 5, 10, 99} {
		result := SMA(values, period)
		suite.Len(result, len(values)-period+1)
	}

	// The whole series is warm-up once the lookback reaches its length.
	suite.Empty(SMA(values, 100))
}

func (suite *MATestSuite) TestEMASeededWithSMA() {
	values := []float64{1, 2, 3, 4, 5}

	result := EMA(values, 3)

	suite.Len(result, 3)
	// First EMA value is the SMA of the first three inputs.
	suite.InDelta(2.0, result[0], 1e-12)

	// alpha = 2/(3+1) = 0.5
	suite.InDelta(4*0.5+2.0*0.5, result[1], 1e-12)
	suite.InDelta(5*0.5+3.0*0.5, result[2], 1e-12)
}

func (suite *MATestSuite) TestEMAPeriodExceedsLength() {
	suite.Empty(EMA([]float64{1, 2, 3}, 10))
}

func (suite *MATestSuite) TestPeriodEqualsLengthYieldsEmpty() {
	values := []float64{2, 4, 6}

	suite.Empty(SMA(values, 3))
	suite.Empty(EMA(values, 3))
}

func (suite *MATestSuite) TestEMAConstantSeriesIsConstant() {
	values := []float64{50, 50, 50, 50, 50, 50}

	for _, v := range EMA(values, 3) {
		suite.InDelta(50.0, v, 1e-12)
	}
}

func (suite *MATestSuite) TestTailAlign() {
	long := []float64{1, 2, 3, 4, 5}
	short := []float64{10, 20, 30}

	a, b := TailAlign(long, short)

	suite.Equal([]float64{3, 4, 5}, a)
	suite.Equal([]float64{10, 20, 30}, b)

	// Symmetric in argument order.
	b2, a2 := TailAlign(short, long)
	suite.Equal(b, b2)
	suite.Equal(a, a2)
}

func (suite *MATestSuite) TestInputNotMutated() {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	original := append([]float64(nil), values...)

	SMA(values, 3)
	EMA(values, 3)

	suite.Equal(original, values)
}
