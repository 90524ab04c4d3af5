package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidConfiguration, "invalid configuration")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidConfiguration, err.Code)
	suite.Equal("invalid configuration", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeSymbolMismatch, "series symbol %s does not match config symbol %s", "WRONG", "TEST")
	suite.NotNil(err)
	suite.Equal(ErrCodeSymbolMismatch, err.Code)
	suite.Equal("series symbol WRONG does not match config symbol TEST", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeSeriesInvalid, "failed to validate series", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeSeriesInvalid, err.Code)
	suite.Equal("failed to validate series", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeDataParse, cause, "failed to parse bar %d", 42)
	suite.NotNil(err)
	suite.Equal(ErrCodeDataParse, err.Code)
	suite.Equal("failed to parse bar 42", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidCapital, "initial capital must be positive")
	suite.Equal("[101] initial capital must be positive", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeSymbolMismatch, "symbol mismatch", cause)
	suite.Equal("[200] symbol mismatch: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeSeriesInvalid, "failed", cause)
	suite.Equal(cause, errors.Unwrap(err))
}

func (suite *ErrorTestSuite) TestGetCode() {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"structured error", New(ErrCodeUnsupportedStrategy, "unsupported"), ErrCodeUnsupportedStrategy},
		{"wrapped structured error", fmt.Errorf("outer: %w", New(ErrCodeInvalidPeriod, "bad period")), ErrCodeInvalidPeriod},
		{"plain error", errors.New("plain"), ErrCodeUnknown},
		{"nil error", nil, ErrCodeUnknown},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, GetCode(tc.err))
		})
	}
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeSymbolMismatch, "symbol mismatch")
	suite.True(HasCode(err, ErrCodeSymbolMismatch))
	suite.False(HasCode(err, ErrCodeInvalidCapital))
}
