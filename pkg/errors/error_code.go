package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199)
	ErrCodeInvalidConfiguration ErrorCode = 100
	ErrCodeInvalidCapital       ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeMissingStrategy      ErrorCode = 103
	ErrCodeInvalidParameter     ErrorCode = 104
	ErrCodeInvalidCostConfig    ErrorCode = 105

	// Data errors (200-299)
	ErrCodeSymbolMismatch ErrorCode = 200
	ErrCodeSeriesInvalid  ErrorCode = 201
	ErrCodeSeriesEmpty    ErrorCode = 202
	ErrCodeDataParse      ErrorCode = 203

	// Strategy errors (300-399)
	ErrCodeUnsupportedStrategy ErrorCode = 300
	ErrCodeInvalidStrategyType ErrorCode = 301

	// Execution errors (400-499)
	ErrCodeExecutionFailed ErrorCode = 400
	ErrCodeRunCancelled    ErrorCode = 401
)
