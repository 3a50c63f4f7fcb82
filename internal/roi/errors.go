package roi

import (
	"errors"
	"fmt"
)

// ErrorCode identifies why a profile could not be projected.
type ErrorCode string

const (
	CodeCategoryNotFound ErrorCode = "CATEGORY_NOT_FOUND"
	CodeInvalidRevenue   ErrorCode = "INVALID_REVENUE"
	CodePlanNotFound     ErrorCode = "PLAN_NOT_FOUND"
	CodeInvalidInput     ErrorCode = "INVALID_INPUT"
	CodeOutOfRange       ErrorCode = "OUT_OF_RANGE"
)

// Sentinels matched by errors.Is against a *ValidationError.
var (
	ErrCategoryNotFound = errors.New("business type not found in catalog")
	ErrInvalidRevenue   = errors.New("monthly revenue must be greater than zero")
	ErrPlanNotFound     = errors.New("plan not found in catalog")
	ErrInvalidInput     = errors.New("optional inputs must be finite and not negative")
	ErrOutOfRange       = errors.New("projection exceeds the representable range")
)

// ValidationError reports an input the engine refuses to project.
// None of these are retryable; the caller must change the input.
type ValidationError struct {
	Code  ErrorCode `json:"code"`
	Field string    `json:"field"`
	Value string    `json:"value"`
	err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v (%s=%q)", e.Code, e.err, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// Message returns the human readable part without code or value.
func (e *ValidationError) Message() string {
	return e.err.Error()
}

func categoryNotFound(raw string) error {
	return &ValidationError{Code: CodeCategoryNotFound, Field: "business_type", Value: raw, err: ErrCategoryNotFound}
}

func invalidRevenue(v float64) error {
	return &ValidationError{Code: CodeInvalidRevenue, Field: "monthly_revenue", Value: fmt.Sprintf("%g", v), err: ErrInvalidRevenue}
}

func planNotFound(raw string) error {
	return &ValidationError{Code: CodePlanNotFound, Field: "plan", Value: raw, err: ErrPlanNotFound}
}

func invalidInput(field string, v float64) error {
	return &ValidationError{Code: CodeInvalidInput, Field: field, Value: fmt.Sprintf("%g", v), err: ErrInvalidInput}
}

func outOfRange(field string, v float64) error {
	return &ValidationError{Code: CodeOutOfRange, Field: field, Value: fmt.Sprintf("%g", v), err: ErrOutOfRange}
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
