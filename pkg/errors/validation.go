package errors

import (
	"errors"
	"math"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct checks the `validate` struct tags of v and reports the first
// violation as an INVALID_CONFIGURATION error naming the offending field.
func ValidateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Wrap(ErrCodeInvalidConfiguration, err, "validate %T", v)
	}
	for _, e := range verrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			return InvalidConfig("%s: field is required", field)
		case "gt":
			return InvalidConfig("%s: must be greater than %s, got %v", field, e.Param(), e.Value())
		case "gte", "min":
			return InvalidConfig("%s: must be at least %s, got %v", field, e.Param(), e.Value())
		case "lt":
			return InvalidConfig("%s: must be less than %s, got %v", field, e.Param(), e.Value())
		case "lte", "max":
			return InvalidConfig("%s: must not exceed %s, got %v", field, e.Param(), e.Value())
		case "oneof":
			return InvalidConfig("%s: must be one of [%s], got %v", field, e.Param(), e.Value())
		default:
			return InvalidConfig("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return InvalidConfig("validate %T", v)
}

// ValidatePositive rejects NaN, infinite, zero and negative values.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return InvalidConfig("%s must be a positive finite number, got %v", name, v)
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return InvalidConfig("%s must be finite, got %v", name, v)
	}
	return nil
}

// ValidateNodeID rejects ids that cannot round-trip through the JSON and DOT
// encodings.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node id too long (max 256 characters)")
	}
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			return New(ErrCodeInvalidInput, "node id %q contains control characters", id)
		}
	}
	return nil
}
