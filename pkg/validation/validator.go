package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// ErrNilStruct is returned when ValidateStruct is given a nil pointer.
	ErrNilStruct = errors.New("cannot validate nil struct")
)

func init() {
	validate = validator.New()
	// "threshold" accepts similarity thresholds: finite floats in [0,1].
	_ = validate.RegisterValidation("threshold", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.Float64 && f.Kind() != reflect.Float32 {
			return false
		}
		return checkThreshold(f.Float()) == nil
	})
}

// ValidateStruct validates v against its `validate` struct tags and reports
// the first failure in a user-facing form.
func ValidateStruct(v any) error {
	if v == nil {
		return ErrNilStruct
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ErrNilStruct
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateThreshold checks a similarity threshold.
func ValidateThreshold(threshold float64) error {
	if err := checkThreshold(threshold); err != nil {
		return fmt.Errorf("Threshold: %w", err)
	}
	return nil
}

func checkThreshold(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return errors.New("must be a number")
	}
	if t < 0 || t > 1 {
		return fmt.Errorf("must be in [0,1], got %g", t)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gte":
			return fmt.Errorf("%s: must be greater than or equal to %s", field, param)
		case "lte":
			return fmt.Errorf("%s: must be less than or equal to %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %v", field, param, e.Value())
		case "threshold":
			return fmt.Errorf("%s: must be a threshold in [0,1], got %v", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
