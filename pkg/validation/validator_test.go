package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
)

type runSettings struct {
	Input     string  `validate:"required"`
	Threshold float64 `validate:"threshold"`
	Workers   int     `validate:"gte=1,lte=64"`
	Format    string  `validate:"oneof=text parquet both"`
	Step      float64 `validate:"gt=0"`
}

func validSettings() runSettings {
	return runSettings{Input: "net.pairs", Threshold: 0.4, Workers: 4, Format: "text", Step: 0.05}
}

// TestValidateStruct tests tag validation and its error messages
func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*runSettings)
		errorField string
		errorText  string
	}{
		{name: "Valid settings", mutate: func(*runSettings) {}},
		{name: "Threshold lower bound", mutate: func(s *runSettings) { s.Threshold = 0 }},
		{name: "Threshold upper bound", mutate: func(s *runSettings) { s.Threshold = 1 }},
		{name: "Missing input", mutate: func(s *runSettings) { s.Input = "" }, errorField: "Input", errorText: "required"},
		{name: "Threshold above one", mutate: func(s *runSettings) { s.Threshold = 1.5 }, errorField: "Threshold", errorText: "[0,1]"},
		{name: "Negative threshold", mutate: func(s *runSettings) { s.Threshold = -0.1 }, errorField: "Threshold", errorText: "[0,1]"},
		{name: "NaN threshold", mutate: func(s *runSettings) { s.Threshold = math.NaN() }, errorField: "Threshold", errorText: "[0,1]"},
		{name: "Zero workers", mutate: func(s *runSettings) { s.Workers = 0 }, errorField: "Workers", errorText: "greater than or equal to 1"},
		{name: "Too many workers", mutate: func(s *runSettings) { s.Workers = 65 }, errorField: "Workers", errorText: "less than or equal to 64"},
		{name: "Unknown format", mutate: func(s *runSettings) { s.Format = "csv" }, errorField: "Format", errorText: "one of [text parquet both]"},
		{name: "Zero step", mutate: func(s *runSettings) { s.Step = 0 }, errorField: "Step", errorText: "greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)
			err := ValidateStruct(&s)

			if tt.errorField == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !strings.HasPrefix(err.Error(), tt.errorField+":") {
				t.Errorf("Expected error for field %s, got: %v", tt.errorField, err)
			}
			if !strings.Contains(err.Error(), tt.errorText) {
				t.Errorf("Expected error to mention %q, got: %v", tt.errorText, err)
			}
		})
	}
}

func TestValidateStruct_Nil(t *testing.T) {
	var s *runSettings
	if err := ValidateStruct(s); !errors.Is(err, ErrNilStruct) {
		t.Errorf("Expected ErrNilStruct for nil pointer, got: %v", err)
	}
	if err := ValidateStruct(nil); !errors.Is(err, ErrNilStruct) {
		t.Errorf("Expected ErrNilStruct for nil, got: %v", err)
	}
}

func TestValidateThreshold(t *testing.T) {
	valid := []float64{0, 0.25, 0.5, 1}
	for _, v := range valid {
		if err := ValidateThreshold(v); err != nil {
			t.Errorf("ValidateThreshold(%g) returned error: %v", v, err)
		}
	}

	invalid := []float64{-0.001, 1.0001, 2, math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, v := range invalid {
		err := ValidateThreshold(v)
		if err == nil {
			t.Errorf("ValidateThreshold(%g) should fail", v)
			continue
		}
		if !strings.HasPrefix(err.Error(), "Threshold:") {
			t.Errorf("Expected field prefix in error, got: %v", err)
		}
	}
}
