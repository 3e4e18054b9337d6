package errors

import (
	"math"
	"testing"
)

type sampleConfig struct {
	Cooling    float64 `validate:"gt=0,lt=1"`
	Iterations int     `validate:"gte=1"`
	Mode       string  `validate:"oneof=linear cubic"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		cfg     sampleConfig
		wantErr bool
	}{
		{"valid", sampleConfig{Cooling: 0.9, Iterations: 10, Mode: "linear"}, false},
		{"cooling zero", sampleConfig{Cooling: 0, Iterations: 10, Mode: "linear"}, true},
		{"cooling one", sampleConfig{Cooling: 1, Iterations: 10, Mode: "linear"}, true},
		{"no iterations", sampleConfig{Cooling: 0.5, Iterations: 0, Mode: "cubic"}, true},
		{"bad mode", sampleConfig{Cooling: 0.5, Iterations: 3, Mode: "bounce"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfiguration) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidConfiguration)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"positive", 0.7, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePositive("m", tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "a", false},
		{"lattice", "3,2", false},
		{"unicode", "knoten-ä", false},
		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"newline", "a\nb", true},
		{"null byte", "a\x00b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateNodeID(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
