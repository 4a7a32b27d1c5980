// ABOUTME: Tests for rating coercion and range validation.
// ABOUTME: Covers numeric parsing, whitespace, non-finite values and strict mode.
package validation

import (
	"errors"
	"testing"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		strict  bool
		want    float64
		wantErr error
	}{
		{"integer", "4", false, 4, nil},
		{"decimal", "3.5", false, 3.5, nil},
		{"padded", "  2.25 \n", false, 2.25, nil},
		{"exponent", "1e0", false, 1, nil},
		{"out of range lenient", "11", false, 11, nil},
		{"negative lenient", "-2", false, -2, nil},
		{"empty", "", false, 0, ErrRequired},
		{"blank", "   ", false, 0, ErrRequired},
		{"word", "abc", false, 0, ErrNotNumeric},
		{"trailing junk", "4 stars", false, 0, ErrNotNumeric},
		{"nan", "NaN", false, 0, ErrNotFinite},
		{"inf", "inf", false, 0, ErrNotFinite},
		{"hex float", "0x1p2", false, 0, ErrNotNumeric},
		{"signed hex", "-0X4", false, 0, ErrNotNumeric},
		{"strict low", "0.5", true, 0, ErrOutOfRange},
		{"strict high", "5.5", true, 0, ErrOutOfRange},
		{"strict edge low", "1", true, 1, nil},
		{"strict edge high", "5", true, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRating(tt.input, tt.strict)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseRating(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRating(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRating(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInRange(t *testing.T) {
	if !InRange(3) {
		t.Error("expected 3 to be in range")
	}
	if InRange(0) {
		t.Error("expected 0 to be out of range")
	}
	if InRange(5.01) {
		t.Error("expected 5.01 to be out of range")
	}
}
