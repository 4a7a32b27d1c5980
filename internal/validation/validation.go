// ABOUTME: Field validation for review entries using go-playground/validator.
// ABOUTME: Coerces rating text to a finite number and optionally enforces the 1-5 range.
package validation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Rating bounds shown to users. Only enforced in strict mode.
const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrNotNumeric is returned when rating text does not parse as a number.
	ErrNotNumeric = errors.New("must be a number")

	// ErrNotFinite is returned for NaN and infinite ratings, which JSON cannot hold.
	ErrNotFinite = errors.New("must be a finite number")

	// ErrOutOfRange is returned in strict mode for ratings outside MinRating..MaxRating.
	ErrOutOfRange = fmt.Errorf("must be between %d and %d", MinRating, MaxRating)

	// ErrRequired is returned for empty rating text.
	ErrRequired = errors.New("is required")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// rawRating is the pre-parse rule set.
type rawRating struct {
	Text string `validate:"required"`
}

// strictRating is the range rule applied after parsing.
type strictRating struct {
	Value float64 `validate:"gte=1,lte=5"`
}

func get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ParseRating converts user-typed rating text to a float. Surrounding
// whitespace is ignored. When strict is set the value must lie in 1..5.
func ParseRating(text string, strict bool) (float64, error) {
	text = strings.TrimSpace(text)
	if err := get().Struct(rawRating{Text: text}); err != nil {
		return 0, translate(err)
	}

	if isHex(text) {
		return 0, ErrNotNumeric
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, ErrNotNumeric
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrNotFinite
	}

	if strict {
		if err := get().Struct(strictRating{Value: value}); err != nil {
			return 0, translate(err)
		}
	}
	return value, nil
}

// isHex reports whether text uses the 0x float form, which ParseFloat
// accepts but ratings do not.
func isHex(text string) bool {
	text = strings.TrimLeft(text, "+-")
	return len(text) >= 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X')
}

// InRange reports whether a rating lies within MinRating..MaxRating.
func InRange(value float64) bool {
	return get().Var(value, "gte=1,lte=5") == nil
}

// translate maps validator tag failures onto the package's error values.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Tag() {
	case "required":
		return ErrRequired
	case "gte", "lte":
		return ErrOutOfRange
	}
	return fmt.Errorf("failed %s check", verrs[0].Tag())
}
