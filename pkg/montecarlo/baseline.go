package montecarlo

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// ErrZeroReference is returned when a relative error is requested against a zero reference value.
var ErrZeroReference = errors.New("reference value is zero")

// DefaultQuadraturePoints is the number of Gauss-Legendre nodes used by the quadrature baseline.
const DefaultQuadraturePoints = 64

// QuadratureResult is a fixed-rule quadrature value with an error estimate.
type QuadratureResult struct {
	Value float64
	// ErrorEstimate is |Q(n) - Q(n/2)|.
	ErrorEstimate float64
	Points        int
}

// Quadrature integrates f over [a, b] with an n-point Gauss-Legendre rule.
func Quadrature(f Func, a, b float64, n int) (*QuadratureResult, error) {
	if err := validate(a, b, n); err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: quadrature needs at least 2 points, got %d", ErrInvalidSampleCount, n)
	}
	full := quad.Fixed(f, a, b, n, quad.Legendre{}, 0)
	half := quad.Fixed(f, a, b, n/2, quad.Legendre{}, 0)
	return &QuadratureResult{
		Value:         full,
		ErrorEstimate: math.Abs(full - half),
		Points:        n,
	}, nil
}

// AbsoluteError returns |estimate - reference|.
func AbsoluteError(estimate, reference float64) float64 {
	return math.Abs(estimate - reference)
}

// RelativeErrorPercent returns |estimate - reference| / |reference| as a percentage.
func RelativeErrorPercent(estimate, reference float64) (float64, error) {
	if reference == 0 {
		return 0, ErrZeroReference
	}
	return AbsoluteError(estimate, reference) / math.Abs(reference) * 100, nil
}

// Accuracy classifies a relative error.
type Accuracy string

const (
	AccuracyExcellent    Accuracy = "Excellent"
	AccuracyGood         Accuracy = "Good"
	AccuracySatisfactory Accuracy = "Satisfactory"
	AccuracyLow          Accuracy = "Low"
)

// AccuracyOf returns the accuracy band of a relative error given in percent.
func AccuracyOf(relativePercent float64) Accuracy {
	switch {
	case relativePercent < 1:
		return AccuracyExcellent
	case relativePercent < 5:
		return AccuracyGood
	case relativePercent < 10:
		return AccuracySatisfactory
	default:
		return AccuracyLow
	}
}
