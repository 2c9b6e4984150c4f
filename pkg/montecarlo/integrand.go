package montecarlo

import (
	"fmt"
	"math"
	"strings"
)

// Func is a function of one real variable.
type Func func(x float64) float64

// Polynomial is a polynomial with coefficients in ascending order of degree:
// Polynomial{1, 0, 3} is 1 + 3x^2.
type Polynomial []float64

// Square is f(x) = x^2.
var Square = Polynomial{0, 0, 1}

// Eval evaluates the polynomial at x.
func (p Polynomial) Eval(x float64) float64 {
	var y float64
	for i := len(p) - 1; i >= 0; i-- {
		y = y*x + p[i]
	}
	return y
}

// Func returns p as a Func.
func (p Polynomial) Func() Func {
	return p.Eval
}

// Antiderivative returns the antiderivative of p with zero constant term.
func (p Polynomial) Antiderivative() Polynomial {
	out := make(Polynomial, len(p)+1)
	for i, c := range p {
		out[i+1] = c / float64(i+1)
	}
	return out
}

// Integral returns the exact definite integral of p over [a, b].
func (p Polynomial) Integral(a, b float64) float64 {
	F := p.Antiderivative()
	return F.Eval(b) - F.Eval(a)
}

// Degree returns the degree of p, ignoring trailing zero coefficients. The zero polynomial has degree 0.
func (p Polynomial) Degree() int {
	for i := len(p) - 1; i > 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return 0
}

// String formats p from the highest degree down, e.g. "3x^2 - x + 1".
func (p Polynomial) String() string {
	var b strings.Builder
	for i := p.Degree(); i >= 0 && i < len(p); i-- {
		c := p[i]
		if c == 0 {
			continue
		}
		switch {
		case b.Len() == 0 && c < 0:
			b.WriteString("-")
		case c < 0:
			b.WriteString(" - ")
		case b.Len() > 0:
			b.WriteString(" + ")
		}
		if abs := math.Abs(c); abs != 1 || i == 0 {
			fmt.Fprintf(&b, "%g", abs)
		}
		switch i {
		case 0:
		case 1:
			b.WriteString("x")
		default:
			fmt.Fprintf(&b, "x^%d", i)
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}
