package eval

import "math"

// Stride is the number of derivative directions carried by one Dual, i.e.
// the batch width of a single forward-mode pass. Sized for one SIMD register
// worth of float64 lanes.
const Stride = 4

// Dual is a forward-mode dual number: a value and Stride tangent components.
// Arithmetic propagates derivatives by the chain rule.
type Dual struct {
	A float64
	V [Stride]float64
}

// Value lifts a plain float64 into a Dual with zero tangents.
func Value(a float64) Dual { return Dual{A: a} }

func (x Dual) Add(y Dual) Dual {
	out := Dual{A: x.A + y.A}
	for i := range out.V {
		out.V[i] = x.V[i] + y.V[i]
	}
	return out
}

func (x Dual) Sub(y Dual) Dual {
	out := Dual{A: x.A - y.A}
	for i := range out.V {
		out.V[i] = x.V[i] - y.V[i]
	}
	return out
}

func (x Dual) Mul(y Dual) Dual {
	out := Dual{A: x.A * y.A}
	for i := range out.V {
		out.V[i] = x.V[i]*y.A + x.A*y.V[i]
	}
	return out
}

func (x Dual) Div(y Dual) Dual {
	q := x.A / y.A
	out := Dual{A: q}
	for i := range out.V {
		out.V[i] = (x.V[i] - q*y.V[i]) / y.A
	}
	return out
}

// Scale multiplies by a constant factor.
func (x Dual) Scale(c float64) Dual {
	out := Dual{A: x.A * c}
	for i := range out.V {
		out.V[i] = x.V[i] * c
	}
	return out
}

func (x Dual) Exp() Dual {
	e := math.Exp(x.A)
	out := Dual{A: e}
	for i := range out.V {
		out.V[i] = x.V[i] * e
	}
	return out
}

func (x Dual) Log() Dual {
	out := Dual{A: math.Log(x.A)}
	for i := range out.V {
		out.V[i] = x.V[i] / x.A
	}
	return out
}

func (x Dual) Sin() Dual {
	s, c := math.Sincos(x.A)
	out := Dual{A: s}
	for i := range out.V {
		out.V[i] = x.V[i] * c
	}
	return out
}

func (x Dual) Cos() Dual {
	s, c := math.Sincos(x.A)
	out := Dual{A: c}
	for i := range out.V {
		out.V[i] = -x.V[i] * s
	}
	return out
}

func (x Dual) Tan() Dual {
	t := math.Tan(x.A)
	d := 1 + t*t
	out := Dual{A: t}
	for i := range out.V {
		out.V[i] = x.V[i] * d
	}
	return out
}

func (x Dual) Sqrt() Dual {
	s := math.Sqrt(x.A)
	out := Dual{A: s}
	for i := range out.V {
		out.V[i] = x.V[i] / (2 * s)
	}
	return out
}

func (x Dual) Square() Dual {
	out := Dual{A: x.A * x.A}
	for i := range out.V {
		out.V[i] = 2 * x.A * x.V[i]
	}
	return out
}

// Pow computes x**y with the full derivative of both base and exponent.
func (x Dual) Pow(y Dual) Dual {
	f := math.Pow(x.A, y.A)
	out := Dual{A: f}
	lx := math.Log(x.A)
	for i := range out.V {
		out.V[i] = f * (y.V[i]*lx + y.A*x.V[i]/x.A)
	}
	return out
}

// Aq computes the analytic quotient x / sqrt(1 + y*y).
func (x Dual) Aq(y Dual) Dual {
	denom := Value(1).Add(y.Square()).Sqrt()
	return x.Div(denom)
}
