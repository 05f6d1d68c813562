package eval

// ResidualFunctor computes residuals r(parameters) for a least-squares
// problem, in plain float64 form and in forward-mode dual form. Parameter
// and residual counts are read at call time, not fixed up front. A false
// return signals a numeric or domain failure; no partial result may be
// trusted after it.
type ResidualFunctor interface {
	NumParameters() int
	NumResiduals() int
	Residuals(parameters, residuals []float64) bool
	ResidualsDual(parameters, residuals []Dual) bool
}

// StorageOrder selects the memory layout of the Jacobian produced by
// CostFunction.Evaluate.
type StorageOrder int

const (
	// RowMajor lays residual k's gradient out contiguously, the convention
	// of general-purpose solvers.
	RowMajor StorageOrder = iota
	// ColMajor lays parameter j's column out contiguously, the convention
	// of small fixed-size solvers.
	ColMajor
)

// CostFunction adapts a ResidualFunctor to the Evaluate(parameters,
// residuals, jacobian) calling convention of Jacobian-based least-squares
// solvers. The Jacobian is computed in forward-mode batches of Stride
// derivative directions per functor invocation.
type CostFunction struct {
	functor ResidualFunctor
	order   StorageOrder
}

// NewCostFunction wraps functor, producing Jacobians in the given storage
// order.
func NewCostFunction(functor ResidualFunctor, order StorageOrder) *CostFunction {
	return &CostFunction{functor: functor, order: order}
}

// NumParameters reports the wrapped functor's current parameter count.
func (c *CostFunction) NumParameters() int { return c.functor.NumParameters() }

// NumResiduals reports the wrapped functor's current residual count.
func (c *CostFunction) NumResiduals() int { return c.functor.NumResiduals() }

// Evaluate computes residuals and, when jacobian is non-nil, the Jacobian of
// the residuals with respect to the parameters. jacobian must hold
// NumResiduals*NumParameters elements in the configured storage order.
//
// With a nil jacobian the call delegates straight to the functor. Otherwise
// it runs ceil(numParameters/Stride) dual passes: each pass seeds up to
// Stride parameters with unit tangents, evaluates the functor once and
// scatters the resulting derivative columns into place. The final pass may
// seed fewer than Stride directions. Residual values are identical across
// passes and are copied out from the final one only. Any pass failing makes
// Evaluate return false immediately.
func (c *CostFunction) Evaluate(parameters, residuals, jacobian []float64) bool {
	if jacobian == nil {
		return c.functor.Residuals(parameters, residuals)
	}

	numParameters := c.functor.NumParameters()
	numResiduals := c.functor.NumResiduals()

	input := make([]Dual, numParameters)
	output := make([]Dual, numResiduals)
	for j := range input {
		input[j].A = parameters[j]
	}

	numStrides := (numParameters + Stride - 1) / Stride
	cursor := 0

	for pass := 0; pass < numStrides; pass++ {
		start := cursor

		active := 0
		for j := range input {
			input[j].V = [Stride]float64{}
			if active < Stride && j >= start {
				input[j].V[active] = 1
				active++
			}
		}

		if !c.functor.ResidualsDual(input, output) {
			return false
		}

		active = 0
		for j := start; j < numParameters && active < Stride; j++ {
			for k := 0; k < numResiduals; k++ {
				c.set(jacobian, k, j, numResiduals, numParameters, output[k].V[active])
			}
			active++
			cursor++
		}

		if pass == numStrides-1 {
			for k := range output {
				residuals[k] = output[k].A
			}
		}
	}
	return true
}

func (c *CostFunction) set(jacobian []float64, k, j, numResiduals, numParameters int, v float64) {
	if c.order == RowMajor {
		jacobian[k*numParameters+j] = v
	} else {
		jacobian[j*numResiduals+k] = v
	}
}
