package testutil

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/evoscope/symgp/pkg/dataset"
)

// SyntheticProblem is a named regression benchmark with a known generating
// function.
type SyntheticProblem struct {
	Name   string
	Data   *dataset.Dataset
	Target int // target column index
}

// PolyProblem builds rows of y = x^3 + x^2 + x over [-1, 1], the classic
// Koza-1 benchmark.
func PolyProblem(rows int, rng *rand.Rand) (SyntheticProblem, error) {
	x := make([]float64, rows)
	y := make([]float64, rows)
	for i := range x {
		v := rng.Float64()*2 - 1
		x[i] = v
		y[i] = v*v*v + v*v + v
	}
	d, err := dataset.New([]string{"x", "y"}, [][]float64{x, y})
	if err != nil {
		return SyntheticProblem{}, fmt.Errorf("building poly problem: %w", err)
	}
	return SyntheticProblem{Name: "koza-1", Data: d, Target: 1}, nil
}

// PagiePolynomial builds rows of z = 1/(1+x^-4) + 1/(1+y^-4) on a grid, a
// harder two-variable benchmark.
func PagiePolynomial(side int) (SyntheticProblem, error) {
	rows := side * side
	x := make([]float64, 0, rows)
	y := make([]float64, 0, rows)
	z := make([]float64, 0, rows)
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			a := -5 + 10*float64(i)/float64(side-1)
			b := -5 + 10*float64(j)/float64(side-1)
			if a == 0 || b == 0 {
				continue // the generating function has poles on the axes
			}
			x = append(x, a)
			y = append(y, b)
			z = append(z, 1/(1+math.Pow(a, -4))+1/(1+math.Pow(b, -4)))
		}
	}
	d, err := dataset.New([]string{"x", "y", "z"}, [][]float64{x, y, z})
	if err != nil {
		return SyntheticProblem{}, fmt.Errorf("building pagie problem: %w", err)
	}
	return SyntheticProblem{Name: "pagie-1", Data: d, Target: 2}, nil
}
