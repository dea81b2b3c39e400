package solver

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gopan/linsys"
	"github.com/notargets/gopan/utils"
)

var (
	ErrNoCondition  = errors.New("condition has not been set")
	ErrBadCondition = errors.New("invalid condition")
	ErrNoSolution   = errors.New("no solution, call Solve first")
)

// Solver is implemented by each solution strategy, C is the strategy's flow condition
type Solver[C any] interface {
	SetCondition(c C) error
	Solve(opts SolveOptions) (Loads, error)
}

// SolveOptions zero value is a nonlifting least squares solve with moments about the origin
type SolveOptions struct {
	Lifting         bool // Enforce the Kutta condition with trailing vortices
	Method          linsys.Method
	MomentReference r3.Vec
	Verbose         bool
}

// Loads are the integrated results of a solve
type Loads struct {
	Force, Moment r3.Vec
	Diagnostics   linsys.Diagnostics
}

func (l Loads) Print() {
	fmt.Printf("Force  = [%14.6e %14.6e %14.6e]\n", l.Force.X, l.Force.Y, l.Force.Z)
	fmt.Printf("Moment = [%14.6e %14.6e %14.6e]\n", l.Moment.X, l.Moment.Y, l.Moment.Z)
}

// Freestream is the incompressible flow condition, both fields are required
type Freestream struct {
	Velocity r3.Vec
	Density  float64
}

func (fs Freestream) Validate() (err error) {
	if utils.IsNan(fs.Velocity) || r3.Norm(fs.Velocity) == 0 {
		return fmt.Errorf("%w: freestream velocity %v must be finite and non-zero", ErrBadCondition, fs.Velocity)
	}
	if !(fs.Density > 0) {
		return fmt.Errorf("%w: density %g must be positive", ErrBadCondition, fs.Density)
	}
	return
}
