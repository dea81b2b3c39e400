package linsys

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopan/utils"
)

var (
	ErrShape         = errors.New("incompatible system dimensions")
	ErrFactorization = errors.New("factorization failed")
)

type Method uint8

const (
	LeastSquares Method = iota // SVD based, minimum norm
	QR
	Direct // LU when square, Cholesky of the normal equations otherwise
)

var (
	MethodNames = map[string]Method{
		"lstsq":  LeastSquares,
		"svd":    LeastSquares,
		"qr":     QR,
		"direct": Direct,
	}
	MethodPrintNames = []string{"Least Squares (SVD)", "Least Squares (QR)", "Direct"}
)

func NewMethod(label string) (m Method, err error) {
	var ok bool
	if len(label) == 0 {
		return LeastSquares, nil
	}
	label = strings.ToLower(label)
	if m, ok = MethodNames[label]; !ok {
		err = fmt.Errorf("unable to use solve method named %s", label)
	}
	return
}

func (m Method) Print() (txt string) {
	txt = MethodPrintNames[m]
	return
}

// Diagnostics describe the quality of a solution. A rank deficient or ill-conditioned
// system still produces a solution, these numbers let the caller judge it.
type Diagnostics struct {
	Method                   Method
	Rows, Cols               int
	Rank                     int
	Residual                 float64 // 2-norm of Ax-b
	MaxResidual              float64
	MaxSingular, MinSingular float64
	ConditionNumber          float64
	Warning                  string
	SolveTime                time.Duration
}

func (d Diagnostics) RankDeficient() bool { return d.Rank < d.Cols }

func (d Diagnostics) Print() {
	fmt.Printf("    Method: %s\n", d.Method.Print())
	fmt.Printf("    System: %d x %d\n", d.Rows, d.Cols)
	fmt.Printf("    Rank of A matrix: %d\n", d.Rank)
	fmt.Printf("    Maximum residual: %g\n", d.MaxResidual)
	fmt.Printf("    Max singular value of A: %g\n", d.MaxSingular)
	fmt.Printf("    Min singular value of A: %g\n", d.MinSingular)
	fmt.Printf("    Condition number: %g\n", d.ConditionNumber)
	if len(d.Warning) != 0 {
		fmt.Printf("    Warning: %s\n", d.Warning)
	}
}

// Solve finds x minimizing |Ax - b|. The singular values of A are always computed so the
// diagnostics are the same regardless of method.
func Solve(A mat.Matrix, b mat.Vector, method Method) (x *mat.VecDense, diag Diagnostics, err error) {
	var (
		start  = time.Now()
		nr, nc = A.Dims()
		svd    mat.SVD
	)
	if b.Len() != nr || nr == 0 || nc == 0 {
		err = fmt.Errorf("%w: A is %d x %d, b has length %d", ErrShape, nr, nc, b.Len())
		return
	}
	diag = Diagnostics{Method: method, Rows: nr, Cols: nc}
	if !svd.Factorize(A, mat.SVDThin) {
		err = fmt.Errorf("%w: SVD did not converge", ErrFactorization)
		return
	}
	values := svd.Values(nil)
	diag.MaxSingular, diag.MinSingular = floats.Max(values), floats.Min(values)
	diag.ConditionNumber = math.Inf(1)
	if diag.MinSingular > 0 {
		diag.ConditionNumber = diag.MaxSingular / diag.MinSingular
	}
	rcond := 2.2204460492503131e-16 * float64(max(nr, nc))
	diag.Rank = svd.Rank(rcond)
	if diag.RankDeficient() {
		diag.Warning = fmt.Sprintf("rank deficient system, rank %d < %d unknowns", diag.Rank, nc)
	}

	x = mat.NewVecDense(nc, nil)
	switch method {
	case LeastSquares:
		if diag.Rank > 0 {
			svd.SolveVecTo(x, b, diag.Rank)
		}
	case QR:
		if nr < nc {
			err = fmt.Errorf("%w: QR needs rows >= columns, have %d x %d", ErrShape, nr, nc)
			return
		}
		var qr mat.QR
		qr.Factorize(A)
		err = qr.SolveVecTo(x, false, b)
	case Direct:
		err = solveDirect(A, b, x)
	default:
		err = fmt.Errorf("unknown solve method %d", method)
		return
	}
	if err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return
		}
		diag.Warning = strings.TrimPrefix(diag.Warning+"; "+err.Error(), "; ")
		err = nil
	}
	if utils.IsNan(x.RawVector().Data) {
		err = fmt.Errorf("%w: non-finite solution using %s", ErrFactorization, method.Print())
		return
	}

	var r mat.VecDense
	r.MulVec(A, x)
	r.SubVec(&r, b)
	diag.Residual = mat.Norm(&r, 2)
	diag.MaxResidual = mat.Norm(&r, math.Inf(1))
	diag.SolveTime = time.Since(start)
	return
}

func solveDirect(A mat.Matrix, b mat.Vector, x *mat.VecDense) (err error) {
	nr, nc := A.Dims()
	if nr == nc {
		var lu mat.LU
		lu.Factorize(A)
		return lu.SolveVecTo(x, false, b)
	}
	if nr < nc {
		return fmt.Errorf("%w: underdetermined %d x %d system has no direct solution", ErrShape, nr, nc)
	}
	var (
		ata  mat.SymDense
		atb  mat.VecDense
		chol mat.Cholesky
	)
	ata.SymOuterK(1, A.T())
	atb.MulVec(A.T(), b)
	if !chol.Factorize(&ata) {
		return fmt.Errorf("%w: normal equations are not positive definite", ErrFactorization)
	}
	return chol.SolveVecTo(x, &atb)
}
