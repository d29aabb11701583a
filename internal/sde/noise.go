package sde

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Noise fills z with one step's worth of standard normal increments.
// Implementations must be safe for concurrent use with distinct rng values.
type Noise interface {
	Draw(rng *rand.Rand, z []float64)
	Dim() int
}

// Independent draws N uncorrelated standard normals.
type Independent struct {
	N int
}

func (n Independent) Dim() int { return n.N }

func (n Independent) Draw(rng *rand.Rand, z []float64) {
	for i := 0; i < n.N; i++ {
		z[i] = rng.NormFloat64()
	}
}

// Correlated draws independent normals u and returns A·u, where A is the
// lower-triangular factor of the correlation matrix. A is computed once in
// [NewCorrelated] and only read afterwards.
type Correlated struct {
	n      int
	factor [MaxFactors][MaxFactors]float64
}

// NewCorrelated factors a symmetric positive-semidefinite correlation matrix.
func NewCorrelated(corr [][]float64) (*Correlated, error) {
	n := len(corr)
	if n == 0 {
		return nil, configErr("correlation", "empty matrix")
	}
	for i, row := range corr {
		if len(row) != n {
			return nil, configErr("correlation", fmt.Sprintf("row %d has %d entries, want %d", i, len(row), n))
		}
	}
	if n > MaxFactors {
		return nil, configErr("correlation", fmt.Sprintf("%d factors, at most %d supported", n, MaxFactors))
	}
	for i := 0; i < n; i++ {
		if math.Abs(corr[i][i]-1) > 1e-12 {
			return nil, configErr("correlation", fmt.Sprintf("diagonal entry %d is %g, want 1", i, corr[i][i]))
		}
		for j := 0; j < i; j++ {
			v := corr[i][j]
			if v != corr[j][i] {
				return nil, configErr("correlation", "matrix is not symmetric")
			}
			if !(v >= -1 && v <= 1) {
				return nil, configErr("correlation", fmt.Sprintf("entry (%d,%d) = %g outside [-1, 1]", i, j, v))
			}
		}
	}

	data := make([]float64, 0, n*n)
	for _, row := range corr {
		data = append(data, row...)
	}
	l := lowerFactor(mat.NewSymDense(n, data))

	c := &Correlated{n: n}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			c.factor[i][j] = l.At(i, j)
		}
	}
	return c, nil
}

// lowerFactor returns L with L·Lᵀ = corr. A correlation of ±1 makes the
// matrix singular and the Cholesky factorization fails; for two factors the
// semidefinite factor is then [[1, 0], [ρ, 0]].
func lowerFactor(corr *mat.SymDense) *mat.TriDense {
	var chol mat.Cholesky
	if chol.Factorize(corr) {
		var l mat.TriDense
		chol.LTo(&l)
		return &l
	}

	n := corr.SymmetricDim()
	l := mat.NewTriDense(n, mat.Lower, nil)
	l.SetTri(0, 0, 1)
	if n == 2 {
		rho := corr.At(1, 0)
		l.SetTri(1, 0, rho)
		l.SetTri(1, 1, math.Sqrt(math.Max(0, 1-rho*rho)))
	}
	return l
}

// Pair returns the two-factor noise with correlation rho.
func Pair(rho float64) (*Correlated, error) {
	return NewCorrelated([][]float64{
		{1, rho},
		{rho, 1},
	})
}

func (c *Correlated) Dim() int { return c.n }

// Factor returns a copy of the lower-triangular factor A.
func (c *Correlated) Factor() *mat.TriDense {
	a := mat.NewTriDense(c.n, mat.Lower, nil)
	for i := 0; i < c.n; i++ {
		for j := 0; j <= i; j++ {
			a.SetTri(i, j, c.factor[i][j])
		}
	}
	return a
}

func (c *Correlated) Draw(rng *rand.Rand, z []float64) {
	var u [MaxFactors]float64
	for i := 0; i < c.n; i++ {
		u[i] = rng.NormFloat64()
	}
	for i := 0; i < c.n; i++ {
		sum := 0.0
		for j := 0; j <= i; j++ {
			sum += c.factor[i][j] * u[j]
		}
		z[i] = sum
	}
}
