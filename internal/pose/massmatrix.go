package pose

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// MassMatrix3 is the spatial inertia of a link: scalar mass plus the
// symmetric 3x3 rotational inertia about the inertial frame origin.
type MassMatrix3 struct {
	Mass float64

	// Ixx, Iyy, Izz are the diagonal moments of inertia.
	Ixx, Iyy, Izz float64

	// Ixy, Ixz, Iyz are the off-diagonal products of inertia.
	Ixy, Ixz, Iyz float64
}

// DefaultMassMatrix mirrors the schema defaults: unit mass, unit
// diagonal moments.
func DefaultMassMatrix() MassMatrix3 {
	return MassMatrix3{Mass: 1, Ixx: 1, Iyy: 1, Izz: 1}
}

// DiagonalMoments returns the diagonal moments as a vector.
func (m MassMatrix3) DiagonalMoments() r3.Vec {
	return r3.Vec{X: m.Ixx, Y: m.Iyy, Z: m.Izz}
}

// OffDiagonalMoments returns the products of inertia as a vector.
func (m MassMatrix3) OffDiagonalMoments() r3.Vec {
	return r3.Vec{X: m.Ixy, Y: m.Ixz, Z: m.Iyz}
}

// IsValid reports whether the mass is positive and the inertia matrix is
// positive definite. Positive definiteness is decided by attempting a
// Cholesky factorization of the symmetric moment matrix.
func (m MassMatrix3) IsValid() bool {
	if m.Mass <= 0 {
		return false
	}
	moi := mat.NewSymDense(3, []float64{
		m.Ixx, m.Ixy, m.Ixz,
		m.Ixy, m.Iyy, m.Iyz,
		m.Ixz, m.Iyz, m.Izz,
	})
	var chol mat.Cholesky
	return chol.Factorize(moi)
}
