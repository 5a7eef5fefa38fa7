// Package pose provides the SE(3) pose algebra used by the frame graphs
// and the pose resolver, backed by gonum's quaternion and vector types.
package pose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pose3 is a rigid transform: the pose of one frame expressed in another.
// Pos is the child origin in the parent frame; Rot rotates child-frame
// vectors into the parent frame. Rot must be kept unit length.
type Pose3 struct {
	Pos r3.Vec
	Rot quat.Number
}

// Identity returns the identity transform.
func Identity() Pose3 {
	return Pose3{Rot: quat.Number{Real: 1}}
}

// New builds a pose from a translation and roll/pitch/yaw Euler angles
// (extrinsic x-y-z, the SDF <pose> convention).
func New(x, y, z, roll, pitch, yaw float64) Pose3 {
	return Pose3{
		Pos: r3.Vec{X: x, Y: y, Z: z},
		Rot: fromEuler(roll, pitch, yaw),
	}
}

// Mul composes two transforms: if p expresses frame B in frame A and q
// expresses frame C in frame B, p.Mul(q) expresses frame C in frame A.
func (p Pose3) Mul(q Pose3) Pose3 {
	return Pose3{
		Pos: r3.Add(p.Pos, rotate(p.Rot, q.Pos)),
		Rot: quat.Mul(p.Rot, q.Rot),
	}
}

// Inverse returns the transform in the opposite direction.
func (p Pose3) Inverse() Pose3 {
	inv := quat.Conj(p.Rot)
	return Pose3{
		Pos: rotate(inv, r3.Scale(-1, p.Pos)),
		Rot: inv,
	}
}

// Euler returns the rotation as roll/pitch/yaw angles.
func (p Pose3) Euler() (roll, pitch, yaw float64) {
	return toEuler(p.Rot)
}

// Equal reports componentwise equality within tol, comparing rotations up
// to quaternion sign.
func (p Pose3) Equal(q Pose3, tol float64) bool {
	if math.Abs(p.Pos.X-q.Pos.X) > tol ||
		math.Abs(p.Pos.Y-q.Pos.Y) > tol ||
		math.Abs(p.Pos.Z-q.Pos.Z) > tol {
		return false
	}
	d := p.Rot.Real*q.Rot.Real + p.Rot.Imag*q.Rot.Imag +
		p.Rot.Jmag*q.Rot.Jmag + p.Rot.Kmag*q.Rot.Kmag
	return math.Abs(math.Abs(d)-1) < tol
}

// String renders the pose in SDF text form: "x y z roll pitch yaw".
func (p Pose3) String() string {
	r, pit, y := p.Euler()
	return fmt.Sprintf("%.17g %.17g %.17g %.17g %.17g %.17g",
		p.Pos.X, p.Pos.Y, p.Pos.Z, r, pit, y)
}

// rotate applies the unit quaternion q to v.
func rotate(q quat.Number, v r3.Vec) r3.Vec {
	qv := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, qv), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// fromEuler builds a unit quaternion from extrinsic x-y-z angles,
// equivalent to qz(yaw) * qy(pitch) * qx(roll).
func fromEuler(roll, pitch, yaw float64) quat.Number {
	cr, sr := math.Cos(roll/2), math.Sin(roll/2)
	cp, sp := math.Cos(pitch/2), math.Sin(pitch/2)
	cy, sy := math.Cos(yaw/2), math.Sin(yaw/2)
	return quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}
}

func toEuler(q quat.Number) (roll, pitch, yaw float64) {
	sinrCosp := 2 * (q.Real*q.Imag + q.Jmag*q.Kmag)
	cosrCosp := 1 - 2*(q.Imag*q.Imag+q.Jmag*q.Jmag)
	roll = math.Atan2(sinrCosp, cosrCosp)

	sinp := 2 * (q.Real*q.Jmag - q.Kmag*q.Imag)
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	sinyCosp := 2 * (q.Real*q.Kmag + q.Imag*q.Jmag)
	cosyCosp := 1 - 2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag)
	yaw = math.Atan2(sinyCosp, cosyCosp)
	return roll, pitch, yaw
}
