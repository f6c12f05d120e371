// Package gain scores candidate viewpoints against a voxel map: it models a
// sensor's ray frustum, classifies the voxels each ray traverses, accumulates
// a distance-decayed interestingness gain, and spreads interestingness into
// unexplored space around salient observations.
package gain

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// State is a 6-DOF robot or sensor state: a world-frame position and a ZYX
// (yaw-pitch-roll) Euler orientation in radians.
type State struct {
	Position r3.Vector
	Roll     float64
	Pitch    float64
	Yaw      float64
}

// quaternion returns the rotation taking sensor-frame vectors into the world
// frame, composed as Rz(yaw) * Ry(pitch) * Rx(roll).
func (s State) quaternion() quat.Number {
	qz := quat.Number{Real: math.Cos(s.Yaw / 2), Kmag: math.Sin(s.Yaw / 2)}
	qy := quat.Number{Real: math.Cos(s.Pitch / 2), Jmag: math.Sin(s.Pitch / 2)}
	qx := quat.Number{Real: math.Cos(s.Roll / 2), Imag: math.Sin(s.Roll / 2)}
	return quat.Mul(qz, quat.Mul(qy, qx))
}

// TransformPoint rotates a sensor-frame point into the world frame and
// translates it to the state's position.
func (s State) TransformPoint(p r3.Vector) r3.Vector {
	q := s.quaternion()
	pq := quat.Number{Imag: p.X, Jmag: p.Y, Kmag: p.Z}
	rotated := quat.Mul(q, quat.Mul(pq, quat.Conj(q)))
	return r3.Vector{
		X: rotated.Imag + s.Position.X,
		Y: rotated.Jmag + s.Position.Y,
		Z: rotated.Kmag + s.Position.Z,
	}
}
