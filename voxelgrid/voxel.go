// Package voxelgrid implements a sparse truncated-signed-distance voxel map
// used for volumetric information-gain queries.
//
// A voxel represents a value on a regular grid in three-dimensional space; as
// with pixels in a 2D bitmap, voxels do not encode their own position. More
// information: https://en.wikipedia.org/wiki/Voxel
package voxelgrid

import (
	"math"
)

// Coords stores voxel coordinates in grid axes.
type Coords struct {
	I, J, K int64
}

// IsEqual tests if two Coords are the same.
func (c Coords) IsEqual(c2 Coords) bool {
	return c.I == c2.I && c.J == c2.J && c.K == c2.K
}

// unknownDistanceSentinel initializes InterestingDistance so that any real
// propagation distance compares smaller.
const unknownDistanceSentinel = math.MaxInt32

// minObservedWeight is the integration weight below which a voxel carries no
// usable distance information and classifies as unknown.
const minObservedWeight = 1e-6

// distanceEpsilon pads the free/occupied distance threshold against
// floating-point noise in integrated distances.
const distanceEpsilon = 1e-6

// TsdfVoxel is one cell of the truncated signed distance field, plus the
// interestingness bookkeeping diffused and consumed by gain queries.
type TsdfVoxel struct {
	// Distance is the signed distance to the nearest surface, truncation-bounded.
	Distance float64
	// Weight is the accumulated integration weight; near zero means unobserved.
	Weight float64
	// Interestingness is a non-negative salience score, seeded at integration
	// time and spread into unknown neighbors by diffusion.
	Interestingness float64
	// InterestingDistance is the Manhattan hop count from the nearest seed.
	InterestingDistance int
}

// NewTsdfVoxel returns a voxel with no observations and the propagation
// distance at its sentinel value.
func NewTsdfVoxel() *TsdfVoxel {
	return &TsdfVoxel{InterestingDistance: unknownDistanceSentinel}
}

// Status is the three-way occupancy classification of a voxel.
type Status int

// The possible classifications of a traversed voxel.
const (
	StatusUnknown Status = iota
	StatusFree
	StatusOccupied
)

func (s Status) String() string {
	switch s {
	case StatusFree:
		return "free"
	case StatusOccupied:
		return "occupied"
	default:
		return "unknown"
	}
}

// Classify returns the occupancy status of a voxel given the grid's voxel
// size. A nil (absent) voxel or one with negligible weight is unknown; a
// voxel whose distance clears one voxel size is free; anything else is
// occupied. This is the single classification predicate shared by scanning
// and diffusion.
func Classify(v *TsdfVoxel, voxelSize float64) Status {
	if v == nil || v.Weight < minObservedWeight {
		return StatusUnknown
	}
	if v.Distance > voxelSize+distanceEpsilon {
		return StatusFree
	}
	return StatusOccupied
}
