package voxelgrid

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestRaycastDegenerate(t *testing.T) {
	g, err := NewGrid(1)
	test.That(t, err, test.ShouldBeNil)

	p := r3.Vector{X: 1.5, Y: 2.5, Z: 3.5}
	ray := g.Raycast(p, p)
	test.That(t, ray, test.ShouldResemble, []Coords{{I: 1, J: 2, K: 3}})
}

func TestRaycastAxisAligned(t *testing.T) {
	g, err := NewGrid(1)
	test.That(t, err, test.ShouldBeNil)

	ray := g.Raycast(r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, r3.Vector{X: 3.5, Y: 0.5, Z: 0.5})
	test.That(t, ray, test.ShouldResemble, []Coords{
		{I: 0, J: 0, K: 0},
		{I: 1, J: 0, K: 0},
		{I: 2, J: 0, K: 0},
		{I: 3, J: 0, K: 0},
	})

	// Negative direction walks far-to-near in grid terms but still starts at
	// the origin voxel.
	ray = g.Raycast(r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, r3.Vector{X: 0.5, Y: -1.5, Z: 0.5})
	test.That(t, ray, test.ShouldResemble, []Coords{
		{I: 0, J: 0, K: 0},
		{I: 0, J: -1, K: 0},
		{I: 0, J: -2, K: 0},
	})
}

func TestRaycastOrderedNearToFar(t *testing.T) {
	g, err := NewGrid(0.25)
	test.That(t, err, test.ShouldBeNil)

	origin := r3.Vector{X: 0.1, Y: 0.1, Z: 0.1}
	endpoint := r3.Vector{X: 1.9, Y: 1.3, Z: 0.7}
	ray := g.Raycast(origin, endpoint)

	test.That(t, ray[0], test.ShouldResemble, g.CoordsOf(origin))
	test.That(t, ray[len(ray)-1], test.ShouldResemble, g.CoordsOf(endpoint))

	// Every step crosses exactly one voxel face and never backtracks along
	// the dominant directions.
	for i := 1; i < len(ray); i++ {
		di := ray[i].I - ray[i-1].I
		dj := ray[i].J - ray[i-1].J
		dk := ray[i].K - ray[i-1].K
		test.That(t, abs64(di)+abs64(dj)+abs64(dk), test.ShouldEqual, 1)
		test.That(t, di, test.ShouldBeGreaterThanOrEqualTo, 0)
		test.That(t, dj, test.ShouldBeGreaterThanOrEqualTo, 0)
		test.That(t, dk, test.ShouldBeGreaterThanOrEqualTo, 0)
	}
}
