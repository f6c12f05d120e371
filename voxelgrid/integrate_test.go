package voxelgrid

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestIntegrateObservation(t *testing.T) {
	g, err := NewGrid(1)
	test.That(t, err, test.ShouldBeNil)

	obs := Observation{
		Origin:          r3.Vector{X: 0.5, Y: 0.5, Z: 0.5},
		Points:          []r3.Vector{{X: 4.5, Y: 0.5, Z: 0.5}},
		Interestingness: []float64{1.0},
	}
	seeds, err := g.IntegrateObservation(obs, 2.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, seeds, test.ShouldResemble, []Coords{{I: 4, J: 0, K: 0}})

	// Voxels on the way are carved free.
	for i := int64(0); i < 4; i++ {
		test.That(t, g.Classify(Coords{I: i, J: 0, K: 0}), test.ShouldEqual, StatusFree)
	}

	// The endpoint voxel is a seeded surface at propagation distance zero.
	surface := g.At(Coords{I: 4, J: 0, K: 0})
	test.That(t, Classify(surface, g.VoxelSize()), test.ShouldEqual, StatusOccupied)
	test.That(t, surface.Interestingness, test.ShouldEqual, 1.0)
	test.That(t, surface.InterestingDistance, test.ShouldEqual, 0)

	// The truncation band behind the surface is allocated but unknown.
	behind := g.At(Coords{I: 5, J: 0, K: 0})
	test.That(t, behind, test.ShouldNotBeNil)
	test.That(t, Classify(behind, g.VoxelSize()), test.ShouldEqual, StatusUnknown)
}

func TestIntegrateObservationSeedsOnce(t *testing.T) {
	g, err := NewGrid(1)
	test.That(t, err, test.ShouldBeNil)

	// Two salient points in the same voxel seed it once, keeping the higher
	// score.
	obs := Observation{
		Origin:          r3.Vector{X: 0.5, Y: 0.5, Z: 0.5},
		Points:          []r3.Vector{{X: 3.2, Y: 0.5, Z: 0.5}, {X: 3.8, Y: 0.5, Z: 0.5}},
		Interestingness: []float64{0.4, 0.9},
	}
	seeds, err := g.IntegrateObservation(obs, 2.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, seeds, test.ShouldResemble, []Coords{{I: 3, J: 0, K: 0}})
	test.That(t, g.At(Coords{I: 3, J: 0, K: 0}).Interestingness, test.ShouldEqual, 0.9)
}

func TestIntegrateObservationSurfaceNotCarved(t *testing.T) {
	g, err := NewGrid(1)
	test.That(t, err, test.ShouldBeNil)

	origin := r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}
	_, err = g.IntegrateObservation(Observation{
		Origin: origin,
		Points: []r3.Vector{{X: 2.5, Y: 0.5, Z: 0.5}},
	}, 2.0)
	test.That(t, err, test.ShouldBeNil)

	// A later, longer ray through the known surface must not carve it free.
	_, err = g.IntegrateObservation(Observation{
		Origin: origin,
		Points: []r3.Vector{{X: 4.5, Y: 0.5, Z: 0.5}},
	}, 2.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.Classify(Coords{I: 2, J: 0, K: 0}), test.ShouldEqual, StatusOccupied)
}

func TestIntegrateObservationErrors(t *testing.T) {
	g, err := NewGrid(1)
	test.That(t, err, test.ShouldBeNil)

	_, err = g.IntegrateObservation(Observation{}, 0.5)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "truncation")

	_, err = g.IntegrateObservation(Observation{
		Points:          []r3.Vector{{X: 1, Y: 0, Z: 0}},
		Interestingness: []float64{1, 2},
	}, 2.0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "scores")
}
