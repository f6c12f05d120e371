package voxelgrid

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Observation is one depth observation: a sensor origin and the world-frame
// surface points it measured. Interestingness, when non-empty, carries one
// salience score per point; scores above zero seed the diffusion frontier.
type Observation struct {
	Origin          r3.Vector
	Points          []r3.Vector
	Interestingness []float64
}

// IntegrateObservation carves the observation into the grid: voxels crossed
// on the way to each measured point receive a free-space distance update, and
// the voxel containing the point itself is marked as surface. Salient points
// seed their voxel's interestingness at propagation distance zero. The
// returned coordinates are the seeded voxels, in first-seen order, ready to
// feed the diffusion frontier.
//
// This is a deliberately light integrator: distances snap to zero at the
// surface and to the truncation bound in free space, with unit weight
// increments. It stands in for a full TSDF pipeline when exercising gain
// queries against synthetic or replayed scans.
func (g *Grid) IntegrateObservation(obs Observation, truncation float64) ([]Coords, error) {
	if truncation <= g.voxelSize {
		return nil, errors.Errorf("truncation distance must exceed voxel size %f, got %f", g.voxelSize, truncation)
	}
	if len(obs.Interestingness) != 0 && len(obs.Interestingness) != len(obs.Points) {
		return nil, errors.Errorf("got %d interestingness scores for %d points", len(obs.Interestingness), len(obs.Points))
	}

	var seeds []Coords
	for i, pt := range obs.Points {
		ray := g.Raycast(obs.Origin, pt)
		for _, c := range ray[:len(ray)-1] {
			v := g.Upsert(c)
			if Classify(v, g.voxelSize) == StatusOccupied {
				// A known surface is not carved away by a passing ray.
				continue
			}
			v.Distance = truncation
			v.Weight++
		}

		surface := g.Upsert(ray[len(ray)-1])
		surface.Distance = 0
		surface.Weight++

		// Allocate the truncation band behind the surface without observing
		// it. Those voxels classify unknown and give interestingness
		// diffusion somewhere to spread.
		dir := pt.Sub(obs.Origin)
		if norm := dir.Norm(); norm > 0 {
			behind := pt.Add(dir.Mul(truncation / norm))
			for _, c := range g.Raycast(pt, behind)[1:] {
				g.Upsert(c)
			}
		}
		if len(obs.Interestingness) == 0 || obs.Interestingness[i] <= 0 {
			continue
		}
		if obs.Interestingness[i] > surface.Interestingness {
			surface.Interestingness = obs.Interestingness[i]
		}
		if surface.InterestingDistance != 0 {
			surface.InterestingDistance = 0
			seeds = append(seeds, ray[len(ray)-1])
		}
	}
	return seeds, nil
}
