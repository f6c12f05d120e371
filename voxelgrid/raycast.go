package voxelgrid

import (
	"math"

	"github.com/golang/geo/r3"
)

// Raycast enumerates the grid coordinates traversed by the segment from
// origin to endpoint, ordered near to far and including both end voxels. A
// degenerate segment (endpoint at the origin) yields the single containing
// voxel. The traversal is the Amanatides-Woo walk: at each step the ray
// crosses whichever axis boundary it reaches first.
func (g *Grid) Raycast(origin, endpoint r3.Vector) []Coords {
	cur := g.CoordsOf(origin)
	end := g.CoordsOf(endpoint)

	steps := int(abs64(end.I-cur.I) + abs64(end.J-cur.J) + abs64(end.K-cur.K))
	out := make([]Coords, 0, steps+1)
	out = append(out, cur)
	if steps == 0 {
		return out
	}

	dir := endpoint.Sub(origin)
	stepI, tMaxX, tDeltaX := axisSetup(origin.X, dir.X, float64(cur.I), g.voxelSize)
	stepJ, tMaxY, tDeltaY := axisSetup(origin.Y, dir.Y, float64(cur.J), g.voxelSize)
	stepK, tMaxZ, tDeltaZ := axisSetup(origin.Z, dir.Z, float64(cur.K), g.voxelSize)

	for i := 0; i < steps; i++ {
		switch {
		case tMaxX <= tMaxY && tMaxX <= tMaxZ:
			cur.I += stepI
			tMaxX += tDeltaX
		case tMaxY <= tMaxZ:
			cur.J += stepJ
			tMaxY += tDeltaY
		default:
			cur.K += stepK
			tMaxZ += tDeltaZ
		}
		out = append(out, cur)
		if cur.IsEqual(end) {
			break
		}
	}
	return out
}

// axisSetup computes the step direction, the ray parameter at the first
// boundary crossing, and the parameter increment per voxel for one axis.
func axisSetup(origin, dir, voxelIdx, voxelSize float64) (int64, float64, float64) {
	if dir > 0 {
		next := (voxelIdx + 1) * voxelSize
		return 1, (next - origin) / dir, voxelSize / dir
	}
	if dir < 0 {
		prev := voxelIdx * voxelSize
		return -1, (prev - origin) / dir, -voxelSize / dir
	}
	return 0, math.Inf(1), math.Inf(1)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
