package voxelgrid

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Grid is a sparse voxel grid keyed by integer coordinates. Voxels are
// allocated lazily; an address with no voxel reads as absent (unknown).
type Grid struct {
	voxels    map[Coords]*TsdfVoxel
	voxelSize float64
}

// NewGrid returns an empty grid with the given voxel edge length.
func NewGrid(voxelSize float64) (*Grid, error) {
	if voxelSize <= 0 {
		return nil, errors.Errorf("voxel size must be positive, got %f", voxelSize)
	}
	return &Grid{
		voxels:    make(map[Coords]*TsdfVoxel),
		voxelSize: voxelSize,
	}, nil
}

// VoxelSize returns the edge length of one voxel.
func (g *Grid) VoxelSize() float64 {
	return g.voxelSize
}

// Len returns the number of allocated voxels.
func (g *Grid) Len() int {
	return len(g.voxels)
}

// At returns the voxel at the given coordinates, or nil if none has been
// allocated there.
func (g *Grid) At(c Coords) *TsdfVoxel {
	return g.voxels[c]
}

// Upsert returns the voxel at the given coordinates, allocating a fresh one
// if absent.
func (g *Grid) Upsert(c Coords) *TsdfVoxel {
	if v, ok := g.voxels[c]; ok {
		return v
	}
	v := NewTsdfVoxel()
	g.voxels[c] = v
	return v
}

// CoordsOf returns the grid coordinates containing a world-frame point.
func (g *Grid) CoordsOf(p r3.Vector) Coords {
	return Coords{
		I: int64(math.Floor(p.X / g.voxelSize)),
		J: int64(math.Floor(p.Y / g.voxelSize)),
		K: int64(math.Floor(p.Z / g.voxelSize)),
	}
}

// CenterPoint returns the world-frame center of the voxel at the given
// coordinates.
func (g *Grid) CenterPoint(c Coords) r3.Vector {
	return r3.Vector{
		X: (float64(c.I) + 0.5) * g.voxelSize,
		Y: (float64(c.J) + 0.5) * g.voxelSize,
		Z: (float64(c.K) + 0.5) * g.voxelSize,
	}
}

// Neighbors returns the 6-connected neighbor coordinates of c. Face adjacency
// keeps hop counts equal to Manhattan distance, which the interestingness
// diffusion relies on.
func (g *Grid) Neighbors(c Coords) [6]Coords {
	return [6]Coords{
		{c.I - 1, c.J, c.K},
		{c.I + 1, c.J, c.K},
		{c.I, c.J - 1, c.K},
		{c.I, c.J + 1, c.K},
		{c.I, c.J, c.K - 1},
		{c.I, c.J, c.K + 1},
	}
}

// Classify classifies the voxel at the given coordinates, treating absent
// voxels as unknown.
func (g *Grid) Classify(c Coords) Status {
	return Classify(g.voxels[c], g.voxelSize)
}

// Clear drops every allocated voxel, returning the grid to its empty state.
func (g *Grid) Clear() {
	g.voxels = make(map[Coords]*TsdfVoxel)
}
