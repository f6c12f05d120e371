package gain

import (
	"github.com/golang/geo/r3"

	"go.viam.com/exploration/voxelgrid"
)

// Map is the narrow voxel-map surface the gain engine consumes. A
// *voxelgrid.Grid satisfies it; so does any store that can address voxels by
// integer coordinates and enumerate the cells between two points.
type Map interface {
	// VoxelSize returns the edge length of one voxel.
	VoxelSize() float64
	// At returns the voxel at the given coordinates, nil if absent. Absence
	// is data (unknown space), never an error.
	At(c voxelgrid.Coords) *voxelgrid.TsdfVoxel
	// CenterPoint returns the world-frame center of a voxel.
	CenterPoint(c voxelgrid.Coords) r3.Vector
	// Raycast enumerates the voxels between two points, ordered near to far,
	// finite, tolerating a degenerate (zero-length) segment.
	Raycast(origin, endpoint r3.Vector) []voxelgrid.Coords
	// Neighbors returns the 6-connected neighborhood of a voxel.
	Neighbors(c voxelgrid.Coords) [6]voxelgrid.Coords
}
