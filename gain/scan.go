package gain

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/exploration/voxelgrid"
)

// observedSet records the voxels already counted during one pose evaluation.
// It is the query-owned replacement for an observed flag on the shared map:
// dropping the set is the reset, so stale flags cannot leak into the next
// pose or the next query.
type observedSet map[voxelgrid.Coords]struct{}

// Result is the outcome of scoring one candidate viewpoint.
type Result struct {
	// Gain is the interestingness-weighted, distance-decayed sum over newly
	// observed unknown and occupied voxels.
	Gain float64
	// Counts of voxels newly observed along the frustum's rays, by class.
	NumUnknown  int
	NumFree     int
	NumOccupied int
}

// scanStatus walks every ray from origin to its endpoint, classifying the
// traversed voxels near to far. Each voxel is counted at most once per seen
// set, however many rays cross it. Unknown and occupied voxels contribute
// their interestingness decayed by exp(-areaFactor * d²), where d is the
// Euclidean distance from the sensor origin to the voxel center, so decay is
// isotropic around the origin rather than measured along the ray. A ray stops
// at the first occupied voxel: nothing behind a surface is visible.
func scanStatus(grid Map, origin r3.Vector, endpoints []r3.Vector, areaFactor float64, seen observedSet) Result {
	var res Result
	voxelSize := grid.VoxelSize()

	for _, ep := range endpoints {
		for _, c := range grid.Raycast(origin, ep) {
			voxel := grid.At(c)
			status := voxelgrid.Classify(voxel, voxelSize)
			_, counted := seen[c]
			switch status {
			case voxelgrid.StatusUnknown:
				if !counted {
					seen[c] = struct{}{}
					res.NumUnknown++
					if voxel != nil {
						res.Gain += decayedInterest(voxel, grid.CenterPoint(c), origin, areaFactor)
					}
				}
			case voxelgrid.StatusFree:
				if !counted {
					seen[c] = struct{}{}
					res.NumFree++
				}
			case voxelgrid.StatusOccupied:
				if !counted {
					seen[c] = struct{}{}
					res.NumOccupied++
					res.Gain += decayedInterest(voxel, grid.CenterPoint(c), origin, areaFactor)
				}
			}
			if status == voxelgrid.StatusOccupied {
				break
			}
		}
	}
	return res
}

func decayedInterest(v *voxelgrid.TsdfVoxel, center, origin r3.Vector, areaFactor float64) float64 {
	d := center.Sub(origin)
	return v.Interestingness * math.Exp(-areaFactor*d.Norm2())
}
