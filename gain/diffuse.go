package gain

import (
	"container/list"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/exploration/voxelgrid"
)

// DiffuserConfig controls interestingness propagation.
type DiffuserConfig struct {
	// DecayLambda in (0,1] multiplies interestingness per hop.
	DecayLambda float64 `json:"decay_lambda"`
	// DecayDistance is the hop cutoff; a non-positive value disables
	// diffusion entirely.
	DecayDistance float64 `json:"decay_distance"`
}

// Validate rejects decay parameters the propagation invariants cannot hold
// under.
func (c DiffuserConfig) Validate() error {
	var err error
	if c.DecayLambda <= 0 || c.DecayLambda > 1 {
		err = multierr.Append(err, errors.Errorf("decay lambda must be in (0,1], got %f", c.DecayLambda))
	}
	return err
}

// Diffuser spreads interestingness from seeded voxels into neighboring
// unknown voxels, breadth first, decaying per hop and stopping at the
// configured Manhattan-distance cutoff.
type Diffuser struct {
	grid Map
	cfg  DiffuserConfig
}

// NewDiffuser builds a diffuser over the given grid.
func NewDiffuser(grid Map, cfg DiffuserConfig) (*Diffuser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid diffuser config")
	}
	return &Diffuser{grid: grid, cfg: cfg}, nil
}

// Enabled reports whether the cutoff permits any propagation.
func (d *Diffuser) Enabled() bool {
	return d.cfg.DecayDistance > 0
}

// Spread runs one frontier-limited propagation pass from the seed voxels.
// A neighbor that exists and classifies unknown takes the parent's hop count
// plus one and the parent's interestingness decayed by lambda whenever that
// shortens its recorded distance and stays inside the cutoff. Enqueueing is
// gated only by a pass-scoped in-queue record, not by whether the update
// improved anything: a dequeued voxel's values can still be tightened later
// by a shorter path, though it will not re-expand. That relaxation of strict
// shortest-path ordering is deliberate and kept. An empty seed list is a
// no-op.
func (d *Diffuser) Spread(seeds []voxelgrid.Coords) {
	if !d.Enabled() || len(seeds) == 0 {
		return
	}

	frontier := list.New()
	inQueue := make(map[voxelgrid.Coords]struct{}, len(seeds))
	for _, c := range seeds {
		frontier.PushBack(c)
		inQueue[c] = struct{}{}
	}

	voxelSize := d.grid.VoxelSize()
	for frontier.Len() > 0 {
		e := frontier.Front()
		frontier.Remove(e)
		parentCoords := e.Value.(voxelgrid.Coords)
		parent := d.grid.At(parentCoords)
		if parent == nil {
			continue
		}

		for _, nc := range d.grid.Neighbors(parentCoords) {
			neighbor := d.grid.At(nc)
			if neighbor == nil {
				// Unallocated space cannot hold a score; the frontier skips it.
				continue
			}
			if voxelgrid.Classify(neighbor, voxelSize) != voxelgrid.StatusUnknown {
				continue
			}
			hopDistance := parent.InterestingDistance + 1
			if float64(hopDistance) < d.cfg.DecayDistance && neighbor.InterestingDistance > hopDistance {
				neighbor.InterestingDistance = hopDistance
				neighbor.Interestingness = d.cfg.DecayLambda * parent.Interestingness
			}
			if _, queued := inQueue[nc]; !queued && float64(neighbor.InterestingDistance) < d.cfg.DecayDistance {
				frontier.PushBack(nc)
				inQueue[nc] = struct{}{}
			}
		}
	}
}
