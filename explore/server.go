// Package explore orchestrates volumetric gain queries: observation
// ingestion, interestingness diffusion, viewpoint scoring, and the post-query
// reset that keeps repeated queries independent.
package explore

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/exploration/gain"
	"go.viam.com/exploration/trajectory"
	"go.viam.com/exploration/voxelgrid"
)

// Config assembles every externally settable parameter of the gain service.
type Config struct {
	VoxelSize  float64              `json:"voxel_size_m"`
	Truncation float64              `json:"truncation_m"`
	Evaluator  gain.EvaluatorConfig `json:"evaluator"`
	Diffuser   gain.DiffuserConfig  `json:"diffuser"`
	Trajectory trajectory.Config    `json:"trajectory"`
	// ClearAfterQuery drops the whole map at the end of each query cycle,
	// making every cycle start from a blank grid.
	ClearAfterQuery bool `json:"clear_after_query"`
}

// Validate surfaces every configuration fault at once.
func (c Config) Validate() error {
	var err error
	if c.VoxelSize <= 0 {
		err = multierr.Append(err, errors.Errorf("voxel size must be positive, got %f", c.VoxelSize))
	}
	if c.Truncation <= c.VoxelSize {
		err = multierr.Append(err, errors.Errorf("truncation %f must exceed voxel size %f", c.Truncation, c.VoxelSize))
	}
	err = multierr.Combine(err, c.Evaluator.Validate(), c.Diffuser.Validate(), c.Trajectory.Validate())
	return err
}

// Server runs gain queries against a single voxel grid. It is synchronous
// and not re-entrant: callers must serialize queries against one Server.
type Server struct {
	cfg       Config
	grid      *voxelgrid.Grid
	evaluator *gain.Evaluator
	diffuser  *gain.Diffuser
	library   *trajectory.Library
	seeds     []voxelgrid.Coords
	logger    golog.Logger
}

// NewServer validates the configuration, allocates the grid, and builds the
// trajectory library; the library is complete before any query can run.
func NewServer(cfg Config, logger golog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server config")
	}
	grid, err := voxelgrid.NewGrid(cfg.VoxelSize)
	if err != nil {
		return nil, err
	}
	evaluator, err := gain.NewEvaluator(grid, cfg.Evaluator)
	if err != nil {
		return nil, err
	}
	diffuser, err := gain.NewDiffuser(grid, cfg.Diffuser)
	if err != nil {
		return nil, err
	}
	library, err := trajectory.Build(cfg.Trajectory)
	if err != nil {
		return nil, err
	}
	height, width := evaluator.Frustum().Size()
	logger.Infow("gain server ready",
		"rays", evaluator.Frustum().NumRays(),
		"ray_grid", []int{height, width},
		"library_entries", library.Len(),
	)
	return &Server{
		cfg:       cfg,
		grid:      grid,
		evaluator: evaluator,
		diffuser:  diffuser,
		library:   library,
		logger:    logger,
	}, nil
}

// Grid exposes the underlying voxel map.
func (s *Server) Grid() *voxelgrid.Grid {
	return s.grid
}

// Library exposes the precomputed trajectory library.
func (s *Server) Library() *trajectory.Library {
	return s.library
}

// Observe integrates one observation into the grid and queues any seeded
// interesting voxels for diffusion.
func (s *Server) Observe(obs voxelgrid.Observation) error {
	seeds, err := s.grid.IntegrateObservation(obs, s.cfg.Truncation)
	if err != nil {
		return errors.Wrap(err, "integrating observation")
	}
	s.seeds = append(s.seeds, seeds...)
	s.logger.Debugw("observation integrated",
		"points", len(obs.Points), "seeds", len(seeds), "voxels", s.grid.Len())
	return nil
}

// Diffuse spreads queued interestingness seeds into surrounding unknown
// space, consuming the seed queue. A no-op when diffusion is disabled or no
// seeds are queued.
func (s *Server) Diffuse() {
	if !s.diffuser.Enabled() {
		return
	}
	s.diffuser.Spread(s.seeds)
	s.seeds = s.seeds[:0]
}

// EvaluateGain scores one candidate pose.
func (s *Server) EvaluateGain(state gain.State) gain.Result {
	return s.evaluator.Evaluate(state)
}

// EvaluateGainBatch scores many candidate poses, each against a fresh
// observation record.
func (s *Server) EvaluateGainBatch(states []gain.State) []gain.Result {
	return s.evaluator.EvaluateBatch(states)
}

// EvaluateLibrary rotates and translates every library primitive into the
// given robot pose and scores it: per entry, the gains of the scored
// timesteps are summed, with the observation record reset between timesteps
// so each viewpoint counts its own voxels.
func (s *Server) EvaluateLibrary(robot gain.State) []gain.Result {
	rotated := s.library.RotatedTo(robot.Position, robot.Yaw)
	scored := s.cfg.Trajectory.ScoredTimesteps()
	results := make([]gain.Result, len(rotated))
	for i, entry := range rotated {
		var total gain.Result
		for _, t := range scored {
			step := entry.Steps[t]
			res := s.evaluator.Evaluate(gain.State{Position: step.Position, Yaw: step.Yaw})
			total.Gain += res.Gain
			total.NumUnknown += res.NumUnknown
			total.NumFree += res.NumFree
			total.NumOccupied += res.NumOccupied
		}
		results[i] = total
	}
	return results
}

// InfoGain runs one full query cycle for caller-supplied poses: observe,
// diffuse, evaluate, reset. Repeating the same cycle against the same
// observation yields the same results.
func (s *Server) InfoGain(obs voxelgrid.Observation, poses []gain.State) ([]gain.Result, error) {
	if err := s.Observe(obs); err != nil {
		return nil, err
	}
	s.Diffuse()
	results := s.EvaluateGainBatch(poses)
	s.Reset()
	return results, nil
}

// BaselineInfoGain runs one full query cycle against the trajectory library
// from the given robot pose.
func (s *Server) BaselineInfoGain(obs voxelgrid.Observation, robot gain.State) ([]gain.Result, error) {
	if err := s.Observe(obs); err != nil {
		return nil, err
	}
	s.Diffuse()
	results := s.EvaluateLibrary(robot)
	s.Reset()
	return results, nil
}

// BestSequence returns the index of the highest-gain result, or -1 for an
// empty slice.
func BestSequence(results []gain.Result) int {
	if len(results) == 0 {
		return -1
	}
	gains := make([]float64, len(results))
	for i, r := range results {
		gains[i] = r.Gain
	}
	return floats.MaxIdx(gains)
}

// Reset returns the service to its pre-query state: the seed queue empties
// and, when configured, the map clears entirely.
func (s *Server) Reset() {
	s.seeds = nil
	if s.cfg.ClearAfterQuery {
		s.grid.Clear()
	}
}
