package gain

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// EvaluatorConfig holds the gain-scoring parameters.
type EvaluatorConfig struct {
	Frustum FrustumConfig `json:"frustum"`
	// AreaFactor scales the squared-distance decay of interestingness. The
	// raw value is divided by the focal length product at construction so
	// scan accumulation needs a single multiply.
	AreaFactor   float64 `json:"area_factor"`
	FocalLengthX float64 `json:"focal_length_x"`
	FocalLengthY float64 `json:"focal_length_y"`
}

// Validate checks the scoring parameters alongside the frustum's own.
func (c EvaluatorConfig) Validate() error {
	err := c.Frustum.Validate()
	if c.AreaFactor < 0 {
		err = multierr.Append(err, errors.Errorf("area factor must be non-negative, got %f", c.AreaFactor))
	}
	if c.FocalLengthX <= 0 || c.FocalLengthY <= 0 {
		err = multierr.Append(err, errors.Errorf("focal lengths must be positive, got %f x %f", c.FocalLengthX, c.FocalLengthY))
	}
	return err
}

// Evaluator scores candidate 6-DOF viewpoints against a voxel grid using the
// precomputed ray frustum. It reuses an internal endpoint buffer, so a single
// Evaluator must not be shared across concurrent queries.
type Evaluator struct {
	grid       Map
	frustum    *Frustum
	areaFactor float64
	endpoints  []r3.Vector
}

// NewEvaluator builds an evaluator over the given grid. Configuration faults
// are fatal here, never mid-query.
func NewEvaluator(grid Map, cfg EvaluatorConfig) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid evaluator config")
	}
	frustum, err := NewFrustum(cfg.Frustum)
	if err != nil {
		return nil, err
	}
	return &Evaluator{
		grid:       grid,
		frustum:    frustum,
		areaFactor: cfg.AreaFactor / (cfg.FocalLengthX * cfg.FocalLengthY),
	}, nil
}

// Frustum exposes the evaluator's ray model.
func (e *Evaluator) Frustum() *Frustum {
	return e.frustum
}

// Evaluate scores a single candidate state. The observation record lives and
// dies inside this call, so back-to-back evaluations of the same state on an
// unmodified grid return identical results.
func (e *Evaluator) Evaluate(state State) Result {
	return e.evaluate(state, make(observedSet))
}

// EvaluateBatch scores each candidate state independently: every pose starts
// from a fresh observation record, so a voxel visible from two poses counts
// for both.
func (e *Evaluator) EvaluateBatch(states []State) []Result {
	results := make([]Result, 0, len(states))
	for _, state := range states {
		results = append(results, e.evaluate(state, make(observedSet)))
	}
	return results
}

func (e *Evaluator) evaluate(state State, seen observedSet) Result {
	e.endpoints = e.frustum.Endpoints(state, e.endpoints[:0])
	return scanStatus(e.grid, state.Position, e.endpoints, e.areaFactor, seen)
}
