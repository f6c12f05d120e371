package gain

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// FrustumConfig describes a depth sensor's field of view for ray sampling.
// Angles are radians. MinRange is kept for symmetry with sensor datasheets
// but does not bound the cast rays.
type FrustumConfig struct {
	MinRange      float64 `json:"min_range_m"`
	MaxRange      float64 `json:"max_range_m"`
	HorizontalFOV float64 `json:"horizontal_fov_rad"`
	VerticalFOV   float64 `json:"vertical_fov_rad"`
	HorizontalRes float64 `json:"horizontal_res_rad"`
	VerticalRes   float64 `json:"vertical_res_rad"`
}

// Validate returns every configuration fault at once; any fault is fatal at
// construction time.
func (c FrustumConfig) Validate() error {
	var err error
	if c.MaxRange <= 0 {
		err = multierr.Append(err, errors.Errorf("max range must be positive, got %f", c.MaxRange))
	}
	if c.HorizontalFOV <= 0 || c.VerticalFOV <= 0 {
		err = multierr.Append(err, errors.Errorf("fov must be positive, got %f x %f", c.HorizontalFOV, c.VerticalFOV))
	}
	if c.HorizontalRes <= 0 || c.VerticalRes <= 0 {
		err = multierr.Append(err, errors.Errorf("resolution must be positive, got %f x %f", c.HorizontalRes, c.VerticalRes))
	}
	return err
}

// Frustum holds the precomputed sensor-frame ray endpoints of a pyramidal
// sampling pattern. Immutable once built; one Frustum serves every query.
type Frustum struct {
	cfg       FrustumConfig
	endpoints []r3.Vector
	height    int
	width     int
}

// NewFrustum precomputes ray endpoints for the configured field of view. For
// each vertical angle dv in [-vfov/2, vfov/2) and horizontal angle dh in
// [-hfov/2, hfov/2), both stepped by the configured resolution, the endpoint
// sits at (maxRange, maxRange*tan(dh), maxRange*tan(dv)) in the sensor frame:
// a plane at constant forward distance, not a sphere. Row and column counts
// fall out of the half-open stepping loops rather than a precomputed grid
// size, since floating-point stepping does not always divide the span
// exactly.
func NewFrustum(cfg FrustumConfig) (*Frustum, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid frustum config")
	}

	f := &Frustum{cfg: cfg}
	h2 := cfg.HorizontalFOV / 2
	v2 := cfg.VerticalFOV / 2
	for dv := -v2; dv < v2; dv += cfg.VerticalRes {
		f.height++
		cols := 0
		for dh := -h2; dh < h2; dh += cfg.HorizontalRes {
			f.endpoints = append(f.endpoints, r3.Vector{
				X: cfg.MaxRange,
				Y: cfg.MaxRange * math.Tan(dh),
				Z: cfg.MaxRange * math.Tan(dv),
			})
			cols++
		}
		if f.width == 0 {
			f.width = cols
		}
	}
	return f, nil
}

// Size returns the ray grid dimensions as (height, width).
func (f *Frustum) Size() (int, int) {
	return f.height, f.width
}

// NumRays returns the total number of sample rays.
func (f *Frustum) NumRays() int {
	return len(f.endpoints)
}

// Endpoints transforms the stored sensor-frame endpoints into the world frame
// at the given state, appending into out and returning it. Pure with respect
// to the frustum; safe to call from multiple goroutines with distinct output
// slices.
func (f *Frustum) Endpoints(state State, out []r3.Vector) []r3.Vector {
	for _, ep := range f.endpoints {
		out = append(out, state.TransformPoint(ep))
	}
	return out
}
