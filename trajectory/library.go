// Package trajectory precomputes a library of short-horizon motion
// primitives over a (forward velocity, vertical angle, yaw) action grid, for
// batch viewpoint evaluation.
package trajectory

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Config describes the action grid and the smoothing dynamics used to roll
// the primitives forward.
type Config struct {
	NumVelX      int `json:"num_vel_x"`
	NumVelZ      int `json:"num_vel_z"`
	NumYaw       int `json:"num_yaw"`
	NumTimesteps int `json:"num_timesteps"`
	// SkipStep scales the simulated horizon: each timestep integrates
	// subSteps Euler steps of SkipStep/(subSteps*NumTimesteps) seconds.
	SkipStep   int     `json:"skip_step"`
	ForwardVel float64 `json:"forward_vel"`
	// First-order smoothing constants for linear/vertical velocity and yaw.
	AlphaVel float64 `json:"alpha_vel"`
	AlphaYaw float64 `json:"alpha_yaw"`
	// Angular spans the vertical-angle and yaw-target grids spread across,
	// normally the sensor's vertical and horizontal FOV.
	VerticalSpan   float64 `json:"vertical_span_rad"`
	HorizontalSpan float64 `json:"horizontal_span_rad"`
	// EvalStride selects which timesteps baseline evaluation scores; see
	// ScoredTimesteps.
	EvalStride int `json:"eval_stride"`
}

// subSteps is the number of Euler integration sub-steps per recorded
// timestep.
const subSteps = 10

// Validate rejects grids the builder cannot enumerate. Any fault is fatal at
// build time.
func (c Config) Validate() error {
	var err error
	if c.NumVelX < 1 {
		err = multierr.Append(err, errors.Errorf("num_vel_x must be at least 1, got %d", c.NumVelX))
	}
	if c.NumVelZ < 2 || c.NumYaw < 2 {
		err = multierr.Append(err, errors.Errorf("num_vel_z and num_yaw must be at least 2, got %d and %d", c.NumVelZ, c.NumYaw))
	}
	if c.NumTimesteps < 1 || c.SkipStep < 1 {
		err = multierr.Append(err, errors.Errorf("num_timesteps and skip_step must be at least 1, got %d and %d", c.NumTimesteps, c.SkipStep))
	}
	if c.ForwardVel <= 0 {
		err = multierr.Append(err, errors.Errorf("forward velocity must be positive, got %f", c.ForwardVel))
	}
	if c.AlphaVel < 0 || c.AlphaVel >= 1 || c.AlphaYaw < 0 || c.AlphaYaw >= 1 {
		err = multierr.Append(err, errors.Errorf("smoothing constants must be in [0,1), got %f and %f", c.AlphaVel, c.AlphaYaw))
	}
	if c.VerticalSpan <= 0 || c.HorizontalSpan <= 0 {
		err = multierr.Append(err, errors.Errorf("angular spans must be positive, got %f x %f", c.VerticalSpan, c.HorizontalSpan))
	}
	if c.EvalStride < 1 || c.EvalStride > c.NumTimesteps {
		err = multierr.Append(err, errors.Errorf("eval_stride must be in [1,%d], got %d", c.NumTimesteps, c.EvalStride))
	}
	return err
}

// Step is one recorded timestep of a primitive: a position and heading in
// the library's origin-centered, yaw-zero reference frame.
type Step struct {
	Position r3.Vector
	Yaw      float64
}

// Entry is one motion primitive: the smoothed pose sequence produced by
// holding one action over the horizon.
type Entry struct {
	Steps []Step
}

// Library is the full primitive table, NumVelX*NumVelZ*NumYaw entries, built
// once at startup and reused read-only.
type Library struct {
	cfg     Config
	entries []Entry
}

// Build enumerates every (forward velocity, vertical angle, yaw) action and
// simulates it through first-order exponential smoothing filters: at each of
// the subSteps Euler sub-steps per timestep, velocity and heading relax
// toward the commanded action, and position integrates the smoothed velocity
// rotated by the smoothed heading. Deterministic: identical configs yield
// bit-identical libraries.
func Build(cfg Config) (*Library, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid trajectory config")
	}

	dt := float64(cfg.SkipStep) / float64(subSteps*cfg.NumTimesteps)
	entries := make([]Entry, 0, cfg.NumVelX*cfg.NumVelZ*cfg.NumYaw)
	for idxX := 0; idxX < cfg.NumVelX; idxX++ {
		for idxZ := 0; idxZ < cfg.NumVelZ; idxZ++ {
			verticalAngle := -cfg.VerticalSpan/2 + float64(idxZ)*cfg.VerticalSpan/float64(cfg.NumVelZ-1)
			for idxYaw := 0; idxYaw < cfg.NumYaw; idxYaw++ {
				yawTarget := -cfg.HorizontalSpan/2 + float64(idxYaw)*cfg.HorizontalSpan/float64(cfg.NumYaw-1)
				entries = append(entries, simulate(cfg, verticalAngle, yawTarget, dt))
			}
		}
	}
	return &Library{cfg: cfg, entries: entries}, nil
}

func simulate(cfg Config, verticalAngle, yawTarget, dt float64) Entry {
	forwardCmd := cfg.ForwardVel
	verticalCmd := forwardCmd * math.Tan(verticalAngle)

	forwardVel := cfg.ForwardVel
	verticalVel := 0.0
	yaw := 0.0
	var pos r3.Vector

	steps := make([]Step, 0, cfg.NumTimesteps)
	for t := 0; t < cfg.NumTimesteps; t++ {
		for k := 0; k < subSteps; k++ {
			forwardVel = cfg.AlphaVel*forwardVel + (1-cfg.AlphaVel)*forwardCmd
			verticalVel = cfg.AlphaVel*verticalVel + (1-cfg.AlphaVel)*verticalCmd
			yaw = cfg.AlphaYaw*yaw + (1-cfg.AlphaYaw)*yawTarget
			pos = pos.Add(r3.Vector{
				X: forwardVel * math.Cos(yaw),
				Y: forwardVel * math.Sin(yaw),
				Z: verticalVel,
			}.Mul(dt))
		}
		steps = append(steps, Step{Position: pos, Yaw: yaw})
	}
	return Entry{Steps: steps}
}

// Config returns the configuration the library was built from.
func (l *Library) Config() Config {
	return l.cfg
}

// Len returns the number of primitives.
func (l *Library) Len() int {
	return len(l.entries)
}

// Entries returns the primitive table in its reference frame.
func (l *Library) Entries() []Entry {
	return l.entries
}

// RotatedTo returns a fresh copy of the library yawed and translated into
// the frame of the given robot pose: positions rotate about Z by the robot's
// yaw and shift to its position, headings add the robot's yaw. The library
// itself is never mutated, so concurrent callers each get their own working
// copy.
func (l *Library) RotatedTo(position r3.Vector, robotYaw float64) []Entry {
	sin, cos := math.Sincos(robotYaw)
	rotated := make([]Entry, len(l.entries))
	for i, entry := range l.entries {
		steps := make([]Step, len(entry.Steps))
		for j, s := range entry.Steps {
			steps[j] = Step{
				Position: r3.Vector{
					X: cos*s.Position.X - sin*s.Position.Y + position.X,
					Y: sin*s.Position.X + cos*s.Position.Y + position.Y,
					Z: s.Position.Z + position.Z,
				},
				Yaw: robotYaw + s.Yaw,
			}
		}
		rotated[i] = Entry{Steps: steps}
	}
	return rotated
}

// ScoredTimesteps returns the timestep indices baseline evaluation scores:
// those t with t % EvalStride == EvalStride/2. The default stride of 4 over
// a 15-step horizon scores timesteps 2, 6, 10 and 14.
func (c Config) ScoredTimesteps() []int {
	var ts []int
	for t := 0; t < c.NumTimesteps; t++ {
		if t%c.EvalStride == c.EvalStride/2 {
			ts = append(ts, t)
		}
	}
	return ts
}
