package explore

import (
	"math"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/exploration/gain"
	"go.viam.com/exploration/trajectory"
	"go.viam.com/exploration/voxelgrid"
)

func testConfig() Config {
	return Config{
		VoxelSize:  0.2,
		Truncation: 0.8,
		Evaluator: gain.EvaluatorConfig{
			Frustum: gain.FrustumConfig{
				MinRange:      0.1,
				MaxRange:      5.0,
				HorizontalFOV: 87.0 * math.Pi / 180.0,
				VerticalFOV:   58.0 * math.Pi / 180.0,
				HorizontalRes: 5.0 * math.Pi / 180.0,
				VerticalRes:   5.0 * math.Pi / 180.0,
			},
			AreaFactor:   1e5,
			FocalLengthX: 239.35,
			FocalLengthY: 239.05,
		},
		Diffuser: gain.DiffuserConfig{
			DecayLambda:   0.5,
			DecayDistance: 3,
		},
		Trajectory: trajectory.Config{
			NumVelX:        1,
			NumVelZ:        2,
			NumYaw:         4,
			NumTimesteps:   15,
			SkipStep:       5,
			ForwardVel:     0.75,
			AlphaVel:       0.92,
			AlphaYaw:       0.9293,
			VerticalSpan:   58.0 * math.Pi / 180.0,
			HorizontalSpan: 87.0 * math.Pi / 180.0,
			EvalStride:     4,
		},
		ClearAfterQuery: true,
	}
}

// wallObservation measures a small interesting wall ahead of the origin.
func wallObservation() voxelgrid.Observation {
	obs := voxelgrid.Observation{Origin: r3.Vector{Z: 0.5}}
	for y := -1.0; y <= 1.0; y += 0.1 {
		for z := 0.0; z <= 1.0; z += 0.1 {
			obs.Points = append(obs.Points, r3.Vector{X: 3, Y: y, Z: z})
			obs.Interestingness = append(obs.Interestingness, 1.0)
		}
	}
	return obs
}

func TestNewServerValidation(t *testing.T) {
	logger := golog.NewTestLogger(t)

	cfg := testConfig()
	cfg.VoxelSize = 0
	_, err := NewServer(cfg, logger)
	test.That(t, err, test.ShouldNotBeNil)

	cfg = testConfig()
	cfg.Trajectory.NumYaw = 0
	_, err = NewServer(cfg, logger)
	test.That(t, err, test.ShouldNotBeNil)

	cfg = testConfig()
	cfg.Truncation = cfg.VoxelSize
	_, err = NewServer(cfg, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestInfoGainCycle(t *testing.T) {
	server, err := NewServer(testConfig(), golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	// Looking straight at the wall from the origin.
	poses := []gain.State{
		{Position: r3.Vector{Z: 0.5}},
		{Position: r3.Vector{Z: 0.5}, Yaw: math.Pi}, // facing away
	}

	first, err := server.InfoGain(wallObservation(), poses)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(first), test.ShouldEqual, 2)
	test.That(t, first[0].Gain, test.ShouldBeGreaterThan, 0)
	test.That(t, first[0].NumOccupied, test.ShouldBeGreaterThan, 0)
	test.That(t, first[0].Gain, test.ShouldBeGreaterThan, first[1].Gain)

	// The cycle resets fully, so running it again gives identical answers.
	second, err := server.InfoGain(wallObservation(), poses)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, second, test.ShouldResemble, first)
	test.That(t, server.Grid().Len(), test.ShouldEqual, 0)
}

func TestDiffuseSpreadsBehindWall(t *testing.T) {
	cfg := testConfig()
	cfg.ClearAfterQuery = false
	server, err := NewServer(cfg, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, server.Observe(wallObservation()), test.ShouldBeNil)
	server.Diffuse()

	// The allocated voxel directly behind the wall's center is unknown and
	// one hop from a seed.
	grid := server.Grid()
	behind := grid.At(grid.CoordsOf(r3.Vector{X: 3.3, Y: 0.05, Z: 0.55}))
	test.That(t, behind, test.ShouldNotBeNil)
	test.That(t, voxelgrid.Classify(behind, grid.VoxelSize()), test.ShouldEqual, voxelgrid.StatusUnknown)
	test.That(t, behind.Interestingness, test.ShouldBeGreaterThan, 0)
}

func TestBaselineInfoGain(t *testing.T) {
	server, err := NewServer(testConfig(), golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	results, err := server.BaselineInfoGain(wallObservation(), gain.State{Position: r3.Vector{Z: 0.5}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(results), test.ShouldEqual, server.Library().Len())

	best := BestSequence(results)
	test.That(t, best, test.ShouldBeGreaterThanOrEqualTo, 0)
	test.That(t, best, test.ShouldBeLessThan, len(results))
	for _, r := range results {
		test.That(t, r.Gain, test.ShouldBeLessThanOrEqualTo, results[best].Gain)
	}
}

func TestBestSequenceEmpty(t *testing.T) {
	test.That(t, BestSequence(nil), test.ShouldEqual, -1)
}
