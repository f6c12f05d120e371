// Command gaineval builds a gain server from a JSON config, integrates a
// synthetic wall observation, and reports baseline library gains. Useful for
// eyeballing parameter changes without a robot in the loop.
package main

import (
	"encoding/json"
	"flag"
	"math"
	"os"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"go.viam.com/exploration/explore"
	"go.viam.com/exploration/gain"
	"go.viam.com/exploration/trajectory"
	"go.viam.com/exploration/voxelgrid"
)

func main() {
	logger := golog.NewDevelopmentLogger("gaineval")

	configPath := flag.String("config", "", "path to JSON server config; defaults are used if empty")
	wallDist := flag.Float64("wall", 3.0, "distance of the synthetic wall in meters")
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		raw, err := os.ReadFile(*configPath)
		if err != nil {
			logger.Fatalw("reading config", "error", err)
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			logger.Fatalw("parsing config", "error", err)
		}
	}

	server, err := explore.NewServer(cfg, logger)
	if err != nil {
		logger.Fatalw("building server", "error", err)
	}

	results, err := server.BaselineInfoGain(wallObservation(*wallDist), gain.State{})
	if err != nil {
		logger.Fatalw("evaluating library", "error", err)
	}

	best := explore.BestSequence(results)
	logger.Infow("baseline evaluated", "entries", len(results), "best", best, "best_gain", results[best].Gain)
	for i, r := range results {
		logger.Debugw("entry scored", "entry", i, "gain", r.Gain,
			"unknown", r.NumUnknown, "free", r.NumFree, "occupied", r.NumOccupied)
	}
}

// wallObservation measures a flat interesting wall ahead of the origin.
func wallObservation(dist float64) voxelgrid.Observation {
	obs := voxelgrid.Observation{Origin: r3.Vector{}}
	for y := -2.0; y <= 2.0; y += 0.2 {
		for z := -1.0; z <= 1.0; z += 0.2 {
			obs.Points = append(obs.Points, r3.Vector{X: dist, Y: y, Z: z})
			obs.Interestingness = append(obs.Interestingness, 1.0)
		}
	}
	return obs
}

func defaultConfig() explore.Config {
	return explore.Config{
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
			FocalLengthX: 239.35153198242188,
			FocalLengthY: 239.05279541015625,
		},
		Diffuser: gain.DiffuserConfig{
			DecayLambda:   0.9,
			DecayDistance: 5.0,
		},
		Trajectory: trajectory.Config{
			NumVelX:        1,
			NumVelZ:        8,
			NumYaw:         32,
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
