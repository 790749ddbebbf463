package main

import (
	"fmt"
	"math/rand"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/guptarohit/asciigraph"
	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tadashuai/bvh2d"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Drive a randomized create/move/destroy workload and report tree quality over time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(configPath)
			if err != nil {
				return err
			}
			return runWorkload(cfg)
		},
	}
}

// liveProxy is one simulated object the workload keeps alive.
type liveProxy struct {
	id  int32
	tag string
}

func runWorkload(cfg RunConfig) error {
	log := newLogger()
	defer log.Sync() //nolint:errcheck

	bp := bvh.NewBroadPhase(cfg.Tree)
	rng := rand.New(rand.NewSource(cfg.Seed))

	var live []liveProxy
	var samples []float64

	log.Info("starting workload", zap.Int("iterations", cfg.Iterations))

	for step := 0; step < cfg.Iterations; step++ {
		switch {
		case len(live) == 0 || rng.Float64() < 0.5:
			box := randomBox(rng)
			tag := uuid.New().String()
			id := bp.CreateProxy(box, tag)
			live = append(live, liveProxy{id: id, tag: tag})

		case rng.Float64() < 0.8:
			p := live[rng.Intn(len(live))]
			box := randomBox(rng)
			disp := bvh.Vec2{X: rng.NormFloat64(), Y: rng.NormFloat64()}
			bp.MoveProxy(p.id, box, disp)

		default:
			i := rng.Intn(len(live))
			bp.DestroyProxy(live[i].id)
			live = append(live[:i], live[i+1:]...)
		}

		bp.UpdatePairs(func(a, b interface{}) {})

		if cfg.SampleEvery > 0 && step%cfg.SampleEvery == 0 {
			samples = append(samples, bp.GetTreeQuality())
		}
	}

	if cfg.RebalanceIterations > 0 {
		bp.Rebalance(cfg.RebalanceIterations)
		samples = append(samples, bp.GetTreeQuality())
	}

	mean, err := stats.Mean(samples)
	if err != nil {
		return errors.Wrap(err, "computing mean area ratio")
	}
	stddev, err := stats.StandardDeviation(samples)
	if err != nil {
		return errors.Wrap(err, "computing area ratio standard deviation")
	}

	log.Info("workload complete",
		zap.Int("liveProxies", len(live)),
		zap.Int32("treeHeight", bp.GetTreeHeight()),
		zap.Int32("treeBalance", bp.GetTreeBalance()),
		zap.Float64("finalAreaRatio", bp.GetTreeQuality()),
		zap.Float64("meanAreaRatio", mean),
		zap.Float64("stddevAreaRatio", stddev),
	)

	if len(samples) > 1 {
		plot := asciigraph.Plot(samples, asciigraph.Height(12), asciigraph.Caption("area ratio over time"))
		fmt.Println(plot)
	}

	return nil
}

func randomBox(rng *rand.Rand) bvh.AABB {
	x := rng.Float64() * 100
	y := rng.Float64() * 100
	w := 0.5 + rng.Float64()*2
	h := 0.5 + rng.Float64()*2
	return bvh.AABB{
		LowerBound: bvh.Vec2{X: x, Y: y},
		UpperBound: bvh.Vec2{X: x + w, Y: y + h},
	}
}
