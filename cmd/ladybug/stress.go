package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/plus3/ladybug/components"
	"github.com/plus3/ladybug/ecs"
	"github.com/spf13/cobra"
)

type stressOptions struct {
	duration       time.Duration
	entities       int
	seed           uint64
	gcPauseMetrics bool
}

func newStressCmd(a *app) *cobra.Command {
	var opts stressOptions
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Churn entities through a headless system and report frame timings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.log.Info().Int("entities", opts.entities).Dur("duration", opts.duration).Msg("starting stress test")
			report := runStress(cmd.Context(), opts)
			a.log.Info().Int64("frames", report.TotalFrames).Msg("stress test finished")
			return report.Generate(cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&opts.duration, "duration", 10*time.Second, "The total duration the test should run for.")
	cmd.Flags().IntVar(&opts.entities, "entities", 10000, "The number of live entities to maintain.")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Seed for the entity generator.")
	cmd.Flags().BoolVar(&opts.gcPauseMetrics, "gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	return cmd
}

// spawner keeps the system at target live entities. Entities expire through
// their Lifetime, so every frame destroys and spawns a share of the population.
type spawner struct {
	ecs.BaseComponent
	target  int
	rng     *rand.Rand
	spawned int64
}

func (s *spawner) PostUpdate(dt float64) {
	e := s.Entity()
	if e == nil {
		return
	}
	system := e.System()
	for system.EntityCount() <= s.target {
		spawnRandomEntity(system, s.rng)
		s.spawned++
	}
}

func spawnRandomEntity(system *ecs.EntitySystem, rng *rand.Rand) *ecs.Entity {
	e := system.CreateEntity(fmt.Sprintf("e%d", rng.IntN(1000)))
	t := ecs.AddComponent[components.Transform](e)
	t.X, t.Y = rng.Float64()*1000, rng.Float64()*1000

	if rng.IntN(4) > 0 {
		v := ecs.AddComponent[components.Velocity](e)
		v.DX, v.DY = rng.NormFloat64()*10, rng.NormFloat64()*10
	}
	if rng.IntN(2) == 0 {
		g := ecs.AddComponent[components.Glyph](e)
		g.Char = "*"
		g.Priority = rng.IntN(8)
	}
	l := ecs.AddComponent[components.Lifetime](e)
	l.Remaining = 0.05 + rng.Float64()
	l.Destroy = true
	return e
}

func runStress(ctx context.Context, opts stressOptions) *Report {
	if ctx == nil {
		ctx = context.Background()
	}
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))

	system := ecs.NewEntitySystem(newRegistry())
	for range opts.entities {
		spawnRandomEntity(system, rng)
	}
	// Registered last so it refills after the Lifetime bucket has expired entities.
	sp := &spawner{target: opts.entities, rng: rng}
	system.CreateEntity("spawner").AddComponent(sp)

	report := &Report{
		Duration:       opts.duration,
		Entities:       opts.entities,
		Seed:           opts.seed,
		GCPauseMetrics: opts.gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(ctx, opts.duration)
	defer cancel()

	runner := ecs.NewRunner(system, nil)
	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			frameStart := time.Now()
			runner.Once(deltaTime.Seconds())
			report.FrameTime.Samples = append(report.FrameTime.Samples, time.Since(frameStart))
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalFrames = runner.Frames()
	report.Spawned = sp.spawned
	report.FrameTime.Finalize()
	report.Phases = system.PhaseStats().Phases
	report.Final = system.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)
	return report
}
