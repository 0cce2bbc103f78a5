package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/plus3/orrery/ecs"
	"github.com/plus3/orrery/ecs/debugui"
	"github.com/plus3/orrery/internal/config"
	"github.com/plus3/orrery/internal/host"
	"github.com/plus3/orrery/internal/telemetry"
	"github.com/plus3/orrery/orbit"
	"github.com/rs/zerolog"
)

type world struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	scene     orbit.Scene
}

// build assembles the scene from cfg and registers every simulation system.
// A zero seed is replaced with a random one, which is logged and written
// back into cfg so the run can be reproduced.
func build(cfg *config.Config, logger zerolog.Logger) (*world, error) {
	if cfg.Scene.Seed == 0 {
		cfg.Scene.Seed = rand.Uint64()
	}
	logger.Info().Uint64("seed", cfg.Scene.Seed).Int("planets", cfg.Scene.PlanetCount).Msg("building scene")

	registry := ecs.NewComponentRegistry()
	orbit.RegisterComponents(registry)
	debugui.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	rng := rand.New(rand.NewPCG(cfg.Scene.Seed, cfg.Scene.Seed))
	scene := orbit.Setup(storage, cfg.Scene, rng, logger)

	scheduler := ecs.NewScheduler(storage, ecs.WithLogger(logger))
	orbit.Register(scheduler)

	metrics, err := telemetry.New()
	if err != nil {
		scheduler.Close()
		return nil, fmt.Errorf("creating telemetry: %w", err)
	}
	scheduler.Register(metrics)

	return &world{storage: storage, scheduler: scheduler, scene: scene}, nil
}

func (w *world) enableDebugUI() {
	w.scheduler.Register(&debugui.ImguiSystem{})
	debugui.SpawnDebugUI(w.storage, w.scheduler)
	w.storage.Spawn(host.TrailPanel(w.storage))
}
