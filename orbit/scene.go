package orbit

import (
	"math"
	"math/rand/v2"

	"github.com/plus3/orrery/ecs"
	"github.com/plus3/orrery/internal/config"
	"github.com/rs/zerolog"
)

const (
	Tau          = 2 * math.Pi
	SunRadius    = 1.0
	PlanetRadius = 0.4
	CameraFovY   = 60 * math.Pi / 180
)

// Scene holds the ids of the records Setup spawned.
type Scene struct {
	Camera  ecs.EntityId
	Sun     ecs.EntityId
	Planets []ecs.EntityId
}

// SettingsFrom extracts the trail parameters from a scene configuration.
func SettingsFrom(cfg config.Scene) Settings {
	settings := DefaultSettings()
	if cfg.TrailPeriod > 0 {
		settings.TrailPeriod = cfg.TrailPeriod
	}
	if cfg.MarkerLifespan > 0 {
		settings.MarkerLifespan = cfg.MarkerLifespan
	}
	return settings
}

// RandomColor returns an opaque pastel color: each channel is uniform in
// [0.5, 1).
func RandomColor(rng *rand.Rand) Color {
	return Color{
		R: rng.Float32()*0.5 + 0.5,
		G: rng.Float32()*0.5 + 0.5,
		B: rng.Float32()*0.5 + 0.5,
		A: 1,
	}
}

// Setup spawns the camera, the sun and the planets described by cfg directly
// into storage, and installs the Settings and TrailStats singletons. Planet
// colors are drawn from rng.
func Setup(storage *ecs.Storage, cfg config.Scene, rng *rand.Rand, logger zerolog.Logger) Scene {
	storage.AddSingleton(SettingsFrom(cfg))
	ecs.NewSingleton[TrailStats](storage)

	eye := Vec3{cfg.CameraEye[0], cfg.CameraEye[1], cfg.CameraEye[2]}
	scene := Scene{
		Camera: storage.Spawn(Camera{
			Eye:    eye,
			Target: Vec3{},
			Up:     Vec3{Z: 1},
			FovY:   CameraFovY,
		}),
		Sun: storage.Spawn(
			Sun{},
			Translation{},
			WorldTranslation{},
			Sphere{Radius: SunRadius},
			Color{R: 1, G: 1, B: 1, A: 1},
			Scale(1),
		),
	}

	spacing := cfg.OrbitSpacing
	if spacing <= 0 {
		spacing = config.DefaultOrbitSpacing
	}

	for i := 1; i <= cfg.PlanetCount; i++ {
		radius := float32(i) * spacing
		speed := float32(Tau) / radius
		color := RandomColor(rng)

		planet := storage.Spawn(
			Planet{},
			Orbit{Radius: radius, Speed: speed},
			Translation{PositionFor(radius, 0)},
			WorldTranslation{PositionFor(radius, 0)},
			Sphere{Radius: PlanetRadius},
			color,
			Scale(1),
		)
		planet = storage.SetParent(planet, scene.Sun)
		scene.Planets = append(scene.Planets, planet)

		logger.Debug().
			Int("planet", i).
			Float32("radius", radius).
			Float32("speed", speed).
			Msg("spawned planet")
	}

	logger.Info().Int("planets", len(scene.Planets)).Msg("scene assembled")
	return scene
}

// Register adds the scene's systems to scheduler in update order and starts
// the trail task. Setup must have run on the scheduler's storage first.
func Register(scheduler *ecs.Scheduler) {
	scheduler.Register(&OrbitProgressSystem{})
	scheduler.Register(&OrbitPositionSystem{})
	scheduler.Register(&TransformSystem{})
	scheduler.Register(&LifespanSystem{})

	settings := DefaultSettings()
	var stored *Settings
	if scheduler.Storage().ReadSingleton(&stored) {
		settings = *stored
	}
	scheduler.Go("trail", TrailSpawner(settings))
}
