package orbit_test

import (
	"math/rand/v2"

	"github.com/plus3/orrery/ecs"
	"github.com/plus3/orrery/internal/config"
	"github.com/plus3/orrery/orbit"
	"github.com/rs/zerolog"
)

type recordingWriter struct {
	spawned   [][]any
	added     map[ecs.EntityId][]any
	deleted   []ecs.EntityId
	recursive []ecs.EntityId
}

var _ ecs.RecordWriter = (*recordingWriter)(nil)

func (w *recordingWriter) Spawn(components ...any) {
	w.spawned = append(w.spawned, components)
}

func (w *recordingWriter) AddComponent(entity ecs.EntityId, component any) {
	if w.added == nil {
		w.added = make(map[ecs.EntityId][]any)
	}
	w.added[entity] = append(w.added[entity], component)
}

func (w *recordingWriter) Delete(entity ecs.EntityId) {
	w.deleted = append(w.deleted, entity)
}

func (w *recordingWriter) DeleteRecursive(entity ecs.EntityId) {
	w.recursive = append(w.recursive, entity)
}

func newStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	orbit.RegisterComponents(registry)
	return ecs.NewStorage(registry)
}

func sceneConfig(planets int) config.Scene {
	return config.Scene{
		Seed:           1,
		PlanetCount:    planets,
		OrbitSpacing:   2,
		CameraEye:      [3]float32{15, 15, 15},
		TrailPeriod:    0.1,
		MarkerLifespan: 5,
	}
}

func newScene(planets int) (*ecs.Storage, *ecs.Scheduler, orbit.Scene) {
	storage := newStorage()
	scene := orbit.Setup(storage, sceneConfig(planets), rand.New(rand.NewPCG(1, 2)), zerolog.Nop())
	scheduler := ecs.NewScheduler(storage)
	orbit.Register(scheduler)
	return storage, scheduler, scene
}

type markerView struct {
	ecs.EntityId
	*orbit.Marker
	*orbit.Translation
	*orbit.Color
	*orbit.Lifespan
	*orbit.Scale
}

func markers(storage *ecs.Storage) []markerView {
	var out []markerView
	for m := range ecs.NewQuery[markerView](storage).Iter() {
		out = append(out, m)
	}
	return out
}
