package orbit

import (
	"context"
	"iter"

	"github.com/plus3/orrery/ecs"
)

type trailSource struct {
	*Planet
	*Translation
	*Color
}

// TrailSpawner returns a task that drops a marker at every planet's position
// once per settings.TrailPeriod simulated seconds until the scheduler is
// closed.
func TrailSpawner(settings Settings) ecs.Task {
	return func(ctx context.Context, h *ecs.TaskHandle) error {
		storage := h.Frame().Storage
		planets := ecs.NewQuery[trailSource](storage)
		stats := ecs.NewSingleton[TrailStats](storage)

		for {
			if err := h.Sleep(settings.TrailPeriod); err != nil {
				return err
			}

			planets.Execute()
			n := EmitTrail(bodiesOf(planets), settings, h.Frame().Commands)
			stats.Get().Spawned += int64(n)
		}
	}
}

func bodiesOf(q *ecs.Query[trailSource]) iter.Seq[Body] {
	return func(yield func(Body) bool) {
		for planet := range q.Iter() {
			if !yield(Body{Position: planet.Translation.Vec3, Color: *planet.Color}) {
				return
			}
		}
	}
}
