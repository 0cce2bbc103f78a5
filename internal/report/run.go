package report

import (
	"context"
	"runtime"
	"time"

	"github.com/plus3/orrery/ecs"
	"github.com/plus3/orrery/orbit"
)

// maxSamples bounds the marker series so the plot stays readable for long
// runs.
const maxSamples = 240

// maxReserved caps the update time slots reserved up front; longer runs grow
// the slice as they go.
const maxReserved = 1 << 16

// Run ticks scheduler with a fixed dt until duration of simulated time has
// passed or ctx is done, whichever comes first, and reports what happened.
// The scene must already be set up on the scheduler's storage.
func Run(ctx context.Context, scheduler *ecs.Scheduler, duration time.Duration, dt float64) *Report {
	storage := scheduler.Storage()
	markers := ecs.NewQuery[struct{ *orbit.Marker }](storage)

	r := &Report{
		Duration:  duration,
		DeltaTime: dt,
		Planets:   ecs.NewQuery[struct{ *orbit.Planet }](storage).Len(),
	}

	ticks := int64(duration.Seconds()/dt + 0.5)
	every := max(ticks/maxSamples, 1)
	r.UpdateTime.Samples = make([]time.Duration, 0, min(ticks, maxReserved))

	runtime.ReadMemStats(&r.MemStatsStart)
	start := time.Now()

	for r.TotalUpdates < ticks {
		if ctx.Err() != nil {
			break
		}

		updateStart := time.Now()
		scheduler.Once(dt)
		r.UpdateTime.Samples = append(r.UpdateTime.Samples, time.Since(updateStart))
		r.TotalUpdates++

		if r.TotalUpdates%every == 0 || r.TotalUpdates == ticks {
			markers.Execute()
			r.Markers = append(r.Markers, float64(markers.Len()))
		}
	}

	r.TotalTime = time.Since(start)
	r.SimulatedTime = scheduler.Clock()
	r.UpdateTime.Finalize()
	runtime.ReadMemStats(&r.MemStatsEnd)

	var stats *orbit.TrailStats
	if storage.ReadSingleton(&stats) {
		r.Spawned = stats.Spawned
		r.Expired = stats.Expired
	}

	collected := storage.CollectStats()
	r.LiveRecords = collected.TotalEntityCount
	r.Archetypes = collected.ArchetypeCount
	r.Systems = scheduler.GetStats().Systems

	return r
}
