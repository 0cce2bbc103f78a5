package telemetry

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/plus3/orrery/ecs"
	"github.com/plus3/orrery/internal/config"
	"github.com/plus3/orrery/orbit"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type recordingCounter struct {
	noop.Int64Counter
	total *int64
}

func (c recordingCounter) Add(_ context.Context, incr int64, _ ...metric.AddOption) {
	*c.total += incr
}

type recordingMeter struct {
	noop.Meter
	totals map[string]*int64
}

func (m recordingMeter) Int64Counter(name string, _ ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	total := new(int64)
	m.totals[name] = total
	return recordingCounter{total: total}, nil
}

func TestSystemReportsTrailCounters(t *testing.T) {
	meter := recordingMeter{totals: map[string]*int64{}}
	sys, err := NewWithMeter(meter)
	require.NoError(t, err)

	registry := ecs.NewComponentRegistry()
	orbit.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	cfg := config.Scene{PlanetCount: 2, OrbitSpacing: 2, TrailPeriod: 0.1, MarkerLifespan: 0.15}
	orbit.Setup(storage, cfg, rand.New(rand.NewPCG(1, 1)), zerolog.Nop())

	scheduler := ecs.NewScheduler(storage)
	defer scheduler.Close()
	orbit.Register(scheduler)
	scheduler.Register(sys)

	// Trail pairs land at 0.1, 0.2, 0.3 and 0.4; each pair expires two
	// ticks after it lands.
	for range 4 {
		scheduler.Once(0.1)
	}
	// The system reads counters before the tick's task and flush, so one
	// empty tick brings it up to date.
	scheduler.Once(0)

	stats := ecs.NewSingleton[orbit.TrailStats](storage).Get()
	require.NotNil(t, stats)
	assert.Equal(t, int64(8), stats.Spawned)
	assert.Equal(t, int64(4), stats.Expired)
	assert.Equal(t, int64(8), *meter.totals["orrery.markers.spawned"])
	assert.Equal(t, int64(4), *meter.totals["orrery.markers.expired"])

	// camera, sun, two planets and the two newest pairs of markers
	assert.Equal(t, int64(8), sys.Live())
	assert.Equal(t, storage.CollectStats().TotalEntityCount, int(sys.Live()))
}

func TestNewUsesGlobalMeter(t *testing.T) {
	sys, err := New()
	require.NoError(t, err)
	assert.Zero(t, sys.Live())
}
