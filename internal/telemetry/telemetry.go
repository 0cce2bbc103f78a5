// Package telemetry publishes scene counters as OpenTelemetry metrics.
package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/plus3/orrery/ecs"
	"github.com/plus3/orrery/orbit"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/plus3/orrery"

// System copies the scene's trail counters and live record count into
// OpenTelemetry instruments once per tick. The instruments come from the
// meter it was built with; the global meter is a no-op until an SDK is
// installed.
type System struct {
	Stats ecs.Singleton[orbit.TrailStats]

	spawned metric.Int64Counter
	expired metric.Int64Counter
	live    metric.Int64ObservableGauge

	reported orbit.TrailStats
	records  atomic.Int64
}

// New creates the instruments on the global meter provider.
func New() (*System, error) {
	return NewWithMeter(otel.Meter(instrumentationName))
}

// NewWithMeter creates the instruments on m.
func NewWithMeter(m metric.Meter) (*System, error) {
	s := &System{}

	var err error
	s.spawned, err = m.Int64Counter(
		"orrery.markers.spawned",
		metric.WithDescription("Trail markers spawned"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating spawned counter: %w", err)
	}

	s.expired, err = m.Int64Counter(
		"orrery.markers.expired",
		metric.WithDescription("Trail markers destroyed after their lifespan ran out"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating expired counter: %w", err)
	}

	s.live, err = m.Int64ObservableGauge(
		"orrery.records.live",
		metric.WithDescription("Records currently in storage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating live records gauge: %w", err)
	}

	// The callback runs on the exporter's goroutine, so it only reads the
	// value published by Execute.
	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(s.live, s.records.Load())
			return nil
		},
		s.live,
	)
	if err != nil {
		return nil, fmt.Errorf("registering live records callback: %w", err)
	}

	return s, nil
}

func (s *System) Execute(frame *ecs.UpdateFrame) {
	ctx := context.Background()

	if stats := s.Stats.Get(); stats != nil {
		if d := stats.Spawned - s.reported.Spawned; d > 0 {
			s.spawned.Add(ctx, d)
		}
		if d := stats.Expired - s.reported.Expired; d > 0 {
			s.expired.Add(ctx, d)
		}
		s.reported = *stats
	}

	var live int64
	for archetype := range frame.Storage.Archetypes() {
		live += int64(archetype.Len())
	}
	s.records.Store(live)
}

// Live returns the record count published by the last Execute.
func (s *System) Live() int64 {
	return s.records.Load()
}
